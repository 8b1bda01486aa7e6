package domain

import "errors"

var (
	ErrRecordNotFound    = errors.New("record not found")
	ErrSessionNotFound   = errors.New("session not found")
	ErrDocumentNotFound  = errors.New("document not found")
	ErrNoModalForm       = errors.New("no form is open in the modal")
	ErrInvalidTransition = errors.New("action not available in the current form state")
	ErrUnknownField      = errors.New("unknown form field")
	ErrInvalidDocument   = errors.New("invalid document")
	ErrMalformedRequest  = errors.New("malformed request")
)

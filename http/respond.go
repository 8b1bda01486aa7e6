package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"loan-desk/domain"
)

// stateResponse is the JSON view of a session after an action.
type stateResponse struct {
	Table domain.TableState `json:"table"`
	Apply *domain.FormState `json:"apply,omitempty"`
	Valid *bool             `json:"valid,omitempty"`
}

func newStateResponse(s *domain.Session) stateResponse {
	return stateResponse{Table: s.Table, Apply: s.Apply}
}

type errorResponse struct {
	Error string `json:"error"`
}

// wantsJSON reports whether the client asked for JSON instead of a page.
func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json") ||
		strings.Contains(r.Header.Get("Content-Type"), "application/json")
}

// writeJSON encodes into a buffer first so a failed encode does not leave a
// half-written body behind a 200.
func writeJSON(w http.ResponseWriter, log *logrus.Logger, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		log.WithError(err).Error("failed to encode response")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.WithError(err).Warn("failed to write response")
	}
}

// respond answers a state-changing request: JSON clients get the new state,
// browsers are redirected to the page that shows it.
func respond(w http.ResponseWriter, r *http.Request, log *logrus.Logger, location string, v any) {
	if wantsJSON(r) {
		writeJSON(w, log, http.StatusOK, v)
		return
	}
	http.Redirect(w, r, location, http.StatusSeeOther)
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrRecordNotFound),
		errors.Is(err, domain.ErrDocumentNotFound),
		errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNoModalForm),
		errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnknownField),
		errors.Is(err, domain.ErrInvalidDocument),
		errors.Is(err, domain.ErrMalformedRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, log *logrus.Logger, err error) {
	status := errorStatus(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		log.WithError(err).WithField("path", r.URL.Path).Error("request failed")
		msg = "internal server error"
	}

	if wantsJSON(r) {
		writeJSON(w, log, status, errorResponse{Error: msg})
		return
	}
	http.Error(w, msg, status)
}

package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"loan-desk/domain"
	"loan-desk/metrics"
	"loan-desk/repository"
)

// FormService applies user actions to a FormState. Each method is one
// synchronous transition; the caller persists the state afterwards.
type FormService struct {
	records   repository.RecordRepository
	documents *DocumentService
	log       *logrus.Logger
}

func NewFormService(
	records repository.RecordRepository,
	documents *DocumentService,
	log *logrus.Logger,
) *FormService {
	return &FormService{records: records, documents: documents, log: log}
}

// Change stores a new value for field. Before the first submit no errors are
// shown; afterwards only the changed field is re-validated. It returns the
// error now shown for the field.
func (s *FormService) Change(f *domain.FormState, field, value string) (string, error) {
	if !domain.IsField(field) {
		return "", fmt.Errorf("%w: %s", domain.ErrUnknownField, field)
	}
	f.Values[field] = value
	if !f.Submitted {
		return "", nil
	}

	if msg := ValidateField(field, value); msg != "" {
		f.Errors[field] = msg
		f.Phase = domain.PhaseSubmittedInvalid
		return msg, nil
	}
	delete(f.Errors, field)
	return "", nil
}

// Submit validates every field. A valid form is handed to the record
// repository as a new pending application; saving is best effort.
func (s *FormService) Submit(ctx context.Context, f *domain.FormState) (bool, error) {
	if f.Modal {
		return false, fmt.Errorf("%w: submit is replaced by accept/reject in the modal", domain.ErrInvalidTransition)
	}

	f.Submitted = true
	if !s.validate(f) {
		metrics.RecordFormOutcome("submit", false)
		s.log.WithField("errors", f.Errors).Debug("application has invalid fields")
		return false, nil
	}
	metrics.RecordFormOutcome("submit", true)

	record, err := f.Record()
	if err != nil {
		return false, err
	}
	// Every submit files a new application awaiting review.
	record.ID = ""
	record.Status = domain.StatusPending
	s.log.WithFields(logrus.Fields{
		"name":   record.FullName(),
		"email":  record.Email,
		"amount": record.LoanAmount,
		"type":   record.LoanType,
	}).Debug("application submitted")

	saved, err := s.records.Save(ctx, record)
	if err != nil {
		s.log.WithError(err).Warn("failed to save submitted application")
		return true, nil
	}
	f.RecordID = saved.ID
	return true, nil
}

// Cancel resets a standalone form, or runs onClose for a modal form.
func (s *FormService) Cancel(ctx context.Context, f *domain.FormState, onClose func()) {
	if f.Modal {
		onClose()
		return
	}
	s.documents.Discard(ctx, f.Documents)
	*f = *domain.NewFormState(nil, false)
}

// RequestReject opens the reject confirmation.
func (s *FormService) RequestReject(f *domain.FormState) error {
	if err := s.requireWorkflow(f); err != nil {
		return err
	}
	f.RejectConfirmOpen = true
	return nil
}

// DismissReject closes the confirmation and keeps the form open.
func (s *FormService) DismissReject(f *domain.FormState) error {
	if !f.RejectConfirmOpen {
		return fmt.Errorf("%w: no reject confirmation is open", domain.ErrInvalidTransition)
	}
	f.RejectConfirmOpen = false
	return nil
}

// ConfirmReject closes the confirmation and runs onClose.
func (s *FormService) ConfirmReject(f *domain.FormState, onClose func()) error {
	if !f.RejectConfirmOpen {
		return fmt.Errorf("%w: reject was not requested", domain.ErrInvalidTransition)
	}
	f.RejectConfirmOpen = false
	s.log.WithField("record", f.RecordID).Info("application rejected")
	onClose()
	return nil
}

// Accept validates every field and opens the upload dialog when they pass.
func (s *FormService) Accept(f *domain.FormState) (bool, error) {
	if err := s.requireWorkflow(f); err != nil {
		return false, err
	}

	f.Submitted = true
	valid := s.validate(f)
	metrics.RecordFormOutcome("accept", valid)
	if !valid {
		return false, nil
	}
	f.UploadOpen = true
	return true, nil
}

// AddDocuments stages uploads and appends them to the dialog's list.
func (s *FormService) AddDocuments(
	ctx context.Context,
	sessionID string,
	f *domain.FormState,
	uploads []domain.Upload,
) ([]domain.Document, error) {
	if !f.UploadOpen {
		return nil, fmt.Errorf("%w: upload dialog is closed", domain.ErrInvalidTransition)
	}
	if len(uploads) == 0 {
		return nil, fmt.Errorf("%w: no files selected", domain.ErrInvalidDocument)
	}

	docs, err := s.documents.Stage(ctx, sessionID, uploads)
	if err != nil {
		return nil, err
	}
	f.Documents = append(f.Documents, docs...)
	return docs, nil
}

// RemoveDocument drops one staged document from the list.
func (s *FormService) RemoveDocument(ctx context.Context, f *domain.FormState, docID string) error {
	if !f.UploadOpen {
		return fmt.Errorf("%w: upload dialog is closed", domain.ErrInvalidTransition)
	}
	for i, d := range f.Documents {
		if d.ID == docID {
			f.Documents = append(f.Documents[:i], f.Documents[i+1:]...)
			s.documents.Discard(ctx, []domain.Document{d})
			return nil
		}
	}
	return fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, docID)
}

// SubmitDocuments logs the staged list and closes the dialog. The files stay
// in the document store.
func (s *FormService) SubmitDocuments(f *domain.FormState) ([]domain.Document, error) {
	if !f.UploadOpen {
		return nil, fmt.Errorf("%w: upload dialog is closed", domain.ErrInvalidTransition)
	}

	submitted := f.Documents
	names := make([]string, 0, len(submitted))
	for _, d := range submitted {
		names = append(names, d.Name)
	}
	s.log.WithFields(logrus.Fields{
		"record":    f.RecordID,
		"documents": names,
	}).Debug("documents submitted")

	f.Documents = []domain.Document{}
	f.UploadOpen = false
	return submitted, nil
}

// CloseUpload discards staged documents and closes the dialog.
func (s *FormService) CloseUpload(ctx context.Context, f *domain.FormState) error {
	if !f.UploadOpen {
		return fmt.Errorf("%w: upload dialog is closed", domain.ErrInvalidTransition)
	}
	s.documents.Discard(ctx, f.Documents)
	f.Documents = []domain.Document{}
	f.UploadOpen = false
	return nil
}

func (s *FormService) requireWorkflow(f *domain.FormState) error {
	if !f.Modal {
		return fmt.Errorf("%w: accept/reject is only available in the modal", domain.ErrInvalidTransition)
	}
	if f.UploadOpen {
		return fmt.Errorf("%w: upload dialog is open", domain.ErrInvalidTransition)
	}
	return nil
}

func (s *FormService) validate(f *domain.FormState) bool {
	f.Errors = ValidateAll(f.Values)
	if len(f.Errors) > 0 {
		f.Phase = domain.PhaseSubmittedInvalid
		return false
	}
	f.Phase = domain.PhaseSubmittedValid
	return true
}

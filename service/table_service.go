package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"loan-desk/domain"
	"loan-desk/repository"
)

// TableService drives the records table and the modal it opens.
type TableService struct {
	records   repository.RecordRepository
	documents *DocumentService
	log       *logrus.Logger
}

func NewTableService(
	records repository.RecordRepository,
	documents *DocumentService,
	log *logrus.Logger,
) *TableService {
	return &TableService{records: records, documents: documents, log: log}
}

func (s *TableService) List(ctx context.Context) ([]domain.Record, error) {
	return s.records.List(ctx)
}

// Select opens the modal with a form pre-filled from the record.
func (s *TableService) Select(ctx context.Context, t *domain.TableState, id string) (domain.Record, error) {
	record, err := s.records.Get(ctx, id)
	if err != nil {
		return domain.Record{}, err
	}

	if t.Form != nil {
		s.documents.Discard(ctx, t.Form.Documents)
	}
	t.SelectedID = record.ID
	t.Form = domain.NewFormState(&record, true)
	return record, nil
}

// Close clears the selection and unmounts the modal form. Closing an
// already closed modal is a no-op.
func (s *TableService) Close(ctx context.Context, t *domain.TableState, via string) error {
	switch via {
	case domain.DismissOverlay, domain.DismissButton, domain.DismissForm:
	default:
		return fmt.Errorf("%w: unknown dismissal %q", domain.ErrInvalidTransition, via)
	}

	if t.Form != nil {
		s.documents.Discard(ctx, t.Form.Documents)
		s.log.WithFields(logrus.Fields{
			"record": t.SelectedID,
			"via":    via,
		}).Debug("modal closed")
	}
	t.SelectedID = ""
	t.Form = nil
	return nil
}

// CloseFunc is the cancel callback handed to the modal form.
func (s *TableService) CloseFunc(ctx context.Context, t *domain.TableState) func() {
	return func() {
		_ = s.Close(ctx, t, domain.DismissForm)
	}
}

// Selected returns the record currently shown in the modal.
func (s *TableService) Selected(ctx context.Context, t *domain.TableState) (domain.Record, error) {
	if t.SelectedID == "" {
		return domain.Record{}, domain.ErrNoModalForm
	}
	return s.records.Get(ctx, t.SelectedID)
}

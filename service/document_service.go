package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"loan-desk/domain"
	"loan-desk/metrics"
	"loan-desk/repository"
)

// DocumentService stages supporting documents for the upload dialog.
type DocumentService struct {
	store      repository.DocumentStore
	maxBytes   int64
	extensions map[string]bool
	log        *logrus.Logger
	now        func() time.Time
}

// NewDocumentService builds the service. An empty extension list accepts
// any file type.
func NewDocumentService(
	store repository.DocumentStore,
	maxBytes int64,
	extensions []string,
	log *logrus.Logger,
) *DocumentService {
	allowed := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		allowed[ext] = true
	}
	return &DocumentService{
		store:      store,
		maxBytes:   maxBytes,
		extensions: allowed,
		log:        log,
		now:        time.Now,
	}
}

// Stage checks and stores every upload. Nothing is kept when one of them is
// rejected.
func (s *DocumentService) Stage(
	ctx context.Context,
	sessionID string,
	uploads []domain.Upload,
) ([]domain.Document, error) {
	for _, u := range uploads {
		if err := s.check(u); err != nil {
			metrics.RecordDocumentUpload("rejected", 1)
			return nil, err
		}
	}

	docs := make([]domain.Document, 0, len(uploads))
	for _, u := range uploads {
		id := uuid.NewString()
		location, err := s.store.Put(ctx, sessionID, id, u.Name, u.Data)
		if err != nil {
			s.Discard(ctx, docs)
			return nil, err
		}
		docs = append(docs, domain.Document{
			ID:          id,
			Name:        filepath.Base(u.Name),
			Size:        int64(len(u.Data)),
			ContentType: mimetype.Detect(u.Data).String(),
			Location:    location,
			UploadedAt:  s.now().UTC(),
		})
	}

	metrics.RecordDocumentUpload("staged", len(docs))
	return docs, nil
}

// Discard deletes staged documents. Failures are logged, not returned.
func (s *DocumentService) Discard(ctx context.Context, docs []domain.Document) {
	for _, d := range docs {
		if err := s.store.Delete(ctx, d.Location); err != nil {
			s.log.WithError(err).WithField("document", d.Name).Warn("failed to discard staged document")
		}
	}
}

func (s *DocumentService) check(u domain.Upload) error {
	name := strings.TrimSpace(u.Name)
	if name == "" {
		return fmt.Errorf("%w: file name is empty", domain.ErrInvalidDocument)
	}
	if len(u.Data) == 0 {
		return fmt.Errorf("%w: %s is empty", domain.ErrInvalidDocument, name)
	}
	if s.maxBytes > 0 && int64(len(u.Data)) > s.maxBytes {
		return fmt.Errorf("%w: %s exceeds %d bytes", domain.ErrInvalidDocument, name, s.maxBytes)
	}
	if len(s.extensions) > 0 && !s.extensions[strings.ToLower(filepath.Ext(name))] {
		return fmt.Errorf("%w: %s has an unsupported file type", domain.ErrInvalidDocument, name)
	}
	return nil
}

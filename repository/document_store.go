package repository

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
)

// DocumentStore stages uploaded supporting documents until they are
// submitted or discarded.
type DocumentStore interface {
	Put(ctx context.Context, sessionID, docID, name string, data []byte) (string, error)
	Delete(ctx context.Context, location string) error
}

// DocumentStoreAFS stores documents with viant/afs, so the base URL can be
// a local directory, mem:// or any storage afs has a connector for.
type DocumentStoreAFS struct {
	baseURL string
	fs      afs.Service
}

func NewDocumentStoreAFS(ctx context.Context, baseURL string) (*DocumentStoreAFS, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("document store base URL cannot be empty")
	}

	fs := afs.New()
	baseURL = url.Normalize(baseURL, file.Scheme)
	exists, _ := fs.Exists(ctx, baseURL)
	if !exists {
		if err := fs.Create(ctx, baseURL, file.DefaultDirOsMode, true); err != nil {
			return nil, fmt.Errorf("failed to create document store %s: %w", baseURL, err)
		}
	}

	return &DocumentStoreAFS{baseURL: baseURL, fs: fs}, nil
}

// Put writes data under <base>/<session>/<doc>/<name> and returns its URL.
func (s *DocumentStoreAFS) Put(ctx context.Context, sessionID, docID, name string, data []byte) (string, error) {
	location := url.Join(s.baseURL, sessionID, docID, path.Base(name))
	if err := s.fs.Upload(ctx, location, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("failed to stage document %s: %w", name, err)
	}
	return location, nil
}

func (s *DocumentStoreAFS) Delete(ctx context.Context, location string) error {
	exists, err := s.fs.Exists(ctx, location)
	if err != nil {
		return fmt.Errorf("failed to check document %s: %w", location, err)
	}
	if !exists {
		return nil
	}
	if err := s.fs.Delete(ctx, location); err != nil {
		return fmt.Errorf("failed to delete document %s: %w", location, err)
	}
	return nil
}

// Download returns the staged bytes at location.
func (s *DocumentStoreAFS) Download(ctx context.Context, location string) ([]byte, error) {
	return s.fs.DownloadWithURL(ctx, location)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"loan-desk/domain"
	"loan-desk/repository"
)

type fakeDocumentStore struct {
	mu        sync.Mutex
	files     map[string][]byte
	ForceFail bool
}

func newFakeDocumentStore() *fakeDocumentStore {
	return &fakeDocumentStore{files: map[string][]byte{}}
}

func (f *fakeDocumentStore) Put(_ context.Context, sessionID, docID, name string, data []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.ForceFail {
		return "", errors.New("put error")
	}
	location := fmt.Sprintf("mem://test/%s/%s/%s", sessionID, docID, name)
	f.files[location] = data
	return location, nil
}

func (f *fakeDocumentStore) Delete(_ context.Context, location string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.files, location)
	return nil
}

func (f *fakeDocumentStore) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.files)
}

type fixture struct {
	records   *repository.RecordRepositoryMemory
	store     *fakeDocumentStore
	documents *DocumentService
	forms     *FormService
	tables    *TableService
	log       *logrus.Logger
	hook      *test.Hook
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	samples, err := repository.SampleRecords()
	require.NoError(t, err)
	records, err := repository.NewRecordRepositoryMemory(samples...)
	require.NoError(t, err)

	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)

	store := newFakeDocumentStore()
	documents := NewDocumentService(store, 1024, []string{".pdf", "png"}, log)

	return &fixture{
		records:   records,
		store:     store,
		documents: documents,
		forms:     NewFormService(records, documents, log),
		tables:    NewTableService(records, documents, log),
		log:       log,
		hook:      hook,
	}
}

func (fx *fixture) hasMessage(msg string) bool {
	for _, e := range fx.hook.AllEntries() {
		if e.Message == msg {
			return true
		}
	}
	return false
}

func validForm(modal bool) *domain.FormState {
	f := domain.NewFormState(nil, modal)
	for k, v := range validValues() {
		f.Values[k] = v
	}
	return f
}

func pdf(name string) domain.Upload {
	return domain.Upload{Name: name, Data: []byte("%PDF-1.4\n%test document\n")}
}

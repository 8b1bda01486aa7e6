package repository

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"loan-desk/domain"
)

const recordIDPrefix = "LN-"

// RecordRepositoryMemory is an in-memory implementation of RecordRepository.
type RecordRepositoryMemory struct {
	mu       sync.RWMutex
	data     map[string]domain.Record
	lastID   int
	validate *validator.Validate
}

// NewRecordRepositoryMemory creates a repository holding the given records.
func NewRecordRepositoryMemory(records ...domain.Record) (*RecordRepositoryMemory, error) {
	r := &RecordRepositoryMemory{
		data:     make(map[string]domain.Record, len(records)),
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
	for _, rec := range records {
		if _, err := r.Save(context.Background(), rec); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *RecordRepositoryMemory) List(_ context.Context) ([]domain.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Record, 0, len(r.data))
	for _, rec := range r.data {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *RecordRepositoryMemory) Get(_ context.Context, id string) (domain.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.data[id]
	if !ok {
		return domain.Record{}, fmt.Errorf("%w: %s", domain.ErrRecordNotFound, id)
	}
	return rec, nil
}

// Save stores the record, assigning the next LN-NNN id when it has none.
func (r *RecordRepositoryMemory) Save(_ context.Context, record domain.Record) (domain.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if record.ID == "" {
		record.ID = fmt.Sprintf("%s%03d", recordIDPrefix, r.lastID+1)
	}
	if err := r.validate.Struct(record); err != nil {
		return domain.Record{}, fmt.Errorf("invalid record %s: %w", record.ID, err)
	}

	if n, err := strconv.Atoi(strings.TrimPrefix(record.ID, recordIDPrefix)); err == nil && n > r.lastID {
		r.lastID = n
	}
	r.data[record.ID] = record
	return record, nil
}

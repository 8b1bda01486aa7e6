package repository

import (
	"context"
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"loan-desk/domain"
)

type RecordRepository interface {
	List(ctx context.Context) ([]domain.Record, error)
	Get(ctx context.Context, id string) (domain.Record, error)
	Save(ctx context.Context, record domain.Record) (domain.Record, error)
}

//go:embed seed/records.yaml
var seedRecords []byte

// SampleRecords returns the records the table starts with.
func SampleRecords() ([]domain.Record, error) {
	return ParseRecords(seedRecords)
}

// ParseRecords decodes a YAML list of records.
func ParseRecords(data []byte) ([]domain.Record, error) {
	var records []domain.Record
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode records: %w", err)
	}
	return records, nil
}

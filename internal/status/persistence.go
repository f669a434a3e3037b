// Package status keeps a local record of generated, validated and delivered requests.
package status

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

//go:generate mockgen -destination=mocks/mock_record_persistence.go -package=mocks -source=persistence.go RecordPersistence

const (
	// RecordFileName is the name of the per-request record file
	RecordFileName = "status.json"
)

// ErrInvalidReference is returned for a request reference that cannot be used as a directory name
var ErrInvalidReference = errors.New("request reference cannot be used as a record name")

// RecordPersistence stores delivery records by request reference
type RecordPersistence interface {
	// SaveRecord saves the record of a request
	SaveRecord(ctx context.Context, reference string, record *DeliveryRecord) error

	// LoadRecord loads the record of a request.
	// Returns an empty record carrying the reference if none was saved yet.
	LoadRecord(ctx context.Context, reference string) (*DeliveryRecord, error)

	// LoadAllRecords loads every saved record
	LoadAllRecords(ctx context.Context) (map[string]*DeliveryRecord, error)
}

// fileRecordPersistence implements RecordPersistence using local filesystem
type fileRecordPersistence struct {
	basePath string
}

// NewFileRecordPersistence creates a new file-based record persistence.
// basePath is the base directory where per-request record files will be stored.
func NewFileRecordPersistence(basePath string) RecordPersistence {
	return &fileRecordPersistence{
		basePath: basePath,
	}
}

func checkReference(reference string) error {
	if reference == "" || !filepath.IsLocal(reference) || strings.ContainsAny(reference, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidReference, reference)
	}
	return nil
}

// SaveRecord saves the record to a JSON file in a request-specific directory
func (f *fileRecordPersistence) SaveRecord(_ context.Context, reference string, record *DeliveryRecord) error {
	if err := checkReference(reference); err != nil {
		return err
	}

	recordDir := filepath.Join(f.basePath, reference)
	if err := os.MkdirAll(recordDir, 0750); err != nil {
		return fmt.Errorf("failed to create record directory for request '%s': %w", reference, err)
	}

	filePath := filepath.Join(recordDir, RecordFileName)

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal record for request '%s': %w", reference, err)
	}

	// Write to temporary file first for atomic operation
	tempPath := filePath + ".tmp"
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temporary record file for request '%s': %w", reference, err)
	}

	if err := os.Rename(tempPath, filePath); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to rename record file for request '%s': %w", reference, err)
	}

	return nil
}

// LoadRecord loads the record from a JSON file for a specific request
func (f *fileRecordPersistence) LoadRecord(_ context.Context, reference string) (*DeliveryRecord, error) {
	if err := checkReference(reference); err != nil {
		return nil, err
	}

	filePath := filepath.Join(f.basePath, reference, RecordFileName)

	// #nosec G304 -- filePath is basePath plus a reference checked by checkReference
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return &DeliveryRecord{Reference: reference}, nil
		}
		return nil, fmt.Errorf("failed to read record file for request '%s': %w", reference, err)
	}

	var record DeliveryRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record for request '%s': %w", reference, err)
	}

	return &record, nil
}

// LoadAllRecords loads the records of all requests
func (f *fileRecordPersistence) LoadAllRecords(ctx context.Context) (map[string]*DeliveryRecord, error) {
	result := make(map[string]*DeliveryRecord)

	entries, err := os.ReadDir(f.basePath)
	if err != nil {
		if os.IsNotExist(err) {
			return result, nil
		}
		return nil, fmt.Errorf("failed to read record directory: %w", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		reference := entry.Name()
		record, err := f.LoadRecord(ctx, reference)
		if err != nil {
			// Skip unreadable records so the others are still listed
			slog.Warn("Skipping unreadable delivery record", "reference", reference, "error", err)
			continue
		}

		result[reference] = record
	}

	return result, nil
}

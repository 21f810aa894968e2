// Package ingest loads activity-record batches from JSON files and sanitizes
// them before they reach the calculation engine. The engine re-checks the
// contract it depends on; this layer exists so malformed rows are reported
// with their position in the source file rather than as engine errors.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/emfactor/emfactor/internal/engine"
	"github.com/emfactor/emfactor/internal/logging"
)

// Batch is the top-level structure of an activity batch file.
type Batch struct {
	// TenantID scopes the whole batch to one tenant.
	TenantID string `json:"tenant_id"`

	// Records are the activity rows, in file order.
	Records []engine.ActivityRecord `json:"records"`
}

// ParseBatch parses an activity batch from JSON bytes.
func ParseBatch(data []byte) (*Batch, error) {
	return ParseBatchWithContext(context.Background(), data)
}

// ParseBatchWithContext parses an activity batch from JSON bytes, logging
// through the context's logger.
func ParseBatchWithContext(ctx context.Context, data []byte) (*Batch, error) {
	log := logging.FromContext(ctx)
	log.Debug().
		Str("component", "ingest").
		Str("operation", "parse_batch").
		Int("data_size_bytes", len(data)).
		Msg("parsing activity batch from bytes")

	var batch Batch
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("parsing batch JSON: %w", err)
	}

	if err := sanitize(&batch); err != nil {
		return nil, err
	}

	log.Debug().
		Str("component", "ingest").
		Str("tenant_id", batch.TenantID).
		Int("record_count", len(batch.Records)).
		Msg("batch parsed")

	return &batch, nil
}

// LoadBatch loads and parses an activity batch JSON file.
func LoadBatch(path string) (*Batch, error) {
	return LoadBatchWithContext(context.Background(), path)
}

// LoadBatchWithContext loads and parses the activity batch file at path,
// logging through the context's logger.
func LoadBatchWithContext(ctx context.Context, path string) (*Batch, error) {
	log := logging.FromContext(ctx)
	log.Debug().
		Str("component", "ingest").
		Str("operation", "load_batch").
		Str("batch_path", path).
		Msg("loading activity batch")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading batch file: %w", err)
	}
	return ParseBatchWithContext(ctx, data)
}

// sanitize trims string fields in place and checks the file-level contract.
// Row-level data quality (units, values, scopes) stays with the engine, which
// reports those per row instead of failing the file.
func sanitize(batch *Batch) error {
	batch.TenantID = strings.TrimSpace(batch.TenantID)
	if batch.TenantID == "" {
		return fmt.Errorf("batch file: tenant_id is required")
	}
	if len(batch.Records) == 0 {
		return fmt.Errorf("batch file: no records")
	}

	for i := range batch.Records {
		r := &batch.Records[i]
		r.Unit = strings.TrimSpace(r.Unit)
		r.Category = strings.TrimSpace(r.Category)
		r.ActivityType = strings.TrimSpace(r.ActivityType)
		r.CountryCode = strings.TrimSpace(r.CountryCode)
		r.Dataset = strings.TrimSpace(r.Dataset)
	}
	return nil
}

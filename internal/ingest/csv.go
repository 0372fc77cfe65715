package ingest

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/Anish6964/fxblue-etl/internal/normalize"
	"github.com/Anish6964/fxblue-etl/internal/objstore"
	"github.com/Anish6964/fxblue-etl/internal/storage"
)

// CSVProcessor runs the pipeline for one CSV export blob:
// download, parse, normalize, dedupe, upsert.
type CSVProcessor struct {
	objects objstore.Client
	store   storage.Store
}

// NewCSVProcessor creates a processor over the given collaborators.
func NewCSVProcessor(objects objstore.Client, store storage.Store) *CSVProcessor {
	return &CSVProcessor{objects: objects, store: store}
}

// Process handles a single export identified by its object key. It always
// returns a terminal result; failures are captured, never propagated.
func (p *CSVProcessor) Process(ctx context.Context, key string) (result UnitResult) {
	defer func() {
		if r := recover(); r != nil {
			result = failed(key, FailUnexpected, fmt.Errorf("panic: %v", r))
		}
	}()

	data, err := p.objects.Download(ctx, key)
	if err != nil {
		return failed(key, FailFetch, err)
	}

	rows, err := normalize.ParseCSVExport(bytes.NewReader(data))
	if err != nil {
		return failed(key, FailFetch, err)
	}

	trades, err := normalize.CSVTrades(rows, key)
	if err != nil {
		var missing *normalize.MissingColumnsError
		if errors.As(err, &missing) {
			return failed(key, FailMissingColumns, err)
		}
		return failed(key, FailUnexpected, err)
	}

	trades = normalize.Dedupe(trades)

	written, err := p.store.UpsertHistoricalTrades(ctx, trades)
	if err != nil {
		return failed(key, FailWrite, err)
	}

	return UnitResult{Unit: key, Outcome: OutcomeDone, Rows: written}
}

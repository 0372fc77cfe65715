package ingest

import (
	"context"
	"fmt"

	"github.com/Anish6964/fxblue-etl/internal/feed"
	"github.com/Anish6964/fxblue-etl/internal/normalize"
	"github.com/Anish6964/fxblue-etl/internal/roster"
	"github.com/Anish6964/fxblue-etl/internal/storage"
)

// FeedFetcher retrieves a parsed feed document for an account.
type FeedFetcher interface {
	Fetch(ctx context.Context, url string) ([]feed.Entry, error)
}

// RSSProcessor runs the pipeline for one account feed: upsert the account's
// metadata row, fetch the feed, normalize the entry walk, dedupe, upsert.
type RSSProcessor struct {
	feed  FeedFetcher
	store storage.Store
}

// NewRSSProcessor creates a processor over the given collaborators.
func NewRSSProcessor(fetcher FeedFetcher, store storage.Store) *RSSProcessor {
	return &RSSProcessor{feed: fetcher, store: store}
}

// Process handles a single roster account. The metadata upsert happens before
// the feed fetch, so an unreachable feed still leaves the account row current.
func (p *RSSProcessor) Process(ctx context.Context, account roster.Account) (result UnitResult) {
	unit := account.AccountID

	defer func() {
		if r := recover(); r != nil {
			result = failed(unit, FailUnexpected, fmt.Errorf("panic: %v", r))
		}
	}()

	meta := normalize.AccountMetadata(account)
	if err := p.store.UpsertAccountMetadata(ctx, meta); err != nil {
		return failed(unit, FailWrite, err)
	}

	entries, err := p.feed.Fetch(ctx, account.RSSURL)
	if err != nil {
		return failed(unit, FailFetch, err)
	}

	trades := normalize.Dedupe(normalize.FeedTrades(entries, meta))

	written, err := p.store.UpsertRSSTrades(ctx, trades)
	if err != nil {
		return failed(unit, FailWrite, err)
	}

	return UnitResult{Unit: unit, Outcome: OutcomeDone, Rows: written}
}

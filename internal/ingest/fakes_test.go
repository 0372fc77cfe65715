package ingest

import (
	"context"
	"fmt"
	"sync"

	"github.com/Anish6964/fxblue-etl/internal/feed"
	"github.com/Anish6964/fxblue-etl/internal/models"
)

// fakeObjectStore serves blobs from memory and fails on unknown keys.
type fakeObjectStore struct {
	blobs map[string][]byte
}

func (f *fakeObjectStore) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	for key := range f.blobs {
		keys = append(keys, key)
	}
	return keys, nil
}

func (f *fakeObjectStore) Download(ctx context.Context, key string) ([]byte, error) {
	data, ok := f.blobs[key]
	if !ok {
		return nil, fmt.Errorf("object %q not found", key)
	}
	return data, nil
}

// fakeStore records every upsert. Errors are injectable per operation.
type fakeStore struct {
	mu sync.Mutex

	historical [][]*models.HistoricalTrade
	rss        [][]*models.RSSTrade
	metadata   []*models.AccountMetadata

	tradeErr error
	metaErr  error
}

func (f *fakeStore) UpsertHistoricalTrades(ctx context.Context, trades []*models.HistoricalTrade) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.tradeErr != nil {
		return 0, f.tradeErr
	}
	f.historical = append(f.historical, trades)
	return int64(len(trades)), nil
}

func (f *fakeStore) UpsertRSSTrades(ctx context.Context, trades []*models.RSSTrade) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.tradeErr != nil {
		return 0, f.tradeErr
	}
	f.rss = append(f.rss, trades)
	return int64(len(trades)), nil
}

func (f *fakeStore) UpsertAccountMetadata(ctx context.Context, meta *models.AccountMetadata) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.metaErr != nil {
		return f.metaErr
	}
	f.metadata = append(f.metadata, meta)
	return nil
}

func (f *fakeStore) Close() error { return nil }

// fakeFeed serves parsed entries per URL and fails on unknown URLs.
type fakeFeed struct {
	entries map[string][]feed.Entry
}

func (f *fakeFeed) Fetch(ctx context.Context, url string) ([]feed.Entry, error) {
	entries, ok := f.entries[url]
	if !ok {
		return nil, fmt.Errorf("feed %q unreachable", url)
	}
	return entries, nil
}

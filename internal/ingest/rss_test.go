package ingest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Anish6964/fxblue-etl/internal/feed"
	"github.com/Anish6964/fxblue-etl/internal/roster"
)

func testAccount() roster.Account {
	return roster.Account{
		AccountID:    "acct-1",
		AccountURL:   "https://example.com/acct-1",
		RSSURL:       "https://example.com/acct-1/rss",
		TradeWin:     "55%",
		TotalReturn:  "-",
		TradesPerDay: "0.2",
	}
}

func testEntries() []feed.Entry {
	return []feed.Entry{
		{"balance": "10000", "equity": "10100"},
		{
			"ticket":    "12345",
			"action":    "Buy",
			"symbol":    "EURUSD",
			"lots":      "1.5",
			"openprice": "1.1000",
			"opentime":  "Thu 21 Mar 2019 09:00:11",
			"closetime": "Thu 1 Jan 1970 00:00:00",
			"tp":        "0",
			"sl":        "1.0500",
		},
	}
}

func TestRSSProcessorHappyPath(t *testing.T) {
	store := &fakeStore{}
	feeds := &fakeFeed{entries: map[string][]feed.Entry{
		"https://example.com/acct-1/rss": testEntries(),
	}}

	result := NewRSSProcessor(feeds, store).Process(context.Background(), testAccount())

	assert.Equal(t, OutcomeDone, result.Outcome)
	assert.Equal(t, "acct-1", result.Unit)
	assert.Equal(t, int64(1), result.Rows)

	require.Len(t, store.metadata, 1)
	meta := store.metadata[0]
	assert.Equal(t, "acct-1", meta.AccountID)
	require.NotNil(t, meta.TradeWin)
	assert.Equal(t, 0.55, *meta.TradeWin)
	assert.Nil(t, meta.TotalReturn)

	require.Len(t, store.rss, 1)
	require.Len(t, store.rss[0], 1)
	trade := store.rss[0][0]
	assert.Equal(t, int64(12345), trade.Ticket)
	require.NotNil(t, trade.AccountBalance)
	assert.Equal(t, 10000.0, *trade.AccountBalance)
	assert.Nil(t, trade.CloseTime)
	assert.Nil(t, trade.TakeProfit)
}

func TestRSSProcessorFetchError(t *testing.T) {
	store := &fakeStore{}
	feeds := &fakeFeed{entries: map[string][]feed.Entry{}}

	result := NewRSSProcessor(feeds, store).Process(context.Background(), testAccount())

	assert.Equal(t, OutcomeFailed, result.Outcome)
	require.NotNil(t, result.Err)
	assert.Equal(t, FailFetch, result.Err.Kind)

	// Metadata was upserted before the fetch failed; the account row stays current.
	assert.Len(t, store.metadata, 1)
	assert.Empty(t, store.rss)
}

func TestRSSProcessorMetadataWriteError(t *testing.T) {
	store := &fakeStore{metaErr: errors.New("permission denied")}
	feeds := &fakeFeed{entries: map[string][]feed.Entry{
		"https://example.com/acct-1/rss": testEntries(),
	}}

	result := NewRSSProcessor(feeds, store).Process(context.Background(), testAccount())

	assert.Equal(t, OutcomeFailed, result.Outcome)
	require.NotNil(t, result.Err)
	assert.Equal(t, FailWrite, result.Err.Kind)
	assert.Empty(t, store.rss)
}

func TestRSSProcessorTradeWriteError(t *testing.T) {
	store := &fakeStore{tradeErr: errors.New("deadlock detected")}
	feeds := &fakeFeed{entries: map[string][]feed.Entry{
		"https://example.com/acct-1/rss": testEntries(),
	}}

	result := NewRSSProcessor(feeds, store).Process(context.Background(), testAccount())

	assert.Equal(t, OutcomeFailed, result.Outcome)
	require.NotNil(t, result.Err)
	assert.Equal(t, FailWrite, result.Err.Kind)
}

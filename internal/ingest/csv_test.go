package ingest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleExport = `FxBlue export,generated 2024-01-02
Ticket,Symbol,Buy/sell,Open price,Close price,Lots,Profit,Open time
55,EURUSD,buy,1.10,1.12,1,200,2019.03.21 09:00:11
55,EURUSD,buy,1.10,1.12,1,200,2019.03.21 09:00:11
56,GBPUSD,sell,1.30,1.28,2,50,2019.03.22 10:00:00
`

func TestCSVProcessorHappyPath(t *testing.T) {
	store := &fakeStore{}
	objects := &fakeObjectStore{blobs: map[string][]byte{
		"testcsvs/1001.csv": []byte(sampleExport),
	}}

	result := NewCSVProcessor(objects, store).Process(context.Background(), "testcsvs/1001.csv")

	assert.Equal(t, OutcomeDone, result.Outcome)
	assert.Equal(t, "testcsvs/1001.csv", result.Unit)
	assert.Nil(t, result.Err)

	// The duplicate row is suppressed before the writer sees the batch.
	assert.Equal(t, int64(2), result.Rows)
	require.Len(t, store.historical, 1)
	require.Len(t, store.historical[0], 2)
	assert.Equal(t, int64(55), store.historical[0][0].Ticket)
	assert.Equal(t, "1001", store.historical[0][0].AccountID)
}

func TestCSVProcessorFetchError(t *testing.T) {
	store := &fakeStore{}
	objects := &fakeObjectStore{blobs: map[string][]byte{}}

	result := NewCSVProcessor(objects, store).Process(context.Background(), "missing.csv")

	assert.Equal(t, OutcomeFailed, result.Outcome)
	require.NotNil(t, result.Err)
	assert.Equal(t, FailFetch, result.Err.Kind)
	assert.Empty(t, store.historical)
}

func TestCSVProcessorMissingColumns(t *testing.T) {
	export := "meta\nTicket,Symbol,Buy/sell,Open price,Close price,Lots,Open time\n55,EURUSD,buy,1.10,1.12,1,2019.03.21 09:00:11\n"
	store := &fakeStore{}
	objects := &fakeObjectStore{blobs: map[string][]byte{"1001.csv": []byte(export)}}

	result := NewCSVProcessor(objects, store).Process(context.Background(), "1001.csv")

	assert.Equal(t, OutcomeFailed, result.Outcome)
	require.NotNil(t, result.Err)
	assert.Equal(t, FailMissingColumns, result.Err.Kind)
	assert.Zero(t, result.Rows)
	assert.Empty(t, store.historical)
}

func TestCSVProcessorWriteError(t *testing.T) {
	store := &fakeStore{tradeErr: errors.New("connection reset")}
	objects := &fakeObjectStore{blobs: map[string][]byte{"1001.csv": []byte(sampleExport)}}

	result := NewCSVProcessor(objects, store).Process(context.Background(), "1001.csv")

	assert.Equal(t, OutcomeFailed, result.Outcome)
	require.NotNil(t, result.Err)
	assert.Equal(t, FailWrite, result.Err.Kind)
	assert.ErrorContains(t, result.Err, "connection reset")
}

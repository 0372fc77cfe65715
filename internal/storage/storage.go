// Package storage provides the Postgres persistence layer for trade data.
package storage

import (
	"context"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/Anish6964/fxblue-etl/internal/models"
)

// Store defines the idempotent upsert operations the pipeline performs.
// Implementations must be safe for concurrent use; conflict resolution is
// pushed to the store's atomic upsert primitive, so concurrent units writing
// the same ticket race only at the row level (last writer wins on mutable
// fields).
type Store interface {
	// UpsertHistoricalTrades insert-or-updates CSV trade rows keyed on ticket.
	UpsertHistoricalTrades(ctx context.Context, trades []*models.HistoricalTrade) (int64, error)

	// UpsertRSSTrades insert-or-updates feed trade rows keyed on ticket.
	UpsertRSSTrades(ctx context.Context, trades []*models.RSSTrade) (int64, error)

	// UpsertAccountMetadata insert-or-updates one metadata row keyed on account id.
	UpsertAccountMetadata(ctx context.Context, meta *models.AccountMetadata) error

	// Close releases database connection resources.
	Close() error
}

// Conflict update-column lists. Enrichment (gpt_*) columns are deliberately
// absent: they are owned by the external annotation job once set, so an
// upsert must never reset them. Keep these lists in sync with the models.
var (
	historicalTradeUpdateColumns = []string{
		"account_id", "symbol", "trade_type", "entry_price", "exit_price",
		"timestamp", "lot_size", "pnl", "net_profit", "mae", "mfe", "pips",
		"tp", "sl", "trade_duration_hours",
	}

	rssTradeUpdateColumns = []string{
		"account_id", "account_url", "rss_url", "trade_win", "total_return",
		"trades_per_day", "account_balance", "account_equity",
		"account_floating_profit", "account_closed_profit",
		"account_free_margin", "action", "lots", "symbol", "open_price",
		"close_price", "open_time", "close_time", "profit", "swap",
		"commission", "total_profit", "take_profit", "stop_loss",
		"magic_number",
	}

	accountMetadataUpdateColumns = []string{
		"account_url", "rss_url", "trade_win", "total_return", "trades_per_day",
	}
)

// collapseLastByKey keeps the last record per conflict key, in first-seen
// order. A multi-row INSERT ... ON CONFLICT DO UPDATE cannot affect the same
// key twice, so same-key records must collapse to the final write before
// batching; the net state matches writing every record individually in order.
func collapseLastByKey[T any](records []T, key func(T) int64) []T {
	if len(records) < 2 {
		return records
	}

	index := make(map[int64]int, len(records))
	out := records[:0]
	for _, record := range records {
		k := key(record)
		if i, seen := index[k]; seen {
			out[i] = record
			continue
		}
		index[k] = len(out)
		out = append(out, record)
	}
	return out
}

// gormStore implements Store on a gorm Postgres connection pool. Each unit's
// writes acquire their own connection from the pool and release it on every
// exit path.
type gormStore struct {
	db        *gorm.DB
	batchSize int
}

// NewPostgresStore opens a Postgres connection pool and verifies connectivity.
// batchSize bounds the number of rows per upsert statement.
func NewPostgresStore(dsn string, batchSize int) (Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	if batchSize < 1 {
		batchSize = 1
	}
	return &gormStore{db: db, batchSize: batchSize}, nil
}

// UpsertHistoricalTrades writes CSV trades in batches. Batching bounds
// statement size without changing observable semantics: each row upserts
// independently, so a partially written unit remains safe to retry.
func (s *gormStore) UpsertHistoricalTrades(ctx context.Context, trades []*models.HistoricalTrade) (int64, error) {
	if len(trades) == 0 {
		return 0, nil
	}
	trades = collapseLastByKey(trades, func(t *models.HistoricalTrade) int64 { return t.Ticket })

	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "ticket"}},
		DoUpdates: clause.AssignmentColumns(historicalTradeUpdateColumns),
	}).CreateInBatches(trades, s.batchSize)

	return res.RowsAffected, res.Error
}

// UpsertRSSTrades writes feed trades in batches, keyed on ticket.
func (s *gormStore) UpsertRSSTrades(ctx context.Context, trades []*models.RSSTrade) (int64, error) {
	if len(trades) == 0 {
		return 0, nil
	}
	trades = collapseLastByKey(trades, func(t *models.RSSTrade) int64 { return t.Ticket })

	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "ticket"}},
		DoUpdates: clause.AssignmentColumns(rssTradeUpdateColumns),
	}).CreateInBatches(trades, s.batchSize)

	return res.RowsAffected, res.Error
}

// UpsertAccountMetadata writes one metadata row, keyed on account id.
func (s *gormStore) UpsertAccountMetadata(ctx context.Context, meta *models.AccountMetadata) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "account_id"}},
		DoUpdates: clause.AssignmentColumns(accountMetadataUpdateColumns),
	}).Create(meta).Error
}

// Close closes the underlying connection pool.
func (s *gormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

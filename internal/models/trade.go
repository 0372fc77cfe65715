// Package models defines the domain models used across the application.
package models

import (
	"crypto/md5"
	"fmt"
	"time"
)

// HistoricalTrade is the canonical row produced by the CSV ingest path,
// normalized from broker CSV exports. Nullable columns are pointers: a nil
// field upserts as NULL rather than a zero value.
//
// The gpt_* columns are enrichment placeholders filled by a downstream
// annotation job. This pipeline only reserves them as NULL and never
// overwrites them once set (see storage update-column lists).
type HistoricalTrade struct {
	// Ticket is the broker's trade ticket number, unique across the store.
	Ticket int64 `gorm:"column:ticket;primaryKey"`

	// AccountID is derived from the export's file name.
	AccountID string `gorm:"column:account_id"`

	Symbol     *string    `gorm:"column:symbol"`
	TradeType  *string    `gorm:"column:trade_type"`
	EntryPrice *float64   `gorm:"column:entry_price"`
	ExitPrice  *float64   `gorm:"column:exit_price"`
	Timestamp  *time.Time `gorm:"column:timestamp"`
	LotSize    *float64   `gorm:"column:lot_size"`
	PnL        *float64   `gorm:"column:pnl"`
	NetProfit  *float64   `gorm:"column:net_profit"`
	MAE        *float64   `gorm:"column:mae"`
	MFE        *float64   `gorm:"column:mfe"`
	Pips       *float64   `gorm:"column:pips"`
	TP         *float64   `gorm:"column:tp"`
	SL         *float64   `gorm:"column:sl"`

	TradeDurationHours *float64 `gorm:"column:trade_duration_hours"`

	GPTInferredStrategy          *string  `gorm:"column:gpt_inferred_strategy"`
	GPTStrategyConfidence        *float64 `gorm:"column:gpt_strategy_confidence"`
	GPTTradeEvaluation           *string  `gorm:"column:gpt_trade_evaluation"`
	GPTAlternativeAction         *string  `gorm:"column:gpt_alternative_action"`
	WasGPTRecommendationFollowed *bool    `gorm:"column:was_gpt_recommendation_followed"`
	GPTImpactAlignment           *string  `gorm:"column:gpt_impact_alignment"`
}

func (HistoricalTrade) TableName() string { return "historical_trades" }

// IdentityHash derives the key used for intra-unit duplicate suppression.
// It is distinct from the store's primary key: two rows in one export with
// the same (account, ticket, timestamp) are the same trade.
func (t *HistoricalTrade) IdentityHash() string {
	return identityHash(t.AccountID, t.Ticket, formatTime(t.Timestamp))
}

// RSSTrade is the canonical row produced by the RSS ingest path. Account
// metadata and the most recent account summary seen in the feed are
// denormalized onto every position row.
type RSSTrade struct {
	Ticket int64 `gorm:"column:ticket;primaryKey"`

	AccountID    string   `gorm:"column:account_id"`
	AccountURL   *string  `gorm:"column:account_url"`
	RSSURL       *string  `gorm:"column:rss_url"`
	TradeWin     *float64 `gorm:"column:trade_win"`
	TotalReturn  *float64 `gorm:"column:total_return"`
	TradesPerDay *float64 `gorm:"column:trades_per_day"`

	AccountBalance        *float64 `gorm:"column:account_balance"`
	AccountEquity         *float64 `gorm:"column:account_equity"`
	AccountFloatingProfit *float64 `gorm:"column:account_floating_profit"`
	AccountClosedProfit   *float64 `gorm:"column:account_closed_profit"`
	AccountFreeMargin     *float64 `gorm:"column:account_free_margin"`

	Action      *string    `gorm:"column:action"`
	Lots        *float64   `gorm:"column:lots"`
	Symbol      *string    `gorm:"column:symbol"`
	OpenPrice   *float64   `gorm:"column:open_price"`
	ClosePrice  *float64   `gorm:"column:close_price"`
	OpenTime    *time.Time `gorm:"column:open_time"`
	CloseTime   *time.Time `gorm:"column:close_time"`
	Profit      *float64   `gorm:"column:profit"`
	Swap        *float64   `gorm:"column:swap"`
	Commission  *float64   `gorm:"column:commission"`
	TotalProfit *float64   `gorm:"column:total_profit"`
	TakeProfit  *float64   `gorm:"column:take_profit"`
	StopLoss    *float64   `gorm:"column:stop_loss"`
	MagicNumber *int64     `gorm:"column:magic_number"`

	GPTRecommendationIssued   *bool    `gorm:"column:gpt_recommendation_issued"`
	GPTRecommendationContent  *string  `gorm:"column:gpt_recommendation_content"`
	GPTRecommendationAccuracy *float64 `gorm:"column:gpt_recommendation_accuracy"`
	GPTSuggestionScore        *float64 `gorm:"column:gpt_suggestion_score"`
	TradeDeviationReasoning   *string  `gorm:"column:trade_deviation_reasoning"`
}

func (RSSTrade) TableName() string { return "rss_trades" }

// IdentityHash keys a feed position by (account, ticket, open time) for
// intra-unit duplicate suppression.
func (t *RSSTrade) IdentityHash() string {
	return identityHash(t.AccountID, t.Ticket, formatTime(t.OpenTime))
}

// identityHash generates a stable hash over record identity attributes.
func identityHash(attributes ...any) string {
	hashInput := fmt.Sprint(attributes...)
	hash := md5.Sum([]byte(hashInput))
	return fmt.Sprintf("%x", hash)
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

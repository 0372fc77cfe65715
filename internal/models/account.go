package models

// AccountMetadata is the per-account descriptive row upserted once per RSS
// work unit. Percent-like fields are stored as fractions (0.55, not 55%).
// strategy_inferred and gpt_comments belong to the enrichment job.
type AccountMetadata struct {
	AccountID    string   `gorm:"column:account_id;primaryKey"`
	AccountURL   *string  `gorm:"column:account_url"`
	RSSURL       *string  `gorm:"column:rss_url"`
	TradeWin     *float64 `gorm:"column:trade_win"`
	TotalReturn  *float64 `gorm:"column:total_return"`
	TradesPerDay *float64 `gorm:"column:trades_per_day"`

	StrategyInferred *string `gorm:"column:strategy_inferred"`
	GPTComments      *string `gorm:"column:gpt_comments"`
}

func (AccountMetadata) TableName() string { return "account_metadata" }

// AccountSummary is the most recent account-level snapshot seen while walking
// a feed document. It applies to every position entry after it appears, until
// superseded by the next summary entry.
type AccountSummary struct {
	Balance        *float64
	Equity         *float64
	FloatingProfit *float64
	ClosedProfit   *float64
	FreeMargin     *float64
}

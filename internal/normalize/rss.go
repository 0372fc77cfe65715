package normalize

import (
	"time"

	"github.com/Anish6964/fxblue-etl/internal/feed"
	"github.com/Anish6964/fxblue-etl/internal/models"
	"github.com/Anish6964/fxblue-etl/internal/roster"
)

// epochSentinel is the platform's "still open" marker for close times.
// It normalizes to nil, never to an epoch-dated timestamp.
const epochSentinel = "Thu 1 Jan 1970 00:00:00"

// AccountMetadata builds the per-account metadata row from a roster entry.
func AccountMetadata(account roster.Account) *models.AccountMetadata {
	return &models.AccountMetadata{
		AccountID:    account.AccountID,
		AccountURL:   text(account.AccountURL),
		RSSURL:       text(account.RSSURL),
		TradeWin:     Fraction(account.TradeWin),
		TotalReturn:  Fraction(account.TotalReturn),
		TradesPerDay: Fraction(account.TradesPerDay),
	}
}

// FeedTrades walks feed entries in document order and emits one canonical
// record per position entry. Summary entries update the running account
// summary, which stamps every position after it; positions seen before any
// summary carry an all-nil summary.
func FeedTrades(entries []feed.Entry, meta *models.AccountMetadata) []*models.RSSTrade {
	var summary models.AccountSummary

	var trades []*models.RSSTrade
	for _, entry := range entries {
		if entry.Has("balance") {
			summary = models.AccountSummary{
				Balance:        Float(entry.Get("balance")),
				Equity:         Float(entry.Get("equity")),
				FloatingProfit: Float(entry.Get("floatingprofit")),
				ClosedProfit:   Float(entry.Get("closedprofit")),
				FreeMargin:     Float(entry.Get("freemargin")),
			}
		}

		if !entry.Has("ticket") {
			continue
		}
		ticket := Int(entry.Get("ticket"))
		if ticket == nil {
			continue
		}

		trades = append(trades, &models.RSSTrade{
			Ticket:       *ticket,
			AccountID:    meta.AccountID,
			AccountURL:   meta.AccountURL,
			RSSURL:       meta.RSSURL,
			TradeWin:     meta.TradeWin,
			TotalReturn:  meta.TotalReturn,
			TradesPerDay: meta.TradesPerDay,

			AccountBalance:        summary.Balance,
			AccountEquity:         summary.Equity,
			AccountFloatingProfit: summary.FloatingProfit,
			AccountClosedProfit:   summary.ClosedProfit,
			AccountFreeMargin:     summary.FreeMargin,

			Action:      text(entry.Get("action")),
			Lots:        Float(entry.Get("lots")),
			Symbol:      text(entry.Get("symbol")),
			OpenPrice:   Float(entry.Get("openprice")),
			ClosePrice:  Float(entry.Get("closeprice")),
			OpenTime:    ParseFeedTime(entry.Get("opentime")),
			CloseTime:   closeTime(entry.Get("closetime")),
			Profit:      Float(entry.Get("profit")),
			Swap:        Float(entry.Get("swap")),
			Commission:  Float(entry.Get("commission")),
			TotalProfit: Float(entry.Get("totalprofit")),
			TakeProfit:  stopLevel(entry.Get("tp")),
			StopLoss:    stopLevel(entry.Get("sl")),
			MagicNumber: Int(entry.Get("magicnumber")),
		})
	}

	return trades
}

// closeTime treats the epoch sentinel as "position still open".
func closeTime(raw string) *time.Time {
	if raw == epochSentinel {
		return nil
	}
	return ParseFeedTime(raw)
}

// stopLevel applies the zero-means-unset rule. It holds for TP/SL only; a
// genuine zero price elsewhere is preserved.
func stopLevel(raw string) *float64 {
	if raw == "0" {
		return nil
	}
	return Float(raw)
}

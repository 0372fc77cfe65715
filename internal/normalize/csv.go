package normalize

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/Anish6964/fxblue-etl/internal/models"
)

// csvColumnRenames maps export column names to canonical field names.
// The table is fixed and exhaustive; unmapped columns are dropped silently.
var csvColumnRenames = map[string]string{
	"Ticket":                 "ticket",
	"Symbol":                 "symbol",
	"Buy/sell":               "trade_type",
	"Open price":             "entry_price",
	"Close price":            "exit_price",
	"Lots":                   "lot_size",
	"Profit":                 "pnl",
	"Net profit":             "net_profit",
	"MAE":                    "mae",
	"MFE":                    "mfe",
	"Open time":              "timestamp",
	"Pips":                   "pips",
	"T/P":                    "tp",
	"S/L":                    "sl",
	"Trade duration (hours)": "trade_duration_hours",
}

// requiredCSVColumns must all be present in an export; otherwise the whole
// unit produces zero records and a MissingColumnsError.
var requiredCSVColumns = []string{
	"timestamp",
	"symbol",
	"trade_type",
	"entry_price",
	"exit_price",
	"lot_size",
	"pnl",
}

// MissingColumnsError reports a schema mismatch on a CSV export. It is a
// per-unit skip condition, not a process abort.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("export is missing required columns: %s", strings.Join(e.Columns, ", "))
}

// ParseCSVExport reads a broker CSV export into rows. Exports carry exactly
// one metadata line before the real column header, which is discarded here.
func ParseCSVExport(r io.Reader) ([][]string, error) {
	buffered := bufio.NewReader(r)

	// The metadata line is not necessarily valid CSV (unbalanced quotes are
	// fine there), so discard the first physical line as raw bytes.
	if _, err := buffered.ReadString('\n'); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read export metadata line: %w", err)
	}

	reader := csv.NewReader(buffered)
	reader.FieldsPerRecord = -1 // Allow variable number of fields per record

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read export row: %w", err)
		}
		rows = append(rows, record)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("export has no header row")
	}
	return rows, nil
}

// AccountIDFromKey derives the owner key from the export's object key:
// "testcsvs/1001.csv" -> "1001".
func AccountIDFromKey(key string) string {
	return strings.TrimSuffix(path.Base(key), ".csv")
}

// CSVTrades maps export rows (header first) onto canonical trade records.
// Rows whose ticket is absent or not integer-coercible are rejected
// individually; every other coercion failure degrades to a nil field.
func CSVTrades(rows [][]string, objectKey string) ([]*models.HistoricalTrade, error) {
	header := rows[0]

	index := map[string]int{}
	for i, name := range header {
		if canonical, ok := csvColumnRenames[strings.TrimSpace(name)]; ok {
			index[canonical] = i
		}
	}

	var missing []string
	for _, required := range requiredCSVColumns {
		if _, ok := index[required]; !ok {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}

	accountID := AccountIDFromKey(objectKey)

	var trades []*models.HistoricalTrade
	for _, row := range rows[1:] {
		cell := func(name string) string {
			i, ok := index[name]
			if !ok || i >= len(row) {
				return ""
			}
			return row[i]
		}

		ticket := Int(cell("ticket"))
		if ticket == nil {
			continue
		}

		trades = append(trades, &models.HistoricalTrade{
			Ticket:             *ticket,
			AccountID:          accountID,
			Symbol:             text(cell("symbol")),
			TradeType:          text(cell("trade_type")),
			EntryPrice:         Float(cell("entry_price")),
			ExitPrice:          Float(cell("exit_price")),
			Timestamp:          ParseTimestamp(cell("timestamp")),
			LotSize:            Float(cell("lot_size")),
			PnL:                Float(cell("pnl")),
			NetProfit:          Float(cell("net_profit")),
			MAE:                Float(cell("mae")),
			MFE:                Float(cell("mfe")),
			Pips:               Float(cell("pips")),
			TP:                 Float(cell("tp")),
			SL:                 Float(cell("sl")),
			TradeDurationHours: Float(cell("trade_duration_hours")),
		})
	}

	return trades, nil
}

// text returns a trimmed string pointer, or nil for an empty cell.
func text(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

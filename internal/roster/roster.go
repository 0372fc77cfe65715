// Package roster loads the account list that drives the RSS ingest run.
// The roster is a tabular file (xlsx or csv) with one row per account.
package roster

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Account is one roster row. Percent-like fields are kept as raw strings
// ("55%", "-", "0.2"); normalization owns their interpretation.
type Account struct {
	AccountID    string
	AccountURL   string
	RSSURL       string
	TradeWin     string
	TotalReturn  string
	TradesPerDay string
}

// Column headers as they appear in the roster export. Matching is
// case-insensitive after trimming.
var rosterColumns = map[string]string{
	"username":       "account_id",
	"account_url":    "account_url",
	"rss_url":        "rss_url",
	"trade win":      "trade_win",
	"total return":   "total_return",
	"trades per day": "trades_per_day",
}

// Parse decodes the roster from data. The format is chosen by the file
// extension of name: ".xlsx" or ".csv".
func Parse(data []byte, name string) ([]Account, error) {
	switch strings.ToLower(path.Ext(name)) {
	case ".xlsx":
		return parseXLSX(data)
	case ".csv":
		rows, err := readCSV(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		return fromRows(rows)
	default:
		return nil, fmt.Errorf("unsupported roster format: %q", name)
	}
}

func parseXLSX(data []byte) ([]Account, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open roster workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("roster workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read roster sheet %q: %w", sheets[0], err)
	}
	return fromRows(rows)
}

func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // Allow variable number of fields per record

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read roster csv: %w", err)
	}
	return rows, nil
}

// fromRows maps header-addressed rows to Accounts. Rows without an account id
// or feed URL are skipped: they cannot form a work unit.
func fromRows(rows [][]string) ([]Account, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("roster is empty")
	}

	index := map[string]int{}
	for i, header := range rows[0] {
		if canonical, ok := rosterColumns[strings.ToLower(strings.TrimSpace(header))]; ok {
			index[canonical] = i
		}
	}
	for _, required := range []string{"account_id", "rss_url"} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("roster is missing required column %q", required)
		}
	}

	var accounts []Account
	for _, row := range rows[1:] {
		cell := func(name string) string {
			i, ok := index[name]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		account := Account{
			AccountID:    cell("account_id"),
			AccountURL:   cell("account_url"),
			RSSURL:       cell("rss_url"),
			TradeWin:     cell("trade_win"),
			TotalReturn:  cell("total_return"),
			TradesPerDay: cell("trades_per_day"),
		}
		if account.AccountID == "" || account.RSSURL == "" {
			continue
		}
		accounts = append(accounts, account)
	}

	return accounts, nil
}

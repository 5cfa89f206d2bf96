package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// BankParser parses the common Japanese bank statement layout:
// 日付, 摘要, 入金, 出金 (date, description, deposit, withdrawal).
// A header row is expected; deposit and withdrawal are mutually exclusive
// per row.
type BankParser struct{}

const (
	bankNumFields     = 4
	bankColDate       = 0
	bankColDesc       = 1
	bankColDeposit    = 2
	bankColWithdrawal = 3
)

var bankDateFormats = []string{"2006-01-02", "2006/01/02", "2006.01.02"}

// Format returns the parser name.
func (p *BankParser) Format() string { return "bank" }

// Parse reads the CSV and returns candidate rows plus per-row errors.
func (p *BankParser) Parse(r io.Reader) ([]CandidateRow, []RowError, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = bankNumFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("reading bank CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil, nil
	}

	var rows []CandidateRow
	var rowErrs []RowError
	for i, rec := range records[1:] {
		line := i + 2
		row, err := parseBankRow(rec)
		if err != nil {
			rowErrs = append(rowErrs, RowError{Line: line, Message: err.Error()})
			continue
		}
		row.Line = line
		rows = append(rows, row)
	}
	return rows, rowErrs, nil
}

func parseBankRow(rec []string) (CandidateRow, error) {
	date, err := parseBankDate(rec[bankColDate])
	if err != nil {
		return CandidateRow{}, err
	}

	deposit, err := parseYen(rec[bankColDeposit])
	if err != nil {
		return CandidateRow{}, fmt.Errorf("deposit: %w", err)
	}
	withdrawal, err := parseYen(rec[bankColWithdrawal])
	if err != nil {
		return CandidateRow{}, fmt.Errorf("withdrawal: %w", err)
	}

	switch {
	case deposit != 0 && withdrawal != 0:
		return CandidateRow{}, fmt.Errorf("both deposit and withdrawal set")
	case deposit == 0 && withdrawal == 0:
		return CandidateRow{}, fmt.Errorf("neither deposit nor withdrawal set")
	}

	return CandidateRow{
		Date:        date,
		Description: strings.TrimSpace(rec[bankColDesc]),
		Amount:      deposit - withdrawal,
	}, nil
}

func parseBankDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	for _, layout := range bankDateFormats {
		if d, err := time.Parse(layout, s); err == nil {
			return d.Format("2006-01-02"), nil
		}
	}
	return "", fmt.Errorf("unparseable date %q", s)
}

// parseYen converts a statement amount to integer yen. Thousands
// separators and a currency sign are tolerated, fractional yen are not.
func parseYen(s string) (int64, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSuffix(s, "円")
	s = strings.TrimPrefix(s, "¥")
	if s == "" {
		return 0, nil
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("unparseable amount %q", s)
	}
	if !d.IsInteger() {
		return 0, fmt.Errorf("amount %q is not whole yen", s)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("amount %q is negative", s)
	}
	return d.IntPart(), nil
}

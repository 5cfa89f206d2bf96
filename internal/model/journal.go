package model

// JournalLine is a single debit or credit posting within an entry.
// Amounts are whole yen; no fractional currency exists anywhere in the core.
type JournalLine struct {
	ID          int64  `json:"id,omitempty"`
	Side        Side   `json:"side"`
	AccountCode string `json:"account_code"`
	Amount      int64  `json:"amount"`
	TaxCategory string `json:"tax_category,omitempty"`
	TaxAmount   int64  `json:"tax_amount,omitempty"`
}

// JournalEntry is a dated, described set of postings that must balance.
type JournalEntry struct {
	ID           int64         `json:"id,omitempty"`
	FiscalYear   int           `json:"fiscal_year"`
	Date         string        `json:"date"` // YYYY-MM-DD
	Description  string        `json:"description,omitempty"`
	Source       string        `json:"source,omitempty"` // import origin, e.g. "bank_csv", empty for manual
	SourceFile   string        `json:"source_file,omitempty"`
	IsAdjustment bool          `json:"is_adjustment,omitempty"` // period-close posting (depreciation, inventory)
	Lines        []JournalLine `json:"lines"`
}

// DebitTotal sums the debit-side line amounts.
func (e JournalEntry) DebitTotal() int64 {
	var total int64
	for _, ln := range e.Lines {
		if ln.Side == SideDebit {
			total += ln.Amount
		}
	}
	return total
}

// CreditTotal sums the credit-side line amounts.
func (e JournalEntry) CreditTotal() int64 {
	var total int64
	for _, ln := range e.Lines {
		if ln.Side == SideCredit {
			total += ln.Amount
		}
	}
	return total
}

// FiscalYearStatus is the lifecycle state of a fiscal year.
type FiscalYearStatus string

const (
	YearOpen   FiscalYearStatus = "open"
	YearClosed FiscalYearStatus = "closed"
)

// FiscalYear is one accounting period. Closing is a one-way transition that
// blocks all further mutation of the year's entries and facts.
type FiscalYear struct {
	Year   int
	Status FiscalYearStatus
}

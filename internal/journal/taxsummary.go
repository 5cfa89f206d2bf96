package journal

import (
	"fmt"
	"strings"

	"github.com/aoiro-dev/aoiro/internal/model"
)

// ConsumptionSummary totals a year's tax-included sales and purchases by
// consumption tax category, the figures the consumption tax return starts
// from.
type ConsumptionSummary struct {
	FiscalYear         int   `json:"fiscal_year"`
	TaxableSales10     int64 `json:"taxable_sales_10"`
	TaxableSales8      int64 `json:"taxable_sales_8"`
	TaxablePurchases10 int64 `json:"taxable_purchases_10"`
	TaxablePurchases8  int64 `json:"taxable_purchases_8"`
}

// ConsumptionSummary aggregates the year's journal lines by tax category.
// A line-level tax category wins over the account's default, so reduced-rate
// postings through a standard-rate account stay correct. Sales count on the
// credit side and purchases on the debit side; the opposite side is a return
// or correction and subtracts.
func (s *Service) ConsumptionSummary(year int) (ConsumptionSummary, error) {
	rows, err := s.db.Conn().Query(
		`SELECT l.side, l.account_code, l.amount, COALESCE(l.tax_category, '')
		 FROM journal_lines l
		 JOIN journals j ON j.id = l.journal_id
		 WHERE j.fiscal_year = ?`, year)
	if err != nil {
		return ConsumptionSummary{}, fmt.Errorf("summing tax categories: %w", err)
	}
	defer rows.Close()

	sum := ConsumptionSummary{FiscalYear: year}
	for rows.Next() {
		var side, code, category string
		var amount int64
		if err := rows.Scan(&side, &code, &amount, &category); err != nil {
			return ConsumptionSummary{}, fmt.Errorf("scanning line: %w", err)
		}
		if category == "" {
			if acc, ok := s.accounts.Get(code); ok {
				category = acc.TaxCategory
			}
		}
		if category == "" {
			continue
		}

		signed := amount
		switch {
		case strings.HasPrefix(category, "taxable_sales") && side != string(model.SideCredit):
			signed = -amount
		case strings.HasPrefix(category, "taxable_purchase") && side != string(model.SideDebit):
			signed = -amount
		}
		switch category {
		case "taxable_sales_10":
			sum.TaxableSales10 += signed
		case "taxable_sales_8":
			sum.TaxableSales8 += signed
		case "taxable_purchase_10":
			sum.TaxablePurchases10 += signed
		case "taxable_purchase_8":
			sum.TaxablePurchases8 += signed
		}
	}
	if err := rows.Err(); err != nil {
		return ConsumptionSummary{}, fmt.Errorf("reading tax categories: %w", err)
	}
	return sum, nil
}

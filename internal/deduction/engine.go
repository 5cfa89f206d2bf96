// Package deduction implements the income deductions and tax credits of the
// individual income tax return. All amounts are integer yen and all
// percentage math floors, matching the statutory quick-calculation tables.
package deduction

import (
	"github.com/aoiro-dev/aoiro/internal/taxconst"
)

// Item is one applied deduction or credit line.
type Item struct {
	Type    string `json:"type"`
	Name    string `json:"name"`
	Amount  int64  `json:"amount"`
	Details string `json:"details,omitempty"`
}

// Result aggregates the applied income deductions and tax credits.
type Result struct {
	IncomeDeductions      []Item `json:"income_deductions"`
	TaxCredits            []Item `json:"tax_credits"`
	TotalIncomeDeductions int64  `json:"total_income_deductions"`
	TotalTaxCredits       int64  `json:"total_tax_credits"`
}

// Engine evaluates deductions against one fiscal year's constant tables.
type Engine struct {
	c *taxconst.Constants
}

// NewEngine returns an engine bound to the given constant set.
func NewEngine(c *taxconst.Constants) *Engine {
	return &Engine{c: c}
}

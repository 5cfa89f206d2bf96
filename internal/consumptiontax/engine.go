// Package consumptiontax implements the consumption tax return for the
// three filing regimes available to a small sole proprietor: standard
// (本則課税), simplified (簡易課税) and the 20% invoice-transition special
// (2割特例). Sales and purchase figures are tax-included yen.
package consumptiontax

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aoiro-dev/aoiro/internal/taxconst"
)

// Method selects the filing regime.
type Method string

const (
	MethodStandard     Method = "standard"
	MethodSimplified   Method = "simplified"
	MethodSpecial20Pct Method = "special_20pct"
)

// Input is one year's consumption tax figures.
type Input struct {
	FiscalYear int
	Method     Method

	TaxableSales10 int64 // tax-included sales at the 10% rate
	TaxableSales8  int64 // tax-included sales at the reduced 8% rate

	// Standard method only.
	TaxablePurchases10 int64
	TaxablePurchases8  int64

	// Simplified method only; zero falls back to the default type.
	SimplifiedBusinessType int
}

// Result is the computed return.
type Result struct {
	FiscalYear     int    `json:"fiscal_year"`
	Method         Method `json:"method"`
	TaxableBase    int64  `json:"taxable_base"`
	OutputTax      int64  `json:"output_tax"`
	InputCredit    int64  `json:"input_credit"`
	NationalTaxDue int64  `json:"national_tax_due"`
	LocalSurtax    int64  `json:"local_surtax"`
	TotalDue       int64  `json:"total_due"`
}

// Engine computes consumption tax against one year's constant tables.
type Engine struct {
	c   *taxconst.Constants
	log zerolog.Logger
}

// NewEngine returns an engine bound to the given constant set.
func NewEngine(c *taxconst.Constants, logger zerolog.Logger) *Engine {
	return &Engine{
		c:   c,
		log: logger.With().Str("component", "consumptiontax").Logger(),
	}
}

// outputTax extracts the consumption tax portion from tax-included sales.
func (e *Engine) outputTax(sales10, sales8 int64) int64 {
	ct := e.c.ConsumptionTax
	var tax int64
	if sales10 > 0 {
		tax += sales10 * ct.StandardRateNum / ct.StandardRateDen
	}
	if sales8 > 0 {
		tax += sales8 * ct.ReducedRateNum / ct.ReducedRateDen
	}
	return tax
}

// Calculate computes the return for the selected regime.
func (e *Engine) Calculate(in Input) (Result, error) {
	ct := e.c.ConsumptionTax

	output := e.outputTax(in.TaxableSales10, in.TaxableSales8)
	var credit int64

	switch in.Method {
	case MethodSpecial20Pct:
		// Tax due is 20% of the output tax; the rest is a deemed credit.
		due := output * ct.Special20PctRate / 100
		credit = output - due

	case MethodSimplified:
		businessType := in.SimplifiedBusinessType
		if businessType == 0 {
			businessType = ct.DefaultBusinessType
		}
		ratio, ok := ct.SimplifiedDeemedRates[businessType]
		if !ok {
			ratio = ct.SimplifiedDeemedRates[ct.DefaultBusinessType]
			e.log.Warn().
				Int("business_type", businessType).
				Int64("deemed_ratio", ratio).
				Msg("unknown simplified business type, using default deemed ratio")
		}
		credit = output * ratio / 100

	case MethodStandard:
		credit = e.outputTax(in.TaxablePurchases10, in.TaxablePurchases8)

	default:
		return Result{}, fmt.Errorf("unknown consumption tax method %q", in.Method)
	}

	netDue := output - credit

	// National share is 7.8 of the 10 points, the rest is the local
	// consumption tax computed from the national amount. Both truncate
	// to 100 yen.
	national := max(0, netDue*ct.NationalRatioPercent/100)
	national = national / ct.RoundingUnit * ct.RoundingUnit
	local := national * ct.LocalRatioNum / ct.LocalRatioDen
	local = local / ct.RoundingUnit * ct.RoundingUnit

	return Result{
		FiscalYear:     in.FiscalYear,
		Method:         in.Method,
		TaxableBase:    in.TaxableSales10 + in.TaxableSales8,
		OutputTax:      output,
		InputCredit:    credit,
		NationalTaxDue: national,
		LocalSurtax:    local,
		TotalDue:       national + local,
	}, nil
}

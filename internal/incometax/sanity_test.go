package incometax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findingCodes(report SanityReport) []string {
	codes := make([]string, 0, len(report.Findings))
	for _, f := range report.Findings {
		codes = append(codes, f.Code)
	}
	return codes
}

func TestSanityCheckCleanReturn(t *testing.T) {
	e := newTestEngine(t)

	in := Input{
		FiscalYear:          2025,
		Salary:              6000000,
		WithheldTax:         466800,
		BusinessRevenue:     3000000,
		BlueReturnDeduction: 650000,
	}
	report := e.SanityCheck(in, e.Calculate(in))
	assert.True(t, report.Passed)
	assert.Empty(t, report.Findings)
}

func TestSanityCheckMissingWithholding(t *testing.T) {
	e := newTestEngine(t)

	in := Input{FiscalYear: 2025, Salary: 6000000}
	report := e.SanityCheck(in, e.Calculate(in))
	// A warning only, so the check still passes.
	assert.True(t, report.Passed)
	assert.Equal(t, 1, report.WarningCount)
	assert.Contains(t, findingCodes(report), "NO_WITHHOLDING_ON_SALARY")
}

func TestSanityCheckLargeBusinessLoss(t *testing.T) {
	e := newTestEngine(t)

	in := Input{
		FiscalYear:       2025,
		Salary:           6000000,
		WithheldTax:      466800,
		BusinessRevenue:  1000000,
		BusinessExpenses: 13000000,
	}
	report := e.SanityCheck(in, e.Calculate(in))
	codes := findingCodes(report)
	assert.Contains(t, codes, "LARGE_BUSINESS_LOSS")
	assert.Contains(t, codes, "NEGATIVE_TOTAL_INCOME")
	// Warning and info only.
	assert.True(t, report.Passed)
}

func TestSanityCheckCreditsExceedTax(t *testing.T) {
	e := newTestEngine(t)

	in := Input{
		FiscalYear:          2025,
		Salary:              3000000,
		WithheldTax:         50000,
		HousingLoanBalance:  45000000,
		BlueReturnDeduction: 0,
	}
	r := e.Calculate(in)
	require.Greater(t, r.TotalTaxCredits, r.IncomeTaxBase)

	report := e.SanityCheck(in, r)
	assert.Contains(t, findingCodes(report), "CREDITS_EXCEED_TAX")
	assert.True(t, report.Passed)
}

func TestSanityCheckTamperedResults(t *testing.T) {
	e := newTestEngine(t)

	in := Input{
		FiscalYear:          2025,
		Salary:              6000000,
		WithheldTax:         466800,
		BusinessRevenue:     3000000,
		BlueReturnDeduction: 650000,
	}
	r := e.Calculate(in)

	tampered := r
	tampered.TaxableIncome = r.TaxableIncome + 500
	report := e.SanityCheck(in, tampered)
	assert.False(t, report.Passed)
	assert.Contains(t, findingCodes(report), "TAXABLE_INCOME_ROUNDING")

	tampered = r
	tampered.ReconstructionSurtax = r.ReconstructionSurtax + 1
	report = e.SanityCheck(in, tampered)
	assert.False(t, report.Passed)
	assert.Contains(t, findingCodes(report), "RECONSTRUCTION_TAX_MISMATCH")

	tampered = r
	tampered.TaxableIncome = 0
	report = e.SanityCheck(in, tampered)
	assert.Contains(t, findingCodes(report), "TAX_ON_ZERO_INCOME")

	tampered = r
	tampered.TaxDue = -500000
	report = e.SanityCheck(in, tampered)
	assert.False(t, report.Passed)
	assert.Contains(t, findingCodes(report), "REFUND_EXCEEDS_WITHHELD")

	tampered = r
	tampered.EffectiveBlueDeduction = 4000000
	report = e.SanityCheck(in, tampered)
	assert.Contains(t, findingCodes(report), "BLUE_DEDUCTION_EXCEEDS_PROFIT")
}

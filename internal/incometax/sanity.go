package incometax

import "fmt"

// Severity grades a sanity check finding.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Finding is one sanity check result.
type Finding struct {
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`
}

// SanityReport is the outcome of a pre-filing consistency pass. Passed is
// true when no error-grade finding was raised.
type SanityReport struct {
	Passed       bool      `json:"passed"`
	Findings     []Finding `json:"findings"`
	ErrorCount   int       `json:"error_count"`
	WarningCount int       `json:"warning_count"`
}

// SanityCheck cross-validates a computed return against its input and
// flags anything a filer should look at before submitting. Findings are
// reported, never auto-corrected.
func (e *Engine) SanityCheck(in Input, r Result) SanityReport {
	var findings []Finding
	add := func(severity Severity, code, message string) {
		findings = append(findings, Finding{Severity: severity, Code: code, Message: message})
	}

	profit := in.BusinessRevenue - in.BusinessExpenses

	if profit < 0 && r.EffectiveBlueDeduction > 0 {
		add(SeverityError, "BLUE_DEDUCTION_ON_LOSS", fmt.Sprintf(
			"事業が赤字（%d円）にもかかわらず青色申告特別控除%d円が適用されています",
			profit, r.EffectiveBlueDeduction))
	}

	if profit > 0 && r.EffectiveBlueDeduction > profit {
		add(SeverityError, "BLUE_DEDUCTION_EXCEEDS_PROFIT", fmt.Sprintf(
			"青色申告特別控除（%d円）が事業利益（%d円）を超過しています",
			r.EffectiveBlueDeduction, profit))
	}

	if r.BusinessIncome < -10_000_000 {
		add(SeverityWarning, "LARGE_BUSINESS_LOSS", fmt.Sprintf(
			"事業損失が%d円と大きい値です。入力を確認してください", r.BusinessIncome))
	}

	if r.TaxableIncome == 0 && r.IncomeTaxBase > 0 {
		add(SeverityError, "TAX_ON_ZERO_INCOME", "課税所得が0円ですが算出税額が発生しています")
	}

	if totalRaw := r.SalaryIncome + r.BusinessIncome; totalRaw < 0 {
		add(SeverityInfo, "NEGATIVE_TOTAL_INCOME", fmt.Sprintf(
			"損益通算後の合計所得が負（%d円）です。純損失の繰越控除の適用を検討してください", totalRaw))
	}

	if r.TaxableIncome > 0 && r.TaxableIncome%e.c.IncomeTax.TaxableRoundingUnit != 0 {
		add(SeverityError, "TAXABLE_INCOME_ROUNDING", fmt.Sprintf(
			"課税所得（%d円）が%d円単位になっていません",
			r.TaxableIncome, e.c.IncomeTax.TaxableRoundingUnit))
	}

	if expected := r.IncomeTaxAfterCredits * e.c.IncomeTax.SurtaxPermille / 1000; r.ReconstructionSurtax != expected {
		add(SeverityError, "RECONSTRUCTION_TAX_MISMATCH", fmt.Sprintf(
			"復興特別所得税の計算が不一致です（実際: %d円、期待: %d円）",
			r.ReconstructionSurtax, expected))
	}

	if r.IncomeTaxBase > 0 && r.TotalTaxCredits > r.IncomeTaxBase {
		add(SeverityWarning, "CREDITS_EXCEED_TAX", fmt.Sprintf(
			"税額控除（%d円）が算出税額（%d円）を超過しています",
			r.TotalTaxCredits, r.IncomeTaxBase))
	}

	if in.Salary > 0 && in.WithheldTax == 0 {
		add(SeverityWarning, "NO_WITHHOLDING_ON_SALARY", fmt.Sprintf(
			"給与収入（%d円）がありますが源泉徴収税額が0円です。源泉徴収票を確認してください", in.Salary))
	}

	prepaid := in.WithheldTax + in.BusinessWithheld + in.OtherWithheld + in.EstimatedTaxPaid
	if r.TaxDue < 0 && -r.TaxDue > prepaid {
		add(SeverityError, "REFUND_EXCEEDS_WITHHELD", fmt.Sprintf(
			"還付額（%d円）が源泉徴収+予定納税の合計（%d円）を超過しています", -r.TaxDue, prepaid))
	}

	report := SanityReport{Findings: findings}
	for _, f := range findings {
		switch f.Severity {
		case SeverityError:
			report.ErrorCount++
		case SeverityWarning:
			report.WarningCount++
		}
	}
	report.Passed = report.ErrorCount == 0
	return report
}

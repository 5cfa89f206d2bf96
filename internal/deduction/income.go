package deduction

import "github.com/aoiro-dev/aoiro/internal/taxconst"

// SalaryDeductionAmount returns the employment income deduction for a gross
// salary (給与所得控除, 令和7年改正).
func (e *Engine) SalaryDeductionAmount(salary int64) int64 {
	if salary <= 0 {
		return 0
	}
	d := taxconst.ApplyRateTable(e.c.SalaryDeduction.Brackets, salary, e.c.SalaryDeduction.Maximum)
	d = max(d, e.c.SalaryDeduction.Minimum)
	return min(d, max(salary, 0))
}

// SalaryIncome converts a gross salary into employment income.
func (e *Engine) SalaryIncome(salary int64) int64 {
	return max(0, salary-e.SalaryDeductionAmount(salary))
}

// BasicDeduction returns the basic deduction for the taxpayer's total
// income (基礎控除, 令和7年改正).
func (e *Engine) BasicDeduction(totalIncome int64) int64 {
	return taxconst.LookupAmount(e.c.BasicDeduction, totalIncome)
}

// PensionIncome is the outcome of the public pension deduction.
type PensionIncome struct {
	Pension               int64 `json:"pension_income"`
	Deduction             int64 `json:"deduction_amount"`
	TaxableIncome         int64 `json:"taxable_pension_income"`
	OtherIncomeAdjustment int64 `json:"other_income_adjustment"`
}

// PensionDeduction applies the public pension deduction table
// (公的年金等控除, 所得税法第35条). otherIncome is the taxpayer's income
// apart from public pensions, which reduces the deduction above 10M yen.
func (e *Engine) PensionDeduction(pension int64, over65 bool, otherIncome int64) PensionIncome {
	if pension <= 0 {
		return PensionIncome{}
	}

	p := e.c.PensionDeduction
	table, maxDeduction := p.Under65, p.Under65Max
	if over65 {
		table, maxDeduction = p.Over65, p.Over65Max
	}
	deduction := taxconst.ApplyRateTable(table, pension, maxDeduction)

	var adjust int64
	switch {
	case otherIncome > p.OtherIncomeThreshold2:
		adjust = p.OtherIncomeAdjust2
	case otherIncome > p.OtherIncomeThreshold1:
		adjust = p.OtherIncomeAdjust1
	}
	deduction = max(0, deduction-adjust)

	return PensionIncome{
		Pension:               pension,
		Deduction:             deduction,
		TaxableIncome:         max(0, pension-deduction),
		OtherIncomeAdjustment: adjust,
	}
}

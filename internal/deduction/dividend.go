package deduction

// DividendCredit returns the dividend tax credit for comprehensively taxed
// dividends (配当控除): 10% of the dividend, dropping to 5% for the part
// that sits above 10M yen of taxable income.
func (e *Engine) DividendCredit(dividend, taxableIncome int64) int64 {
	if dividend <= 0 || taxableIncome <= 0 {
		return 0
	}
	d := e.c.DividendCredit
	if taxableIncome <= d.Threshold {
		return dividend * d.RateHighPercent / 100
	}
	underThreshold := max(0, d.Threshold-(taxableIncome-dividend))
	overThreshold := dividend - underThreshold
	return underThreshold*d.RateHighPercent/100 + overThreshold*d.RateLowPercent/100
}

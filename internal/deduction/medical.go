package deduction

// medicalThreshold is the deductible floor: 100,000 yen or 5% of total
// income, whichever is lower.
func (e *Engine) medicalThreshold(totalIncome int64) int64 {
	return min(e.c.Medical.ThresholdMax, totalIncome*e.c.Medical.ThresholdIncomeRatePercent/100)
}

// MedicalDeduction returns the medical expense deduction (医療費控除).
// expenses must already be net of insurance reimbursements.
func (e *Engine) MedicalDeduction(totalIncome, expenses int64) int64 {
	threshold := e.medicalThreshold(totalIncome)
	if expenses <= threshold {
		return 0
	}
	return min(expenses-threshold, e.c.Medical.Cap)
}

// SelfMedicationDeduction returns the self-medication special deduction
// (セルフメディケーション税制), mutually exclusive with MedicalDeduction.
func (e *Engine) SelfMedicationDeduction(expenses int64) int64 {
	if expenses <= e.c.Medical.SelfMedicationThreshold {
		return 0
	}
	return min(expenses-e.c.Medical.SelfMedicationThreshold, e.c.Medical.SelfMedicationCap)
}

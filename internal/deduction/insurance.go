package deduction

import "github.com/aoiro-dev/aoiro/internal/taxconst"

// LifeInsuranceInput carries premium totals by contract category.
// New-system contracts are those signed 2012 or later.
type LifeInsuranceInput struct {
	GeneralNew  int64
	GeneralOld  int64
	MedicalCare int64
	AnnuityNew  int64
	AnnuityOld  int64
}

func (e *Engine) lifeNewDeduction(premium int64) int64 {
	if premium <= 0 {
		return 0
	}
	return taxconst.ApplyRateTable(e.c.Insurance.LifeNew, premium, e.c.Insurance.LifeNewMax)
}

func (e *Engine) lifeOldDeduction(premium int64) int64 {
	if premium <= 0 {
		return 0
	}
	return taxconst.ApplyRateTable(e.c.Insurance.LifeOld, premium, e.c.Insurance.LifeOldMax)
}

// lifeCategoryDeduction combines new and old contracts within one category.
// With both present the taxpayer takes whichever is larger: either system
// alone, or the combined amount capped at the shared limit.
func (e *Engine) lifeCategoryDeduction(newPremium, oldPremium int64) int64 {
	dn := e.lifeNewDeduction(newPremium)
	do := e.lifeOldDeduction(oldPremium)
	if newPremium > 0 && oldPremium > 0 {
		combined := min(dn+do, e.c.Insurance.LifeCombinedCap)
		return max(max(dn, do), combined)
	}
	return max(dn, do)
}

// LifeInsurance returns the life insurance premium deduction across the
// three categories (生命保険料控除, 所得税法第76条).
func (e *Engine) LifeInsurance(in LifeInsuranceInput) int64 {
	total := e.lifeCategoryDeduction(in.GeneralNew, in.GeneralOld) +
		e.lifeNewDeduction(in.MedicalCare) +
		e.lifeCategoryDeduction(in.AnnuityNew, in.AnnuityOld)
	return min(total, e.c.Insurance.LifeTotalCap)
}

// EarthquakeInsurance returns the earthquake insurance premium deduction
// including the old long-term damage insurance transitional rule
// (地震保険料控除, 所得税法第77条).
func (e *Engine) EarthquakeInsurance(earthquakePremium, oldLongTermPremium int64) int64 {
	var total int64
	if earthquakePremium > 0 {
		total += min(earthquakePremium, e.c.Insurance.EarthquakeCap)
	}
	if oldLongTermPremium > 0 {
		total += taxconst.ApplyRateTable(e.c.Insurance.OldLongTerm, oldLongTermPremium, e.c.Insurance.OldLongTermMax)
	}
	return min(total, e.c.Insurance.EarthquakeTotalCap)
}

package deduction

import (
	"fmt"
	"strconv"

	"github.com/aoiro-dev/aoiro/internal/model"
	"github.com/aoiro-dev/aoiro/internal/taxconst"
)

// ageAtYearEnd returns the age on December 31 of the fiscal year. A
// malformed birth date yields -1, which fails every age test.
func ageAtYearEnd(birthDate string, fiscalYear int) int {
	if len(birthDate) < 4 {
		return -1
	}
	birthYear, err := strconv.Atoi(birthDate[:4])
	if err != nil {
		return -1
	}
	return fiscalYear - birthYear
}

// SpouseDeduction returns the spouse deduction or special spouse deduction
// (配偶者控除・配偶者特別控除). The table is selected by the taxpayer's own
// income band; above the limit no deduction applies.
func (e *Engine) SpouseDeduction(taxpayerIncome int64, spouse *model.Spouse) int64 {
	if spouse == nil {
		return 0
	}
	s := e.c.SpouseDeduction
	if taxpayerIncome > s.TaxpayerIncomeLimit {
		return 0
	}
	table := s.Table1
	switch {
	case taxpayerIncome <= s.TaxpayerBracket1:
		table = s.Table1
	case taxpayerIncome <= s.TaxpayerBracket2:
		table = s.Table2
	default:
		table = s.Table3
	}
	return taxconst.LookupAmount(table, spouse.Income)
}

// DependentDeductions returns the deduction items earned by the declared
// dependents: the dependent deduction by age class, the specific-age
// relative special deduction, and the disability deduction
// (扶養控除・特定親族特別控除・障害者控除).
func (e *Engine) DependentDeductions(fiscalYear int, dependents []model.Dependent) []Item {
	d := e.c.DependentDeduction
	var items []Item

	for _, dep := range dependents {
		// Claimed on another taxpayer's return, or handled by the
		// spouse deduction.
		if dep.OtherTaxpayerDependent || dep.Relationship == "配偶者" {
			continue
		}

		age := ageAtYearEnd(dep.BirthDate, fiscalYear)
		specificAge := age >= d.SpecificMinAge && age <= d.SpecificMaxAge

		if specificAge {
			if dep.Income > d.SpecificIncomeLimit {
				continue
			}
		} else if dep.Income > d.IncomeLimit {
			continue
		}

		switch {
		case age >= d.ElderlyMinAge:
			if dep.Cohabiting {
				items = append(items, Item{
					Type: "dependent", Name: "扶養控除",
					Amount:  d.ElderlyCohabiting,
					Details: dep.Name + "（老人扶養・同居）",
				})
			} else {
				items = append(items, Item{
					Type: "dependent", Name: "扶養控除",
					Amount:  d.ElderlySeparate,
					Details: dep.Name + "（老人扶養・別居）",
				})
			}
		case specificAge:
			if dep.Income <= d.IncomeLimit {
				items = append(items, Item{
					Type: "dependent", Name: "扶養控除",
					Amount:  d.Specific,
					Details: dep.Name + "（特定扶養）",
				})
			} else if amount := taxconst.LookupAmount(d.SpecificRelativeTable, dep.Income); amount > 0 {
				items = append(items, Item{
					Type: "specific_relative_special", Name: "特定親族特別控除",
					Amount:  amount,
					Details: fmt.Sprintf("%s（所得%d円）", dep.Name, dep.Income),
				})
			}
		case age >= d.MinAge:
			items = append(items, Item{
				Type: "dependent", Name: "扶養控除",
				Amount:  d.General,
				Details: dep.Name + "（一般扶養）",
			})
		}

		switch dep.Disability {
		case model.DisabilitySpecialCohabiting:
			items = append(items, Item{
				Type: "disability", Name: "障害者控除",
				Amount:  d.DisabilitySpecialCohabiting,
				Details: dep.Name + "（同居特別障害者）",
			})
		case model.DisabilitySpecial:
			items = append(items, Item{
				Type: "disability", Name: "障害者控除",
				Amount:  d.DisabilitySpecial,
				Details: dep.Name + "（特別障害者）",
			})
		case model.DisabilityGeneral:
			items = append(items, Item{
				Type: "disability", Name: "障害者控除",
				Amount:  d.DisabilityGeneral,
				Details: dep.Name + "（一般障害者）",
			})
		}
	}

	return items
}

// WidowStatus values accepted by WidowDeduction.
const (
	WidowNone         = "none"
	WidowWidow        = "widow"
	WidowSingleParent = "single_parent"
)

// WidowDeduction returns the widow or single-parent deduction
// (寡婦控除・ひとり親控除), both gated on the taxpayer's income.
func (e *Engine) WidowDeduction(status string, totalIncome int64) int64 {
	if totalIncome > e.c.PersonalDeduction.WidowIncomeLimit {
		return 0
	}
	switch status {
	case WidowWidow:
		return e.c.PersonalDeduction.Widow
	case WidowSingleParent:
		return e.c.PersonalDeduction.SingleParent
	}
	return 0
}

// SelfDisabilityDeduction returns the taxpayer's own disability deduction.
// The cohabiting grade only exists for dependents, so it maps to special.
func (e *Engine) SelfDisabilityDeduction(status model.DisabilityStatus) int64 {
	switch status {
	case model.DisabilityGeneral:
		return e.c.PersonalDeduction.DisabilityGeneral
	case model.DisabilitySpecial, model.DisabilitySpecialCohabiting:
		return e.c.PersonalDeduction.DisabilitySpecial
	}
	return 0
}

// WorkingStudentDeduction returns the working student deduction
// (勤労学生控除), gated on the student's own income.
func (e *Engine) WorkingStudentDeduction(isWorkingStudent bool, totalIncome int64) int64 {
	if !isWorkingStudent || totalIncome > e.c.PersonalDeduction.WorkingStudentIncomeLimit {
		return 0
	}
	return e.c.PersonalDeduction.WorkingStudent
}

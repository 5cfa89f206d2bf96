package deduction

import (
	"strconv"

	"github.com/aoiro-dev/aoiro/internal/model"
	"github.com/aoiro-dev/aoiro/internal/taxconst"
)

func lookupHousingLimit(limits []taxconst.HousingLoanLimit, category string, newConstruction bool) int64 {
	for _, l := range limits {
		if l.Category == category && l.NewConstruction == newConstruction {
			return l.Limit
		}
	}
	return 0
}

// HousingLoanCredit returns the housing loan tax credit (住宅ローン控除):
// 0.7% of the year-end balance, capped by housing category, move-in year
// band and household class. Without detail the balance is used uncapped.
func (e *Engine) HousingLoanCredit(balance int64, detail *model.HousingLoanDetail) int64 {
	h := e.c.HousingLoan
	if detail == nil {
		if balance <= 0 {
			return 0
		}
		return balance * h.RatePermille / 1000
	}

	if detail.YearEndBalance <= 0 {
		return 0
	}

	moveInYear := 0
	if len(detail.MoveInDate) >= 4 {
		moveInYear, _ = strconv.Atoi(detail.MoveInDate[:4])
	}

	limits := h.LimitsR6R7
	if moveInYear <= h.R4R5CutoffYear {
		limits = h.LimitsR4R5
	} else if detail.IsChildcareHousehold {
		limits = h.LimitsR6R7Childcare
	}

	limit := lookupHousingLimit(limits, detail.HousingCategory, detail.IsNewConstruction)

	// General new construction after the reduction keeps a 20M cap when
	// the building permit predates 2024.
	if limit == 0 && detail.HousingCategory == "general" &&
		detail.IsNewConstruction && detail.HasPreR6BuildingPermit {
		limit = h.PreR6PermitLimit
	}

	return min(detail.YearEndBalance, limit) * h.RatePermille / 1000
}

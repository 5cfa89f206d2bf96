// Package depreciation maintains the fixed asset register and computes
// yearly depreciation, posting the annual adjustment entry to the ledger.
package depreciation

import (
	"fmt"
	"strconv"

	"github.com/aoiro-dev/aoiro/internal/model"
	"github.com/aoiro-dev/aoiro/internal/taxconst"
)

// StraightLine returns one period's straight-line depreciation:
// (cost / useful_life) x business_use_ratio% x months/12, floored.
func StraightLine(cost int64, usefulLife, businessUseRatio, months int) int64 {
	if cost <= 0 || usefulLife <= 0 || businessUseRatio <= 0 || months <= 0 {
		return 0
	}
	annual := cost / int64(usefulLife)
	return annual * int64(businessUseRatio) * int64(months) / (100 * 12)
}

// DecliningBalance returns one period's declining-balance depreciation
// before the switch-over test: book_value x rate x ratio% x months/12.
// The rate is expressed per mille.
func DecliningBalance(bookValue, ratePermille int64, businessUseRatio, months int) int64 {
	if bookValue <= 0 || ratePermille <= 0 || businessUseRatio <= 0 || months <= 0 {
		return 0
	}
	return bookValue * ratePermille * int64(businessUseRatio) * int64(months) / (1000 * 100 * 12)
}

// YearAmount is one simulated year of an asset's depreciation schedule.
type YearAmount struct {
	FiscalYear  int   `json:"fiscal_year"`
	Months      int   `json:"months"`
	Amount      int64 `json:"amount"`
	OpeningBook int64 `json:"opening_book"`
	ClosingBook int64 `json:"closing_book"`
	// Set once the declining-balance amount falls below the guarantee
	// amount and the remaining book value amortizes on the revised rate.
	SwitchedToStraightLine bool `json:"switched_to_straight_line"`
}

func acquisitionYearMonth(date string) (int, int, error) {
	if len(date) < 7 {
		return 0, 0, fmt.Errorf("malformed acquisition date %q", date)
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil {
		return 0, 0, fmt.Errorf("malformed acquisition date %q", date)
	}
	month, err := strconv.Atoi(date[5:7])
	if err != nil || month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("malformed acquisition date %q", date)
	}
	return year, month, nil
}

// Schedule simulates an asset's depreciation from acquisition through the
// given fiscal year. The acquisition year counts the months from the
// acquisition month to December; later years are full.
func Schedule(c *taxconst.Constants, asset model.FixedAsset, throughYear int) ([]YearAmount, error) {
	acqYear, acqMonth, err := acquisitionYearMonth(asset.AcquisitionDate)
	if err != nil {
		return nil, err
	}
	if throughYear < acqYear {
		return nil, nil
	}

	var rate taxconst.DecliningBalanceRate
	if asset.Method == model.MethodDecliningBalance {
		found := false
		for _, r := range c.Depreciation.DecliningBalance {
			if r.UsefulLife == asset.UsefulLife {
				rate = r
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("no declining balance rate for useful life %d", asset.UsefulLife)
		}
	}

	memo := c.Depreciation.MemoValue
	guarantee := asset.AcquisitionCost * rate.GuaranteeRatePer100k / 100000

	var schedule []YearAmount
	var accumulated int64
	switched := false
	var revisedBase int64

	for year := acqYear; year <= throughYear; year++ {
		months := 12
		if year == acqYear {
			months = 12 - acqMonth + 1
		}
		book := asset.AcquisitionCost - accumulated

		var amount int64
		switch asset.Method {
		case model.MethodStraightLine:
			amount = StraightLine(asset.AcquisitionCost, asset.UsefulLife, asset.BusinessUseRatio, months)
			// Accumulated depreciation never exceeds the cost.
			amount = min(amount, book)

		case model.MethodDecliningBalance:
			// Once the theoretical full-year amount drops below the
			// guarantee amount, the remaining book value amortizes
			// evenly on the revised rate.
			if !switched && book*rate.RatePermille/1000 < guarantee {
				switched = true
				revisedBase = book
			}
			if switched {
				amount = DecliningBalance(revisedBase, rate.RevisedRatePermille, asset.BusinessUseRatio, months)
			} else {
				amount = DecliningBalance(book, rate.RatePermille, asset.BusinessUseRatio, months)
			}
			// A memo value stays on the books until disposal.
			amount = min(amount, book-memo)
			amount = max(amount, 0)

		default:
			return nil, fmt.Errorf("unknown depreciation method %q", asset.Method)
		}

		accumulated += amount
		schedule = append(schedule, YearAmount{
			FiscalYear:             year,
			Months:                 months,
			Amount:                 amount,
			OpeningBook:            book,
			ClosingBook:            asset.AcquisitionCost - accumulated,
			SwitchedToStraightLine: switched,
		})
	}

	return schedule, nil
}

package deduction

import "github.com/aoiro-dev/aoiro/internal/model"

// FurusatoDeduction returns the furusato nozei income deduction
// (所得税法第78条): min(donation, total income x 40%) - 2,000.
func (e *Engine) FurusatoDeduction(donation, totalIncome int64) int64 {
	d := e.c.Donation
	if donation <= d.Floor {
		return 0
	}
	capped := min(donation, totalIncome*d.IncomeCapRatePercent/100)
	if capped <= d.Floor {
		return 0
	}
	return capped - d.Floor
}

// DonationDeduction returns the income deduction for general donations,
// using the same floor and income cap as furusato nozei.
func (e *Engine) DonationDeduction(total, totalIncome int64) int64 {
	d := e.c.Donation
	if total <= d.Floor {
		return 0
	}
	return max(0, min(total, totalIncome*d.IncomeCapRatePercent/100)-d.Floor)
}

// PoliticalDonationCredit returns the tax credit for political donations
// (租税特別措置法第41条の18).
func (e *Engine) PoliticalDonationCredit(total int64) int64 {
	d := e.c.Donation
	if total <= d.Floor {
		return 0
	}
	return (total - d.Floor) * d.PoliticalCreditRate / 100
}

// NPODonationCredit returns the tax credit for certified NPO and public
// interest corporation donations (租税特別措置法第41条の18の2・3).
func (e *Engine) NPODonationCredit(total int64) int64 {
	d := e.c.Donation
	if total <= d.Floor {
		return 0
	}
	return (total - d.Floor) * d.NPOCreditRate / 100
}

// splitDonations sums donation records into the furusato group, the other
// income-deduction group, and the credit-eligible groups.
func splitDonations(records []model.DonationRecord) (furusato, other, political, npo int64) {
	for _, r := range records {
		switch r.Type {
		case model.DonationFurusato:
			furusato += r.Amount
		case model.DonationPolitical:
			political += r.Amount
			other += r.Amount
		case model.DonationNPO, model.DonationPublicInterest:
			npo += r.Amount
			other += r.Amount
		default:
			other += r.Amount
		}
	}
	return furusato, other, political, npo
}

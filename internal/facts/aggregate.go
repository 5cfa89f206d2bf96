package facts

import (
	"fmt"

	"github.com/aoiro-dev/aoiro/internal/deduction"
	"github.com/aoiro-dev/aoiro/internal/incometax"
	"github.com/aoiro-dev/aoiro/internal/model"
)

// Profile carries the taxpayer-level settings that live in configuration
// rather than the fact tables.
type Profile struct {
	BlueReturnDeduction    int64
	WidowStatus            string
	Disability             model.DisabilityStatus
	WorkingStudent         bool
	SelfMedicationEligible bool
	EstimatedTaxPaid       int64
}

// Assemble builds the income tax input for a year from the ledger and the
// stored facts. Business revenue and expenses come from the profit and
// loss statement, everything else from the fact tables.
func (s *Service) Assemble(year int, profile Profile) (incometax.Input, error) {
	in := incometax.Input{
		FiscalYear:             year,
		BlueReturnDeduction:    profile.BlueReturnDeduction,
		WidowStatus:            profile.WidowStatus,
		Disability:             profile.Disability,
		WorkingStudent:         profile.WorkingStudent,
		SelfMedicationEligible: profile.SelfMedicationEligible,
		EstimatedTaxPaid:       profile.EstimatedTaxPaid,
	}

	pl, err := s.journal.ProfitAndLoss(year)
	if err != nil {
		return incometax.Input{}, fmt.Errorf("assemble return facts: %w", err)
	}
	in.BusinessRevenue = pl.TotalRevenue
	in.BusinessExpenses = pl.TotalExpense

	slips, err := s.ListWithholdingSlips(year)
	if err != nil {
		return incometax.Input{}, err
	}
	for _, w := range slips {
		in.Salary += w.PaymentAmount
		in.WithheldTax += w.WithheldTax
		in.SocialInsurance += w.SocialInsurance
	}

	premiums, err := s.ListInsurance(year)
	if err != nil {
		return incometax.Input{}, err
	}
	for _, p := range premiums {
		switch p.Kind {
		case model.InsuranceSocial:
			in.SocialInsurance += p.Amount
		case model.InsuranceLifeNew:
			in.LifeInsurance.GeneralNew += p.Amount
		case model.InsuranceLifeOld:
			in.LifeInsurance.GeneralOld += p.Amount
		case model.InsuranceMedicalCare:
			in.LifeInsurance.MedicalCare += p.Amount
		case model.InsuranceAnnuityNew:
			in.LifeInsurance.AnnuityNew += p.Amount
		case model.InsuranceAnnuityOld:
			in.LifeInsurance.AnnuityOld += p.Amount
		case model.InsuranceEarthquake:
			in.EarthquakePremium += p.Amount
		case model.InsuranceOldLongTerm:
			in.OldLongTermPremium += p.Amount
		case model.InsuranceIdeco:
			in.IdecoContribution += p.Amount
		case model.InsuranceMutualAid:
			in.MutualAidContribution += p.Amount
		}
	}

	medical, err := s.ListMedicalExpenses(year)
	if err != nil {
		return incometax.Input{}, err
	}
	for _, m := range medical {
		in.MedicalExpenses += max(0, m.Amount-m.InsuranceReimbursement)
	}

	in.Donations, err = s.ListDonations(year)
	if err != nil {
		return incometax.Input{}, err
	}

	in.Spouse, err = s.GetSpouse(year)
	if err != nil {
		return incometax.Input{}, err
	}
	in.Dependents, err = s.ListDependents(year)
	if err != nil {
		return incometax.Input{}, err
	}

	in.HousingLoanDetail, err = s.GetHousingLoan(year)
	if err != nil {
		return incometax.Input{}, err
	}
	if in.HousingLoanDetail != nil {
		in.HousingLoanBalance = in.HousingLoanDetail.YearEndBalance
	}

	business, err := s.ListBusinessWithholding(year)
	if err != nil {
		return incometax.Input{}, err
	}
	for _, b := range business {
		in.BusinessWithheld += b.WithholdingTax
	}

	losses, err := s.ListLossCarryforward(year)
	if err != nil {
		return incometax.Input{}, err
	}
	for _, l := range losses {
		in.LossCarryforward += max(0, l.Amount-l.UsedAmount)
	}

	return in, nil
}

// DeductionInput narrows the assembled facts to what the standalone
// deduction listing needs, at the given total income.
func (s *Service) DeductionInput(year int, totalIncome int64, profile Profile) (deduction.Input, error) {
	in, err := s.Assemble(year, profile)
	if err != nil {
		return deduction.Input{}, err
	}
	return deduction.Input{
		FiscalYear:             year,
		TotalIncome:            totalIncome,
		SocialInsurance:        in.SocialInsurance,
		LifeInsurance:          in.LifeInsurance,
		EarthquakePremium:      in.EarthquakePremium,
		OldLongTermPremium:     in.OldLongTermPremium,
		IdecoContribution:      in.IdecoContribution,
		MutualAidContribution:  in.MutualAidContribution,
		MedicalExpenses:        in.MedicalExpenses,
		SelfMedicationExpenses: in.SelfMedicationExpenses,
		SelfMedicationEligible: in.SelfMedicationEligible,
		Furusato:               in.Furusato,
		Donations:              in.Donations,
		Spouse:                 in.Spouse,
		Dependents:             in.Dependents,
		WidowStatus:            in.WidowStatus,
		Disability:             in.Disability,
		WorkingStudent:         in.WorkingStudent,
		HousingLoanBalance:     in.HousingLoanBalance,
		HousingLoanDetail:      in.HousingLoanDetail,
	}, nil
}

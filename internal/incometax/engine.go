// Package incometax implements the individual income tax computation for a
// blue-return sole proprietor: income aggregation and loss offset, income
// deductions, the progressive tax table, tax credits, the reconstruction
// surtax and the final settlement against prepaid tax.
package incometax

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aoiro-dev/aoiro/internal/deduction"
	"github.com/aoiro-dev/aoiro/internal/model"
	"github.com/aoiro-dev/aoiro/internal/taxconst"
)

// Input is the full fact set for one year's income tax return.
type Input struct {
	FiscalYear int

	Salary      int64
	WithheldTax int64

	BusinessRevenue     int64
	BusinessExpenses    int64
	BlueReturnDeduction int64
	BusinessWithheld    int64

	MiscIncome       int64
	PublicPension    int64 // gross public pension receipts
	PensionOver65    bool
	DividendIncome   int64 // comprehensively taxed dividends
	OneTimeIncome    int64 // revenue minus expenses, before the special deduction
	OtherWithheld    int64
	EstimatedTaxPaid int64
	LossCarryforward int64

	SocialInsurance        int64
	LifeInsurance          deduction.LifeInsuranceInput
	EarthquakePremium      int64
	OldLongTermPremium     int64
	IdecoContribution      int64
	MutualAidContribution  int64
	MedicalExpenses        int64
	SelfMedicationExpenses int64
	SelfMedicationEligible bool
	Furusato               int64
	Donations              []model.DonationRecord
	Spouse                 *model.Spouse
	Dependents             []model.Dependent
	WidowStatus            string
	Disability             model.DisabilityStatus
	WorkingStudent         bool
	HousingLoanBalance     int64
	HousingLoanDetail      *model.HousingLoanDetail
}

// Result is the computed return, following the form's line ordering.
type Result struct {
	FiscalYear              int              `json:"fiscal_year"`
	SalaryIncome            int64            `json:"salary_income_after_deduction"`
	BusinessIncome          int64            `json:"business_income"`
	PensionIncome           int64            `json:"taxable_pension_income"`
	EffectiveBlueDeduction  int64            `json:"effective_blue_return_deduction"`
	TotalIncome             int64            `json:"total_income"`
	LossCarryforwardApplied int64            `json:"loss_carryforward_applied"`
	TotalIncomeDeductions   int64            `json:"total_income_deductions"`
	TaxableIncome           int64            `json:"taxable_income"`
	IncomeTaxBase           int64            `json:"income_tax_base"`
	DividendCredit          int64            `json:"dividend_credit"`
	HousingLoanCredit       int64            `json:"housing_loan_credit"`
	TotalTaxCredits         int64            `json:"total_tax_credits"`
	IncomeTaxAfterCredits   int64            `json:"income_tax_after_credits"`
	ReconstructionSurtax    int64            `json:"reconstruction_surtax"`
	TotalTax                int64            `json:"total_tax"`
	WithheldTax             int64            `json:"withheld_tax"`
	BusinessWithheldTax     int64            `json:"business_withheld_tax"`
	EstimatedTaxPayment     int64            `json:"estimated_tax_payment"`
	TaxDue                  int64            `json:"tax_due"`
	Deductions              deduction.Result `json:"deductions"`
	Warnings                []string         `json:"warnings,omitempty"`
}

// Engine computes income tax returns against one year's constant tables.
type Engine struct {
	c          *taxconst.Constants
	deductions *deduction.Engine
	log        zerolog.Logger
}

// NewEngine returns an engine bound to the given constant set.
func NewEngine(c *taxconst.Constants, logger zerolog.Logger) *Engine {
	return &Engine{
		c:          c,
		deductions: deduction.NewEngine(c),
		log:        logger.With().Str("component", "incometax").Logger(),
	}
}

func floorTo(v, unit int64) int64 {
	if unit <= 0 {
		return v
	}
	return v / unit * unit
}

// taxFromTable applies the progressive quick-calculation table.
func (e *Engine) taxFromTable(taxableIncome int64) int64 {
	if taxableIncome <= 0 {
		return 0
	}
	for _, b := range e.c.IncomeTax.Brackets {
		if b.Upper == 0 || taxableIncome <= b.Upper {
			return taxableIncome*b.RatePercent/100 - b.Subtraction
		}
	}
	return 0
}

// Calculate runs the full return computation.
func (e *Engine) Calculate(in Input) Result {
	var warnings []string

	// Employment income.
	salaryIncome := e.deductions.SalaryIncome(in.Salary)

	// Business income. The blue return special deduction is capped at the
	// business profit (租税特別措置法第25条の2); a loss passes through
	// undiminished for offset against other income.
	profit := in.BusinessRevenue - in.BusinessExpenses
	blueDeduction := min(in.BlueReturnDeduction, max(0, profit))
	if blueDeduction < in.BlueReturnDeduction {
		warnings = append(warnings, fmt.Sprintf(
			"青色申告特別控除を自動調整しました: %d円 → %d円（事業利益 %d円が上限）",
			in.BlueReturnDeduction, blueDeduction, profit))
		e.log.Warn().
			Int64("declared", in.BlueReturnDeduction).
			Int64("effective", blueDeduction).
			Int64("business_profit", profit).
			Msg("blue return deduction capped at business profit")
	}
	businessIncome := profit - blueDeduction

	// Aggregate income, including miscellaneous, comprehensive dividend
	// and halved one-time income. Public pensions join miscellaneous income
	// after the pension deduction, which itself depends on the other income.
	oneTime := max(0, in.OneTimeIncome-e.c.IncomeTax.OneTimeSpecialDeduction) / 2
	otherIncome := salaryIncome + businessIncome + in.MiscIncome + in.DividendIncome + oneTime
	pension := e.deductions.PensionDeduction(in.PublicPension, in.PensionOver65, max(0, otherIncome))
	totalIncomeRaw := otherIncome + pension.TaxableIncome

	// Prior-year losses offset positive income only.
	var lossApplied int64
	if in.LossCarryforward > 0 && totalIncomeRaw > 0 {
		lossApplied = min(in.LossCarryforward, totalIncomeRaw)
		totalIncomeRaw -= lossApplied
	}
	totalIncome := max(0, totalIncomeRaw)

	deductions := e.deductions.Calculate(deduction.Input{
		FiscalYear:             in.FiscalYear,
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
	})

	// Taxable income truncates to 1,000 yen.
	taxableIncome := floorTo(max(0, totalIncome-deductions.TotalIncomeDeductions),
		e.c.IncomeTax.TaxableRoundingUnit)
	taxBase := e.taxFromTable(taxableIncome)

	// The dividend credit needs the taxable income, so it joins the
	// credit list here rather than in the deduction pass.
	if divCredit := e.deductions.DividendCredit(in.DividendIncome, taxableIncome); divCredit > 0 {
		deductions.TaxCredits = append(deductions.TaxCredits,
			deduction.Item{Type: "dividend", Name: "配当控除", Amount: divCredit})
		deductions.TotalTaxCredits += divCredit
	}

	afterCredits := max(0, taxBase-deductions.TotalTaxCredits)

	// Reconstruction surtax, 2.1% truncated to the yen, then the filing
	// total truncated to 100 yen (国税通則法第119条).
	surtax := afterCredits * e.c.IncomeTax.SurtaxPermille / 1000
	totalTax := floorTo(afterCredits+surtax, e.c.IncomeTax.TaxRoundingUnit)

	// Settlement: payable amounts truncate to 100 yen, refunds keep yen
	// precision (国税通則法第120条).
	prepaid := in.WithheldTax + in.BusinessWithheld + in.OtherWithheld + in.EstimatedTaxPaid
	taxDue := totalTax - prepaid
	if taxDue > 0 {
		taxDue = floorTo(taxDue, e.c.IncomeTax.TaxRoundingUnit)
	}

	var dividendCredit, housingCredit int64
	for _, tc := range deductions.TaxCredits {
		switch tc.Type {
		case "dividend":
			dividendCredit += tc.Amount
		case "housing_loan":
			housingCredit += tc.Amount
		}
	}

	return Result{
		FiscalYear:              in.FiscalYear,
		SalaryIncome:            salaryIncome,
		BusinessIncome:          businessIncome,
		PensionIncome:           pension.TaxableIncome,
		EffectiveBlueDeduction:  blueDeduction,
		TotalIncome:             totalIncome,
		LossCarryforwardApplied: lossApplied,
		TotalIncomeDeductions:   deductions.TotalIncomeDeductions,
		TaxableIncome:           taxableIncome,
		IncomeTaxBase:           taxBase,
		DividendCredit:          dividendCredit,
		HousingLoanCredit:       housingCredit,
		TotalTaxCredits:         deductions.TotalTaxCredits,
		IncomeTaxAfterCredits:   afterCredits,
		ReconstructionSurtax:    surtax,
		TotalTax:                totalTax,
		WithheldTax:             in.WithheldTax,
		BusinessWithheldTax:     in.BusinessWithheld,
		EstimatedTaxPayment:     in.EstimatedTaxPaid,
		TaxDue:                  taxDue,
		Deductions:              deductions,
		Warnings:                warnings,
	}
}

package deduction

import (
	"fmt"

	"github.com/aoiro-dev/aoiro/internal/model"
)

// Input carries everything the aggregate deduction pass needs. Amounts
// default to zero, pointers to absent.
type Input struct {
	FiscalYear             int
	TotalIncome            int64
	SocialInsurance        int64
	LifeInsurance          LifeInsuranceInput
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
	DividendIncome         int64
	TaxableForDividend     int64
}

// Calculate evaluates every applicable income deduction and tax credit
// for the given facts and returns them as itemized lists.
func (e *Engine) Calculate(in Input) Result {
	var deductions, credits []Item

	addDeduction := func(typ, name string, amount int64, details string) {
		if amount > 0 {
			deductions = append(deductions, Item{Type: typ, Name: name, Amount: amount, Details: details})
		}
	}
	addCredit := func(typ, name string, amount int64, details string) {
		if amount > 0 {
			credits = append(credits, Item{Type: typ, Name: name, Amount: amount, Details: details})
		}
	}

	addDeduction("basic", "基礎控除", e.BasicDeduction(in.TotalIncome), "")
	addDeduction("social_insurance", "社会保険料控除", in.SocialInsurance, "")
	addDeduction("life_insurance", "生命保険料控除", e.LifeInsurance(in.LifeInsurance), "")
	addDeduction("earthquake_insurance", "地震保険料控除",
		e.EarthquakeInsurance(in.EarthquakePremium, in.OldLongTermPremium), "")

	if mutualAid := in.IdecoContribution + in.MutualAidContribution; mutualAid > 0 {
		details := ""
		switch {
		case in.IdecoContribution > 0 && in.MutualAidContribution > 0:
			details = fmt.Sprintf("iDeCo: %d, 共済: %d", in.IdecoContribution, in.MutualAidContribution)
		case in.IdecoContribution > 0:
			details = "iDeCo"
		default:
			details = "小規模企業共済"
		}
		addDeduction("small_business_mutual_aid", "小規模企業共済等掛金控除", mutualAid, details)
	}

	// Medical expense deduction and the self-medication special are
	// mutually exclusive; take whichever yields more.
	medical := e.MedicalDeduction(in.TotalIncome, in.MedicalExpenses)
	if in.SelfMedicationEligible {
		if selfMed := e.SelfMedicationDeduction(in.SelfMedicationExpenses); selfMed > medical {
			addDeduction("self_medication", "セルフメディケーション税制", selfMed, "")
			medical = 0
		}
	}
	addDeduction("medical", "医療費控除", medical, "")

	recordedFurusato, otherDonations, political, npo := splitDonations(in.Donations)
	addDeduction("furusato_nozei", "寄附金控除",
		e.FurusatoDeduction(in.Furusato+recordedFurusato, in.TotalIncome), "ふるさと納税")
	if otherDonations > 0 {
		addDeduction("donation", "寄附金控除（その他）",
			e.DonationDeduction(otherDonations, in.TotalIncome),
			fmt.Sprintf("寄附金合計: %d", otherDonations))
		addCredit("political_donation", "政治活動寄附金控除", e.PoliticalDonationCredit(political), "")
		addCredit("npo_donation", "認定NPO等寄附金控除", e.NPODonationCredit(npo), "")
	}

	addDeduction("spouse", "配偶者控除", e.SpouseDeduction(in.TotalIncome, in.Spouse), "")
	deductions = append(deductions, e.DependentDeductions(in.FiscalYear, in.Dependents)...)

	if widow := e.WidowDeduction(in.WidowStatus, in.TotalIncome); widow > 0 {
		name := "寡婦控除"
		if in.WidowStatus == WidowSingleParent {
			name = "ひとり親控除"
		}
		addDeduction("widow", name, widow, "")
	}
	addDeduction("disability_self", "障害者控除（本人）", e.SelfDisabilityDeduction(in.Disability), "")
	addDeduction("working_student", "勤労学生控除",
		e.WorkingStudentDeduction(in.WorkingStudent, in.TotalIncome), "")

	balance := in.HousingLoanBalance
	if in.HousingLoanDetail != nil {
		balance = in.HousingLoanDetail.YearEndBalance
	}
	if balance > 0 {
		addCredit("housing_loan", "住宅ローン控除", e.HousingLoanCredit(balance, in.HousingLoanDetail), "")
	}
	addCredit("dividend", "配当控除", e.DividendCredit(in.DividendIncome, in.TaxableForDividend), "")

	result := Result{IncomeDeductions: deductions, TaxCredits: credits}
	for _, d := range deductions {
		result.TotalIncomeDeductions += d.Amount
	}
	for _, c := range credits {
		result.TotalTaxCredits += c.Amount
	}
	return result
}

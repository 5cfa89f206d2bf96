// Package taxconst carries the year-versioned constant tables used by the
// tax engines. Each supported year ships as an embedded YAML file so that
// rate revisions land as data changes, not code changes.
package taxconst

import (
	"embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed constants/*.yaml
var constantFiles embed.FS

// ConstantsNotFoundError reports a fiscal year with no constants file.
type ConstantsNotFoundError struct {
	Year int
}

func (e *ConstantsNotFoundError) Error() string {
	return fmt.Sprintf("no tax constants for fiscal year %d", e.Year)
}

// RateBracket is one row of a quick-calculation table. Upper 0 marks the
// open-ended top row. RatePercent 100 means the full amount, 0 means the
// fixed amount alone.
type RateBracket struct {
	Upper       int64 `yaml:"upper"`
	RatePercent int64 `yaml:"rate_percent"`
	Fixed       int64 `yaml:"fixed"`
}

// AmountBracket is one row of a stepped amount table keyed by an income
// upper bound. Upper 0 marks the open-ended top row.
type AmountBracket struct {
	Upper  int64 `yaml:"upper"`
	Amount int64 `yaml:"amount"`
}

// TaxBracket is one row of the progressive income tax quick-calc table.
type TaxBracket struct {
	Upper       int64 `yaml:"upper"`
	RatePercent int64 `yaml:"rate_percent"`
	Subtraction int64 `yaml:"subtraction"`
}

// IncomeTax holds the progressive brackets and rounding rules.
type IncomeTax struct {
	Brackets                []TaxBracket `yaml:"brackets"`
	SurtaxPermille          int64        `yaml:"surtax_permille"`
	TaxableRoundingUnit     int64        `yaml:"taxable_rounding_unit"`
	TaxRoundingUnit         int64        `yaml:"tax_rounding_unit"`
	OneTimeSpecialDeduction int64        `yaml:"one_time_income_special_deduction"`
	LossCarryforwardYears   int          `yaml:"loss_carryforward_years"`
}

// SalaryDeduction holds the employment income deduction table.
type SalaryDeduction struct {
	Minimum  int64         `yaml:"minimum"`
	Maximum  int64         `yaml:"maximum"`
	Brackets []RateBracket `yaml:"brackets"`
}

// PensionDeduction holds the public pension deduction tables by age class.
type PensionDeduction struct {
	Under65               []RateBracket `yaml:"under_65"`
	Under65Max            int64         `yaml:"under_65_max"`
	Over65                []RateBracket `yaml:"over_65"`
	Over65Max             int64         `yaml:"over_65_max"`
	OtherIncomeThreshold1 int64         `yaml:"other_income_threshold_1"`
	OtherIncomeAdjust1    int64         `yaml:"other_income_adjustment_1"`
	OtherIncomeThreshold2 int64         `yaml:"other_income_threshold_2"`
	OtherIncomeAdjust2    int64         `yaml:"other_income_adjustment_2"`
}

// Insurance holds the life and earthquake insurance deduction tables.
type Insurance struct {
	LifeNew            []RateBracket `yaml:"life_new"`
	LifeNewMax         int64         `yaml:"life_new_max"`
	LifeOld            []RateBracket `yaml:"life_old"`
	LifeOldMax         int64         `yaml:"life_old_max"`
	LifeCombinedCap    int64         `yaml:"life_combined_category_cap"`
	LifeTotalCap       int64         `yaml:"life_total_cap"`
	EarthquakeCap      int64         `yaml:"earthquake_cap"`
	OldLongTerm        []RateBracket `yaml:"old_long_term"`
	OldLongTermMax     int64         `yaml:"old_long_term_max"`
	EarthquakeTotalCap int64         `yaml:"earthquake_total_cap"`
}

// SpouseDeduction holds the three spouse deduction tables, selected by the
// taxpayer's own income band.
type SpouseDeduction struct {
	TaxpayerIncomeLimit int64           `yaml:"taxpayer_income_limit"`
	TaxpayerBracket1    int64           `yaml:"taxpayer_bracket_1"`
	TaxpayerBracket2    int64           `yaml:"taxpayer_bracket_2"`
	Table1              []AmountBracket `yaml:"table_1"`
	Table2              []AmountBracket `yaml:"table_2"`
	Table3              []AmountBracket `yaml:"table_3"`
}

// DependentDeduction holds the dependent deduction amounts and the stepped
// table for specific-age relatives above the base income limit.
type DependentDeduction struct {
	IncomeLimit                 int64           `yaml:"income_limit"`
	MinAge                      int             `yaml:"min_age"`
	General                     int64           `yaml:"general"`
	SpecificMinAge              int             `yaml:"specific_min_age"`
	SpecificMaxAge              int             `yaml:"specific_max_age"`
	Specific                    int64           `yaml:"specific"`
	SpecificIncomeLimit         int64           `yaml:"specific_income_limit"`
	SpecificRelativeTable       []AmountBracket `yaml:"specific_relative_table"`
	ElderlyMinAge               int             `yaml:"elderly_min_age"`
	ElderlyCohabiting           int64           `yaml:"elderly_cohabiting"`
	ElderlySeparate             int64           `yaml:"elderly_separate"`
	DisabilityGeneral           int64           `yaml:"disability_general"`
	DisabilitySpecial           int64           `yaml:"disability_special"`
	DisabilitySpecialCohabiting int64           `yaml:"disability_special_cohabiting"`
}

// PersonalDeduction holds the taxpayer's own status deductions.
type PersonalDeduction struct {
	Widow                     int64 `yaml:"widow"`
	SingleParent              int64 `yaml:"single_parent"`
	WidowIncomeLimit          int64 `yaml:"widow_income_limit"`
	DisabilityGeneral         int64 `yaml:"disability_general"`
	DisabilitySpecial         int64 `yaml:"disability_special"`
	WorkingStudent            int64 `yaml:"working_student"`
	WorkingStudentIncomeLimit int64 `yaml:"working_student_income_limit"`
}

// Medical holds the medical expense deduction thresholds.
type Medical struct {
	ThresholdMax               int64 `yaml:"threshold_max"`
	ThresholdIncomeRatePercent int64 `yaml:"threshold_income_rate_percent"`
	Cap                        int64 `yaml:"cap"`
	SelfMedicationThreshold    int64 `yaml:"self_medication_threshold"`
	SelfMedicationCap          int64 `yaml:"self_medication_cap"`
}

// Donation holds the donation deduction and credit parameters.
type Donation struct {
	IncomeCapRatePercent int64 `yaml:"income_cap_rate_percent"`
	Floor                int64 `yaml:"floor"`
	PoliticalCreditRate  int64 `yaml:"political_credit_rate_percent"`
	NPOCreditRate        int64 `yaml:"npo_credit_rate_percent"`
}

// HousingLoanLimit is one year-end balance cap keyed by housing category
// and new/existing construction.
type HousingLoanLimit struct {
	Category        string `yaml:"category"`
	NewConstruction bool   `yaml:"new_construction"`
	Limit           int64  `yaml:"limit"`
}

// HousingLoan holds the credit rate and the balance cap tables by move-in
// year band and household class.
type HousingLoan struct {
	RatePermille        int64              `yaml:"rate_permille"`
	PreR6PermitLimit    int64              `yaml:"general_pre_r6_permit_limit"`
	R4R5CutoffYear      int                `yaml:"r4_r5_cutoff_year"`
	LimitsR4R5          []HousingLoanLimit `yaml:"limits_r4_r5"`
	LimitsR6R7          []HousingLoanLimit `yaml:"limits_r6_r7"`
	LimitsR6R7Childcare []HousingLoanLimit `yaml:"limits_r6_r7_childcare"`
}

// DividendCredit holds the comprehensive dividend tax credit rates.
type DividendCredit struct {
	Threshold       int64 `yaml:"threshold"`
	RateHighPercent int64 `yaml:"rate_high_percent"`
	RateLowPercent  int64 `yaml:"rate_low_percent"`
}

// ConsumptionTax holds the consumption tax split ratios and deemed rates.
type ConsumptionTax struct {
	StandardRateNum       int64         `yaml:"standard_rate_num"`
	StandardRateDen       int64         `yaml:"standard_rate_den"`
	ReducedRateNum        int64         `yaml:"reduced_rate_num"`
	ReducedRateDen        int64         `yaml:"reduced_rate_den"`
	NationalRatioPercent  int64         `yaml:"national_ratio_percent"`
	LocalRatioNum         int64         `yaml:"local_ratio_num"`
	LocalRatioDen         int64         `yaml:"local_ratio_den"`
	RoundingUnit          int64         `yaml:"rounding_unit"`
	Special20PctRate      int64         `yaml:"special_20pct_rate_percent"`
	Special20PctDeemed    int64         `yaml:"special_20pct_deemed_percent"`
	SimplifiedDeemedRates map[int]int64 `yaml:"simplified_deemed_rates"`
	DefaultBusinessType   int           `yaml:"default_business_type"`
}

// DecliningBalanceRate is one row of the 200% declining balance rate table.
// GuaranteeRate is expressed per 100,000 of acquisition cost.
type DecliningBalanceRate struct {
	UsefulLife           int   `yaml:"useful_life"`
	RatePermille         int64 `yaml:"rate_permille"`
	RevisedRatePermille  int64 `yaml:"revised_rate_permille"`
	GuaranteeRatePer100k int64 `yaml:"guarantee_rate_per_100k"`
}

// Depreciation holds the depreciation method parameters.
type Depreciation struct {
	MemoValue        int64                  `yaml:"memo_value"`
	DecliningBalance []DecliningBalanceRate `yaml:"declining_balance"`
}

// Constants is the full constant set for one fiscal year.
type Constants struct {
	Year               int                `yaml:"year"`
	IncomeTax          IncomeTax          `yaml:"income_tax"`
	SalaryDeduction    SalaryDeduction    `yaml:"salary_deduction"`
	BasicDeduction     []AmountBracket    `yaml:"basic_deduction"`
	PensionDeduction   PensionDeduction   `yaml:"pension_deduction"`
	Insurance          Insurance          `yaml:"insurance"`
	SpouseDeduction    SpouseDeduction    `yaml:"spouse_deduction"`
	DependentDeduction DependentDeduction `yaml:"dependent_deduction"`
	PersonalDeduction  PersonalDeduction  `yaml:"personal_deduction"`
	Medical            Medical            `yaml:"medical"`
	Donation           Donation           `yaml:"donation"`
	HousingLoan        HousingLoan        `yaml:"housing_loan"`
	DividendCredit     DividendCredit     `yaml:"dividend_credit"`
	ConsumptionTax     ConsumptionTax     `yaml:"consumption_tax"`
	Depreciation       Depreciation       `yaml:"depreciation"`
}

// Load returns the constant set for the given fiscal year.
func Load(year int) (*Constants, error) {
	data, err := constantFiles.ReadFile(fmt.Sprintf("constants/%d.yaml", year))
	if err != nil {
		return nil, &ConstantsNotFoundError{Year: year}
	}
	var c Constants
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse tax constants for %d: %w", year, err)
	}
	if c.Year != year {
		return nil, fmt.Errorf("tax constants file for %d declares year %d", year, c.Year)
	}
	return &c, nil
}

// Years lists the fiscal years with an embedded constants file.
func Years() []int {
	entries, err := constantFiles.ReadDir("constants")
	if err != nil {
		return nil
	}
	var years []int
	for _, e := range entries {
		var y int
		if _, err := fmt.Sscanf(e.Name(), "%d.yaml", &y); err == nil {
			years = append(years, y)
		}
	}
	sort.Ints(years)
	return years
}

// LookupAmount returns the amount of the first bracket whose upper bound is
// at or above v. A bracket with Upper 0 is open-ended and always matches.
func LookupAmount(table []AmountBracket, v int64) int64 {
	for _, b := range table {
		if b.Upper == 0 || v <= b.Upper {
			return b.Amount
		}
	}
	return 0
}

// ApplyRateTable evaluates a quick-calc rate table against v. Rows are
// checked in order; RatePercent 100 yields v itself, 0 yields the fixed
// amount, anything else yields v*rate//100+fixed. fallback is returned when
// no bounded row matches.
func ApplyRateTable(table []RateBracket, v, fallback int64) int64 {
	for _, b := range table {
		if b.Upper != 0 && v > b.Upper {
			continue
		}
		switch b.RatePercent {
		case 100:
			return v
		case 0:
			return b.Fixed
		default:
			return v*b.RatePercent/100 + b.Fixed
		}
	}
	return fallback
}

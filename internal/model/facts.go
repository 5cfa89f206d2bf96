package model

// InsuranceKind identifies a premium category on the insurance fact table.
type InsuranceKind string

const (
	InsuranceSocial      InsuranceKind = "social"
	InsuranceLifeNew     InsuranceKind = "life_general_new"
	InsuranceLifeOld     InsuranceKind = "life_general_old"
	InsuranceMedicalCare InsuranceKind = "life_medical_care"
	InsuranceAnnuityNew  InsuranceKind = "life_annuity_new"
	InsuranceAnnuityOld  InsuranceKind = "life_annuity_old"
	InsuranceEarthquake  InsuranceKind = "earthquake"
	InsuranceOldLongTerm InsuranceKind = "old_long_term"
	InsuranceIdeco       InsuranceKind = "ideco"
	InsuranceMutualAid   InsuranceKind = "small_business_mutual_aid"
)

// InsurancePremium is one declared premium payment for a fiscal year.
type InsurancePremium struct {
	ID         int64         `json:"id"`
	FiscalYear int           `json:"fiscal_year"`
	Kind       InsuranceKind `json:"kind"`
	Payee      string        `json:"payee,omitempty"`
	Amount     int64         `json:"amount"`
}

// DisabilityStatus grades a disability for deduction purposes.
type DisabilityStatus string

const (
	DisabilityNone              DisabilityStatus = "none"
	DisabilityGeneral           DisabilityStatus = "general"
	DisabilitySpecial           DisabilityStatus = "special"
	DisabilitySpecialCohabiting DisabilityStatus = "special_cohabiting"
)

// Dependent is one dependent relative declared for a fiscal year.
type Dependent struct {
	ID                     int64            `json:"id"`
	FiscalYear             int              `json:"fiscal_year"`
	Name                   string           `json:"name"`
	Relationship           string           `json:"relationship,omitempty"`
	BirthDate              string           `json:"birth_date"` // YYYY-MM-DD
	Income                 int64            `json:"income"`
	Cohabiting             bool             `json:"cohabiting,omitempty"`
	Disability             DisabilityStatus `json:"disability,omitempty"`
	OtherTaxpayerDependent bool             `json:"other_taxpayer_dependent,omitempty"` // claimed by another taxpayer; skipped here
}

// Spouse is the at-most-one spouse record per fiscal year.
type Spouse struct {
	FiscalYear int    `json:"fiscal_year"`
	Name       string `json:"name"`
	BirthDate  string `json:"birth_date,omitempty"`
	Income     int64  `json:"income"`
}

// DonationType classifies a donation for deduction/credit treatment.
type DonationType string

const (
	DonationFurusato       DonationType = "furusato"
	DonationPolitical      DonationType = "political"
	DonationNPO            DonationType = "npo"
	DonationPublicInterest DonationType = "public_interest"
	DonationOther          DonationType = "other"
)

// DonationRecord is one donation made during a fiscal year.
type DonationRecord struct {
	ID         int64        `json:"id"`
	FiscalYear int          `json:"fiscal_year"`
	Donee      string       `json:"donee"`
	Type       DonationType `json:"type"`
	Date       string       `json:"date,omitempty"`
	Amount     int64        `json:"amount"`
}

// HousingLoanDetail carries the facts needed to size the housing loan credit.
type HousingLoanDetail struct {
	ID                     int64  `json:"id"`
	FiscalYear             int    `json:"fiscal_year"`
	HousingCategory        string `json:"housing_category"` // general, energy_efficient, zeh, certified
	MoveInDate             string `json:"move_in_date"`     // YYYY-MM-DD
	YearEndBalance         int64  `json:"year_end_balance"`
	IsNewConstruction      bool   `json:"is_new_construction,omitempty"`
	IsChildcareHousehold   bool   `json:"is_childcare_household,omitempty"`
	HasPreR6BuildingPermit bool   `json:"has_pre_r6_building_permit,omitempty"`
}

// WithholdingSlip is a salary withholding statement from one payer.
type WithholdingSlip struct {
	ID              int64  `json:"id"`
	FiscalYear      int    `json:"fiscal_year"`
	PayerName       string `json:"payer_name"`
	PaymentAmount   int64  `json:"payment_amount"`
	WithheldTax     int64  `json:"withheld_tax"`
	SocialInsurance int64  `json:"social_insurance"`
}

// MedicalExpense is one medical expense receipt line.
type MedicalExpense struct {
	ID                     int64  `json:"id"`
	FiscalYear             int    `json:"fiscal_year"`
	Date                   string `json:"date,omitempty"`
	PatientName            string `json:"patient_name,omitempty"`
	MedicalInstitution     string `json:"medical_institution,omitempty"`
	Amount                 int64  `json:"amount"`
	InsuranceReimbursement int64  `json:"insurance_reimbursement"`
	Description            string `json:"description,omitempty"`
}

// BusinessWithholding is tax withheld at source by one business client.
type BusinessWithholding struct {
	ID             int64  `json:"id"`
	FiscalYear     int    `json:"fiscal_year"`
	ClientName     string `json:"client_name"`
	GrossAmount    int64  `json:"gross_amount"`
	WithholdingTax int64  `json:"withholding_tax"`
}

// LossCarryforward is a prior-year loss available to offset income,
// usable for at most three years after the loss year. UsedAmount records
// offsets already claimed on filed returns; the taxpayer declares it when
// recording the loss. Tax computation is a pure projection and never
// writes back how much it applied.
type LossCarryforward struct {
	ID         int64 `json:"id"`
	FiscalYear int   `json:"fiscal_year"`
	LossYear   int   `json:"loss_year"`
	Amount     int64 `json:"amount"`
	UsedAmount int64 `json:"used_amount"`
}

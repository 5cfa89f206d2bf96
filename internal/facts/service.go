// Package facts stores the declaration facts that feed the tax engines:
// insurance premiums, family members, donations, housing loan details,
// withholding statements, medical expenses and prior-year losses. The
// ledger records money movements; facts record everything else the return
// needs.
package facts

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/aoiro-dev/aoiro/internal/database"
	"github.com/aoiro-dev/aoiro/internal/journal"
	"github.com/aoiro-dev/aoiro/internal/model"
	"github.com/aoiro-dev/aoiro/internal/taxconst"
)

// Service provides CRUD over the fact tables. Writes are rejected once the
// fiscal year is closed, same as journal entries.
type Service struct {
	db      *database.DB
	journal *journal.Service
	c       *taxconst.Constants
	log     zerolog.Logger
}

// NewService returns a fact store backed by the given database.
func NewService(db *database.DB, js *journal.Service, c *taxconst.Constants, logger zerolog.Logger) *Service {
	return &Service{
		db:      db,
		journal: js,
		c:       c,
		log:     logger.With().Str("component", "facts").Logger(),
	}
}

func (s *Service) ensureYearOpen(year int) error {
	status, err := s.journal.YearStatus(year)
	if err != nil {
		return err
	}
	if status == model.YearClosed {
		return &journal.ValidationError{
			Kind:    journal.KindFiscalYearClosed,
			Message: fmt.Sprintf("fiscal year %d is closed", year),
		}
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func (s *Service) deleteByID(table string, id int64, what string) error {
	res, err := s.db.Conn().Exec("DELETE FROM "+table+" WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", what, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &journal.NotFoundError{What: what, ID: id}
	}
	return nil
}

// AddInsurance records one premium payment.
func (s *Service) AddInsurance(p model.InsurancePremium) (int64, error) {
	if err := s.ensureYearOpen(p.FiscalYear); err != nil {
		return 0, err
	}
	if p.Amount <= 0 {
		return 0, &journal.ValidationError{
			Kind:    journal.KindNonPositiveAmount,
			Message: fmt.Sprintf("premium amount must be positive, got %d", p.Amount),
		}
	}
	switch p.Kind {
	case model.InsuranceSocial, model.InsuranceLifeNew, model.InsuranceLifeOld,
		model.InsuranceMedicalCare, model.InsuranceAnnuityNew, model.InsuranceAnnuityOld,
		model.InsuranceEarthquake, model.InsuranceOldLongTerm,
		model.InsuranceIdeco, model.InsuranceMutualAid:
	default:
		return 0, &journal.ValidationError{
			Kind:    journal.KindInvalidEntry,
			Message: fmt.Sprintf("unknown insurance kind %q", p.Kind),
		}
	}

	res, err := s.db.Conn().Exec(
		"INSERT INTO insurance_premiums (fiscal_year, kind, payee, amount) VALUES (?, ?, ?, ?)",
		p.FiscalYear, string(p.Kind), p.Payee, p.Amount)
	if err != nil {
		return 0, fmt.Errorf("insert insurance premium: %w", err)
	}
	return res.LastInsertId()
}

// ListInsurance returns a year's premiums in insertion order.
func (s *Service) ListInsurance(year int) ([]model.InsurancePremium, error) {
	rows, err := s.db.Conn().Query(
		"SELECT id, fiscal_year, kind, payee, amount FROM insurance_premiums WHERE fiscal_year = ? ORDER BY id",
		year)
	if err != nil {
		return nil, fmt.Errorf("list insurance premiums: %w", err)
	}
	defer rows.Close()

	var premiums []model.InsurancePremium
	for rows.Next() {
		var p model.InsurancePremium
		var kind string
		var payee sql.NullString
		if err := rows.Scan(&p.ID, &p.FiscalYear, &kind, &payee, &p.Amount); err != nil {
			return nil, fmt.Errorf("list insurance premiums: %w", err)
		}
		p.Kind = model.InsuranceKind(kind)
		p.Payee = payee.String
		premiums = append(premiums, p)
	}
	return premiums, rows.Err()
}

// DeleteInsurance removes one premium record.
func (s *Service) DeleteInsurance(id int64) error {
	return s.deleteByID("insurance_premiums", id, "insurance premium")
}

// AddDependent records a dependent relative.
func (s *Service) AddDependent(d model.Dependent) (int64, error) {
	if err := s.ensureYearOpen(d.FiscalYear); err != nil {
		return 0, err
	}
	if d.Name == "" || d.BirthDate == "" {
		return 0, &journal.ValidationError{
			Kind:    journal.KindInvalidEntry,
			Message: "dependent name and birth date are required",
		}
	}
	if d.Disability == "" {
		d.Disability = model.DisabilityNone
	}

	res, err := s.db.Conn().Exec(`
		INSERT INTO dependents
			(fiscal_year, name, relationship, birth_date, income,
			 cohabiting, disability, other_taxpayer_dependent)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		d.FiscalYear, d.Name, d.Relationship, d.BirthDate, d.Income,
		d.Cohabiting, string(d.Disability), d.OtherTaxpayerDependent)
	if err != nil {
		return 0, fmt.Errorf("insert dependent: %w", err)
	}
	return res.LastInsertId()
}

// ListDependents returns a year's dependents.
func (s *Service) ListDependents(year int) ([]model.Dependent, error) {
	rows, err := s.db.Conn().Query(`
		SELECT id, fiscal_year, name, relationship, birth_date, income,
		       cohabiting, disability, other_taxpayer_dependent
		FROM dependents WHERE fiscal_year = ? ORDER BY id`, year)
	if err != nil {
		return nil, fmt.Errorf("list dependents: %w", err)
	}
	defer rows.Close()

	var dependents []model.Dependent
	for rows.Next() {
		var d model.Dependent
		var relationship sql.NullString
		var disability string
		if err := rows.Scan(&d.ID, &d.FiscalYear, &d.Name, &relationship, &d.BirthDate,
			&d.Income, &d.Cohabiting, &disability, &d.OtherTaxpayerDependent); err != nil {
			return nil, fmt.Errorf("list dependents: %w", err)
		}
		d.Relationship = relationship.String
		d.Disability = model.DisabilityStatus(disability)
		dependents = append(dependents, d)
	}
	return dependents, rows.Err()
}

// DeleteDependent removes one dependent record.
func (s *Service) DeleteDependent(id int64) error {
	return s.deleteByID("dependents", id, "dependent")
}

// SetSpouse stores the year's spouse record, replacing any existing one.
func (s *Service) SetSpouse(sp model.Spouse) error {
	if err := s.ensureYearOpen(sp.FiscalYear); err != nil {
		return err
	}
	if sp.Name == "" {
		return &journal.ValidationError{
			Kind:    journal.KindInvalidEntry,
			Message: "spouse name is required",
		}
	}
	_, err := s.db.Conn().Exec(`
		INSERT INTO spouses (fiscal_year, name, birth_date, income)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (fiscal_year) DO UPDATE SET
			name = excluded.name, birth_date = excluded.birth_date, income = excluded.income`,
		sp.FiscalYear, sp.Name, sp.BirthDate, sp.Income)
	if err != nil {
		return fmt.Errorf("upsert spouse: %w", err)
	}
	return nil
}

// GetSpouse returns the year's spouse record, nil when none is declared.
func (s *Service) GetSpouse(year int) (*model.Spouse, error) {
	var sp model.Spouse
	var birthDate sql.NullString
	err := s.db.Conn().QueryRow(
		"SELECT fiscal_year, name, birth_date, income FROM spouses WHERE fiscal_year = ?",
		year).Scan(&sp.FiscalYear, &sp.Name, &birthDate, &sp.Income)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get spouse: %w", err)
	}
	sp.BirthDate = birthDate.String
	return &sp, nil
}

// DeleteSpouse removes the year's spouse record.
func (s *Service) DeleteSpouse(year int) error {
	res, err := s.db.Conn().Exec("DELETE FROM spouses WHERE fiscal_year = ?", year)
	if err != nil {
		return fmt.Errorf("delete spouse: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &journal.NotFoundError{What: "spouse for fiscal year", ID: int64(year)}
	}
	return nil
}

// AddDonation records one donation.
func (s *Service) AddDonation(d model.DonationRecord) (int64, error) {
	if err := s.ensureYearOpen(d.FiscalYear); err != nil {
		return 0, err
	}
	if d.Amount <= 0 {
		return 0, &journal.ValidationError{
			Kind:    journal.KindNonPositiveAmount,
			Message: fmt.Sprintf("donation amount must be positive, got %d", d.Amount),
		}
	}
	if d.Type == "" {
		d.Type = model.DonationOther
	}

	res, err := s.db.Conn().Exec(
		"INSERT INTO donation_records (fiscal_year, donee, donation_type, date, amount) VALUES (?, ?, ?, ?, ?)",
		d.FiscalYear, d.Donee, string(d.Type), d.Date, d.Amount)
	if err != nil {
		return 0, fmt.Errorf("insert donation: %w", err)
	}
	return res.LastInsertId()
}

// ListDonations returns a year's donations.
func (s *Service) ListDonations(year int) ([]model.DonationRecord, error) {
	rows, err := s.db.Conn().Query(
		"SELECT id, fiscal_year, donee, donation_type, date, amount FROM donation_records WHERE fiscal_year = ? ORDER BY id",
		year)
	if err != nil {
		return nil, fmt.Errorf("list donations: %w", err)
	}
	defer rows.Close()

	var donations []model.DonationRecord
	for rows.Next() {
		var d model.DonationRecord
		var typ string
		var date sql.NullString
		if err := rows.Scan(&d.ID, &d.FiscalYear, &d.Donee, &typ, &date, &d.Amount); err != nil {
			return nil, fmt.Errorf("list donations: %w", err)
		}
		d.Type = model.DonationType(typ)
		d.Date = date.String
		donations = append(donations, d)
	}
	return donations, rows.Err()
}

// DeleteDonation removes one donation record.
func (s *Service) DeleteDonation(id int64) error {
	return s.deleteByID("donation_records", id, "donation")
}

// SetHousingLoan stores the year's housing loan detail, replacing any
// existing one. One dwelling per return.
func (s *Service) SetHousingLoan(h model.HousingLoanDetail) error {
	if err := s.ensureYearOpen(h.FiscalYear); err != nil {
		return err
	}
	if h.YearEndBalance <= 0 {
		return &journal.ValidationError{
			Kind:    journal.KindNonPositiveAmount,
			Message: fmt.Sprintf("year-end balance must be positive, got %d", h.YearEndBalance),
		}
	}

	tx, err := s.db.Conn().Begin()
	if err != nil {
		return fmt.Errorf("upsert housing loan: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM housing_loan_details WHERE fiscal_year = ?", h.FiscalYear); err != nil {
		return fmt.Errorf("upsert housing loan: %w", err)
	}
	if _, err := tx.Exec(`
		INSERT INTO housing_loan_details
			(fiscal_year, housing_category, move_in_date, year_end_balance,
			 is_new_construction, is_childcare_household, has_pre_r6_building_permit)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		h.FiscalYear, h.HousingCategory, h.MoveInDate, h.YearEndBalance,
		h.IsNewConstruction, h.IsChildcareHousehold, h.HasPreR6BuildingPermit); err != nil {
		return fmt.Errorf("upsert housing loan: %w", err)
	}
	return tx.Commit()
}

// GetHousingLoan returns the year's housing loan detail, nil when none.
func (s *Service) GetHousingLoan(year int) (*model.HousingLoanDetail, error) {
	var h model.HousingLoanDetail
	err := s.db.Conn().QueryRow(`
		SELECT id, fiscal_year, housing_category, move_in_date, year_end_balance,
		       is_new_construction, is_childcare_household, has_pre_r6_building_permit
		FROM housing_loan_details WHERE fiscal_year = ?`, year).
		Scan(&h.ID, &h.FiscalYear, &h.HousingCategory, &h.MoveInDate, &h.YearEndBalance,
			&h.IsNewConstruction, &h.IsChildcareHousehold, &h.HasPreR6BuildingPermit)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get housing loan: %w", err)
	}
	return &h, nil
}

// DeleteHousingLoan removes the year's housing loan detail.
func (s *Service) DeleteHousingLoan(year int) error {
	res, err := s.db.Conn().Exec("DELETE FROM housing_loan_details WHERE fiscal_year = ?", year)
	if err != nil {
		return fmt.Errorf("delete housing loan: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &journal.NotFoundError{What: "housing loan for fiscal year", ID: int64(year)}
	}
	return nil
}

// AddWithholdingSlip records a salary withholding statement.
func (s *Service) AddWithholdingSlip(w model.WithholdingSlip) (int64, error) {
	if err := s.ensureYearOpen(w.FiscalYear); err != nil {
		return 0, err
	}
	if w.PayerName == "" {
		return 0, &journal.ValidationError{
			Kind:    journal.KindInvalidEntry,
			Message: "payer name is required",
		}
	}

	res, err := s.db.Conn().Exec(`
		INSERT INTO withholding_slips
			(fiscal_year, payer_name, payment_amount, withheld_tax, social_insurance)
		VALUES (?, ?, ?, ?, ?)`,
		w.FiscalYear, w.PayerName, w.PaymentAmount, w.WithheldTax, w.SocialInsurance)
	if err != nil {
		return 0, fmt.Errorf("insert withholding slip: %w", err)
	}
	return res.LastInsertId()
}

// ListWithholdingSlips returns a year's withholding statements.
func (s *Service) ListWithholdingSlips(year int) ([]model.WithholdingSlip, error) {
	rows, err := s.db.Conn().Query(`
		SELECT id, fiscal_year, payer_name, payment_amount, withheld_tax, social_insurance
		FROM withholding_slips WHERE fiscal_year = ? ORDER BY id`, year)
	if err != nil {
		return nil, fmt.Errorf("list withholding slips: %w", err)
	}
	defer rows.Close()

	var slips []model.WithholdingSlip
	for rows.Next() {
		var w model.WithholdingSlip
		if err := rows.Scan(&w.ID, &w.FiscalYear, &w.PayerName,
			&w.PaymentAmount, &w.WithheldTax, &w.SocialInsurance); err != nil {
			return nil, fmt.Errorf("list withholding slips: %w", err)
		}
		slips = append(slips, w)
	}
	return slips, rows.Err()
}

// DeleteWithholdingSlip removes one withholding statement.
func (s *Service) DeleteWithholdingSlip(id int64) error {
	return s.deleteByID("withholding_slips", id, "withholding slip")
}

// AddBusinessWithholding records tax withheld at source by a business
// client. One record per client and year; repeated clients are rejected.
func (s *Service) AddBusinessWithholding(b model.BusinessWithholding) (int64, error) {
	if err := s.ensureYearOpen(b.FiscalYear); err != nil {
		return 0, err
	}
	if b.ClientName == "" {
		return 0, &journal.ValidationError{
			Kind:    journal.KindInvalidEntry,
			Message: "client name is required",
		}
	}

	res, err := s.db.Conn().Exec(`
		INSERT INTO business_withholding (fiscal_year, client_name, gross_amount, withholding_tax)
		VALUES (?, ?, ?, ?)`,
		b.FiscalYear, b.ClientName, b.GrossAmount, b.WithholdingTax)
	if isUniqueViolation(err) {
		return 0, &journal.ValidationError{
			Kind:    journal.KindDuplicateEntry,
			Message: fmt.Sprintf("withholding for client %q already recorded in %d", b.ClientName, b.FiscalYear),
		}
	}
	if err != nil {
		return 0, fmt.Errorf("insert business withholding: %w", err)
	}
	return res.LastInsertId()
}

// ListBusinessWithholding returns a year's client withholding records.
func (s *Service) ListBusinessWithholding(year int) ([]model.BusinessWithholding, error) {
	rows, err := s.db.Conn().Query(`
		SELECT id, fiscal_year, client_name, gross_amount, withholding_tax
		FROM business_withholding WHERE fiscal_year = ? ORDER BY client_name`, year)
	if err != nil {
		return nil, fmt.Errorf("list business withholding: %w", err)
	}
	defer rows.Close()

	var records []model.BusinessWithholding
	for rows.Next() {
		var b model.BusinessWithholding
		if err := rows.Scan(&b.ID, &b.FiscalYear, &b.ClientName,
			&b.GrossAmount, &b.WithholdingTax); err != nil {
			return nil, fmt.Errorf("list business withholding: %w", err)
		}
		records = append(records, b)
	}
	return records, rows.Err()
}

// DeleteBusinessWithholding removes one client withholding record.
func (s *Service) DeleteBusinessWithholding(id int64) error {
	return s.deleteByID("business_withholding", id, "business withholding")
}

// AddMedicalExpense records one medical receipt line.
func (s *Service) AddMedicalExpense(m model.MedicalExpense) (int64, error) {
	if err := s.ensureYearOpen(m.FiscalYear); err != nil {
		return 0, err
	}
	if m.Amount <= 0 {
		return 0, &journal.ValidationError{
			Kind:    journal.KindNonPositiveAmount,
			Message: fmt.Sprintf("medical expense amount must be positive, got %d", m.Amount),
		}
	}

	res, err := s.db.Conn().Exec(`
		INSERT INTO medical_expense_details
			(fiscal_year, date, patient_name, medical_institution,
			 amount, insurance_reimbursement, description)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.FiscalYear, m.Date, m.PatientName, m.MedicalInstitution,
		m.Amount, m.InsuranceReimbursement, m.Description)
	if err != nil {
		return 0, fmt.Errorf("insert medical expense: %w", err)
	}
	return res.LastInsertId()
}

// ListMedicalExpenses returns a year's medical receipt lines.
func (s *Service) ListMedicalExpenses(year int) ([]model.MedicalExpense, error) {
	rows, err := s.db.Conn().Query(`
		SELECT id, fiscal_year, date, patient_name, medical_institution,
		       amount, insurance_reimbursement, description
		FROM medical_expense_details WHERE fiscal_year = ? ORDER BY id`, year)
	if err != nil {
		return nil, fmt.Errorf("list medical expenses: %w", err)
	}
	defer rows.Close()

	var expenses []model.MedicalExpense
	for rows.Next() {
		var m model.MedicalExpense
		var date, patient, institution, description sql.NullString
		if err := rows.Scan(&m.ID, &m.FiscalYear, &date, &patient, &institution,
			&m.Amount, &m.InsuranceReimbursement, &description); err != nil {
			return nil, fmt.Errorf("list medical expenses: %w", err)
		}
		m.Date = date.String
		m.PatientName = patient.String
		m.MedicalInstitution = institution.String
		m.Description = description.String
		expenses = append(expenses, m)
	}
	return expenses, rows.Err()
}

// DeleteMedicalExpense removes one medical receipt line.
func (s *Service) DeleteMedicalExpense(id int64) error {
	return s.deleteByID("medical_expense_details", id, "medical expense")
}

// AddLossCarryforward records a prior-year loss available for offset. The
// loss year must fall within the statutory carryforward window.
func (s *Service) AddLossCarryforward(l model.LossCarryforward) (int64, error) {
	if err := s.ensureYearOpen(l.FiscalYear); err != nil {
		return 0, err
	}
	if l.Amount <= 0 {
		return 0, &journal.ValidationError{
			Kind:    journal.KindNonPositiveAmount,
			Message: fmt.Sprintf("loss amount must be positive, got %d", l.Amount),
		}
	}
	window := s.c.IncomeTax.LossCarryforwardYears
	if l.LossYear >= l.FiscalYear || l.LossYear < l.FiscalYear-window {
		return 0, &journal.ValidationError{
			Kind: journal.KindInvalidEntry,
			Message: fmt.Sprintf("loss year %d is outside the %d-year carryforward window for %d",
				l.LossYear, window, l.FiscalYear),
		}
	}

	res, err := s.db.Conn().Exec(`
		INSERT INTO loss_carryforward (fiscal_year, loss_year, amount, used_amount)
		VALUES (?, ?, ?, ?)`,
		l.FiscalYear, l.LossYear, l.Amount, l.UsedAmount)
	if err != nil {
		return 0, fmt.Errorf("insert loss carryforward: %w", err)
	}
	return res.LastInsertId()
}

// ListLossCarryforward returns a year's recorded prior losses, oldest first.
func (s *Service) ListLossCarryforward(year int) ([]model.LossCarryforward, error) {
	rows, err := s.db.Conn().Query(`
		SELECT id, fiscal_year, loss_year, amount, used_amount
		FROM loss_carryforward WHERE fiscal_year = ? ORDER BY loss_year, id`, year)
	if err != nil {
		return nil, fmt.Errorf("list loss carryforward: %w", err)
	}
	defer rows.Close()

	var losses []model.LossCarryforward
	for rows.Next() {
		var l model.LossCarryforward
		if err := rows.Scan(&l.ID, &l.FiscalYear, &l.LossYear, &l.Amount, &l.UsedAmount); err != nil {
			return nil, fmt.Errorf("list loss carryforward: %w", err)
		}
		losses = append(losses, l)
	}
	return losses, rows.Err()
}

// DeleteLossCarryforward removes one loss record.
func (s *Service) DeleteLossCarryforward(id int64) error {
	return s.deleteByID("loss_carryforward", id, "loss carryforward")
}

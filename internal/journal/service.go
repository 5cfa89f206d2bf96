// Package journal implements the double-entry ledger: entry validation,
// persistence, duplicate detection and the derived reports.
package journal

import (
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/aoiro-dev/aoiro/internal/accounts"
	"github.com/aoiro-dev/aoiro/internal/database"
	"github.com/aoiro-dev/aoiro/internal/model"
)

var dateFormat = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Service owns all journal mutation and query paths.
type Service struct {
	db       *database.DB
	accounts *accounts.Service
	log      zerolog.Logger
}

// NewService creates a journal service.
func NewService(db *database.DB, catalog *accounts.Service, logger zerolog.Logger) *Service {
	return &Service{
		db:       db,
		accounts: catalog,
		log:      logger.With().Str("component", "journal").Logger(),
	}
}

// InitYear registers a fiscal year, creating it open if absent.
// Re-initializing an existing year is a no-op.
func (s *Service) InitYear(year int) error {
	_, err := s.db.Conn().Exec("INSERT OR IGNORE INTO fiscal_years (year, status) VALUES (?, 'open')", year)
	if err != nil {
		return fmt.Errorf("initializing fiscal year %d: %w", year, err)
	}
	s.log.Info().Int("year", year).Msg("fiscal year initialized")
	return nil
}

// YearStatus returns the lifecycle state of a fiscal year.
func (s *Service) YearStatus(year int) (model.FiscalYearStatus, error) {
	var status string
	err := s.db.Conn().QueryRow("SELECT status FROM fiscal_years WHERE year = ?", year).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return "", &NotFoundError{What: "fiscal year", ID: int64(year)}
	}
	if err != nil {
		return "", fmt.Errorf("reading fiscal year %d: %w", year, err)
	}
	return model.FiscalYearStatus(status), nil
}

// CloseYear transitions a fiscal year to closed. The trial balance must hold
// before closing; a year with a consistency diagnostic cannot be closed.
// Closing is one-way.
func (s *Service) CloseYear(year int) error {
	if err := s.ensureYearOpen(year); err != nil {
		return err
	}

	tb, err := s.TrialBalance(year)
	if err != nil {
		return err
	}
	if tb.Diagnostic != "" {
		return &ConsistencyError{Kind: KindTrialBalanceMismatch, Message: tb.Diagnostic}
	}

	_, err = s.db.Conn().Exec("UPDATE fiscal_years SET status = 'closed' WHERE year = ?", year)
	if err != nil {
		return fmt.Errorf("closing fiscal year %d: %w", year, err)
	}
	s.log.Info().Int("year", year).Msg("fiscal year closed")
	return nil
}

func (s *Service) ensureYearOpen(year int) error {
	status, err := s.YearStatus(year)
	if err != nil {
		return err
	}
	if status == model.YearClosed {
		return newValidationError(KindFiscalYearClosed, "fiscal year %d is closed", year)
	}
	return nil
}

// validate checks an entry against the structural rules: a valid date,
// at least one line per side, positive amounts, known accounts, and equal
// debit and credit totals.
func (s *Service) validate(e model.JournalEntry) error {
	if !dateFormat.MatchString(e.Date) {
		return newValidationError(KindInvalidEntry, "date %q is not in YYYY-MM-DD format", e.Date)
	}
	if len(e.Lines) < 2 {
		return newValidationError(KindInvalidEntry, "entry needs at least one debit and one credit line")
	}

	var hasDebit, hasCredit bool
	for _, ln := range e.Lines {
		switch ln.Side {
		case model.SideDebit:
			hasDebit = true
		case model.SideCredit:
			hasCredit = true
		default:
			return newValidationError(KindInvalidEntry, "line side %q is not debit or credit", ln.Side)
		}
		if ln.Amount <= 0 {
			return newValidationError(KindNonPositiveAmount, "account %s: amount %d must be positive", ln.AccountCode, ln.Amount)
		}
		if !s.accounts.Exists(ln.AccountCode) {
			return newValidationError(KindUnknownAccount, "account %s is not in the chart of accounts", ln.AccountCode)
		}
	}
	if !hasDebit || !hasCredit {
		return newValidationError(KindInvalidEntry, "entry needs at least one debit and one credit line")
	}

	if d, c := e.DebitTotal(), e.CreditTotal(); d != c {
		return newValidationError(KindUnbalanced, "debit total %d != credit total %d", d, c)
	}
	return nil
}

// AddEntry validates and persists one entry. An entry whose content hash
// already exists in the year is always rejected. An entry that merely looks
// similar to an existing one (same date, same debit total) is rejected
// unless force is set.
// The returned warnings flag forced similar-duplicate inserts so the
// caller can surface them alongside the new id.
func (s *Service) AddEntry(e model.JournalEntry, force bool) (int64, []string, error) {
	ids, warnings, err := s.AddEntries([]model.JournalEntry{e}, force)
	if err != nil {
		return 0, nil, err
	}
	return ids[0], warnings, nil
}

// AddEntries persists a batch atomically. Every entry is validated and
// duplicate-checked before anything is written; one bad entry rejects the
// whole batch and leaves the ledger untouched. Forced similar-duplicate
// inserts come back as warnings.
func (s *Service) AddEntries(entries []model.JournalEntry, force bool) ([]int64, []string, error) {
	if len(entries) == 0 {
		return nil, nil, newValidationError(KindInvalidEntry, "no entries given")
	}

	year := entries[0].FiscalYear
	if err := s.ensureYearOpen(year); err != nil {
		return nil, nil, err
	}

	var warnings []string
	seen := make(map[string]int, len(entries))
	for i, e := range entries {
		if e.FiscalYear != year {
			return nil, nil, newValidationError(KindInvalidEntry, "entry %d: fiscal year %d differs from batch year %d", i, e.FiscalYear, year)
		}
		if err := s.validate(e); err != nil {
			return nil, nil, fmt.Errorf("entry %d: %w", i, err)
		}
		hash := ContentHash(e)
		if prev, ok := seen[hash]; ok {
			return nil, nil, newValidationError(KindDuplicateEntry, "entry %d duplicates entry %d in the same batch", i, prev)
		}
		seen[hash] = i

		warning, err := s.checkDuplicates(e, hash, 0, force)
		if err != nil {
			return nil, nil, fmt.Errorf("entry %d: %w", i, err)
		}
		if warning != "" {
			if len(entries) > 1 {
				warning = fmt.Sprintf("entry %d: %s", i, warning)
			}
			warnings = append(warnings, warning)
		}
	}

	tx, err := s.db.Conn().Begin()
	if err != nil {
		return nil, nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	ids := make([]int64, 0, len(entries))
	for _, e := range entries {
		id, err := insertEntry(tx, e)
		if err != nil {
			return nil, nil, err
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("committing entries: %w", err)
	}

	s.log.Info().Int("year", year).Int("count", len(ids)).Msg("entries added")
	return ids, warnings, nil
}

func insertEntry(tx *sql.Tx, e model.JournalEntry) (int64, error) {
	res, err := tx.Exec(
		`INSERT INTO journals (fiscal_year, date, description, source, source_file, is_adjustment, content_hash)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.FiscalYear, e.Date, e.Description, e.Source, e.SourceFile, e.IsAdjustment, ContentHash(e),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading entry id: %w", err)
	}
	for _, ln := range e.Lines {
		_, err := tx.Exec(
			`INSERT INTO journal_lines (journal_id, side, account_code, amount, tax_category, tax_amount)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			id, string(ln.Side), ln.AccountCode, ln.Amount, ln.TaxCategory, ln.TaxAmount,
		)
		if err != nil {
			return 0, fmt.Errorf("inserting line for entry %d: %w", id, err)
		}
	}
	return id, nil
}

// UpdateEntry replaces an entry's header fields and its full line set.
// Partial line edits are not supported; callers always send the complete
// replacement, which keeps the balance check and rehash trivial.
func (s *Service) UpdateEntry(id int64, e model.JournalEntry) error {
	existing, err := s.GetEntry(id)
	if err != nil {
		return err
	}
	if err := s.ensureYearOpen(existing.FiscalYear); err != nil {
		return err
	}

	e.FiscalYear = existing.FiscalYear
	if err := s.validate(e); err != nil {
		return err
	}

	hash := ContentHash(e)
	if _, err := s.checkDuplicates(e, hash, id, true); err != nil {
		return err
	}

	tx, err := s.db.Conn().Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`UPDATE journals SET date = ?, description = ?, is_adjustment = ?, content_hash = ?, updated_at = datetime('now')
		 WHERE id = ?`,
		e.Date, e.Description, e.IsAdjustment, hash, id,
	)
	if err != nil {
		return fmt.Errorf("updating entry %d: %w", id, err)
	}
	if _, err := tx.Exec("DELETE FROM journal_lines WHERE journal_id = ?", id); err != nil {
		return fmt.Errorf("clearing lines for entry %d: %w", id, err)
	}
	for _, ln := range e.Lines {
		_, err := tx.Exec(
			`INSERT INTO journal_lines (journal_id, side, account_code, amount, tax_category, tax_amount)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			id, string(ln.Side), ln.AccountCode, ln.Amount, ln.TaxCategory, ln.TaxAmount,
		)
		if err != nil {
			return fmt.Errorf("inserting line for entry %d: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing update: %w", err)
	}
	s.log.Info().Int64("id", id).Msg("entry updated")
	return nil
}

// DeleteEntry removes an entry and its lines.
func (s *Service) DeleteEntry(id int64) error {
	existing, err := s.GetEntry(id)
	if err != nil {
		return err
	}
	if err := s.ensureYearOpen(existing.FiscalYear); err != nil {
		return err
	}

	if _, err := s.db.Conn().Exec("DELETE FROM journals WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting entry %d: %w", id, err)
	}
	s.log.Info().Int64("id", id).Msg("entry deleted")
	return nil
}

// GetEntry loads one entry with its lines.
func (s *Service) GetEntry(id int64) (model.JournalEntry, error) {
	var e model.JournalEntry
	var isAdj int
	err := s.db.Conn().QueryRow(
		`SELECT id, fiscal_year, date, COALESCE(description, ''), COALESCE(source, ''), COALESCE(source_file, ''), is_adjustment
		 FROM journals WHERE id = ?`, id,
	).Scan(&e.ID, &e.FiscalYear, &e.Date, &e.Description, &e.Source, &e.SourceFile, &isAdj)
	if errors.Is(err, sql.ErrNoRows) {
		return model.JournalEntry{}, &NotFoundError{What: "entry", ID: id}
	}
	if err != nil {
		return model.JournalEntry{}, fmt.Errorf("reading entry %d: %w", id, err)
	}
	e.IsAdjustment = isAdj != 0

	lines, err := s.loadLines(id)
	if err != nil {
		return model.JournalEntry{}, err
	}
	e.Lines = lines
	return e, nil
}

func (s *Service) loadLines(journalID int64) ([]model.JournalLine, error) {
	rows, err := s.db.Conn().Query(
		`SELECT id, side, account_code, amount, COALESCE(tax_category, ''), tax_amount
		 FROM journal_lines WHERE journal_id = ? ORDER BY id`, journalID,
	)
	if err != nil {
		return nil, fmt.Errorf("reading lines for entry %d: %w", journalID, err)
	}
	defer rows.Close()

	var lines []model.JournalLine
	for rows.Next() {
		var ln model.JournalLine
		var side string
		if err := rows.Scan(&ln.ID, &side, &ln.AccountCode, &ln.Amount, &ln.TaxCategory, &ln.TaxAmount); err != nil {
			return nil, fmt.Errorf("scanning line: %w", err)
		}
		ln.Side = model.Side(side)
		lines = append(lines, ln)
	}
	return lines, rows.Err()
}

// SearchFilter narrows a journal search. Zero values mean "any".
type SearchFilter struct {
	FiscalYear  int
	AccountCode string
	DateFrom    string
	DateTo      string
	Description string // substring match
	Source      string
	Limit       int
}

// Search returns entries matching the filter, ordered by date then id.
func (s *Service) Search(f SearchFilter) ([]model.JournalEntry, error) {
	query := strings.Builder{}
	query.WriteString("SELECT DISTINCT j.id FROM journals j")
	var args []any
	var conds []string

	if f.AccountCode != "" {
		query.WriteString(" JOIN journal_lines l ON l.journal_id = j.id")
		conds = append(conds, "l.account_code = ?")
		args = append(args, f.AccountCode)
	}
	if f.FiscalYear != 0 {
		conds = append(conds, "j.fiscal_year = ?")
		args = append(args, f.FiscalYear)
	}
	if f.DateFrom != "" {
		conds = append(conds, "j.date >= ?")
		args = append(args, f.DateFrom)
	}
	if f.DateTo != "" {
		conds = append(conds, "j.date <= ?")
		args = append(args, f.DateTo)
	}
	if f.Description != "" {
		conds = append(conds, "j.description LIKE ?")
		args = append(args, "%"+f.Description+"%")
	}
	if f.Source != "" {
		conds = append(conds, "j.source = ?")
		args = append(args, f.Source)
	}
	if len(conds) > 0 {
		query.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}
	query.WriteString(" ORDER BY j.date, j.id")
	if f.Limit > 0 {
		query.WriteString(" LIMIT ?")
		args = append(args, f.Limit)
	}

	rows, err := s.db.Conn().Query(query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("searching entries: %w", err)
	}
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning entry id: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	entries := make([]model.JournalEntry, 0, len(ids))
	for _, id := range ids {
		e, err := s.GetEntry(id)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// SetOpeningBalance upserts the opening balance of one account for a year.
func (s *Service) SetOpeningBalance(year int, accountCode string, side model.Side, amount int64) error {
	if err := s.ensureYearOpen(year); err != nil {
		return err
	}
	if !s.accounts.Exists(accountCode) {
		return newValidationError(KindUnknownAccount, "account %s is not in the chart of accounts", accountCode)
	}
	if amount <= 0 {
		return newValidationError(KindNonPositiveAmount, "account %s: amount %d must be positive", accountCode, amount)
	}
	if side != model.SideDebit && side != model.SideCredit {
		return newValidationError(KindInvalidEntry, "side %q is not debit or credit", side)
	}

	_, err := s.db.Conn().Exec(
		`INSERT INTO opening_balances (fiscal_year, account_code, side, amount) VALUES (?, ?, ?, ?)
		 ON CONFLICT (fiscal_year, account_code) DO UPDATE SET side = excluded.side, amount = excluded.amount`,
		year, accountCode, string(side), amount,
	)
	if err != nil {
		return fmt.Errorf("setting opening balance for %s: %w", accountCode, err)
	}
	return nil
}

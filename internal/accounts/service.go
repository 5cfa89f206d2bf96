// Package accounts provides the immutable chart-of-accounts catalog.
package accounts

import (
	"database/sql"
	"fmt"

	"github.com/aoiro-dev/aoiro/internal/model"
)

// Service provides in-memory lookup over the chart of accounts.
type Service struct {
	accounts []model.Account
	byCode   map[string]model.Account
}

// NewService creates a Service from a slice of accounts.
func NewService(accounts []model.Account) *Service {
	byCode := make(map[string]model.Account, len(accounts))
	for _, a := range accounts {
		byCode[a.Code] = a
	}
	return &Service{accounts: accounts, byCode: byCode}
}

// NewMasterService returns a Service over the static master chart.
func NewMasterService() *Service {
	return NewService(MasterChart())
}

// All returns all accounts.
func (s *Service) All() []model.Account {
	return s.accounts
}

// Get returns an account by code.
func (s *Service) Get(code string) (model.Account, bool) {
	a, ok := s.byCode[code]
	return a, ok
}

// Exists reports whether an account code exists.
func (s *Service) Exists(code string) bool {
	_, ok := s.byCode[code]
	return ok
}

// ByCategory returns all accounts of the given category.
func (s *Service) ByCategory(category model.AccountCategory) []model.Account {
	var result []model.Account
	for _, a := range s.accounts {
		if a.Category == category {
			result = append(result, a)
		}
	}
	return result
}

// Seed inserts the catalog into the accounts table. INSERT OR IGNORE keeps
// the operation idempotent; the catalog is never updated in place.
func (s *Service) Seed(conn *sql.DB) error {
	tx, err := conn.Begin()
	if err != nil {
		return fmt.Errorf("beginning seed transaction: %w", err)
	}
	defer tx.Rollback()

	for _, a := range s.accounts {
		_, err := tx.Exec(
			"INSERT OR IGNORE INTO accounts (code, name, category, sub_category, tax_category) VALUES (?, ?, ?, ?, ?)",
			a.Code, a.Name, string(a.Category), a.SubCategory, nullString(a.TaxCategory),
		)
		if err != nil {
			return fmt.Errorf("seeding account %s: %w", a.Code, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing seed: %w", err)
	}
	return nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

package journal

import (
	"fmt"

	"github.com/aoiro-dev/aoiro/internal/model"
)

// accountTotals is the per-account debit/credit aggregation a report
// starts from. Opening balances are folded in as one-sided postings.
type accountTotals struct {
	debit  int64
	credit int64
}

func (s *Service) aggregate(year int, includeOpening bool) (map[string]accountTotals, error) {
	totals := make(map[string]accountTotals)

	rows, err := s.db.Conn().Query(
		`SELECT l.account_code, l.side, SUM(l.amount)
		 FROM journal_lines l JOIN journals j ON j.id = l.journal_id
		 WHERE j.fiscal_year = ?
		 GROUP BY l.account_code, l.side`, year,
	)
	if err != nil {
		return nil, fmt.Errorf("aggregating postings: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var code, side string
		var sum int64
		if err := rows.Scan(&code, &side, &sum); err != nil {
			return nil, fmt.Errorf("scanning aggregate row: %w", err)
		}
		t := totals[code]
		if side == string(model.SideDebit) {
			t.debit += sum
		} else {
			t.credit += sum
		}
		totals[code] = t
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !includeOpening {
		return totals, nil
	}

	obRows, err := s.db.Conn().Query(
		"SELECT account_code, side, amount FROM opening_balances WHERE fiscal_year = ?", year,
	)
	if err != nil {
		return nil, fmt.Errorf("reading opening balances: %w", err)
	}
	defer obRows.Close()
	for obRows.Next() {
		var code, side string
		var amount int64
		if err := obRows.Scan(&code, &side, &amount); err != nil {
			return nil, fmt.Errorf("scanning opening balance: %w", err)
		}
		t := totals[code]
		if side == string(model.SideDebit) {
			t.debit += amount
		} else {
			t.credit += amount
		}
		totals[code] = t
	}
	return totals, obRows.Err()
}

// TrialBalance lists every posted account with its debit and credit totals.
// Opening balances are included. The grand totals always agree when the
// stored data is intact; a disagreement is reported as a diagnostic and is
// never repaired.
func (s *Service) TrialBalance(year int) (model.TrialBalance, error) {
	totals, err := s.aggregate(year, true)
	if err != nil {
		return model.TrialBalance{}, err
	}

	tb := model.TrialBalance{FiscalYear: year}
	for _, a := range s.accounts.All() {
		t, ok := totals[a.Code]
		if !ok {
			continue
		}
		balance := t.debit - t.credit
		if model.NormalSide(a.Category) == model.SideCredit {
			balance = t.credit - t.debit
		}
		tb.Accounts = append(tb.Accounts, model.TrialBalanceAccount{
			AccountCode: a.Code,
			AccountName: a.Name,
			Category:    string(a.Category),
			DebitTotal:  t.debit,
			CreditTotal: t.credit,
			Balance:     balance,
		})
		tb.TotalDebit += t.debit
		tb.TotalCredit += t.credit
	}

	if tb.TotalDebit != tb.TotalCredit {
		tb.Diagnostic = fmt.Sprintf(
			"trial balance does not hold: total debit %d != total credit %d (difference %d)",
			tb.TotalDebit, tb.TotalCredit, tb.TotalDebit-tb.TotalCredit)
		s.log.Warn().Int("year", year).Str("diagnostic", tb.Diagnostic).Msg("trial balance mismatch")
	}
	return tb, nil
}

// ProfitAndLoss computes the income statement from current-year postings.
// Opening balances never apply to flow accounts.
func (s *Service) ProfitAndLoss(year int) (model.ProfitAndLoss, error) {
	totals, err := s.aggregate(year, false)
	if err != nil {
		return model.ProfitAndLoss{}, err
	}

	pl := model.ProfitAndLoss{FiscalYear: year}
	for _, a := range s.accounts.All() {
		t, ok := totals[a.Code]
		if !ok {
			continue
		}
		switch a.Category {
		case model.CategoryRevenue:
			amount := t.credit - t.debit
			pl.Revenues = append(pl.Revenues, model.ReportItem{AccountCode: a.Code, AccountName: a.Name, Amount: amount})
			pl.TotalRevenue += amount
		case model.CategoryExpense:
			amount := t.debit - t.credit
			pl.Expenses = append(pl.Expenses, model.ReportItem{AccountCode: a.Code, AccountName: a.Name, Amount: amount})
			pl.TotalExpense += amount
		}
	}
	pl.NetIncome = pl.TotalRevenue - pl.TotalExpense
	return pl, nil
}

// BalanceSheet computes the statement of financial position as of year end.
// The unclosed year's net income is folded into equity so the sheet balances
// without a closing entry. A residual gap, typically from missing opening
// balances, is surfaced as a diagnostic.
func (s *Service) BalanceSheet(year int) (model.BalanceSheet, error) {
	totals, err := s.aggregate(year, true)
	if err != nil {
		return model.BalanceSheet{}, err
	}
	pl, err := s.ProfitAndLoss(year)
	if err != nil {
		return model.BalanceSheet{}, err
	}

	bs := model.BalanceSheet{FiscalYear: year, NetIncome: pl.NetIncome}
	for _, a := range s.accounts.All() {
		t, ok := totals[a.Code]
		if !ok {
			continue
		}
		switch a.Category {
		case model.CategoryAsset:
			amount := t.debit - t.credit
			bs.Assets = append(bs.Assets, model.ReportItem{AccountCode: a.Code, AccountName: a.Name, Amount: amount})
			bs.TotalAssets += amount
		case model.CategoryLiability:
			amount := t.credit - t.debit
			bs.Liabilities = append(bs.Liabilities, model.ReportItem{AccountCode: a.Code, AccountName: a.Name, Amount: amount})
			bs.TotalLiabilities += amount
		case model.CategoryEquity:
			amount := t.credit - t.debit
			bs.Equity = append(bs.Equity, model.ReportItem{AccountCode: a.Code, AccountName: a.Name, Amount: amount})
			bs.TotalEquity += amount
		}
	}

	bs.Equity = append(bs.Equity, model.ReportItem{AccountCode: "", AccountName: "当期純利益", Amount: pl.NetIncome})
	bs.TotalEquity += pl.NetIncome

	if bs.TotalAssets != bs.TotalLiabilities+bs.TotalEquity {
		bs.Diagnostic = fmt.Sprintf(
			"balance sheet does not balance: assets %d != liabilities %d + equity %d",
			bs.TotalAssets, bs.TotalLiabilities, bs.TotalEquity)
		s.log.Warn().Int("year", year).Str("diagnostic", bs.Diagnostic).Msg("balance sheet mismatch")
	}
	return bs, nil
}

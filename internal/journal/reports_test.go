package journal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aoiro-dev/aoiro/internal/model"
)

// seedSampleYear posts a small but complete year: an opening bank balance,
// two sales, a purchase and rent.
func seedSampleYear(t *testing.T, svc *Service) {
	t.Helper()

	require.NoError(t, svc.SetOpeningBalance(2025, "1002", model.SideDebit, 1000000))
	require.NoError(t, svc.SetOpeningBalance(2025, "3001", model.SideCredit, 1000000))

	entries := []model.JournalEntry{
		{
			FiscalYear: 2025, Date: "2025-04-10", Description: "sales A",
			Lines: []model.JournalLine{
				{Side: model.SideDebit, AccountCode: "1002", Amount: 500000},
				{Side: model.SideCredit, AccountCode: "4001", Amount: 500000},
			},
		},
		{
			FiscalYear: 2025, Date: "2025-05-10", Description: "sales B",
			Lines: []model.JournalLine{
				{Side: model.SideDebit, AccountCode: "1002", Amount: 300000},
				{Side: model.SideCredit, AccountCode: "4001", Amount: 300000},
			},
		},
		{
			FiscalYear: 2025, Date: "2025-05-20", Description: "supplies",
			Lines: []model.JournalLine{
				{Side: model.SideDebit, AccountCode: "5100", Amount: 40000},
				{Side: model.SideCredit, AccountCode: "1002", Amount: 40000},
			},
		},
		{
			FiscalYear: 2025, Date: "2025-05-31", Description: "rent may",
			Lines: []model.JournalLine{
				{Side: model.SideDebit, AccountCode: "5160", Amount: 80000},
				{Side: model.SideCredit, AccountCode: "1002", Amount: 80000},
			},
		},
	}
	_, _, err := svc.AddEntries(entries, false)
	require.NoError(t, err)
}

func TestTrialBalance(t *testing.T) {
	svc := newTestService(t)
	seedSampleYear(t, svc)

	tb, err := svc.TrialBalance(2025)
	require.NoError(t, err)
	assert.Empty(t, tb.Diagnostic)
	assert.Equal(t, tb.TotalDebit, tb.TotalCredit)

	byCode := make(map[string]model.TrialBalanceAccount)
	for _, a := range tb.Accounts {
		byCode[a.AccountCode] = a
	}

	// Bank: 1,000,000 opening + 800,000 in - 120,000 out.
	bank := byCode["1002"]
	assert.Equal(t, int64(1800000), bank.DebitTotal)
	assert.Equal(t, int64(120000), bank.CreditTotal)
	assert.Equal(t, int64(1680000), bank.Balance)

	sales := byCode["4001"]
	assert.Equal(t, int64(800000), sales.Balance)
}

func TestProfitAndLoss(t *testing.T) {
	svc := newTestService(t)
	seedSampleYear(t, svc)

	pl, err := svc.ProfitAndLoss(2025)
	require.NoError(t, err)
	assert.Equal(t, int64(800000), pl.TotalRevenue)
	assert.Equal(t, int64(120000), pl.TotalExpense)
	assert.Equal(t, int64(680000), pl.NetIncome)
	require.Len(t, pl.Revenues, 1)
	assert.Equal(t, "売上高", pl.Revenues[0].AccountName)
	assert.Len(t, pl.Expenses, 2)
}

func TestBalanceSheetBalances(t *testing.T) {
	svc := newTestService(t)
	seedSampleYear(t, svc)

	bs, err := svc.BalanceSheet(2025)
	require.NoError(t, err)
	assert.Empty(t, bs.Diagnostic)

	assert.Equal(t, int64(1680000), bs.TotalAssets)
	assert.Equal(t, int64(0), bs.TotalLiabilities)
	// Equity: 1,000,000 opening capital + 680,000 net income.
	assert.Equal(t, int64(1680000), bs.TotalEquity)
	assert.Equal(t, int64(680000), bs.NetIncome)
	assert.Equal(t, bs.TotalAssets, bs.TotalLiabilities+bs.TotalEquity)
}

func TestBalanceSheetDiagnosticOnMissingOpening(t *testing.T) {
	svc := newTestService(t)

	// Opening bank balance without the matching capital side.
	require.NoError(t, svc.SetOpeningBalance(2025, "1002", model.SideDebit, 500000))
	_, _, err := svc.AddEntry(model.JournalEntry{
		FiscalYear: 2025, Date: "2025-04-01", Description: "sale",
		Lines: []model.JournalLine{
			{Side: model.SideDebit, AccountCode: "1002", Amount: 100000},
			{Side: model.SideCredit, AccountCode: "4001", Amount: 100000},
		},
	}, false)
	require.NoError(t, err)

	bs, err := svc.BalanceSheet(2025)
	require.NoError(t, err)
	assert.NotEmpty(t, bs.Diagnostic)
	assert.NotEqual(t, bs.TotalAssets, bs.TotalLiabilities+bs.TotalEquity)
}

func TestCloseYearRequiresBalancedBooks(t *testing.T) {
	svc := newTestService(t)

	require.NoError(t, svc.SetOpeningBalance(2025, "1002", model.SideDebit, 500000))

	err := svc.CloseYear(2025)
	var cerr *ConsistencyError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, KindTrialBalanceMismatch, cerr.Kind)

	require.NoError(t, svc.SetOpeningBalance(2025, "3001", model.SideCredit, 500000))
	require.NoError(t, svc.CloseYear(2025))

	status, err := svc.YearStatus(2025)
	require.NoError(t, err)
	assert.Equal(t, model.YearClosed, status)
}

func TestScanDuplicates(t *testing.T) {
	svc := newTestService(t)

	mk := func(date, debit, credit string, amount int64) model.JournalEntry {
		return model.JournalEntry{
			FiscalYear: 2025, Date: date,
			Lines: []model.JournalLine{
				{Side: model.SideDebit, AccountCode: debit, Amount: amount},
				{Side: model.SideCredit, AccountCode: credit, Amount: amount},
			},
		}
	}

	// Same date and amount through different accounts: score 70.
	_, _, err := svc.AddEntry(mk("2025-04-10", "1002", "4001", 50000), false)
	require.NoError(t, err)
	_, _, err = svc.AddEntry(mk("2025-04-10", "1001", "4010", 50000), true)
	require.NoError(t, err)

	// Same date, amount and accounts but different sides pairing: score 90.
	_, _, err = svc.AddEntry(mk("2025-06-01", "5160", "1002", 80000), false)
	require.NoError(t, err)
	_, _, err = svc.AddEntry(mk("2025-06-01", "1002", "5160", 80000), true)
	require.NoError(t, err)

	// Unrelated entry never appears.
	_, _, err = svc.AddEntry(mk("2025-07-01", "1002", "4001", 99999), false)
	require.NoError(t, err)

	pairs, err := svc.ScanDuplicates(2025, 0)
	require.NoError(t, err)
	require.Len(t, pairs, 2)

	assert.Equal(t, 90, pairs[0].Score)
	assert.Equal(t, int64(80000), pairs[0].Amount)
	assert.Equal(t, 70, pairs[1].Score)
	assert.Equal(t, int64(50000), pairs[1].Amount)

	strict, err := svc.ScanDuplicates(2025, 90)
	require.NoError(t, err)
	assert.Len(t, strict, 1)
}

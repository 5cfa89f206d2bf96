package journal

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aoiro-dev/aoiro/internal/accounts"
	"github.com/aoiro-dev/aoiro/internal/database"
	"github.com/aoiro-dev/aoiro/internal/model"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	db, err := database.Init(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	catalog := accounts.NewMasterService()
	require.NoError(t, catalog.Seed(db.Conn()))

	svc := NewService(db, catalog, zerolog.Nop())
	require.NoError(t, svc.InitYear(2025))
	return svc
}

func salesEntry(date string, amount int64) model.JournalEntry {
	return model.JournalEntry{
		FiscalYear:  2025,
		Date:        date,
		Description: "consulting fee",
		Lines: []model.JournalLine{
			{Side: model.SideDebit, AccountCode: "1002", Amount: amount},
			{Side: model.SideCredit, AccountCode: "4001", Amount: amount},
		},
	}
}

func TestAddEntryAndGet(t *testing.T) {
	svc := newTestService(t)

	id, _, err := svc.AddEntry(salesEntry("2025-04-10", 330000), false)
	require.NoError(t, err)
	require.NotZero(t, id)

	got, err := svc.GetEntry(id)
	require.NoError(t, err)
	assert.Equal(t, "2025-04-10", got.Date)
	assert.Equal(t, "consulting fee", got.Description)
	require.Len(t, got.Lines, 2)
	assert.Equal(t, int64(330000), got.DebitTotal())
	assert.Equal(t, int64(330000), got.CreditTotal())
}

func TestAddEntryValidation(t *testing.T) {
	svc := newTestService(t)

	tests := []struct {
		name  string
		entry model.JournalEntry
		kind  ValidationKind
	}{
		{
			name: "unbalanced",
			entry: model.JournalEntry{
				FiscalYear: 2025, Date: "2025-04-01",
				Lines: []model.JournalLine{
					{Side: model.SideDebit, AccountCode: "1002", Amount: 1000},
					{Side: model.SideCredit, AccountCode: "4001", Amount: 900},
				},
			},
			kind: KindUnbalanced,
		},
		{
			name: "unknown account",
			entry: model.JournalEntry{
				FiscalYear: 2025, Date: "2025-04-01",
				Lines: []model.JournalLine{
					{Side: model.SideDebit, AccountCode: "9999", Amount: 1000},
					{Side: model.SideCredit, AccountCode: "4001", Amount: 1000},
				},
			},
			kind: KindUnknownAccount,
		},
		{
			name: "zero amount",
			entry: model.JournalEntry{
				FiscalYear: 2025, Date: "2025-04-01",
				Lines: []model.JournalLine{
					{Side: model.SideDebit, AccountCode: "1002", Amount: 0},
					{Side: model.SideCredit, AccountCode: "4001", Amount: 0},
				},
			},
			kind: KindNonPositiveAmount,
		},
		{
			name: "negative amount",
			entry: model.JournalEntry{
				FiscalYear: 2025, Date: "2025-04-01",
				Lines: []model.JournalLine{
					{Side: model.SideDebit, AccountCode: "1002", Amount: -500},
					{Side: model.SideCredit, AccountCode: "4001", Amount: -500},
				},
			},
			kind: KindNonPositiveAmount,
		},
		{
			name: "bad date",
			entry: model.JournalEntry{
				FiscalYear: 2025, Date: "2025/04/01",
				Lines: []model.JournalLine{
					{Side: model.SideDebit, AccountCode: "1002", Amount: 1000},
					{Side: model.SideCredit, AccountCode: "4001", Amount: 1000},
				},
			},
			kind: KindInvalidEntry,
		},
		{
			name: "debit only",
			entry: model.JournalEntry{
				FiscalYear: 2025, Date: "2025-04-01",
				Lines: []model.JournalLine{
					{Side: model.SideDebit, AccountCode: "1002", Amount: 1000},
					{Side: model.SideDebit, AccountCode: "1001", Amount: 1000},
				},
			},
			kind: KindInvalidEntry,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.AddEntry(tt.entry, false)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.kind, verr.Kind)
		})
	}
}

func TestAddEntryMultiLine(t *testing.T) {
	svc := newTestService(t)

	// One debit split across two credits still has to balance in total.
	entry := model.JournalEntry{
		FiscalYear: 2025, Date: "2025-05-20",
		Description: "salary payment",
		Lines: []model.JournalLine{
			{Side: model.SideDebit, AccountCode: "5130", Amount: 300000},
			{Side: model.SideCredit, AccountCode: "1002", Amount: 270000},
			{Side: model.SideCredit, AccountCode: "2020", Amount: 30000},
		},
	}
	id, _, err := svc.AddEntry(entry, false)
	require.NoError(t, err)

	got, err := svc.GetEntry(id)
	require.NoError(t, err)
	assert.Equal(t, got.DebitTotal(), got.CreditTotal())
	assert.Len(t, got.Lines, 3)
}

func TestExactDuplicateRejected(t *testing.T) {
	svc := newTestService(t)

	_, _, err := svc.AddEntry(salesEntry("2025-04-10", 330000), false)
	require.NoError(t, err)

	// Same postings with a different description is still an exact duplicate.
	dup := salesEntry("2025-04-10", 330000)
	dup.Description = "reworded"
	_, _, err = svc.AddEntry(dup, false)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, KindDuplicateEntry, verr.Kind)

	// Force does not override an exact content match.
	_, _, err = svc.AddEntry(dup, true)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, KindDuplicateEntry, verr.Kind)
}

func TestSimilarDuplicateNeedsForce(t *testing.T) {
	svc := newTestService(t)

	_, _, err := svc.AddEntry(salesEntry("2025-04-10", 50000), false)
	require.NoError(t, err)

	// Same date and total through different accounts.
	similar := model.JournalEntry{
		FiscalYear: 2025, Date: "2025-04-10",
		Description: "cash sale",
		Lines: []model.JournalLine{
			{Side: model.SideDebit, AccountCode: "1001", Amount: 50000},
			{Side: model.SideCredit, AccountCode: "4010", Amount: 50000},
		},
	}
	_, _, err = svc.AddEntry(similar, false)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, KindDuplicateEntry, verr.Kind)

	// The forced insert succeeds but reports the match back.
	id, warnings, err := svc.AddEntry(similar, true)
	require.NoError(t, err)
	assert.NotZero(t, id)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "same total amount")
}

func TestBatchIsAtomic(t *testing.T) {
	svc := newTestService(t)

	batch := []model.JournalEntry{
		salesEntry("2025-04-01", 10000),
		salesEntry("2025-04-02", 20000),
		{
			FiscalYear: 2025, Date: "2025-04-03",
			Lines: []model.JournalLine{
				{Side: model.SideDebit, AccountCode: "1002", Amount: 100},
				{Side: model.SideCredit, AccountCode: "4001", Amount: 999},
			},
		},
	}
	_, _, err := svc.AddEntries(batch, false)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	// Nothing from the failed batch was written.
	entries, err := svc.Search(SearchFilter{FiscalYear: 2025})
	require.NoError(t, err)
	assert.Empty(t, entries)

	ids, _, err := svc.AddEntries(batch[:2], false)
	require.NoError(t, err)
	assert.Len(t, ids, 2)
}

func TestBatchRejectsInternalDuplicates(t *testing.T) {
	svc := newTestService(t)

	_, _, err := svc.AddEntries([]model.JournalEntry{
		salesEntry("2025-04-01", 10000),
		salesEntry("2025-04-01", 10000),
	}, false)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, KindDuplicateEntry, verr.Kind)
}

func TestUpdateEntryReplacesLines(t *testing.T) {
	svc := newTestService(t)

	id, _, err := svc.AddEntry(salesEntry("2025-04-10", 330000), false)
	require.NoError(t, err)

	updated := salesEntry("2025-04-11", 340000)
	updated.Description = "corrected fee"
	require.NoError(t, svc.UpdateEntry(id, updated))

	got, err := svc.GetEntry(id)
	require.NoError(t, err)
	assert.Equal(t, "2025-04-11", got.Date)
	assert.Equal(t, "corrected fee", got.Description)
	assert.Equal(t, int64(340000), got.DebitTotal())
	require.Len(t, got.Lines, 2)
}

func TestUpdateEntryHashCollision(t *testing.T) {
	svc := newTestService(t)

	_, _, err := svc.AddEntry(salesEntry("2025-04-10", 330000), false)
	require.NoError(t, err)
	id2, _, err := svc.AddEntry(salesEntry("2025-04-11", 340000), false)
	require.NoError(t, err)

	// Rewriting entry 2 into a copy of entry 1 must be rejected.
	err = svc.UpdateEntry(id2, salesEntry("2025-04-10", 330000))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, KindDuplicateEntry, verr.Kind)
}

func TestDeleteEntry(t *testing.T) {
	svc := newTestService(t)

	id, _, err := svc.AddEntry(salesEntry("2025-04-10", 330000), false)
	require.NoError(t, err)
	require.NoError(t, svc.DeleteEntry(id))

	_, err = svc.GetEntry(id)
	var nferr *NotFoundError
	require.ErrorAs(t, err, &nferr)

	err = svc.DeleteEntry(id)
	require.ErrorAs(t, err, &nferr)
}

func TestSearchFilters(t *testing.T) {
	svc := newTestService(t)

	_, _, err := svc.AddEntry(salesEntry("2025-03-01", 10000), false)
	require.NoError(t, err)
	_, _, err = svc.AddEntry(salesEntry("2025-06-15", 20000), false)
	require.NoError(t, err)

	rent := model.JournalEntry{
		FiscalYear: 2025, Date: "2025-06-30",
		Description: "office rent june",
		Lines: []model.JournalLine{
			{Side: model.SideDebit, AccountCode: "5160", Amount: 80000},
			{Side: model.SideCredit, AccountCode: "1002", Amount: 80000},
		},
	}
	_, _, err = svc.AddEntry(rent, false)
	require.NoError(t, err)

	byRange, err := svc.Search(SearchFilter{FiscalYear: 2025, DateFrom: "2025-06-01", DateTo: "2025-06-30"})
	require.NoError(t, err)
	assert.Len(t, byRange, 2)

	byAccount, err := svc.Search(SearchFilter{FiscalYear: 2025, AccountCode: "5160"})
	require.NoError(t, err)
	require.Len(t, byAccount, 1)
	assert.Equal(t, "office rent june", byAccount[0].Description)

	byDesc, err := svc.Search(SearchFilter{FiscalYear: 2025, Description: "rent"})
	require.NoError(t, err)
	assert.Len(t, byDesc, 1)

	limited, err := svc.Search(SearchFilter{FiscalYear: 2025, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestClosedYearBlocksMutation(t *testing.T) {
	svc := newTestService(t)

	id, _, err := svc.AddEntry(salesEntry("2025-04-10", 330000), false)
	require.NoError(t, err)
	require.NoError(t, svc.CloseYear(2025))

	var verr *ValidationError

	_, _, err = svc.AddEntry(salesEntry("2025-12-01", 1000), false)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, KindFiscalYearClosed, verr.Kind)

	err = svc.UpdateEntry(id, salesEntry("2025-04-11", 340000))
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, KindFiscalYearClosed, verr.Kind)

	err = svc.DeleteEntry(id)
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, KindFiscalYearClosed, verr.Kind)

	// Reads still work.
	_, err = svc.GetEntry(id)
	require.NoError(t, err)
	_, err = svc.TrialBalance(2025)
	require.NoError(t, err)
}

func TestYearStatusUnknownYear(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.YearStatus(1999)
	var nferr *NotFoundError
	require.True(t, errors.As(err, &nferr))
}

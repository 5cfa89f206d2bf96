package depreciation

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aoiro-dev/aoiro/internal/accounts"
	"github.com/aoiro-dev/aoiro/internal/database"
	"github.com/aoiro-dev/aoiro/internal/journal"
	"github.com/aoiro-dev/aoiro/internal/model"
	"github.com/aoiro-dev/aoiro/internal/taxconst"
)

func newTestService(t *testing.T) (*Service, *journal.Service) {
	t.Helper()

	db, err := database.Init(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	catalog := accounts.NewMasterService()
	require.NoError(t, catalog.Seed(db.Conn()))

	js := journal.NewService(db, catalog, zerolog.Nop())
	require.NoError(t, js.InitYear(2025))

	c, err := taxconst.Load(2025)
	require.NoError(t, err)

	return NewService(db, js, c, zerolog.Nop()), js
}

func testAsset() model.FixedAsset {
	return model.FixedAsset{
		FiscalYear:       2025,
		Name:             "業務用PC",
		AcquisitionDate:  "2025-01-15",
		AcquisitionCost:  300000,
		Method:           model.MethodStraightLine,
		UsefulLife:       4,
		BusinessUseRatio: 100,
	}
}

func TestAddAndGetAsset(t *testing.T) {
	svc, _ := newTestService(t)

	id, err := svc.AddAsset(testAsset())
	require.NoError(t, err)
	require.NotZero(t, id)

	got, err := svc.GetAsset(id)
	require.NoError(t, err)
	assert.Equal(t, "業務用PC", got.Name)
	assert.Equal(t, int64(300000), got.AcquisitionCost)
	assert.Equal(t, model.MethodStraightLine, got.Method)
	assert.Equal(t, int64(300000), got.BookValue())
}

func TestAddAssetValidation(t *testing.T) {
	svc, _ := newTestService(t)

	tests := []struct {
		name   string
		mutate func(*model.FixedAsset)
	}{
		{"empty name", func(a *model.FixedAsset) { a.Name = "" }},
		{"zero cost", func(a *model.FixedAsset) { a.AcquisitionCost = 0 }},
		{"zero life", func(a *model.FixedAsset) { a.UsefulLife = 0 }},
		{"ratio out of range", func(a *model.FixedAsset) { a.BusinessUseRatio = 101 }},
		{"unknown method", func(a *model.FixedAsset) { a.Method = "units_of_production" }},
		{"bad date", func(a *model.FixedAsset) { a.AcquisitionDate = "15/01/2025" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := testAsset()
			tt.mutate(&a)
			_, err := svc.AddAsset(a)
			require.Error(t, err)
		})
	}
}

func TestGetAssetNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.GetAsset(999)
	var nf *journal.NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestDeleteAsset(t *testing.T) {
	svc, _ := newTestService(t)

	id, err := svc.AddAsset(testAsset())
	require.NoError(t, err)
	require.NoError(t, svc.DeleteAsset(id))

	var nf *journal.NotFoundError
	assert.True(t, errors.As(svc.DeleteAsset(id), &nf))
}

func TestListAssetsSkipsDisposedAndFuture(t *testing.T) {
	svc, _ := newTestService(t)

	id1, err := svc.AddAsset(testAsset())
	require.NoError(t, err)

	disposed := testAsset()
	disposed.Name = "旧プリンタ"
	id2, err := svc.AddAsset(disposed)
	require.NoError(t, err)
	require.NoError(t, svc.DisposeAsset(id2))

	future := testAsset()
	future.FiscalYear = 2026
	future.AcquisitionDate = "2026-03-01"
	_, err = svc.AddAsset(future)
	require.NoError(t, err)

	assets, err := svc.ListAssets(2025)
	require.NoError(t, err)
	require.Len(t, assets, 1)
	assert.Equal(t, id1, assets[0].ID)
}

func TestRunYearPostsAggregateEntry(t *testing.T) {
	svc, js := newTestService(t)

	id1, err := svc.AddAsset(testAsset())
	require.NoError(t, err)

	second := testAsset()
	second.Name = "撮影機材"
	second.AcquisitionDate = "2025-07-01"
	second.AcquisitionCost = 1000000
	id2, err := svc.AddAsset(second)
	require.NoError(t, err)

	result, err := svc.RunYear(2025)
	require.NoError(t, err)

	// 75,000 for the full year plus 125,000 for six months.
	assert.Equal(t, int64(200000), result.Total)
	require.Len(t, result.Assets, 2)
	require.NotZero(t, result.JournalID)

	entry, err := js.GetEntry(result.JournalID)
	require.NoError(t, err)
	assert.True(t, entry.IsAdjustment)
	assert.Equal(t, "depreciation", entry.Source)
	assert.Equal(t, int64(200000), entry.DebitTotal())

	a1, err := svc.GetAsset(id1)
	require.NoError(t, err)
	assert.Equal(t, int64(75000), a1.AccumulatedDepreciation)

	a2, err := svc.GetAsset(id2)
	require.NoError(t, err)
	assert.Equal(t, int64(125000), a2.AccumulatedDepreciation)
}

func TestRunYearTwiceRejectedAsDuplicate(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.AddAsset(testAsset())
	require.NoError(t, err)

	_, err = svc.RunYear(2025)
	require.NoError(t, err)

	_, err = svc.RunYear(2025)
	require.Error(t, err)
	var ve *journal.ValidationError
	assert.True(t, errors.As(err, &ve))
}

func TestRunYearNothingToPost(t *testing.T) {
	svc, _ := newTestService(t)

	result, err := svc.RunYear(2025)
	require.NoError(t, err)
	assert.Zero(t, result.Total)
	assert.Zero(t, result.JournalID)
}

func TestAssetSchedule(t *testing.T) {
	svc, _ := newTestService(t)

	id, err := svc.AddAsset(testAsset())
	require.NoError(t, err)

	schedule, err := svc.AssetSchedule(id, 2027)
	require.NoError(t, err)
	require.Len(t, schedule, 3)
	assert.Equal(t, int64(75000), schedule[0].Amount)
	assert.Equal(t, int64(150000), schedule[2].ClosingBook)
}

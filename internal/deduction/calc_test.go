package deduction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aoiro-dev/aoiro/internal/model"
)

func findItem(items []Item, typ string) (Item, bool) {
	for _, it := range items {
		if it.Type == typ {
			return it, true
		}
	}
	return Item{}, false
}

func TestCalculateBasicOnly(t *testing.T) {
	e := newTestEngine(t)

	r := e.Calculate(Input{FiscalYear: 2025, TotalIncome: 5000000})
	require.Len(t, r.IncomeDeductions, 1)
	assert.Equal(t, "basic", r.IncomeDeductions[0].Type)
	assert.Equal(t, int64(630000), r.TotalIncomeDeductions)
	assert.Empty(t, r.TaxCredits)
}

func TestCalculateFull(t *testing.T) {
	e := newTestEngine(t)

	r := e.Calculate(Input{
		FiscalYear:         2025,
		TotalIncome:        5000000,
		SocialInsurance:    800000,
		LifeInsurance:      LifeInsuranceInput{GeneralNew: 100000},
		Furusato:           50000,
		HousingLoanBalance: 35000000,
	})

	social, ok := findItem(r.IncomeDeductions, "social_insurance")
	require.True(t, ok)
	assert.Equal(t, int64(800000), social.Amount)

	life, ok := findItem(r.IncomeDeductions, "life_insurance")
	require.True(t, ok)
	assert.Equal(t, int64(40000), life.Amount)

	furusato, ok := findItem(r.IncomeDeductions, "furusato_nozei")
	require.True(t, ok)
	assert.Equal(t, int64(48000), furusato.Amount)

	assert.Equal(t, int64(630000+800000+40000+48000), r.TotalIncomeDeductions)
	assert.Equal(t, int64(245000), r.TotalTaxCredits)
}

func TestCalculateSelfMedicationPicksLarger(t *testing.T) {
	e := newTestEngine(t)

	// Self-medication (38,000) beats the regular deduction (0).
	r := e.Calculate(Input{
		FiscalYear:             2025,
		TotalIncome:            5000000,
		MedicalExpenses:        90000,
		SelfMedicationExpenses: 50000,
		SelfMedicationEligible: true,
	})
	item, ok := findItem(r.IncomeDeductions, "self_medication")
	require.True(t, ok)
	assert.Equal(t, int64(38000), item.Amount)
	_, ok = findItem(r.IncomeDeductions, "medical")
	assert.False(t, ok)

	// The regular deduction wins when it yields more.
	r = e.Calculate(Input{
		FiscalYear:             2025,
		TotalIncome:            5000000,
		MedicalExpenses:        300000,
		SelfMedicationExpenses: 50000,
		SelfMedicationEligible: true,
	})
	item, ok = findItem(r.IncomeDeductions, "medical")
	require.True(t, ok)
	assert.Equal(t, int64(200000), item.Amount)
}

func TestCalculateDonationRecords(t *testing.T) {
	e := newTestEngine(t)

	r := e.Calculate(Input{
		FiscalYear:  2025,
		TotalIncome: 5000000,
		Donations: []model.DonationRecord{
			{FiscalYear: 2025, Type: model.DonationFurusato, Amount: 30000},
			{FiscalYear: 2025, Type: model.DonationPolitical, Amount: 50000},
			{FiscalYear: 2025, Type: model.DonationNPO, Amount: 20000},
		},
	})

	furusato, ok := findItem(r.IncomeDeductions, "furusato_nozei")
	require.True(t, ok)
	assert.Equal(t, int64(28000), furusato.Amount)

	other, ok := findItem(r.IncomeDeductions, "donation")
	require.True(t, ok)
	assert.Equal(t, int64(68000), other.Amount)

	political, ok := findItem(r.TaxCredits, "political_donation")
	require.True(t, ok)
	assert.Equal(t, int64(14400), political.Amount)

	npo, ok := findItem(r.TaxCredits, "npo_donation")
	require.True(t, ok)
	assert.Equal(t, int64(7200), npo.Amount)
}

func TestCalculateFamily(t *testing.T) {
	e := newTestEngine(t)

	r := e.Calculate(Input{
		FiscalYear:  2025,
		TotalIncome: 7450000,
		Spouse:      &model.Spouse{FiscalYear: 2025, Income: 0},
		Dependents: []model.Dependent{
			{FiscalYear: 2025, Name: "花子", BirthDate: "2008-04-01"},
		},
	})

	spouse, ok := findItem(r.IncomeDeductions, "spouse")
	require.True(t, ok)
	assert.Equal(t, int64(380000), spouse.Amount)

	dependent, ok := findItem(r.IncomeDeductions, "dependent")
	require.True(t, ok)
	assert.Equal(t, int64(380000), dependent.Amount)

	basic, ok := findItem(r.IncomeDeductions, "basic")
	require.True(t, ok)
	assert.Equal(t, int64(580000), basic.Amount)
}

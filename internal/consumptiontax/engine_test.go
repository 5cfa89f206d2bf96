package consumptiontax

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aoiro-dev/aoiro/internal/taxconst"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	c, err := taxconst.Load(2025)
	require.NoError(t, err)
	return NewEngine(c, zerolog.Nop())
}

func TestStandardMethod(t *testing.T) {
	e := newTestEngine(t)

	r, err := e.Calculate(Input{
		FiscalYear:         2025,
		Method:             MethodStandard,
		TaxableSales10:     5500000,
		TaxablePurchases10: 2200000,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(5500000), r.TaxableBase)
	assert.Equal(t, int64(500000), r.OutputTax)
	assert.Equal(t, int64(200000), r.InputCredit)
	assert.Equal(t, int64(234000), r.NationalTaxDue)
	assert.Equal(t, int64(66000), r.LocalSurtax)
	assert.Equal(t, int64(300000), r.TotalDue)
}

func TestStandardMethodReducedRate(t *testing.T) {
	e := newTestEngine(t)

	r, err := e.Calculate(Input{
		FiscalYear:     2025,
		Method:         MethodStandard,
		TaxableSales10: 1100000,
		TaxableSales8:  1080000,
	})
	require.NoError(t, err)

	// 100,000 from the 10% line, 80,000 from the 8% line.
	assert.Equal(t, int64(180000), r.OutputTax)
	assert.Equal(t, int64(2180000), r.TaxableBase)
}

func TestSpecial20PctMethod(t *testing.T) {
	e := newTestEngine(t)

	r, err := e.Calculate(Input{
		FiscalYear:     2025,
		Method:         MethodSpecial20Pct,
		TaxableSales10: 5500000,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(500000), r.OutputTax)
	assert.Equal(t, int64(400000), r.InputCredit)
	assert.Equal(t, int64(78000), r.NationalTaxDue)
	assert.Equal(t, int64(22000), r.LocalSurtax)
	assert.Equal(t, int64(100000), r.TotalDue)
}

func TestSimplifiedMethod(t *testing.T) {
	e := newTestEngine(t)

	// Service business (type 5, 50% deemed ratio).
	r, err := e.Calculate(Input{
		FiscalYear:             2025,
		Method:                 MethodSimplified,
		TaxableSales10:         5500000,
		SimplifiedBusinessType: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(250000), r.InputCredit)
	assert.Equal(t, int64(195000), r.NationalTaxDue)
	assert.Equal(t, int64(55000), r.LocalSurtax)

	// Wholesale (type 1, 90% deemed ratio).
	r, err = e.Calculate(Input{
		FiscalYear:             2025,
		Method:                 MethodSimplified,
		TaxableSales10:         11000000,
		SimplifiedBusinessType: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1000000), r.OutputTax)
	assert.Equal(t, int64(900000), r.InputCredit)
	assert.Equal(t, int64(78000), r.NationalTaxDue)

	// Unset type falls back to the default.
	r, err = e.Calculate(Input{
		FiscalYear:     2025,
		Method:         MethodSimplified,
		TaxableSales10: 5500000,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(250000), r.InputCredit)
}

func TestLocalSurtaxRounding(t *testing.T) {
	e := newTestEngine(t)

	// National 70,900 gives local 70,900*22/78 = 19,997 → 19,900.
	r, err := e.Calculate(Input{
		FiscalYear:     2025,
		Method:         MethodSimplified,
		TaxableSales10: 2000000,
	})
	require.NoError(t, err)
	// Output 181,818, credit 90,909, net 90,909, national 70,900.
	assert.Equal(t, int64(70900), r.NationalTaxDue)
	assert.Equal(t, int64(19900), r.LocalSurtax)
	assert.Equal(t, int64(90800), r.TotalDue)
}

func TestExcessCreditFloorsAtZero(t *testing.T) {
	e := newTestEngine(t)

	r, err := e.Calculate(Input{
		FiscalYear:         2025,
		Method:             MethodStandard,
		TaxableSales10:     1100000,
		TaxablePurchases10: 3300000,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), r.NationalTaxDue)
	assert.Equal(t, int64(0), r.LocalSurtax)
	assert.Equal(t, int64(0), r.TotalDue)
}

func TestUnknownMethod(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.Calculate(Input{FiscalYear: 2025, Method: "lump_sum"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lump_sum")
}

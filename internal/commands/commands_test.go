package commands_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aoiro-dev/aoiro/internal/commands"
)

// runAoiro executes the CLI in-process and decodes the JSON envelope.
func runAoiro(t *testing.T, args ...string) (map[string]any, error) {
	t.Helper()

	root := commands.NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)

	err := root.Execute()

	payload := map[string]any{}
	if out.Len() > 0 {
		_ = json.Unmarshal(out.Bytes(), &payload)
	}
	return payload, err
}

// newProject initializes a project in a temp dir and returns the config path.
func newProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	payload, err := runAoiro(t, "init", dir, "--name", "山田太郎", "--fiscal-year", "2025")
	require.NoError(t, err)
	require.Equal(t, "ok", payload["status"])

	cfgPath := filepath.Join(dir, "aoiro.yaml")
	_, err = os.Stat(cfgPath)
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "aoiro.db"))
	require.NoError(t, err)
	return cfgPath
}

func TestInitCreatesProject(t *testing.T) {
	newProject(t)
}

func TestJournalAddSearchAndReport(t *testing.T) {
	cfg := newProject(t)

	payload, err := runAoiro(t, "journal", "add", "--config", cfg,
		"--date", "2025-04-10", "--description", "コンサル報酬",
		"--debit", "1002:330000", "--credit", "4001:330000")
	require.NoError(t, err)
	assert.Equal(t, "ok", payload["status"])
	assert.NotZero(t, payload["id"])

	payload, err = runAoiro(t, "journal", "search", "--config", cfg, "--description", "コンサル")
	require.NoError(t, err)
	assert.Equal(t, float64(1), payload["count"])

	payload, err = runAoiro(t, "report", "pl", "--config", cfg)
	require.NoError(t, err)
	assert.Equal(t, float64(330000), payload["total_revenue"])
	assert.Equal(t, float64(330000), payload["net_income"])
}

func TestJournalAddUnbalancedFailsValidation(t *testing.T) {
	cfg := newProject(t)

	_, err := runAoiro(t, "journal", "add", "--config", cfg,
		"--date", "2025-04-10",
		"--debit", "1002:1000", "--credit", "4001:900")
	require.Error(t, err)
	assert.Equal(t, commands.ExitValidation, commands.ExitCode(err))
}

func TestJournalDuplicateRejectedThenForced(t *testing.T) {
	cfg := newProject(t)

	_, err := runAoiro(t, "journal", "add", "--config", cfg,
		"--date", "2025-04-10", "--description", "A",
		"--debit", "1002:5000", "--credit", "4001:5000")
	require.NoError(t, err)

	// Different account, same date and amount: similar duplicate.
	_, err = runAoiro(t, "journal", "add", "--config", cfg,
		"--date", "2025-04-10", "--description", "B",
		"--debit", "1001:5000", "--credit", "4001:5000")
	require.Error(t, err)
	assert.Equal(t, commands.ExitValidation, commands.ExitCode(err))

	payload, err := runAoiro(t, "journal", "add", "--config", cfg, "--force",
		"--date", "2025-04-10", "--description", "B",
		"--debit", "1001:5000", "--credit", "4001:5000")
	require.NoError(t, err)
	assert.Equal(t, "ok", payload["status"])

	// The forced insert carries the warning in the response.
	warnings, ok := payload["warnings"].([]any)
	require.True(t, ok)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "same total amount")

	payload, err = runAoiro(t, "journal", "check-duplicates", "--config", cfg)
	require.NoError(t, err)
	assert.Equal(t, float64(1), payload["count"])
}

func TestYearCloseBlocksMutation(t *testing.T) {
	cfg := newProject(t)

	payload, err := runAoiro(t, "year", "close", "--config", cfg)
	require.NoError(t, err)
	assert.Equal(t, "closed", payload["year_status"])

	_, err = runAoiro(t, "journal", "add", "--config", cfg,
		"--date", "2025-04-10",
		"--debit", "1002:1000", "--credit", "4001:1000")
	require.Error(t, err)
	assert.Equal(t, commands.ExitValidation, commands.ExitCode(err))
}

func TestAssetLifecycle(t *testing.T) {
	cfg := newProject(t)

	payload, err := runAoiro(t, "asset", "add", "--config", cfg,
		"--name", "業務用PC", "--date", "2025-01-15", "--cost", "300000", "--life", "4")
	require.NoError(t, err)
	assert.Equal(t, "ok", payload["status"])

	payload, err = runAoiro(t, "tax", "depreciation", "--config", cfg)
	require.NoError(t, err)
	assert.Equal(t, float64(75000), payload["total"])

	payload, err = runAoiro(t, "asset", "run", "--config", cfg)
	require.NoError(t, err)
	assert.NotZero(t, payload["journal_id"])

	payload, err = runAoiro(t, "report", "pl", "--config", cfg)
	require.NoError(t, err)
	assert.Equal(t, float64(-75000), payload["net_income"])
}

func TestTaxIncomeEndToEnd(t *testing.T) {
	cfg := newProject(t)

	_, err := runAoiro(t, "journal", "add", "--config", cfg,
		"--date", "2025-05-20", "--description", "請求書",
		"--debit", "1002:3000000", "--credit", "4001:3000000")
	require.NoError(t, err)

	_, err = runAoiro(t, "fact", "withholding", "add", "--config", cfg,
		"--payer", "株式会社XYZ", "--payment", "6000000", "--withheld", "466800")
	require.NoError(t, err)

	payload, err := runAoiro(t, "tax", "income", "--config", cfg)
	require.NoError(t, err)
	require.Equal(t, "ok", payload["status"])

	result, ok := payload["result"].(map[string]any)
	require.True(t, ok)
	// Salary 6,000,000 → 4,360,000; business 3,000,000 − 650,000 blue.
	assert.Equal(t, float64(4360000), result["salary_income_after_deduction"])
	assert.Equal(t, float64(2350000), result["business_income"])

	sanity, ok := payload["sanity"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, sanity["passed"])
}

func TestTaxConsumption(t *testing.T) {
	cfg := newProject(t)

	payload, err := runAoiro(t, "tax", "consumption", "--config", cfg,
		"--method", "standard", "--sales10", "5500000", "--purchases10", "2200000")
	require.NoError(t, err)
	assert.Equal(t, float64(234000), payload["national_tax_due"])
	assert.Equal(t, float64(66000), payload["local_surtax"])
	assert.Equal(t, float64(300000), payload["total_due"])
}

func TestTaxConsumptionFromLedger(t *testing.T) {
	cfg := newProject(t)

	// 売上高 and 地代家賃 carry tax categories in the chart, so the return
	// derives its figures from the ledger without amount flags.
	_, err := runAoiro(t, "journal", "add", "--config", cfg,
		"--date", "2025-04-10", "--description", "売上",
		"--debit", "1002:5500000", "--credit", "4001:5500000")
	require.NoError(t, err)
	_, err = runAoiro(t, "journal", "add", "--config", cfg,
		"--date", "2025-06-01", "--description", "家賃",
		"--debit", "5160:2200000", "--credit", "1002:2200000")
	require.NoError(t, err)

	payload, err := runAoiro(t, "tax", "consumption", "--config", cfg, "--method", "standard")
	require.NoError(t, err)
	assert.Equal(t, float64(234000), payload["national_tax_due"])
	assert.Equal(t, float64(66000), payload["local_surtax"])
	assert.Equal(t, float64(300000), payload["total_due"])
}

func TestTaxIncomeOtherIncomeClasses(t *testing.T) {
	cfg := newProject(t)

	payload, err := runAoiro(t, "tax", "income", "--config", cfg,
		"--dividend", "500000", "--pension", "2000000")
	require.NoError(t, err)
	require.Equal(t, "ok", payload["status"])

	result, ok := payload["result"].(map[string]any)
	require.True(t, ok)
	// Pension 2,000,000 under 65 → 1,125,000 after the pension deduction.
	assert.Equal(t, float64(1125000), result["taxable_pension_income"])
	assert.Equal(t, float64(1625000), result["total_income"])
	// 10% dividend credit below the 10M taxable threshold.
	assert.Equal(t, float64(50000), result["dividend_credit"])
}

func TestImportCommand(t *testing.T) {
	cfg := newProject(t)

	csvPath := filepath.Join(t.TempDir(), "statement.csv")
	content := "日付,摘要,入金,出金\n2025-04-01,振込,330000,\n2025-04-05,家賃,,110000\n"
	require.NoError(t, os.WriteFile(csvPath, []byte(content), 0o644))

	payload, err := runAoiro(t, "import", csvPath, "--config", cfg)
	require.NoError(t, err)
	rows, ok := payload["rows"].([]any)
	require.True(t, ok)
	assert.Len(t, rows, 2)

	// Same file again is rejected.
	_, err = runAoiro(t, "import", csvPath, "--config", cfg)
	require.Error(t, err)
	assert.Equal(t, commands.ExitValidation, commands.ExitCode(err))
}

func TestFactSpouseRoundTrip(t *testing.T) {
	cfg := newProject(t)

	payload, err := runAoiro(t, "fact", "spouse", "set", "--config", cfg, "--name", "花子")
	require.NoError(t, err)
	assert.Equal(t, "ok", payload["status"])

	payload, err = runAoiro(t, "fact", "spouse", "show", "--config", cfg)
	require.NoError(t, err)
	spouse, ok := payload["spouse"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "花子", spouse["name"])
}

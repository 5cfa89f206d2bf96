package commands

import (
	"github.com/spf13/cobra"

	"github.com/aoiro-dev/aoiro/internal/consumptiontax"
	"github.com/aoiro-dev/aoiro/internal/incometax"
)

func newTaxCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tax",
		Short: "Compute tax returns from the ledger and stored facts",
	}

	cmd.AddCommand(
		newTaxIncomeCommand(a),
		newTaxConsumptionCommand(a),
		newTaxDeductionsCommand(a),
		newTaxDepreciationCommand(a),
	)
	return cmd
}

func newTaxIncomeCommand(a *app) *cobra.Command {
	var misc, dividend, oneTime, pension, selfMedication int64
	var pensionOver65 bool

	cmd := &cobra.Command{
		Use:   "income",
		Short: "Full income tax return with sanity findings",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(); err != nil {
				return err
			}
			fs, err := a.factsService()
			if err != nil {
				return err
			}
			in, err := fs.Assemble(a.fiscalYear(), a.profile())
			if err != nil {
				return err
			}

			// Income classes with no ledger or fact-table source come in
			// as flags.
			in.MiscIncome = misc
			in.DividendIncome = dividend
			in.OneTimeIncome = oneTime
			in.PublicPension = pension
			in.PensionOver65 = pensionOver65
			in.SelfMedicationExpenses = selfMedication

			c, err := a.constants()
			if err != nil {
				return err
			}

			engine := incometax.NewEngine(c, a.log)
			result := engine.Calculate(in)
			sanity := engine.SanityCheck(in, result)

			return emitOK(cmd, map[string]any{
				"result": result,
				"sanity": sanity,
			})
		},
	}

	cmd.Flags().Int64Var(&misc, "misc", 0, "miscellaneous income in yen")
	cmd.Flags().Int64Var(&dividend, "dividend", 0, "comprehensively taxed dividend income in yen")
	cmd.Flags().Int64Var(&oneTime, "one-time", 0, "one-time income before the special deduction, in yen")
	cmd.Flags().Int64Var(&pension, "pension", 0, "gross public pension receipts in yen")
	cmd.Flags().BoolVar(&pensionOver65, "pension-over65", false, "taxpayer is 65 or older at year end")
	cmd.Flags().Int64Var(&selfMedication, "self-medication", 0, "eligible OTC drug purchases in yen")

	return cmd
}

func newTaxConsumptionCommand(a *app) *cobra.Command {
	var method string
	var businessType int
	var sales10, sales8, purchases10, purchases8 int64

	cmd := &cobra.Command{
		Use:   "consumption",
		Short: "Consumption tax return for the chosen regime",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(); err != nil {
				return err
			}
			c, err := a.constants()
			if err != nil {
				return err
			}

			if method == "" {
				method = a.cfg.Filing.ConsumptionTaxMethod
			}
			if method == "" {
				method = string(consumptiontax.MethodStandard)
			}
			if businessType == 0 {
				businessType = a.cfg.Filing.SimplifiedBusinessType
			}

			// Figures default to the ledger's tax-category totals; the
			// flags override them.
			summary, err := a.ledger.ConsumptionSummary(a.fiscalYear())
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("sales10") {
				sales10 = summary.TaxableSales10
			}
			if !cmd.Flags().Changed("sales8") {
				sales8 = summary.TaxableSales8
			}
			if !cmd.Flags().Changed("purchases10") {
				purchases10 = summary.TaxablePurchases10
			}
			if !cmd.Flags().Changed("purchases8") {
				purchases8 = summary.TaxablePurchases8
			}

			engine := consumptiontax.NewEngine(c, a.log)
			result, err := engine.Calculate(consumptiontax.Input{
				FiscalYear:             a.fiscalYear(),
				Method:                 consumptiontax.Method(method),
				TaxableSales10:         sales10,
				TaxableSales8:          sales8,
				TaxablePurchases10:     purchases10,
				TaxablePurchases8:      purchases8,
				SimplifiedBusinessType: businessType,
			})
			if err != nil {
				return err
			}
			return emitOK(cmd, result)
		},
	}

	cmd.Flags().StringVar(&method, "method", "", "standard, simplified or special_20pct (default from config)")
	cmd.Flags().IntVar(&businessType, "business-type", 0, "simplified business type 1-6")
	cmd.Flags().Int64Var(&sales10, "sales10", 0, "tax-included sales at the 10% rate (default from the ledger)")
	cmd.Flags().Int64Var(&sales8, "sales8", 0, "tax-included sales at the reduced 8% rate (default from the ledger)")
	cmd.Flags().Int64Var(&purchases10, "purchases10", 0, "tax-included purchases at the 10% rate (default from the ledger)")
	cmd.Flags().Int64Var(&purchases8, "purchases8", 0, "tax-included purchases at the reduced 8% rate (default from the ledger)")

	return cmd
}

func newTaxDeductionsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "deductions",
		Short: "Itemized income deductions and tax credits",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(); err != nil {
				return err
			}
			fs, err := a.factsService()
			if err != nil {
				return err
			}
			in, err := fs.Assemble(a.fiscalYear(), a.profile())
			if err != nil {
				return err
			}
			c, err := a.constants()
			if err != nil {
				return err
			}

			result := incometax.NewEngine(c, a.log).Calculate(in)
			return emitOK(cmd, map[string]any{
				"fiscal_year":  result.FiscalYear,
				"total_income": result.TotalIncome,
				"deductions":   result.Deductions,
			})
		},
	}
}

func newTaxDepreciationCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "depreciation",
		Short: "This year's depreciation amounts, without posting",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(); err != nil {
				return err
			}
			svc, err := a.assetService()
			if err != nil {
				return err
			}
			result, err := svc.PreviewYear(a.fiscalYear())
			if err != nil {
				return err
			}
			return emitOK(cmd, result)
		},
	}
}

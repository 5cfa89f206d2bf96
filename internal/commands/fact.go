package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/aoiro-dev/aoiro/internal/facts"
	"github.com/aoiro-dev/aoiro/internal/model"
)

func newFactCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fact",
		Short: "Declaration facts feeding the tax engines",
	}

	cmd.AddCommand(
		newFactInsuranceCommand(a),
		newFactDependentCommand(a),
		newFactSpouseCommand(a),
		newFactDonationCommand(a),
		newFactHousingCommand(a),
		newFactWithholdingCommand(a),
		newFactBusinessWithholdingCommand(a),
		newFactMedicalCommand(a),
		newFactLossCommand(a),
	)
	return cmd
}

func parseRecordID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed record id %q", arg)
	}
	return id, nil
}

// factRunE wraps the common setup + facts-service plumbing.
func factRunE(a *app, run func(cmd *cobra.Command, fs *facts.Service) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := a.setup(); err != nil {
			return err
		}
		fs, err := a.factsService()
		if err != nil {
			return err
		}
		return run(cmd, fs)
	}
}

func newDeleteByIDCommand(a *app, use, short string, del func(fs *facts.Service, id int64) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(); err != nil {
				return err
			}
			fs, err := a.factsService()
			if err != nil {
				return err
			}
			id, err := parseRecordID(args[0])
			if err != nil {
				return err
			}
			if err := del(fs, id); err != nil {
				return err
			}
			return emitOK(cmd, map[string]any{"id": id, "deleted": true})
		},
	}
}

func newFactInsuranceCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "insurance",
		Short: "Insurance and pension premium payments",
	}

	var kind, payee string
	var amount int64
	add := &cobra.Command{
		Use:   "add",
		Short: "Record a premium payment",
		RunE: factRunE(a, func(cmd *cobra.Command, fs *facts.Service) error {
			id, err := fs.AddInsurance(model.InsurancePremium{
				FiscalYear: a.fiscalYear(),
				Kind:       model.InsuranceKind(kind),
				Payee:      payee,
				Amount:     amount,
			})
			if err != nil {
				return err
			}
			return emitOK(cmd, map[string]any{"id": id})
		}),
	}
	add.Flags().StringVar(&kind, "kind", "", "premium kind, e.g. social, life_general_new, earthquake, ideco (required)")
	_ = add.MarkFlagRequired("kind")
	add.Flags().StringVar(&payee, "payee", "", "insurer or plan name")
	add.Flags().Int64Var(&amount, "amount", 0, "premium in yen (required)")
	_ = add.MarkFlagRequired("amount")

	list := &cobra.Command{
		Use:   "list",
		Short: "List the year's premiums",
		RunE: factRunE(a, func(cmd *cobra.Command, fs *facts.Service) error {
			premiums, err := fs.ListInsurance(a.fiscalYear())
			if err != nil {
				return err
			}
			return emitOK(cmd, map[string]any{"premiums": premiums, "count": len(premiums)})
		}),
	}

	cmd.AddCommand(add, list, newDeleteByIDCommand(a, "delete", "Delete a premium record",
		func(fs *facts.Service, id int64) error { return fs.DeleteInsurance(id) }))
	return cmd
}

func newFactDependentCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dependent",
		Short: "Dependent relatives",
	}

	var name, relationship, birthDate, disability string
	var income int64
	var cohabiting, otherTaxpayer bool
	add := &cobra.Command{
		Use:   "add",
		Short: "Record a dependent",
		RunE: factRunE(a, func(cmd *cobra.Command, fs *facts.Service) error {
			id, err := fs.AddDependent(model.Dependent{
				FiscalYear:             a.fiscalYear(),
				Name:                   name,
				Relationship:           relationship,
				BirthDate:              birthDate,
				Income:                 income,
				Cohabiting:             cohabiting,
				Disability:             model.DisabilityStatus(disability),
				OtherTaxpayerDependent: otherTaxpayer,
			})
			if err != nil {
				return err
			}
			return emitOK(cmd, map[string]any{"id": id})
		}),
	}
	add.Flags().StringVar(&name, "name", "", "dependent name (required)")
	_ = add.MarkFlagRequired("name")
	add.Flags().StringVar(&relationship, "relationship", "", "relationship, e.g. 子")
	add.Flags().StringVar(&birthDate, "birth-date", "", "birth date YYYY-MM-DD (required)")
	_ = add.MarkFlagRequired("birth-date")
	add.Flags().Int64Var(&income, "income", 0, "dependent's own income in yen")
	add.Flags().BoolVar(&cohabiting, "cohabiting", false, "lives with the taxpayer")
	add.Flags().StringVar(&disability, "disability", "none", "none, general, special or special_cohabiting")
	add.Flags().BoolVar(&otherTaxpayer, "other-taxpayer", false, "claimed by another taxpayer")

	list := &cobra.Command{
		Use:   "list",
		Short: "List the year's dependents",
		RunE: factRunE(a, func(cmd *cobra.Command, fs *facts.Service) error {
			dependents, err := fs.ListDependents(a.fiscalYear())
			if err != nil {
				return err
			}
			return emitOK(cmd, map[string]any{"dependents": dependents, "count": len(dependents)})
		}),
	}

	cmd.AddCommand(add, list, newDeleteByIDCommand(a, "delete", "Delete a dependent record",
		func(fs *facts.Service, id int64) error { return fs.DeleteDependent(id) }))
	return cmd
}

func newFactSpouseCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spouse",
		Short: "The year's spouse record (at most one)",
	}

	var name, birthDate string
	var income int64
	set := &cobra.Command{
		Use:   "set",
		Short: "Set or replace the spouse record",
		RunE: factRunE(a, func(cmd *cobra.Command, fs *facts.Service) error {
			if err := fs.SetSpouse(model.Spouse{
				FiscalYear: a.fiscalYear(),
				Name:       name,
				BirthDate:  birthDate,
				Income:     income,
			}); err != nil {
				return err
			}
			return emitOK(cmd, map[string]any{"name": name})
		}),
	}
	set.Flags().StringVar(&name, "name", "", "spouse name (required)")
	_ = set.MarkFlagRequired("name")
	set.Flags().StringVar(&birthDate, "birth-date", "", "birth date YYYY-MM-DD")
	set.Flags().Int64Var(&income, "income", 0, "spouse's own income in yen")

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the spouse record",
		RunE: factRunE(a, func(cmd *cobra.Command, fs *facts.Service) error {
			sp, err := fs.GetSpouse(a.fiscalYear())
			if err != nil {
				return err
			}
			return emitOK(cmd, map[string]any{"spouse": sp})
		}),
	}

	del := &cobra.Command{
		Use:   "delete",
		Short: "Delete the spouse record",
		RunE: factRunE(a, func(cmd *cobra.Command, fs *facts.Service) error {
			if err := fs.DeleteSpouse(a.fiscalYear()); err != nil {
				return err
			}
			return emitOK(cmd, map[string]any{"deleted": true})
		}),
	}

	cmd.AddCommand(set, show, del)
	return cmd
}

func newFactDonationCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "donation",
		Short: "Donations (furusato nozei, political, NPO, other)",
	}

	var donee, donationType, date string
	var amount int64
	add := &cobra.Command{
		Use:   "add",
		Short: "Record a donation",
		RunE: factRunE(a, func(cmd *cobra.Command, fs *facts.Service) error {
			id, err := fs.AddDonation(model.DonationRecord{
				FiscalYear: a.fiscalYear(),
				Donee:      donee,
				Type:       model.DonationType(donationType),
				Date:       date,
				Amount:     amount,
			})
			if err != nil {
				return err
			}
			return emitOK(cmd, map[string]any{"id": id})
		}),
	}
	add.Flags().StringVar(&donee, "donee", "", "recipient (required)")
	_ = add.MarkFlagRequired("donee")
	add.Flags().StringVar(&donationType, "type", "other", "furusato, political, npo, public_interest or other")
	add.Flags().StringVar(&date, "date", "", "donation date YYYY-MM-DD")
	add.Flags().Int64Var(&amount, "amount", 0, "amount in yen (required)")
	_ = add.MarkFlagRequired("amount")

	list := &cobra.Command{
		Use:   "list",
		Short: "List the year's donations",
		RunE: factRunE(a, func(cmd *cobra.Command, fs *facts.Service) error {
			donations, err := fs.ListDonations(a.fiscalYear())
			if err != nil {
				return err
			}
			return emitOK(cmd, map[string]any{"donations": donations, "count": len(donations)})
		}),
	}

	cmd.AddCommand(add, list, newDeleteByIDCommand(a, "delete", "Delete a donation record",
		func(fs *facts.Service, id int64) error { return fs.DeleteDonation(id) }))
	return cmd
}

func newFactHousingCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "housing",
		Short: "Housing loan detail for the loan credit",
	}

	var category, moveIn string
	var balance int64
	var newConstruction, childcare, preR6Permit bool
	set := &cobra.Command{
		Use:   "set",
		Short: "Set or replace the housing loan detail",
		RunE: factRunE(a, func(cmd *cobra.Command, fs *facts.Service) error {
			if err := fs.SetHousingLoan(model.HousingLoanDetail{
				FiscalYear:             a.fiscalYear(),
				HousingCategory:        category,
				MoveInDate:             moveIn,
				YearEndBalance:         balance,
				IsNewConstruction:      newConstruction,
				IsChildcareHousehold:   childcare,
				HasPreR6BuildingPermit: preR6Permit,
			}); err != nil {
				return err
			}
			return emitOK(cmd, map[string]any{"year_end_balance": balance})
		}),
	}
	set.Flags().StringVar(&category, "category", "general", "general, energy_efficient, zeh or certified")
	set.Flags().StringVar(&moveIn, "move-in", "", "move-in date YYYY-MM-DD (required)")
	_ = set.MarkFlagRequired("move-in")
	set.Flags().Int64Var(&balance, "balance", 0, "year-end loan balance in yen (required)")
	_ = set.MarkFlagRequired("balance")
	set.Flags().BoolVar(&newConstruction, "new-construction", false, "newly built dwelling")
	set.Flags().BoolVar(&childcare, "childcare", false, "childcare household")
	set.Flags().BoolVar(&preR6Permit, "pre-r6-permit", false, "building permit before R6")

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the housing loan detail",
		RunE: factRunE(a, func(cmd *cobra.Command, fs *facts.Service) error {
			h, err := fs.GetHousingLoan(a.fiscalYear())
			if err != nil {
				return err
			}
			return emitOK(cmd, map[string]any{"housing_loan": h})
		}),
	}

	del := &cobra.Command{
		Use:   "delete",
		Short: "Delete the housing loan detail",
		RunE: factRunE(a, func(cmd *cobra.Command, fs *facts.Service) error {
			if err := fs.DeleteHousingLoan(a.fiscalYear()); err != nil {
				return err
			}
			return emitOK(cmd, map[string]any{"deleted": true})
		}),
	}

	cmd.AddCommand(set, show, del)
	return cmd
}

func newFactWithholdingCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "withholding",
		Short: "Salary withholding statements (源泉徴収票)",
	}

	var payer string
	var payment, withheld, socialInsurance int64
	add := &cobra.Command{
		Use:   "add",
		Short: "Record a withholding statement",
		RunE: factRunE(a, func(cmd *cobra.Command, fs *facts.Service) error {
			id, err := fs.AddWithholdingSlip(model.WithholdingSlip{
				FiscalYear:      a.fiscalYear(),
				PayerName:       payer,
				PaymentAmount:   payment,
				WithheldTax:     withheld,
				SocialInsurance: socialInsurance,
			})
			if err != nil {
				return err
			}
			return emitOK(cmd, map[string]any{"id": id})
		}),
	}
	add.Flags().StringVar(&payer, "payer", "", "payer name (required)")
	_ = add.MarkFlagRequired("payer")
	add.Flags().Int64Var(&payment, "payment", 0, "gross salary paid in yen")
	add.Flags().Int64Var(&withheld, "withheld", 0, "income tax withheld in yen")
	add.Flags().Int64Var(&socialInsurance, "social-insurance", 0, "social insurance deducted in yen")

	list := &cobra.Command{
		Use:   "list",
		Short: "List the year's withholding statements",
		RunE: factRunE(a, func(cmd *cobra.Command, fs *facts.Service) error {
			slips, err := fs.ListWithholdingSlips(a.fiscalYear())
			if err != nil {
				return err
			}
			return emitOK(cmd, map[string]any{"slips": slips, "count": len(slips)})
		}),
	}

	cmd.AddCommand(add, list, newDeleteByIDCommand(a, "delete", "Delete a withholding statement",
		func(fs *facts.Service, id int64) error { return fs.DeleteWithholdingSlip(id) }))
	return cmd
}

func newFactBusinessWithholdingCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "business-withholding",
		Short: "Tax withheld at source by business clients",
	}

	var client string
	var gross, withheld int64
	add := &cobra.Command{
		Use:   "add",
		Short: "Record a client's withholding",
		RunE: factRunE(a, func(cmd *cobra.Command, fs *facts.Service) error {
			id, err := fs.AddBusinessWithholding(model.BusinessWithholding{
				FiscalYear:     a.fiscalYear(),
				ClientName:     client,
				GrossAmount:    gross,
				WithholdingTax: withheld,
			})
			if err != nil {
				return err
			}
			return emitOK(cmd, map[string]any{"id": id})
		}),
	}
	add.Flags().StringVar(&client, "client", "", "client name (required)")
	_ = add.MarkFlagRequired("client")
	add.Flags().Int64Var(&gross, "gross", 0, "gross amount paid in yen")
	add.Flags().Int64Var(&withheld, "withheld", 0, "tax withheld in yen")

	list := &cobra.Command{
		Use:   "list",
		Short: "List the year's client withholding records",
		RunE: factRunE(a, func(cmd *cobra.Command, fs *facts.Service) error {
			records, err := fs.ListBusinessWithholding(a.fiscalYear())
			if err != nil {
				return err
			}
			return emitOK(cmd, map[string]any{"records": records, "count": len(records)})
		}),
	}

	cmd.AddCommand(add, list, newDeleteByIDCommand(a, "delete", "Delete a client withholding record",
		func(fs *facts.Service, id int64) error { return fs.DeleteBusinessWithholding(id) }))
	return cmd
}

func newFactMedicalCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "medical",
		Short: "Medical expense receipts",
	}

	var date, patient, institution, description string
	var amount, reimbursement int64
	add := &cobra.Command{
		Use:   "add",
		Short: "Record a medical receipt",
		RunE: factRunE(a, func(cmd *cobra.Command, fs *facts.Service) error {
			id, err := fs.AddMedicalExpense(model.MedicalExpense{
				FiscalYear:             a.fiscalYear(),
				Date:                   date,
				PatientName:            patient,
				MedicalInstitution:     institution,
				Amount:                 amount,
				InsuranceReimbursement: reimbursement,
				Description:            description,
			})
			if err != nil {
				return err
			}
			return emitOK(cmd, map[string]any{"id": id})
		}),
	}
	add.Flags().StringVar(&date, "date", "", "receipt date YYYY-MM-DD")
	add.Flags().StringVar(&patient, "patient", "", "patient name")
	add.Flags().StringVar(&institution, "institution", "", "medical institution")
	add.Flags().Int64Var(&amount, "amount", 0, "amount paid in yen (required)")
	_ = add.MarkFlagRequired("amount")
	add.Flags().Int64Var(&reimbursement, "reimbursement", 0, "insurance reimbursement in yen")
	add.Flags().StringVar(&description, "description", "", "treatment description")

	list := &cobra.Command{
		Use:   "list",
		Short: "List the year's medical receipts",
		RunE: factRunE(a, func(cmd *cobra.Command, fs *facts.Service) error {
			expenses, err := fs.ListMedicalExpenses(a.fiscalYear())
			if err != nil {
				return err
			}
			return emitOK(cmd, map[string]any{"expenses": expenses, "count": len(expenses)})
		}),
	}

	cmd.AddCommand(add, list, newDeleteByIDCommand(a, "delete", "Delete a medical receipt",
		func(fs *facts.Service, id int64) error { return fs.DeleteMedicalExpense(id) }))
	return cmd
}

func newFactLossCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "loss",
		Short: "Prior-year losses carried forward",
	}

	var lossYear int
	var amount, used int64
	add := &cobra.Command{
		Use:   "add",
		Short: "Record a prior-year loss",
		RunE: factRunE(a, func(cmd *cobra.Command, fs *facts.Service) error {
			id, err := fs.AddLossCarryforward(model.LossCarryforward{
				FiscalYear: a.fiscalYear(),
				LossYear:   lossYear,
				Amount:     amount,
				UsedAmount: used,
			})
			if err != nil {
				return err
			}
			return emitOK(cmd, map[string]any{"id": id})
		}),
	}
	add.Flags().IntVar(&lossYear, "loss-year", 0, "year the loss arose (required)")
	_ = add.MarkFlagRequired("loss-year")
	add.Flags().Int64Var(&amount, "amount", 0, "loss amount in yen (required)")
	_ = add.MarkFlagRequired("amount")
	add.Flags().Int64Var(&used, "used", 0, "portion already used in yen")

	list := &cobra.Command{
		Use:   "list",
		Short: "List recorded prior-year losses",
		RunE: factRunE(a, func(cmd *cobra.Command, fs *facts.Service) error {
			losses, err := fs.ListLossCarryforward(a.fiscalYear())
			if err != nil {
				return err
			}
			return emitOK(cmd, map[string]any{"losses": losses, "count": len(losses)})
		}),
	}

	cmd.AddCommand(add, list, newDeleteByIDCommand(a, "delete", "Delete a loss record",
		func(fs *facts.Service, id int64) error { return fs.DeleteLossCarryforward(id) }))
	return cmd
}

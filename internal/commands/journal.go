package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aoiro-dev/aoiro/internal/journal"
	"github.com/aoiro-dev/aoiro/internal/model"
)

func newJournalCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Record and query journal entries",
	}

	cmd.AddCommand(
		newJournalAddCommand(a),
		newJournalAddBatchCommand(a),
		newJournalUpdateCommand(a),
		newJournalDeleteCommand(a),
		newJournalSearchCommand(a),
		newJournalCheckDuplicatesCommand(a),
		newJournalOpeningBalanceCommand(a),
	)
	return cmd
}

// parseLineSpecs turns repeated "code:amount" flags into journal lines.
func parseLineSpecs(specs []string, side model.Side) ([]model.JournalLine, error) {
	var lines []model.JournalLine
	for _, spec := range specs {
		code, amountStr, ok := strings.Cut(spec, ":")
		if !ok {
			return nil, &journal.ValidationError{
				Kind:    journal.KindInvalidEntry,
				Message: fmt.Sprintf("line %q must be account:amount", spec),
			}
		}
		amount, err := strconv.ParseInt(strings.ReplaceAll(amountStr, ",", ""), 10, 64)
		if err != nil {
			return nil, &journal.ValidationError{
				Kind:    journal.KindInvalidEntry,
				Message: fmt.Sprintf("line %q has a malformed amount", spec),
			}
		}
		lines = append(lines, model.JournalLine{Side: side, AccountCode: code, Amount: amount})
	}
	return lines, nil
}

func readInputFile[T any](path string) (T, error) {
	var v T
	data, err := os.ReadFile(path)
	if err != nil {
		return v, fmt.Errorf("reading input file: %w", err)
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, &journal.ValidationError{
			Kind:    journal.KindInvalidEntry,
			Message: fmt.Sprintf("parsing input file: %v", err),
		}
	}
	return v, nil
}

func newJournalAddCommand(a *app) *cobra.Command {
	var date, description, source, input string
	var debits, credits []string
	var force bool

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add one journal entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(); err != nil {
				return err
			}

			var entry model.JournalEntry
			if input != "" {
				var err error
				entry, err = readInputFile[model.JournalEntry](input)
				if err != nil {
					return err
				}
			} else {
				debitLines, err := parseLineSpecs(debits, model.SideDebit)
				if err != nil {
					return err
				}
				creditLines, err := parseLineSpecs(credits, model.SideCredit)
				if err != nil {
					return err
				}
				entry = model.JournalEntry{
					Date:        date,
					Description: description,
					Source:      source,
					Lines:       append(debitLines, creditLines...),
				}
			}
			if entry.FiscalYear == 0 {
				entry.FiscalYear = a.fiscalYear()
			}

			id, warnings, err := a.ledger.AddEntry(entry, force)
			if err != nil {
				return err
			}
			payload := map[string]any{"id": id, "fiscal_year": entry.FiscalYear}
			if len(warnings) > 0 {
				payload["warnings"] = warnings
			}
			return emitOK(cmd, payload)
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "entry date YYYY-MM-DD")
	cmd.Flags().StringVar(&description, "description", "", "entry description")
	cmd.Flags().StringVar(&source, "source", "", "entry source tag")
	cmd.Flags().StringArrayVar(&debits, "debit", nil, "debit line account:amount (repeatable)")
	cmd.Flags().StringArrayVar(&credits, "credit", nil, "credit line account:amount (repeatable)")
	cmd.Flags().StringVar(&input, "input", "", "JSON file with the full entry")
	cmd.Flags().BoolVar(&force, "force", false, "add despite a similar existing entry")

	return cmd
}

func newJournalAddBatchCommand(a *app) *cobra.Command {
	var input string
	var force bool

	cmd := &cobra.Command{
		Use:   "add-batch",
		Short: "Add a batch of entries atomically",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(); err != nil {
				return err
			}
			entries, err := readInputFile[[]model.JournalEntry](input)
			if err != nil {
				return err
			}
			for i := range entries {
				if entries[i].FiscalYear == 0 {
					entries[i].FiscalYear = a.fiscalYear()
				}
			}

			ids, warnings, err := a.ledger.AddEntries(entries, force)
			if err != nil {
				return err
			}
			payload := map[string]any{"ids": ids, "count": len(ids)}
			if len(warnings) > 0 {
				payload["warnings"] = warnings
			}
			return emitOK(cmd, payload)
		},
	}

	cmd.Flags().StringVar(&input, "input", "", "JSON file with an array of entries (required)")
	_ = cmd.MarkFlagRequired("input")
	cmd.Flags().BoolVar(&force, "force", false, "add despite similar existing entries")

	return cmd
}

func newJournalUpdateCommand(a *app) *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace an entry's header and lines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(); err != nil {
				return err
			}
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("malformed entry id %q", args[0])
			}
			entry, err := readInputFile[model.JournalEntry](input)
			if err != nil {
				return err
			}
			if entry.FiscalYear == 0 {
				entry.FiscalYear = a.fiscalYear()
			}

			if err := a.ledger.UpdateEntry(id, entry); err != nil {
				return err
			}
			return emitOK(cmd, map[string]any{"id": id})
		},
	}

	cmd.Flags().StringVar(&input, "input", "", "JSON file with the replacement entry (required)")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func newJournalDeleteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an entry and its lines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(); err != nil {
				return err
			}
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("malformed entry id %q", args[0])
			}
			if err := a.ledger.DeleteEntry(id); err != nil {
				return err
			}
			return emitOK(cmd, map[string]any{"id": id, "deleted": true})
		},
	}
}

func newJournalSearchCommand(a *app) *cobra.Command {
	var filter journal.SearchFilter

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search entries by date, account, description or source",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(); err != nil {
				return err
			}
			filter.FiscalYear = a.fiscalYear()

			entries, err := a.ledger.Search(filter)
			if err != nil {
				return err
			}
			return emitOK(cmd, map[string]any{"entries": entries, "count": len(entries)})
		},
	}

	cmd.Flags().StringVar(&filter.DateFrom, "from", "", "start date YYYY-MM-DD")
	cmd.Flags().StringVar(&filter.DateTo, "to", "", "end date YYYY-MM-DD")
	cmd.Flags().StringVar(&filter.AccountCode, "account", "", "account code")
	cmd.Flags().StringVar(&filter.Description, "description", "", "description substring")
	cmd.Flags().StringVar(&filter.Source, "source", "", "source tag")
	cmd.Flags().IntVar(&filter.Limit, "limit", 0, "maximum entries returned")

	return cmd
}

func newJournalCheckDuplicatesCommand(a *app) *cobra.Command {
	var threshold int

	cmd := &cobra.Command{
		Use:   "check-duplicates",
		Short: "Scan the year for suspected duplicate entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(); err != nil {
				return err
			}
			pairs, err := a.ledger.ScanDuplicates(a.fiscalYear(), threshold)
			if err != nil {
				return err
			}
			return emitOK(cmd, map[string]any{"pairs": pairs, "count": len(pairs)})
		},
	}

	cmd.Flags().IntVar(&threshold, "threshold", journal.DefaultDuplicateThreshold,
		"minimum duplicate score to report")

	return cmd
}

func newJournalOpeningBalanceCommand(a *app) *cobra.Command {
	var account, side string
	var amount int64

	cmd := &cobra.Command{
		Use:   "opening-balance",
		Short: "Set an account's opening balance for the year",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(); err != nil {
				return err
			}
			if err := a.ledger.SetOpeningBalance(a.fiscalYear(), account, model.Side(side), amount); err != nil {
				return err
			}
			return emitOK(cmd, map[string]any{"account_code": account, "amount": amount})
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "account code (required)")
	_ = cmd.MarkFlagRequired("account")
	cmd.Flags().StringVar(&side, "side", "debit", "debit or credit")
	cmd.Flags().Int64Var(&amount, "amount", 0, "opening balance in yen (required)")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

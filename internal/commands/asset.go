package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/aoiro-dev/aoiro/internal/model"
)

func newAssetCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "asset",
		Short: "Fixed asset register and depreciation runs",
	}

	cmd.AddCommand(
		newAssetAddCommand(a),
		newAssetListCommand(a),
		newAssetDeleteCommand(a),
		newAssetDisposeCommand(a),
		newAssetScheduleCommand(a),
		newAssetRunCommand(a),
	)
	return cmd
}

func newAssetAddCommand(a *app) *cobra.Command {
	var name, date, method string
	var cost int64
	var life, ratio int

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a depreciable asset",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(); err != nil {
				return err
			}
			svc, err := a.assetService()
			if err != nil {
				return err
			}

			id, err := svc.AddAsset(model.FixedAsset{
				FiscalYear:       a.fiscalYear(),
				Name:             name,
				AcquisitionDate:  date,
				AcquisitionCost:  cost,
				Method:           model.DepreciationMethod(method),
				UsefulLife:       life,
				BusinessUseRatio: ratio,
			})
			if err != nil {
				return err
			}
			return emitOK(cmd, map[string]any{"id": id, "name": name})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "asset name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&date, "date", "", "acquisition date YYYY-MM-DD (required)")
	_ = cmd.MarkFlagRequired("date")
	cmd.Flags().Int64Var(&cost, "cost", 0, "acquisition cost in yen (required)")
	_ = cmd.MarkFlagRequired("cost")
	cmd.Flags().StringVar(&method, "method", string(model.MethodStraightLine),
		"straight_line or declining_balance")
	cmd.Flags().IntVar(&life, "life", 0, "statutory useful life in years (required)")
	_ = cmd.MarkFlagRequired("life")
	cmd.Flags().IntVar(&ratio, "ratio", 100, "business use ratio 1-100")

	return cmd
}

func newAssetListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the year's in-service assets",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(); err != nil {
				return err
			}
			svc, err := a.assetService()
			if err != nil {
				return err
			}
			assets, err := svc.ListAssets(a.fiscalYear())
			if err != nil {
				return err
			}
			return emitOK(cmd, map[string]any{"assets": assets, "count": len(assets)})
		},
	}
}

func parseAssetID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed asset id %q", arg)
	}
	return id, nil
}

func newAssetDeleteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove an asset from the register",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(); err != nil {
				return err
			}
			svc, err := a.assetService()
			if err != nil {
				return err
			}
			id, err := parseAssetID(args[0])
			if err != nil {
				return err
			}
			if err := svc.DeleteAsset(id); err != nil {
				return err
			}
			return emitOK(cmd, map[string]any{"id": id, "deleted": true})
		},
	}
}

func newAssetDisposeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dispose <id>",
		Short: "Mark an asset disposed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(); err != nil {
				return err
			}
			svc, err := a.assetService()
			if err != nil {
				return err
			}
			id, err := parseAssetID(args[0])
			if err != nil {
				return err
			}
			if err := svc.DisposeAsset(id); err != nil {
				return err
			}
			return emitOK(cmd, map[string]any{"id": id, "disposed": true})
		},
	}
}

func newAssetScheduleCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "schedule <id>",
		Short: "Show an asset's depreciation schedule through this year",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(); err != nil {
				return err
			}
			svc, err := a.assetService()
			if err != nil {
				return err
			}
			id, err := parseAssetID(args[0])
			if err != nil {
				return err
			}
			schedule, err := svc.AssetSchedule(id, a.fiscalYear())
			if err != nil {
				return err
			}
			return emitOK(cmd, map[string]any{"asset_id": id, "schedule": schedule})
		},
	}
}

func newAssetRunCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Post the year's aggregate depreciation entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(); err != nil {
				return err
			}
			svc, err := a.assetService()
			if err != nil {
				return err
			}
			result, err := svc.RunYear(a.fiscalYear())
			if err != nil {
				return err
			}
			return emitOK(cmd, result)
		},
	}
}

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Veins19/MarketBridge/internal/database"
)

var (
	historyProduct string
	historyLimit   int
)

var historyCmd = &cobra.Command{
	Use:   "history [collaboration-id]",
	Short: "Show past collaboration runs",
	Long: `Without arguments, lists recent runs for the given product. With a
collaboration ID, shows that single run.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().StringVarP(&historyProduct, "product", "p", "AuraSound X Headphones",
		"product to list runs for")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum runs to list")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := setupLogger(cfg)
	ctx := cmd.Context()

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.Migrate(ctx); err != nil {
		return err
	}

	dao := database.NewCollaborationDAO(db)

	if len(args) == 1 {
		rec, err := dao.GetByCollaborationID(ctx, args[0])
		if err != nil {
			return err
		}
		return printJSON(rec)
	}

	records, err := dao.ListByProduct(ctx, historyProduct, historyLimit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		logger.Info("no runs recorded", "product", historyProduct)
		return nil
	}
	return printJSON(records)
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("rendering output: %w", err)
	}
	fmt.Fprintln(os.Stdout, string(out))
	return nil
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/Veins19/MarketBridge/internal/agent"
	"github.com/Veins19/MarketBridge/internal/config"
	"github.com/Veins19/MarketBridge/internal/database"
	"github.com/Veins19/MarketBridge/internal/events"
	"github.com/Veins19/MarketBridge/internal/insight"
	"github.com/Veins19/MarketBridge/internal/llm"
	"github.com/Veins19/MarketBridge/internal/metrics"
	"github.com/Veins19/MarketBridge/internal/orchestrator"
)

var analyzeProduct string

var analyzeCmd = &cobra.Command{
	Use:   "analyze [query]",
	Short: "Run a campaign collaboration for a query",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeProduct, "product", "p", "AuraSound X Headphones",
		"product the campaign is about")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := setupLogger(cfg)
	ctx := cmd.Context()

	query := args[0]
	for _, extra := range args[1:] {
		query += " " + extra
	}

	engine := buildEngine(ctx, cfg, logger)
	result := engine.Run(ctx, query, analyzeProduct)

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("rendering result: %w", err)
	}
	fmt.Fprintln(os.Stdout, string(out))
	return nil
}

// buildEngine assembles the full orchestration stack. Every optional
// collaborator degrades independently: a missing database drops insight
// loading and persistence, a missing model drops the narratives. The run
// itself always proceeds.
func buildEngine(ctx context.Context, cfg *config.Config, logger *slog.Logger) *orchestrator.Engine {
	var (
		loader insight.Loader
		sink   orchestrator.PersistenceSink
	)
	if db, err := database.Open(cfg.Database.Path); err != nil {
		logger.Warn("database unavailable, running on default insights without persistence",
			"path", cfg.Database.Path, "error", err)
	} else if err := db.Migrate(ctx); err != nil {
		logger.Warn("database migration failed, running on default insights without persistence",
			"error", err)
		db.Close()
	} else {
		loader = insight.NewDatabaseLoader(database.NewCatalogDAO(db), logger)
		sink = orchestrator.NewDatabaseSink(database.NewCollaborationDAO(db), logger)
	}

	var gen llm.Generator
	if cfg.LLM.Provider != "" {
		g, err := llm.NewGenerator(ctx, cfg.LLM)
		if err != nil {
			logger.Warn("llm provider unavailable, using templated narratives", "error", err)
		} else {
			gen = g
			logger.Info("llm provider configured", "provider", g.Name(), "model", cfg.LLM.Model)
		}
	}

	bus := events.NewEventBus(
		events.WithMetrics(metrics.NewBusRecorder(prometheus.DefaultRegisterer)),
	)

	team := []agent.Agent{
		agent.NewCreativeAgent(gen, logger),
		agent.NewFinanceAgent(gen, logger),
		agent.NewInventoryAgent(gen, logger),
	}
	lead := agent.NewLeadAgent(gen, logger, agent.WithROIThreshold(cfg.Core.ROIThreshold))

	return orchestrator.NewEngine(team, lead, loader,
		orchestrator.WithMaxRounds(cfg.Core.MaxRounds),
		orchestrator.WithTimeout(cfg.Core.Timeout),
		orchestrator.WithLogger(logger),
		orchestrator.WithEventBus(bus),
		orchestrator.WithPersistence(sink),
	)
}

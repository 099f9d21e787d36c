package cmd

import (
	"context"
	"fmt"
	"time"

	"recon-manager/core/config"
	"recon-manager/core/database"
	"recon-manager/core/logger"
	"recon-manager/core/storage"
	"recon-manager/feature/reconciliation"
	"recon-manager/feature/reconciliation/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the run command
	runDefinitionID uint64
	runDryRun       bool
	runComments     string
)

// runCmd triggers a single reconciliation run from the command line.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute a reconciliation run for a definition",
	Long: `Execute a single reconciliation run for the given definition.

The run compares the latest complete batch of every source against the
anchor source, persists detected breaks and archives a snapshot.

Examples:
  # Run definition 12 and persist the results
  recon-manager run --definition 12

  # Compute the result without persisting anything
  recon-manager run --definition 12 --dry-run`,
	RunE: runReconciliation,
}

func init() {
	runCmd.Flags().Uint64Var(&runDefinitionID, "definition", 0, "ID of the reconciliation definition (required)")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "Compute results without persisting breaks or a run record")
	runCmd.Flags().StringVar(&runComments, "comments", "", "Free-text comment stored on the run")
	_ = runCmd.MarkFlagRequired("definition")

	RootCmd.AddCommand(runCmd)
}

func runReconciliation(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	l.Info("Starting reconciliation run", zap.Uint64("definition_id", runDefinitionID))

	// Connect to database
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Connect to storage (optional for dry runs, best-effort otherwise)
	var store storage.Client
	if cfg.Recon.ArchiveSnapshots && !runDryRun {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			l.Warn("Storage client failed, snapshot archiving disabled", zap.Error(err))
		} else {
			store = client
		}
	}

	// CacheTTL 0: a one-shot process gains nothing from caching and must
	// never serve a stale context.
	feature := reconciliation.NewFeature(db, store, cfg.Storage.Bucket, l, nil, 0)
	svc := feature.Service()

	if runDryRun {
		result, err := svc.Preview(ctx, runDefinitionID)
		if err != nil {
			return fmt.Errorf("failed to preview run: %w", err)
		}

		l.Info("Dry-run complete, nothing persisted",
			zap.Int("matched", result.Matched),
			zap.Int("mismatched", result.Mismatched),
			zap.Int("missing", result.Missing),
			zap.Int("breaks", len(result.Breaks)),
		)
		return nil
	}

	started := time.Now()
	summary, err := svc.TriggerRun(ctx, runDefinitionID, models.TriggerCLI, "cli", runComments)
	if err != nil {
		return fmt.Errorf("failed to execute run: %w", err)
	}

	l.Info("Run complete",
		zap.String("correlation_id", summary.Run.CorrelationID),
		zap.Int("matched", summary.Matched),
		zap.Int("mismatched", summary.Mismatched),
		zap.Int("missing", summary.Missing),
		zap.Int("breaks", summary.BreakCount),
		zap.Duration("took", time.Since(started)),
	)

	if summary.Run.SnapshotKey != "" {
		l.Info("Snapshot archived", zap.String("key", summary.Run.SnapshotKey))
	}

	return nil
}

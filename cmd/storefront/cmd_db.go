package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/georgemunganga/storefront/internal/modules/catalog"
	"github.com/georgemunganga/storefront/internal/platform/database"
)

// migrateCmd creates or upgrades the schema
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or upgrade the database schema",
	Long: `Applies the storefront schema to the configured database.

Migrations are idempotent; running them against an up-to-date database is a
no-op.`,
	RunE: runMigrate,
}

// seedCmd loads the starter catalog
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the starter wholesale catalog",
	Long: `Inserts the sample products that are not present yet. Existing products
are never overwritten.`,
	RunE: runSeed,
}

func openDatabase(ctx context.Context) (*database.DB, error) {
	db, err := database.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseURL, logger)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func runMigrate(cmd *cobra.Command, args []string) error {
	db, err := openDatabase(cmd.Context())
	if err != nil {
		return err
	}
	defer db.Close()
	logger.Info("schema is up to date", zap.String("driver", cfg.DatabaseDriver))
	return nil
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	db, err := openDatabase(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := catalog.Seed(ctx, catalog.NewSQLRepository(db), catalog.SampleProducts(cfg.Currency))
	if err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "inserted %d products\n", n)
	return nil
}

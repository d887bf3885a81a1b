package main

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/georgemunganga/storefront/internal/app"
	"github.com/georgemunganga/storefront/internal/modules/catalog"
	"github.com/georgemunganga/storefront/internal/tui"
)

var (
	browseSession string
	browseQuery   string
	browseDemo    bool
	browseLogFile string
)

// browseCmd runs the terminal storefront
var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Shop the catalog from the terminal",
	Long: `Opens the interactive terminal storefront over the configured database.

The cart and price alerts belong to a visitor session and persist in the
configured cart storage. Pass the same --session again to pick up where you
left off. Checkout prints the WhatsApp link for the order.

Examples:
  storefront browse --demo
  storefront browse --query 'categories=Grains&in_stock=true'`,
	RunE: runBrowse,
}

func init() {
	browseCmd.Flags().StringVar(&browseSession, "session", "", "Visitor session id (default: a new one)")
	browseCmd.Flags().StringVar(&browseQuery, "query", "", "Initial filter query, as in the browse address bar")
	browseCmd.Flags().BoolVar(&browseDemo, "demo", false, "Seed the starter catalog before browsing")
	browseCmd.Flags().StringVar(&browseLogFile, "log-file", "", "Write logs to this file (default: discard)")
}

func browseLogger(level string) (*zap.Logger, error) {
	if browseLogFile == "" {
		return zap.NewNop(), nil
	}
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	zc := zap.NewDevelopmentConfig()
	zc.Level = lvl
	zc.OutputPaths = []string{browseLogFile}
	zc.ErrorOutputPaths = []string{browseLogFile}
	return zc.Build()
}

func runBrowse(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	if browseDemo {
		if _, err := catalog.Seed(ctx, catalog.NewSQLRepository(a.DB), catalog.SampleProducts(cfg.Currency)); err != nil {
			return fmt.Errorf("seed catalog: %w", err)
		}
	}

	id := browseSession
	if id == "" {
		id = uuid.NewString()
	}
	s, err := a.Sessions.Get(ctx, id)
	if err != nil {
		return err
	}

	model := tui.New(ctx, tui.Options{
		Catalog:  a.Catalog,
		Engine:   a.Engine,
		Orders:   a.Orders,
		Session:  s,
		Debounce: cfg.SearchDebounce,
		Query:    browseQuery,
		Log:      logger,
	})

	g, gctx := errgroup.WithContext(ctx)
	var final tea.Model
	g.Go(func() error {
		return a.Checker.Run(gctx, cfg.AlertCheckInterval)
	})
	g.Go(func() error {
		// Quitting the program stops the checker too.
		defer cancel()
		var err error
		final, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(gctx)).Run()
		if errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "session: %s\n", id)
	if m, ok := final.(tui.Model); ok && m.DeepLink != "" {
		fmt.Fprintf(out, "send your order on WhatsApp:\n%s\n", m.DeepLink)
	}
	return nil
}

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/KaramelBytes/mused/internal/dataset"
	"github.com/KaramelBytes/mused/internal/utils"
	"github.com/KaramelBytes/mused/internal/web"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Load the dataset and serve the dashboard",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tbl, err := loadDataset(ctx, true)
	if err != nil {
		return err
	}
	state, err := web.NewState(tbl)
	if err != nil {
		return err
	}
	srv := web.NewServer(state, web.Options{
		RatePerSec: cfg.CallbackRatePerSec,
		Burst:      cfg.CallbackBurst,
		SessionTTL: cfg.SessionTTL(),
	})
	return srv.Run(ctx, cfg.ListenAddr, cfg.ShutdownTimeout())
}

// loadDataset fetches and parses the configured dataset. Any failure is fatal
// to the calling command.
func loadDataset(ctx context.Context, progress bool) (*dataset.Table, error) {
	opt := dataset.DefaultOptions()
	opt.HTTPTimeout = cfg.HTTPTimeout()
	opt.Attempts = cfg.FetchAttempts
	opt.RetryDelay = cfg.FetchRetryDelay()
	opt.Progress = progress

	utils.Infof("Loading dataset from %s", cfg.DatasetURL)
	tbl, err := dataset.Load(ctx, cfg.DatasetURL, opt)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	utils.Successf("Loaded %d tracks (%d genres, %d artists)", tbl.Len(), len(tbl.Genres()), len(tbl.Artists()))
	return tbl, nil
}

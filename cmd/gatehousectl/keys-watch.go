package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tacksail/gatehouse/pkg/fernet"
	"github.com/tacksail/gatehouse/pkg/slogx"
)

// keysWatchCmd represents the keys watch command
var keysWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Reload the repository when another process rotates keys",
	Long: `Reload the repository when another process rotates keys.

Watches the key directory and reloads on changes, logging each new snapshot.
Runs until interrupted. Only the fs backend has a directory to watch.

Example:
  gatehousectl keys watch`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Keys.Backend != "fs" {
			return fmt.Errorf("keys watch needs the fs backend, configured backend is %q", cfg.Keys.Backend)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger := slogx.FromContext(ctx)

		repo, closeStore, err := loadRepository(ctx)
		if err != nil {
			return err
		}
		defer closeStore()

		logger.Info("starting key repository watch",
			"dir", cfg.Keys.Dir,
			"primary", repo.Primary().Index,
			"keys", len(repo.All()),
		)

		watcher := fernet.NewWatcher(repo, cfg.Keys.Dir, logger)
		if err := watcher.Run(ctx); !errors.Is(err, context.Canceled) {
			return err
		}

		logger.Info("shutdown signal received")
		return nil
	},
}

func init() {
	keysCmd.AddCommand(keysWatchCmd)
}

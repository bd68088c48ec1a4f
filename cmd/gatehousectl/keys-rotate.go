package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tacksail/gatehouse/pkg/slogx"
)

// keysRotateCmd represents the keys rotate command
var keysRotateCmd = &cobra.Command{
	Use:   "rotate",
	Short: "Add a new primary key and prune the oldest",
	Long: `Add a new primary key and prune the oldest keys beyond the active bound.

The new key takes the next free index and becomes the primary immediately.
Tokens sealed under keys that survive the prune stay valid; tokens under
pruned keys do not.

Example:
  gatehousectl keys rotate
  gatehousectl keys rotate --max-active 5`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger := slogx.FromContext(ctx)

		maxActive := cfg.Keys.MaxActive
		if cmd.Flags().Changed("max-active") {
			maxActive, _ = cmd.Flags().GetInt("max-active")
		}

		repo, closeStore, err := loadRepository(ctx)
		if err != nil {
			return err
		}
		defer closeStore()

		before := repo.Primary().Index
		if err := repo.Rotate(ctx, maxActive); err != nil {
			return fmt.Errorf("rotate keys at %s: %w", storeLocation(), err)
		}

		logger.Info("rotated keys",
			"location", storeLocation(),
			"previous_primary", before,
			"primary", repo.Primary().Index,
			"active", len(repo.All()),
		)

		fmt.Printf("Primary key index: %d\n", repo.Primary().Index)
		for _, key := range repo.All() {
			fmt.Printf("  key %d\n", key.Index)
		}
		return nil
	},
}

func init() {
	keysCmd.AddCommand(keysRotateCmd)
	keysRotateCmd.Flags().Int("max-active", 0, "Active key bound, 0 keeps every key (default: from config)")
}

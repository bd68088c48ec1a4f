package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tacksail/gatehouse/pkg/fernet"
)

// keysSetupCmd represents the keys setup command
var keysSetupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create the key repository and bootstrap key 0",
	Long: `Create the key repository and bootstrap key 0.

A repository that already holds keys is left untouched, so setup is safe to
run repeatedly and from provisioning scripts.

Example:
  gatehousectl keys setup
  GATEHOUSE_KEYS_BACKEND=sqlite gatehousectl keys setup`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, closeStore, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore()

		if err := fernet.Initialize(ctx, st); err != nil {
			return fmt.Errorf("initialize key repository at %s: %w", storeLocation(), err)
		}

		repo, err := fernet.Load(ctx, st)
		if err != nil {
			return fmt.Errorf("load key repository at %s: %w", storeLocation(), err)
		}

		fmt.Printf("Key repository ready at %s\n", storeLocation())
		fmt.Printf("Primary key index: %d\n", repo.Primary().Index)
		return nil
	},
}

func init() {
	keysCmd.AddCommand(keysSetupCmd)
}

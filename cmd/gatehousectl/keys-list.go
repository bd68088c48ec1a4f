package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tacksail/gatehouse/pkg/cryptox"
	"github.com/tacksail/gatehouse/pkg/fernet"
	"github.com/tacksail/gatehouse/pkg/fernet/sqlite"
)

// keysListCmd represents the keys list command
var keysListCmd = &cobra.Command{
	Use:   "list",
	Short: "List repository keys",
	Long: `List repository keys, newest first.

Key material itself is never printed; keys show as SHA-256 fingerprints. The
sqlite backend also records when each key was created.

Example:
  gatehousectl keys list`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, closeStore, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore()

		repo, err := fernet.Load(ctx, st)
		if err != nil {
			return fmt.Errorf("load key repository from %s: %w", storeLocation(), err)
		}

		created := map[int]time.Time{}
		if ss, ok := st.(*sqlite.Store); ok {
			infos, err := ss.ListInfo(ctx)
			if err != nil {
				return err
			}
			for _, info := range infos {
				created[info.Index] = info.CreatedAt
			}
		}

		fmt.Printf("Keys at %s:\n", storeLocation())
		for _, key := range repo.All() {
			line := fmt.Sprintf("  %3d  %s", key.Index, cryptox.Fingerprint(key.Material))
			if key.Index == repo.Primary().Index {
				line += "  (primary)"
			}
			if at, ok := created[key.Index]; ok {
				line += "  created " + at.UTC().Format(time.RFC3339)
			}
			fmt.Println(line)
		}
		return nil
	},
}

func init() {
	keysCmd.AddCommand(keysListCmd)
}

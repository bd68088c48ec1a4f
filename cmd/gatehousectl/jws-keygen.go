package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tacksail/gatehouse/pkg/cryptox"
)

// jwsKeygenCmd represents the jws keygen command
var jwsKeygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate a new ES256 signing key",
	Long: `Generate a new ES256 signing key in the configured key directory.

Keys are numbered like repository keys: the new file takes the next free
index, and since the provider loads keys in name order, it becomes the
signing key.

Example:
  gatehousectl jws keygen`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := cfg.JWS.KeyDir

		kid, err := nextSigningKeyID(dir)
		if err != nil {
			return err
		}

		pemKey, err := cryptox.GenerateES256Key()
		if err != nil {
			return err
		}

		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create key directory %s: %w", dir, err)
		}

		path := filepath.Join(dir, fmt.Sprintf("%d.pem", kid))
		if err := os.WriteFile(path, pemKey, 0o600); err != nil {
			return fmt.Errorf("write signing key: %w", err)
		}

		fmt.Printf("Wrote signing key %d to %s\n", kid, path)
		return nil
	},
}

// nextSigningKeyID scans dir for integer-named *.pem files and returns one
// past the highest, or 0 for a fresh directory.
func nextSigningKeyID(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read key directory %s: %w", dir, err)
	}

	next := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".pem") {
			continue
		}
		if n, err := strconv.Atoi(strings.TrimSuffix(entry.Name(), ".pem")); err == nil && n >= next {
			next = n + 1
		}
	}
	return next, nil
}

func init() {
	jwsCmd.AddCommand(jwsKeygenCmd)
}

package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/tacksail/gatehouse/internal/config"
	"github.com/tacksail/gatehouse/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

var (
	configPath string
	cfg        config.Config
)

var rootCmd = &cobra.Command{
	Use:   "gatehousectl",
	Short: "Operate the gatehouse token service",
	Long: `Operate the gatehouse token service.

gatehousectl manages the key repository tokens are sealed under, issues and
validates tokens, and generates signing keys for the JWS provider.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}

		logger := slogx.New(slogx.Config{
			Service: "gatehousectl",
			Version: BuildVersion,
			Env:     cfg.Log.Env,
			Level:   cfg.Log.Level,
			Format:  cfg.Log.Format,
		})
		cmd.SetContext(slogx.WithContext(cmd.Context(), logger))
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file")
}

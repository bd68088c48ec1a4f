package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// jwsCmd represents the jws command
var jwsCmd = &cobra.Command{
	Use:   "jws",
	Short: "Manage signing keys for the JWS provider",
	Long:  `Manage the ES256 signing keys the JWS token provider uses.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'jws' requires a subcommand (keygen)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(jwsCmd)
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// keysCmd represents the keys command
var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage the token key repository",
	Long:  `Manage the symmetric key repository tokens are sealed under.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'keys' requires a subcommand (setup, rotate, list, watch)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(keysCmd)
}

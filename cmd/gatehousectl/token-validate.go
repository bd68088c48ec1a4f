package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tacksail/gatehouse/pkg/fernet"
	"github.com/tacksail/gatehouse/pkg/token"
)

// tokenValidateCmd represents the token validate command
var tokenValidateCmd = &cobra.Command{
	Use:   "validate <token>",
	Short: "Validate a token and print its claims",
	Long: `Validate a token with the configured provider and print its claims.

Exits non-zero when the token is malformed, forged, sealed under a pruned
key, or expired.

Example:
  gatehousectl token validate gAAAAAB...`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		text := args[0]

		provider, closeProvider, err := newProvider(ctx)
		if err != nil {
			return err
		}
		defer closeProvider()

		claims, err := provider.Validate(text)
		if err != nil {
			return err
		}

		variant, err := claims.Variant()
		if err != nil {
			return err
		}

		fmt.Printf("Variant:   %s\n", variant)
		fmt.Printf("User:      %s\n", claims.UserID)
		if claims.ProjectID != "" {
			fmt.Printf("Project:   %s\n", claims.ProjectID)
		}
		if claims.DomainID != "" {
			fmt.Printf("Domain:    %s\n", claims.DomainID)
		}
		if claims.TrustID != "" {
			fmt.Printf("Trust:     %s\n", claims.TrustID)
		}
		fmt.Printf("Expires:   %s\n", token.FormatTimestamp(claims.ExpiresAt))
		fmt.Printf("Audit IDs: %s\n", strings.Join(claims.AuditIDs, ", "))

		// The encrypted envelope carries its sealing time in the clear.
		if issued, err := fernet.CreatedAt(text); err == nil {
			fmt.Printf("Issued:    %s\n", token.FormatTimestamp(issued))
		}
		return nil
	},
}

func init() {
	tokenCmd.AddCommand(tokenValidateCmd)
}

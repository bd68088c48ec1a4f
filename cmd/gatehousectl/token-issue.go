package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tacksail/gatehouse/pkg/auditid"
	"github.com/tacksail/gatehouse/pkg/token"
)

// tokenIssueCmd represents the token issue command
var tokenIssueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Issue a token",
	Long: `Issue a token with the configured provider and print it to stdout.

Scope follows from the flags given: none for an unscoped token, --project or
--domain for a scoped one, --trust together with --project for a delegated
one. A fresh audit id is minted when none is supplied.

Example:
  gatehousectl token issue --user 8a6e0804c9e44f269c749c9d3a9f4f72
  gatehousectl token issue \
      --user 8a6e0804c9e44f269c749c9d3a9f4f72 \
      --project f10a1e028c4a4cbdbd231a06b95e1b3e \
      --expires-in 30m`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		userID, _ := cmd.Flags().GetString("user")
		projectID, _ := cmd.Flags().GetString("project")
		domainID, _ := cmd.Flags().GetString("domain")
		trustID, _ := cmd.Flags().GetString("trust")
		auditIDs, _ := cmd.Flags().GetStringSlice("audit-id")

		expiresAt, err := resolveExpiry(cmd)
		if err != nil {
			return err
		}

		if len(auditIDs) == 0 {
			auditIDs = []string{auditid.New().String()}
		}

		provider, closeProvider, err := newProvider(ctx)
		if err != nil {
			return err
		}
		defer closeProvider()

		text, err := provider.Issue(token.Claims{
			UserID:    userID,
			ProjectID: projectID,
			DomainID:  domainID,
			TrustID:   trustID,
			ExpiresAt: expiresAt,
			AuditIDs:  auditIDs,
		})
		if err != nil {
			return err
		}

		fmt.Println(text)
		return nil
	},
}

// resolveExpiry picks the expiry from --expires-at, then --expires-in, then
// the configured default lifetime.
func resolveExpiry(cmd *cobra.Command) (time.Time, error) {
	if cmd.Flags().Changed("expires-at") {
		at, _ := cmd.Flags().GetString("expires-at")
		return token.ParseTimestamp(at)
	}

	lifetime := cfg.Token.Lifetime()
	if cmd.Flags().Changed("expires-in") {
		lifetime, _ = cmd.Flags().GetDuration("expires-in")
	}
	return time.Now().Add(lifetime), nil
}

func init() {
	tokenCmd.AddCommand(tokenIssueCmd)

	tokenIssueCmd.Flags().String("user", "", "User id the token authenticates (required)")
	tokenIssueCmd.Flags().String("project", "", "Project id to scope to")
	tokenIssueCmd.Flags().String("domain", "", "Domain id to scope to")
	tokenIssueCmd.Flags().String("trust", "", "Trust id for a delegated token (needs --project)")
	tokenIssueCmd.Flags().Duration("expires-in", time.Hour, "Lifetime from now (default: from config)")
	tokenIssueCmd.Flags().String("expires-at", "", "Absolute expiry, e.g. 2035-01-02T03:04:05.000000Z")
	tokenIssueCmd.Flags().StringSlice("audit-id", nil, "Audit id to carry; repeatable")
	_ = tokenIssueCmd.MarkFlagRequired("user")
}

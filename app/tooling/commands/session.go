package commands

import (
	"fmt"
	"time"

	"github.com/jrazmi/anchorboard/sdk/environment"
	"github.com/spf13/cobra"
)

func (a *app) sessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Manage bearer sessions for local development",
	}
	cmd.AddCommand(a.sessionCreateCmd())
	cmd.AddCommand(a.sessionRevokeCmd())
	cmd.AddCommand(a.sessionPruneCmd())
	return cmd
}

func (a *app) sessionCreateCmd() *cobra.Command {
	var (
		userID        string
		providerToken string
		ttl           time.Duration
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Issue a session and print its bearer token",
		Long: `Issue a session for a user and print the bearer token once.

The provider token is the GitHub OAuth token used for upstream calls made on
the user's behalf. It can also be read from GITHUB_TOKEN.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			b, err := a.openBackend(ctx)
			if err != nil {
				return err
			}
			defer b.Close()

			token, session, err := b.Repositories.Sessions.Create(ctx, userID, providerToken, ttl)
			if err != nil {
				return fmt.Errorf("create session: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "session %s for %s expires %s\n", session.SessionID, session.UserID, session.ExpiresAt.Format(time.RFC3339))
			fmt.Fprintf(out, "%s %s\n", okColor.Sprint("token:"), token)
			return nil
		},
	}

	cmd.Flags().StringVarP(&userID, "user", "u", "", "user id the session belongs to")
	cmd.Flags().StringVar(&providerToken, "provider-token", "", "GitHub OAuth token for upstream calls")
	cmd.Flags().DurationVar(&ttl, "ttl", 7*24*time.Hour, "session lifetime")
	cmd.MarkFlagRequired("user")

	cmd.PreRun = func(cmd *cobra.Command, args []string) {
		if providerToken == "" {
			providerToken = environment.GetEnvOrDefault("GITHUB_TOKEN", "")
		}
	}

	return cmd
}

func (a *app) sessionRevokeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "revoke <session-id>",
		Short: "Delete a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			b, err := a.openBackend(ctx)
			if err != nil {
				return err
			}
			defer b.Close()

			if err := b.Repositories.Sessions.Revoke(ctx, args[0]); err != nil {
				return fmt.Errorf("revoke session: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", okColor.Sprint("revoked"), args[0])
			return nil
		},
	}
}

func (a *app) sessionPruneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Delete expired sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			b, err := a.openBackend(ctx)
			if err != nil {
				return err
			}
			defer b.Close()

			n, err := b.Repositories.Sessions.Prune(ctx)
			if err != nil {
				return fmt.Errorf("prune sessions: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "pruned %d expired sessions\n", n)
			return nil
		},
	}
}

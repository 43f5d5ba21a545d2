package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/jrazmi/anchorboard/core/repositories/schemamigrationsrepo"
	"github.com/spf13/cobra"
)

const migrateTimeout = 5 * time.Minute

func (a *app) migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), migrateTimeout)
			defer cancel()

			b, err := a.openBackend(ctx)
			if err != nil {
				return err
			}
			defer b.Close()

			if err := b.StatusCheck(ctx); err != nil {
				return fmt.Errorf("database status check failed: %w", err)
			}

			results, err := b.Migrate(ctx)
			if err != nil {
				return fmt.Errorf("migrate database: %w", err)
			}

			out := cmd.OutOrStdout()
			applied := 0
			for _, r := range results {
				if r.Applied {
					applied++
					fmt.Fprintf(out, "%s %s\n", okColor.Sprint("APPLIED"), r.Version)
					continue
				}
				fmt.Fprintf(out, "%s %s\n", warnColor.Sprint("SKIPPED"), r.Version)
			}
			fmt.Fprintf(out, "%d of %d migrations applied\n", applied, len(results))
			return nil
		},
	}

	cmd.AddCommand(a.migrateStatusCmd())
	return cmd
}

func (a *app) migrateStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Compare embedded migrations with the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			b, err := a.openBackend(ctx)
			if err != nil {
				return err
			}
			defer b.Close()

			status, err := b.Migrations.Status(ctx, b.MigrationsFS, b.MigrationsDir)
			if err != nil {
				return fmt.Errorf("migration status: %w", err)
			}

			out := cmd.OutOrStdout()
			drift := false
			for _, st := range status {
				label := stateLabel(st.State)
				if st.AppliedAt != nil {
					fmt.Fprintf(out, "%s %s (%s)\n", label, st.Version, st.AppliedAt.UTC().Format(time.RFC3339))
				} else {
					fmt.Fprintf(out, "%s %s\n", label, st.Version)
				}
				if st.State == schemamigrationsrepo.StateModified {
					drift = true
				}
			}
			if drift {
				return fmt.Errorf("applied migrations were modified on disk")
			}
			return nil
		},
	}
}

func stateLabel(s schemamigrationsrepo.State) string {
	switch s {
	case schemamigrationsrepo.StateApplied:
		return okColor.Sprint("APPLIED ")
	case schemamigrationsrepo.StatePending:
		return warnColor.Sprint("PENDING ")
	case schemamigrationsrepo.StateModified:
		return errColor.Sprint("MODIFIED")
	}
	return errColor.Sprint("UNKNOWN ")
}

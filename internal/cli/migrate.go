package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dtroode/speechpractice-server/database"
	"github.com/dtroode/speechpractice-server/internal/config"
)

func dsnFlag(cmd *cobra.Command, dsn *string) {
	cmd.Flags().StringVar(dsn, "dsn", "", "postgres dsn (default DATABASE_DSN)")
}

func resolveDSN(load func() (*config.Config, error), dsn string) (string, error) {
	if dsn != "" {
		return dsn, nil
	}
	cfg, err := load()
	if err != nil {
		return "", err
	}
	return cfg.Database.DSN, nil
}

func newMigrateCommand(load func() (*config.Config, error)) *cobra.Command {
	var dsn string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending Postgres migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			target, err := resolveDSN(load, dsn)
			if err != nil {
				return err
			}
			if err := database.Migrate(cmd.Context(), target); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
	dsnFlag(cmd, &dsn)

	return cmd
}

func newStatusCommand(load func() (*config.Config, error)) *cobra.Command {
	var dsn string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the state of every Postgres migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			target, err := resolveDSN(load, dsn)
			if err != nil {
				return err
			}
			statuses, err := database.Status(cmd.Context(), target)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "VERSION\tSTATE\tAPPLIED AT\tFILE")
			for _, s := range statuses {
				applied := "-"
				if !s.AppliedAt.IsZero() {
					applied = s.AppliedAt.Format("2006-01-02 15:04:05")
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", s.Source.Version, s.State, applied, s.Source.Path)
			}
			return w.Flush()
		},
	}
	dsnFlag(cmd, &dsn)

	return cmd
}

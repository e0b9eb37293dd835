package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"contesthub/internal/platform/config"
	"contesthub/internal/platform/logger"
	"contesthub/internal/platform/migrate"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the Postgres schema",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply pending migrations",
			RunE: func(cmd *cobra.Command, _ []string) error {
				r, err := migrationRunner(cmd)
				if err != nil {
					return err
				}
				return r.Up(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "down [version]",
			Short: "Roll back the latest migration, or down to version",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				var target int64
				if len(args) == 1 {
					v, err := strconv.ParseInt(args[0], 10, 64)
					if err != nil {
						return err
					}
					target = v
				}
				r, err := migrationRunner(cmd)
				if err != nil {
					return err
				}
				return r.Down(cmd.Context(), target)
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show applied and pending migrations",
			RunE: func(cmd *cobra.Command, _ []string) error {
				r, err := migrationRunner(cmd)
				if err != nil {
					return err
				}
				return r.Status(cmd.Context())
			},
		},
	)
	return cmd
}

func migrationRunner(cmd *cobra.Command) (migrate.Runner, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	cfg := config.Load(envFile)
	return migrate.New(cfg.Postgres.DSN, cfg.Postgres.MigrationsDir, logger.New("contesthub-migrate", cfg.LogLevel))
}

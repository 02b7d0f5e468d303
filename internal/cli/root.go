// Package cli is the operator command line for the store backend.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/sucrestore/internal/config"
	"github.com/Skotchmaster/sucrestore/internal/db"
	"github.com/Skotchmaster/sucrestore/internal/logging"
	"github.com/Skotchmaster/sucrestore/internal/repo"
)

type app struct {
	cfg    config.Config
	driver string
	dsn    string
}

// NewRootCmd builds the shopctl command tree. Database flags default to
// DB_DRIVER and DATABASE_URL.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "shopctl",
		Short:         "Operator tools for the Sucre Store backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.cfg = config.Load()
			if a.driver == "" {
				a.driver = a.cfg.DBDriver
			}
			if a.dsn == "" {
				a.dsn = a.cfg.DatabaseURL
			}
		},
	}
	root.PersistentFlags().StringVar(&a.driver, "db-driver", "", "database driver: postgres, pq or sqlite")
	root.PersistentFlags().StringVar(&a.dsn, "database-url", "", "database DSN")

	root.AddCommand(
		newMigrateCmd(a),
		newSeedAdminCmd(a),
		newImportCmd(a),
		newSettingsCmd(a),
	)
	return root
}

func Execute() error {
	return NewRootCmd().Execute()
}

// open connects and migrates, so every command works on a fresh database.
func (a *app) open(ctx context.Context) (*repo.GormRepo, func(), error) {
	if a.dsn == "" {
		return nil, nil, fmt.Errorf("no database configured: set DATABASE_URL or --database-url")
	}
	gdb, err := db.Open(ctx, a.driver, a.dsn)
	if err != nil {
		return nil, nil, err
	}
	if err := db.Migrate(ctx, gdb); err != nil {
		_ = db.Close(gdb)
		return nil, nil, err
	}
	return &repo.GormRepo{DB: gdb}, func() { _ = db.Close(gdb) }, nil
}

func (a *app) commandContext(cmd *cobra.Command) context.Context {
	l := logging.New(a.cfg.LogLevel).With("service", "shopctl", "command", cmd.Name())
	return logging.IntoContext(cmd.Context(), l)
}

package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/sucrestore/internal/config"
	"github.com/Skotchmaster/sucrestore/internal/importer"
	"github.com/Skotchmaster/sucrestore/internal/mykafka"
	"github.com/Skotchmaster/sucrestore/internal/service"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, closeDB, err := a.open(a.commandContext(cmd))
			if err != nil {
				return err
			}
			defer closeDB()
			fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
			return nil
		},
	}
}

func newSeedAdminCmd(a *app) *cobra.Command {
	var username, email, password string

	cmd := &cobra.Command{
		Use:   "seed-admin",
		Short: "Create the first SUPER_ADMIN when no user exists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := a.commandContext(cmd)
			r, closeDB, err := a.open(ctx)
			if err != nil {
				return err
			}
			defer closeDB()

			if username == "" {
				username = a.cfg.Admin.Username
			}
			if email == "" {
				email = a.cfg.Admin.Email
			}
			if password == "" {
				password = a.cfg.Admin.Password
			}

			created, err := (&service.UserService{Repo: r}).SeedAdmin(ctx, username, email, password)
			if err != nil {
				return err
			}
			if !created {
				fmt.Fprintln(cmd.OutOrStdout(), "users already exist, nothing to do")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", username)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "admin username (default ADMIN_USERNAME)")
	cmd.Flags().StringVar(&email, "email", "", "admin email (default ADMIN_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "admin password (default ADMIN_PASSWORD)")
	return cmd
}

func newImportCmd(a *app) *cobra.Command {
	var file, sheetID, readRange string
	var fromSheets bool

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import the product catalog from a CSV/XLSX file or Google Sheets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (file == "") == !fromSheets {
				return errors.New("exactly one of --file or --sheets is required")
			}
			ctx := a.commandContext(cmd)

			var src importer.Source
			if fromSheets {
				if sheetID == "" {
					sheetID = a.cfg.Sheets.SpreadsheetID
				}
				if readRange == "" {
					readRange = a.cfg.Sheets.Range
				}
				if sheetID == "" {
					return errors.New("no spreadsheet: set GOOGLE_SHEETS_ID or --sheet-id")
				}
				s, err := importer.NewSheetsSource(ctx, a.cfg.Sheets.CredentialsPath, sheetID, readRange)
				if err != nil {
					return err
				}
				src = s
			} else {
				f, err := os.Open(file)
				if err != nil {
					return err
				}
				defer f.Close()
				switch strings.ToLower(filepath.Ext(file)) {
				case ".xlsx":
					st, err := f.Stat()
					if err != nil {
						return err
					}
					src = importer.XLSXSource{ReaderAt: f, Size: st.Size()}
				default:
					src = importer.CSVSource{Reader: f}
				}
			}

			r, closeDB, err := a.open(ctx)
			if err != nil {
				return err
			}
			defer closeDB()

			sum, err := (&service.ImportService{Repo: r, Events: mykafka.Nop{}}).Run(ctx, src)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "rows: %d, created: %d, updated: %d, deactivated: %d, errors: %d\n",
				sum.Total, sum.Created, sum.Updated, sum.Deactivated, len(sum.Errors))
			for _, e := range sum.Errors {
				fmt.Fprintf(out, "  row %d: %s\n", e.Row, e.Message)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "path to a .csv or .xlsx file")
	cmd.Flags().BoolVar(&fromSheets, "sheets", false, "read from Google Sheets")
	cmd.Flags().StringVar(&sheetID, "sheet-id", "", "spreadsheet id (default GOOGLE_SHEETS_ID)")
	cmd.Flags().StringVar(&readRange, "range", "", "read range (default GOOGLE_SHEETS_RANGE)")
	return cmd
}

func newSettingsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Inspect or load store settings",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Upsert every key of a settings yaml file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := config.LoadSettingsFile(args[0])
			if err != nil {
				return err
			}
			ctx := a.commandContext(cmd)
			r, closeDB, err := a.open(ctx)
			if err != nil {
				return err
			}
			defer closeDB()

			if _, err := (&service.ContentService{Repo: r}).UpdateSettings(ctx, values); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d settings saved\n", len(values))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Print every stored setting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := a.commandContext(cmd)
			r, closeDB, err := a.open(ctx)
			if err != nil {
				return err
			}
			defer closeDB()

			values, err := (&service.ContentService{Repo: r}).Settings(ctx)
			if err != nil {
				return err
			}
			keys := make([]string, 0, len(values))
			for k := range values {
				keys = append(keys, k)
			}
			slices.Sort(keys)
			for _, k := range keys {
				fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", k, values[k])
			}
			return nil
		},
	})
	return cmd
}

package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/localnerve/excel-analyzer/internal/database"
	"github.com/localnerve/excel-analyzer/internal/services"
	"github.com/localnerve/excel-analyzer/internal/storage"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// connect opens the configured database; the caller closes it
func (a *app) connect() (*gorm.DB, error) {
	if err := requireDatabase(a.cfg); err != nil {
		return nil, err
	}
	return database.Connect(a.cfg)
}

func (a *app) migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the users, files and analyses tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.connect()
			if err != nil {
				return err
			}
			defer database.Close(db)

			if err := database.AutoMigrate(db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			fmt.Fprintln(cmd.ErrOrStderr(), "Schema is up to date")
			return nil
		},
	}
}

func (a *app) reconcileCommand() *cobra.Command {
	opts := services.ReconcileOptions{}
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Find and remove files without analyses, analyses without files and records of deleted users",
		Long: `reconcile scans for records left behind by interrupted uploads or deletes.
With --dry-run nothing is changed and the report lists what would be removed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.connect()
			if err != nil {
				return err
			}
			defer database.Close(db)

			ctx := context.Background()
			var store storage.ObjectStore
			if !opts.DryRun {
				if store, err = storage.FromConfig(ctx, a.cfg); err != nil {
					return err
				}
			}

			report, err := services.Reconcile(ctx, db, store, opts)
			if err != nil {
				return err
			}
			return a.print(cmd.OutOrStdout(), report)
		},
	}
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "report without deleting")
	cmd.Flags().DurationVar(&opts.Grace, "grace", 10*time.Minute, "ignore files newer than this, their upload may still be running")
	return cmd
}

func (a *app) createAdminCommand() *cobra.Command {
	var name, email string
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account, or promote an existing one",
		Long:  `The password is read from ANALYZER_ADMIN_PASSWORD so it stays out of shell history.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			password := os.Getenv("ANALYZER_ADMIN_PASSWORD")
			if email == "" || password == "" {
				return fmt.Errorf("--email and ANALYZER_ADMIN_PASSWORD are required")
			}
			if name == "" {
				name = email
			}

			db, err := a.connect()
			if err != nil {
				return err
			}
			defer database.Close(db)

			user, err := services.NewAuthService(db, a.cfg).EnsureAdmin(context.Background(), name, email, password)
			if err != nil {
				return err
			}
			return a.print(cmd.OutOrStdout(), user)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name (default is the email)")
	cmd.Flags().StringVar(&email, "email", "", "login email")
	return cmd
}

func (a *app) configCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the effective settings with secrets masked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := a.cfg
			return a.print(cmd.OutOrStdout(), map[string]interface{}{
				"db_type":           c.DBType,
				"db_host":           c.DBHost,
				"db_port":           c.DBPort,
				"db_database":       c.DBDatabase,
				"db_user":           c.DBUser,
				"db_password":       mask(c.DBPassword),
				"storage_driver":    c.StorageDriver,
				"storage_local_dir": c.StorageLocalDir,
				"s3_bucket":         c.S3Bucket,
				"s3_endpoint":       c.S3Endpoint,
				"ai_provider":       c.AIProvider,
				"ai_model":          c.AIModel,
				"ai_api_key":        mask(c.AIAPIKey),
			})
		},
	}
}

package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/clinicdesk/internal/clock"
	"github.com/smallbiznis/clinicdesk/internal/config"
	"github.com/smallbiznis/clinicdesk/internal/locking"
	"github.com/smallbiznis/clinicdesk/internal/migration"
	"github.com/smallbiznis/clinicdesk/internal/observability"
	"github.com/smallbiznis/clinicdesk/internal/seed"
	"github.com/smallbiznis/clinicdesk/internal/server"
	"github.com/smallbiznis/clinicdesk/pkg/db"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	root := &cobra.Command{
		Use:   "clinicdesk",
		Short: "Clinic management and billing API",
	}

	root.AddCommand(serveCmd())
	root.AddCommand(migrateCmd())
	root.AddCommand(createAdminCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run migrations and start the HTTP API",
		Run: func(cmd *cobra.Command, args []string) {
			fx.New(
				config.Module,
				observability.Module,
				fx.Provide(RegisterSnowflake),
				db.Module,
				clock.Module,
				locking.Module,
				migration.Module,
				server.Module,
				fx.Invoke(server.RunHTTP),
			).Run()
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOnce(cmd.Context(), func(conn *gorm.DB, _ config.Config, log *zap.Logger) error {
				if err := migration.RunMigrations(conn); err != nil {
					return err
				}
				log.Info("migrations applied")
				return nil
			})
		},
	}
}

func createAdminCmd() *cobra.Command {
	var clinicName, name, email, password string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Ensure the clinic and its admin user exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOnce(cmd.Context(), func(conn *gorm.DB, cfg config.Config, log *zap.Logger) error {
				bootstrap := cfg.Bootstrap
				if clinicName != "" {
					bootstrap.ClinicName = clinicName
				}
				if name != "" {
					bootstrap.AdminName = name
				}
				if email != "" {
					bootstrap.AdminEmail = email
				}
				if password != "" {
					bootstrap.AdminPassword = password
				}

				if err := migration.RunMigrations(conn); err != nil {
					return err
				}
				if err := seed.EnsureDefaultClinicAndAdmin(conn, bootstrap); err != nil {
					return err
				}
				log.Info("admin ensured", zap.String("email", strings.ToLower(strings.TrimSpace(bootstrap.AdminEmail))))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&clinicName, "clinic", "", "clinic name (defaults to BOOTSTRAP_CLINIC_NAME)")
	cmd.Flags().StringVar(&name, "name", "", "admin display name")
	cmd.Flags().StringVar(&email, "email", "", "admin email")
	cmd.Flags().StringVar(&password, "password", "", "admin password")
	return cmd
}

// runOnce boots config, logging and the database, runs fn, and shuts down.
func runOnce(ctx context.Context, fn func(*gorm.DB, config.Config, *zap.Logger) error) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var runErr error
	app := fx.New(
		fx.NopLogger,
		config.Module,
		observability.Module,
		db.Module,
		fx.Invoke(func(conn *gorm.DB, cfg config.Config, log *zap.Logger) {
			runErr = fn(conn, cfg, log)
		}),
	)

	startCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		return fmt.Errorf("start: %w", err)
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer stopCancel()
	if err := app.Stop(stopCtx); err != nil && runErr == nil {
		return err
	}
	return runErr
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}

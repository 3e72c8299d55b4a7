package migration

import (
	"github.com/smallbiznis/clinicdesk/internal/config"
	"github.com/smallbiznis/clinicdesk/internal/seed"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, log *zap.Logger) error {
		if err := RunMigrations(conn); err != nil {
			return err
		}

		if cfg.Bootstrap.AdminEmail == "" {
			_, err := seed.EnsureDefaultClinic(conn, cfg.Bootstrap)
			return err
		}
		if err := seed.EnsureDefaultClinicAndAdmin(conn, cfg.Bootstrap); err != nil {
			return err
		}
		log.Named("migrations").Info("bootstrap admin ensured", zap.String("email", cfg.Bootstrap.AdminEmail))
		return nil
	}),
)

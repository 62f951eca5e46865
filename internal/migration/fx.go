package migration

import (
	"github.com/pixelpasture/unicornshop/internal/config"
	paymentdomain "github.com/pixelpasture/unicornshop/internal/payment/domain"
	statsdomain "github.com/pixelpasture/unicornshop/internal/stats/domain"
	unicorndomain "github.com/pixelpasture/unicornshop/internal/unicorn/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			return RunMigrations(sqlDB)
		}

		// Versioned migrations are written for postgres; the sqlite and
		// mysql dev paths derive the schema from the models instead.
		return conn.AutoMigrate(
			&paymentdomain.Payment{},
			&unicorndomain.Unicorn{},
			&statsdomain.Snapshot{},
		)
	}),
)

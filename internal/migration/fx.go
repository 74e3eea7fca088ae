package migration

import (
	auditdomain "github.com/stocktrail/stocktrail/internal/audit/domain"
	"github.com/stocktrail/stocktrail/internal/config"
	lookupdomain "github.com/stocktrail/stocktrail/internal/lookup/domain"
	orderdomain "github.com/stocktrail/stocktrail/internal/order/domain"
	"github.com/stocktrail/stocktrail/internal/seed"
	tokendomain "github.com/stocktrail/stocktrail/internal/token/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, log *zap.Logger) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// sqlite and mysql installs migrate from the models directly.
			if err := conn.AutoMigrate(
				&orderdomain.Order{},
				&lookupdomain.Lookup{},
				&tokendomain.Token{},
				&auditdomain.AuditRecord{},
			); err != nil {
				return err
			}
		}

		return seed.ImportCSV(conn, cfg, log)
	}),
)

package app

import (
	"github.com/fiffu/pricewatch/config"
	"github.com/fiffu/pricewatch/lib/models"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func NewDatabase(lc fx.Lifecycle, log *zap.Logger, cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(cfg.DBFile), &gorm.Config{})
	if err != nil {
		log.Sugar().Panic("failed to connect database", "err", err)
	}
	log.Info("Database started")

	log.Info("Starting migrations")
	db.AutoMigrate(
		&models.Subscription{},
	)
	return db
}

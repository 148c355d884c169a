package model

import (
	"context"
	"fmt"
	"time"

	"github.com/kleros/t2cr-twitter-bot/src/utils/config"
	l "github.com/kleros/t2cr-twitter-bot/src/utils/logger"

	migrate "github.com/rubenv/sql-migrate"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewConnection(ctx context.Context, config *config.Config, applicationName string) (self *gorm.DB, err error) {
	log := l.NewSublogger("db")

	gormLogger := logger.New(log,
		logger.Config{
			SlowThreshold:             500 * time.Millisecond,
			LogLevel:                  logger.Error,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s application_name=%s",
		config.Database.Host,
		config.Database.Port,
		config.Database.User,
		config.Database.Password,
		config.Database.Name,
		config.Database.SslMode,
		applicationName,
	)

	self, err = gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: gormLogger})
	if err != nil {
		return
	}

	db, err := self.DB()
	if err != nil {
		return
	}

	err = db.PingContext(ctx)
	if err != nil {
		return
	}

	applied, err := migrate.Exec(db, "postgres", migrations, migrate.Up)
	if err != nil {
		log.WithError(err).Error("Failed to apply migrations")
		return
	}
	if applied > 0 {
		log.WithField("applied", applied).Info("Applied database migrations")
	}

	return
}

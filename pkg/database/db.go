package database

import (
	"fmt"
	"sync"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var (
	DB   *gorm.DB
	once sync.Once
)

// Connect opens the shared connection once. Later calls return the same handle
// regardless of dsn.
func Connect(dsn string) (*gorm.DB, error) {
	var err error
	once.Do(func() {
		var db *gorm.DB
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
			TranslateError: true,
		})
		if err != nil {
			err = fmt.Errorf("failed to connect database: %w", err)
			return
		}
		DB = db
	})
	if err != nil {
		return nil, err
	}
	if DB == nil {
		return nil, fmt.Errorf("database connection was not initialized")
	}
	return DB, nil
}

package db

import (
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"kahawa-backend/internal/domain/outbox"
)

// OpenOutboxMySQL opens the shared outbox journal database.
func OpenOutboxMySQL(dsn string) (*gorm.DB, error) {
	db, err := OpenGormWithDialector(mysql.Open(dsn))
	if err != nil {
		return nil, err
	}
	return migrateOutbox(db)
}

// OpenOutboxSQLite opens a file-backed journal, the default for single-node
// deployments and local development.
func OpenOutboxSQLite(path string) (*gorm.DB, error) {
	db, err := OpenGormWithDialector(sqlite.Open(path))
	if err != nil {
		return nil, err
	}
	return migrateOutbox(db)
}

func OpenGormWithDialector(dial gorm.Dialector) (*gorm.DB, error) {
	db, err := gorm.Open(dial, &gorm.Config{})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

func migrateOutbox(db *gorm.DB) (*gorm.DB, error) {
	if err := db.AutoMigrate(&outbox.CounterAdjustment{}); err != nil {
		return nil, err
	}
	log.Println("gorm: outbox journal ready")
	return db, nil
}

package config

import (
	"fmt"

	"yatube/internal/core/group"
	"yatube/internal/core/post"
	"yatube/internal/core/user"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB is the shared connection opened by InitDB.
var DB *gorm.DB

// InitDB opens the configured database and stores it in DB.
func InitDB(cfg *Config) error {
	db, err := OpenDB(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return err
	}
	DB = db
	Logger.Info("Database connected")
	return nil
}

// OpenDB opens a gorm connection for one of the supported drivers.
func OpenDB(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "mysql":
		dialector = mysql.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	if driver == "sqlite" {
		// pragmas are per connection, so sqlite gets exactly one
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, fmt.Errorf("enable sqlite foreign keys: %w", err)
		}
	}
	return db, nil
}

// Migrate creates or updates the tables for every entity.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&user.User{},
		&group.Group{},
		&post.Post{},
	)
}

// CloseDB releases the underlying *sql.DB.
func CloseDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

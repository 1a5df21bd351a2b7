package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/vxronica/mechanic-shop/configs"
	"github.com/vxronica/mechanic-shop/internal/models"
)

// Init opens the store selected by the environment config and migrates the
// schema. TranslateError is on so unique-constraint violations surface as
// gorm.ErrDuplicatedKey on both sqlite and postgres.
func Init(cfg config.DatabaseConfig) (*gorm.DB, error) {

	var dialector gorm.Dialector

	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", cfg.Driver)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})

	if err != nil {
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}

	if err := Migrate(gdb); err != nil {
		return nil, fmt.Errorf("failed to migrate DB: %w", err)
	}

	return gdb, nil
}

func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&models.Customer{},
		&models.Mechanic{},
		&models.Inventory{},
		&models.ServiceTicket{},
	)
}

package db

import (
	"fmt"

	"gorm.io/gorm"
)

func AutoMigrate(d *gorm.DB, models ...any) error {
	if err := d.AutoMigrate(models...); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

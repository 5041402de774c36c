package auth

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/EmpoweredVote/candymap/internal/db"
)

// Init creates the account and token tables.
func Init(d *gorm.DB) error {
	if err := db.EnsureSchema(d, db.Schema); err != nil {
		return fmt.Errorf("ensure schema %s: %w", db.Schema, err)
	}
	if err := d.AutoMigrate(&Account{}, &Token{}); err != nil {
		return fmt.Errorf("auto-migrate auth tables: %w", err)
	}
	return nil
}

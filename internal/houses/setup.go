package houses

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/EmpoweredVote/candymap/internal/db"
)

// Init creates the submissions table.
func Init(d *gorm.DB) error {
	if err := db.EnsureSchema(d, db.Schema); err != nil {
		return fmt.Errorf("ensure schema %s: %w", db.Schema, err)
	}
	if err := d.AutoMigrate(&SubmissionRecord{}); err != nil {
		return fmt.Errorf("auto-migrate submissions: %w", err)
	}
	return nil
}

package migration

import (
	"gorm.io/gorm"

	"github.com/sunsetmemories/backend/internal/domain"
)

// Run applies schema migrations. AutoMigrate is additive only; it never
// drops columns or indexes.
func Run(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.Memoir{},
		&domain.Chapter{},
		&domain.Collaboration{},
		&domain.Comment{},
		&domain.Like{},
		&domain.ServiceRequest{},
		&domain.PublishOrder{},
		&domain.Recording{},
	)
}

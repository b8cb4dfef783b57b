package database

import (
	"gorm.io/gorm"

	"github.com/RRPsystem/wbctx/internal/domain"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.ContextEntry{},
	)
}

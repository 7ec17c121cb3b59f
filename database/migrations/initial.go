// Package migrations declares the storefront's schema migrations. Each file
// registers itself from init(); blank-import the package so they run.
package migrations

import (
	"gorm.io/gorm"

	"github.com/dlatelier/storefront/app/models"
	"github.com/dlatelier/storefront/pkg/migration"
	"github.com/dlatelier/storefront/pkg/queue"
)

func init() {
	migration.Register("20260801_000001_create_core_tables", createCoreTables{})
}

type createCoreTables struct{}

func (createCoreTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Address{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&queue.FailedJobRecord{},
	)
}

func (createCoreTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(
		&queue.FailedJobRecord{},
		&models.OrderItem{},
		&models.Order{},
		&models.CartItem{},
		&models.Cart{},
		&models.Product{},
		&models.Address{},
		&models.User{},
	)
}

package repository

import "gorm.io/gorm"

// AutoMigrate creates the tables for local development and tests.
// Deployed databases are migrated with the goose files under migrations/.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&SellerEntity{}, &TransactionEntity{})
}

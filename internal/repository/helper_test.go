package repository

import (
	"context"
	"testing"
	"time"

	"github.com/nimasrn/seller-crm/pkg/pg"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *pg.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)

	// every new connection to :memory: is a fresh empty database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, AutoMigrate(db))
	return pg.Wrap(db)
}

func createSeller(t *testing.T, db *pg.DB, name string) *SellerEntity {
	e := &SellerEntity{
		Name:             name,
		ContactInfo:      name + "@example.com",
		RegistrationDate: time.Now().UTC(),
	}
	require.NoError(t, db.Write(context.Background()).Create(e).Error)
	return e
}

func createTransaction(t *testing.T, db *pg.DB, sellerID, amount int64, at time.Time) *TransactionEntity {
	e := &TransactionEntity{
		SellerID:        sellerID,
		Amount:          amount,
		PaymentType:     "CARD",
		TransactionDate: at.UTC(),
	}
	require.NoError(t, db.Write(context.Background()).Create(e).Error)
	return e
}

func date(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func ptr[T any](v T) *T {
	return &v
}

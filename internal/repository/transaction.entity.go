package repository

import (
	"time"

	"github.com/nimasrn/seller-crm/internal/model"
)

type TransactionEntity struct {
	ID              int64         `db:"id"               gorm:"primaryKey;autoIncrement;column:id"`
	SellerID        int64         `db:"seller_id"        gorm:"column:seller_id;not null;index"`
	Seller          *SellerEntity `db:"-"                gorm:"foreignKey:SellerID;references:ID;constraint:OnDelete:CASCADE"`
	Amount          int64         `db:"amount"           gorm:"column:amount;not null"`
	PaymentType     string        `db:"payment_type"     gorm:"column:payment_type;not null"`
	TransactionDate time.Time     `db:"transaction_date" gorm:"column:transaction_date;not null;index"`
}

func (TransactionEntity) TableName() string {
	return "transactions"
}

func toTransactionEntity(m *model.Transaction) *TransactionEntity {
	if m == nil {
		return nil
	}
	return &TransactionEntity{
		ID:              m.ID,
		SellerID:        m.SellerID,
		Amount:          m.Amount,
		PaymentType:     m.PaymentType,
		TransactionDate: m.TransactionDate,
	}
}

func toTransactionModel(e *TransactionEntity) *model.Transaction {
	if e == nil {
		return nil
	}
	return &model.Transaction{
		ID:              e.ID,
		SellerID:        e.SellerID,
		Amount:          e.Amount,
		PaymentType:     e.PaymentType,
		TransactionDate: e.TransactionDate,
	}
}

func toTransactionModels(entities []*TransactionEntity) []*model.Transaction {
	models := make([]*model.Transaction, len(entities))
	for i, e := range entities {
		models[i] = toTransactionModel(e)
	}
	return models
}

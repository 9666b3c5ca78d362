package model

import "time"

type Transaction struct {
	ID              int64     `json:"id"`
	SellerID        int64     `json:"seller_id"`
	Amount          int64     `json:"amount"`
	PaymentType     string    `json:"payment_type"`
	TransactionDate time.Time `json:"transaction_date"`
}

// TransactionCreateRequest is the input for creating a transaction.
// Pointers distinguish "missing" from zero so required checks work.
type TransactionCreateRequest struct {
	Amount      *int64 `json:"amount"       validate:"required"`
	PaymentType string `json:"payment_type" validate:"required"`
	SellerID    *int64 `json:"seller_id"    validate:"required,gt=0"`
}

type TransactionUpdateRequest struct {
	Amount      *int64  `json:"amount"`
	PaymentType *string `json:"payment_type" validate:"omitnil,min=1"`
	SellerID    *int64  `json:"seller_id"    validate:"omitnil,gt=0"`
}

// Merge applies the non-nil fields of p on top of t. TransactionDate is left
// untouched; the service re-stamps it on every write.
func (p TransactionUpdateRequest) Merge(t Transaction) Transaction {
	if p.Amount != nil {
		t.Amount = *p.Amount
	}
	if p.PaymentType != nil {
		t.PaymentType = *p.PaymentType
	}
	if p.SellerID != nil {
		t.SellerID = *p.SellerID
	}
	return t
}

// SellerTotal is one row of a grouped "sum of amount per seller" query.
type SellerTotal struct {
	SellerID int64
	Total    int64
}

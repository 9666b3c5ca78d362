package repository

import (
	"context"
	"errors"

	"github.com/nimasrn/seller-crm/internal/model"
	"github.com/nimasrn/seller-crm/pkg/pg"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TransactionRepository struct {
	*pg.DB
}

func NewTransactionRepository(db *pg.DB) *TransactionRepository {
	return &TransactionRepository{
		db,
	}
}

func (r *TransactionRepository) Create(ctx context.Context, txn *model.Transaction) (*model.Transaction, error) {
	entity := toTransactionEntity(txn)
	entity.ID = 0

	if err := r.Write(ctx).Create(entity).Error; err != nil {
		return nil, err
	}

	return toTransactionModel(entity), nil
}

func (r *TransactionRepository) List(ctx context.Context) ([]*model.Transaction, error) {
	var entities []*TransactionEntity
	if err := r.Read(ctx).Order("id ASC").Find(&entities).Error; err != nil {
		return nil, err
	}
	return toTransactionModels(entities), nil
}

func (r *TransactionRepository) ListBySeller(ctx context.Context, sellerID int64) ([]*model.Transaction, error) {
	var entities []*TransactionEntity
	err := r.Read(ctx).
		Where("seller_id = ?", sellerID).
		Order("id ASC").
		Find(&entities).
		Error
	if err != nil {
		return nil, err
	}
	return toTransactionModels(entities), nil
}

func (r *TransactionRepository) GetByID(ctx context.Context, id int64) (*model.Transaction, error) {
	return r.first(r.Read(ctx).Where("id = ?", id))
}

// GetForUpdate reads the transaction and locks its row until the
// surrounding transaction ends.
func (r *TransactionRepository) GetForUpdate(ctx context.Context, id int64) (*model.Transaction, error) {
	return r.first(r.Write(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id))
}

func (r *TransactionRepository) first(q *gorm.DB) (*model.Transaction, error) {
	var entity TransactionEntity
	if err := q.First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrTransactionNotFound
		}
		return nil, err
	}
	return toTransactionModel(&entity), nil
}

func (r *TransactionRepository) Update(ctx context.Context, txn *model.Transaction) (*model.Transaction, error) {
	result := r.Write(ctx).
		Model(&TransactionEntity{}).
		Where("id = ?", txn.ID).
		Updates(map[string]any{
			"seller_id":        txn.SellerID,
			"amount":           txn.Amount,
			"payment_type":     txn.PaymentType,
			"transaction_date": txn.TransactionDate,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, model.ErrTransactionNotFound
	}
	return r.first(r.Write(ctx).Where("id = ?", txn.ID))
}

func (r *TransactionRepository) Delete(ctx context.Context, id int64) error {
	result := r.Write(ctx).Where("id = ?", id).Delete(&TransactionEntity{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return model.ErrTransactionNotFound
	}
	return nil
}

// MaxID returns the highest transaction id.
func (r *TransactionRepository) MaxID(ctx context.Context) (int64, error) {
	var entity TransactionEntity
	err := r.Read(ctx).Select("id").Order("id DESC").Take(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, model.ErrTransactionNotFound
		}
		return 0, err
	}
	return entity.ID, nil
}

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nimasrn/seller-crm/internal/model"
	"github.com/nimasrn/seller-crm/pkg/logger"
)

const (
	msgTransactionNotFound   = "There is no transaction with this id in the database!"
	msgTransactionNotDeleted = "There is no transaction with this id in the database, that's why this transaction could not be deleted"
)

type TransactionRepository interface {
	Create(ctx context.Context, txn *model.Transaction) (*model.Transaction, error)
	List(ctx context.Context) ([]*model.Transaction, error)
	GetByID(ctx context.Context, id int64) (*model.Transaction, error)
	GetForUpdate(ctx context.Context, id int64) (*model.Transaction, error)
	Update(ctx context.Context, txn *model.Transaction) (*model.Transaction, error)
	Delete(ctx context.Context, id int64) error
	MaxID(ctx context.Context) (int64, error)
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type SellerFinder interface {
	GetByID(ctx context.Context, id int64) (*model.Seller, error)
}

type TransactionService struct {
	transactionRepo TransactionRepository
	sellerRepo      SellerFinder
	now             func() time.Time
}

func NewTransactionService(transactionRepo TransactionRepository, sellerRepo SellerFinder) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
		sellerRepo:      sellerRepo,
		now:             stamp,
	}
}

func (s *TransactionService) FindAll(ctx context.Context) ([]*model.Transaction, error) {
	txns, err := s.transactionRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txns, nil
}

func (s *TransactionService) FindByID(ctx context.Context, id int64) (*model.Transaction, error) {
	txn, err := s.transactionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, transactionLookupError(err)
	}
	return txn, nil
}

// Create stores a transaction for an existing seller, dated now.
func (s *TransactionService) Create(ctx context.Context, p model.TransactionCreateRequest) (*model.Transaction, error) {
	if err := p.Validate(); err != nil {
		return nil, model.NewError(model.KindNotCreated, err, "%s", err.Error())
	}

	var created *model.Transaction
	err := s.transactionRepo.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.resolveSeller(ctx, *p.SellerID); err != nil {
			return err
		}

		var err error
		created, err = s.transactionRepo.Create(ctx, &model.Transaction{
			SellerID:        *p.SellerID,
			Amount:          *p.Amount,
			PaymentType:     p.PaymentType,
			TransactionDate: s.now(),
		})
		if err != nil {
			return fmt.Errorf("create transaction: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Info("[transaction-service] transaction created", "transaction_id", created.ID, "seller_id", created.SellerID)
	return created, nil
}

// Update merges p into the stored transaction and re-stamps its date.
func (s *TransactionService) Update(ctx context.Context, id int64, p model.TransactionUpdateRequest) (*model.Transaction, error) {
	if err := p.Validate(); err != nil {
		return nil, model.NewError(model.KindNotUpdated, err, "%s", err.Error())
	}

	var updated *model.Transaction
	err := s.transactionRepo.WithinTransaction(ctx, func(ctx context.Context) error {
		current, err := s.transactionRepo.GetForUpdate(ctx, id)
		if err != nil {
			return transactionLookupError(err)
		}

		merged := p.Merge(*current)
		if err := s.resolveSeller(ctx, merged.SellerID); err != nil {
			return err
		}
		merged.TransactionDate = s.now()

		updated, err = s.transactionRepo.Update(ctx, &merged)
		if err != nil {
			if errors.Is(err, model.ErrTransactionNotFound) {
				return model.NewError(model.KindNotUpdated, err, msgTransactionNotFound)
			}
			return fmt.Errorf("update transaction %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *TransactionService) Delete(ctx context.Context, id int64) error {
	return s.transactionRepo.WithinTransaction(ctx, func(ctx context.Context) error {
		err := s.transactionRepo.Delete(ctx, id)
		if err == nil {
			logger.Info("[transaction-service] transaction deleted", "transaction_id", id)
			return nil
		}
		if errors.Is(err, model.ErrTransactionNotFound) {
			return model.NewError(model.KindNotDeleted, err, msgTransactionNotDeleted)
		}
		return fmt.Errorf("delete transaction %d: %w", id, err)
	})
}

// MaxID returns the highest transaction id.
func (s *TransactionService) MaxID(ctx context.Context) (int64, error) {
	id, err := s.transactionRepo.MaxID(ctx)
	if err != nil {
		return 0, transactionLookupError(err)
	}
	return id, nil
}

func (s *TransactionService) resolveSeller(ctx context.Context, id int64) error {
	if _, err := s.sellerRepo.GetByID(ctx, id); err != nil {
		return sellerLookupError(err, msgSellerNotFound)
	}
	return nil
}

func transactionLookupError(err error) error {
	if errors.Is(err, model.ErrTransactionNotFound) {
		return model.NewError(model.KindNotFound, err, msgTransactionNotFound)
	}
	return fmt.Errorf("get transaction: %w", err)
}

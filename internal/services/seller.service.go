package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nimasrn/seller-crm/internal/model"
	"github.com/nimasrn/seller-crm/internal/period"
	"github.com/nimasrn/seller-crm/pkg/logger"
	"github.com/nimasrn/seller-crm/pkg/prom"
)

const (
	msgSellerNotFound     = "Seller with this id wasn't found!"
	msgSellerNameNotFound = "Seller with this name wasn't found!"
	msgTransactionsEmpty  = "This seller has not done any transactions yet"
	msgDatesRequired      = "Start date cannot be null and end date cannot be null"
	msgNoBestSellers      = "No sellers were found for this get request: getBestSellerForPeriod"
	msgNoSellersBelow     = "No sellers were found for this get request: getSellersBelowAmountForPeriod"
)

type SellerRepository interface {
	Create(ctx context.Context, s *model.Seller) (*model.Seller, error)
	List(ctx context.Context) ([]*model.Seller, error)
	GetByID(ctx context.Context, id int64) (*model.Seller, error)
	GetByName(ctx context.Context, name string) (*model.Seller, error)
	GetForUpdate(ctx context.Context, id int64) (*model.Seller, error)
	Update(ctx context.Context, s *model.Seller) (*model.Seller, error)
	Delete(ctx context.Context, id int64) error
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type SellerTransactionLister interface {
	ListBySeller(ctx context.Context, sellerID int64) ([]*model.Transaction, error)
}

type AggregationRepository interface {
	BestSellersForPeriod(ctx context.Context, p period.Normalized) ([]*model.Seller, error)
	SellersBelowAmount(ctx context.Context, amount float64, from, to time.Time) ([]*model.Seller, error)
}

type SellerService struct {
	sellerRepo      SellerRepository
	transactionRepo SellerTransactionLister
	aggregationRepo AggregationRepository
	now             func() time.Time
}

func NewSellerService(sellerRepo SellerRepository, transactionRepo SellerTransactionLister, aggregationRepo AggregationRepository) *SellerService {
	return &SellerService{
		sellerRepo:      sellerRepo,
		transactionRepo: transactionRepo,
		aggregationRepo: aggregationRepo,
		now:             stamp,
	}
}

// stamp is the server clock used for registration and transaction dates.
// Stored precision is microseconds.
func stamp() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func (s *SellerService) FindAll(ctx context.Context) ([]*model.Seller, error) {
	sellers, err := s.sellerRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sellers: %w", err)
	}
	return sellers, nil
}

func (s *SellerService) FindByID(ctx context.Context, id int64) (*model.Seller, error) {
	seller, err := s.sellerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, sellerLookupError(err, msgSellerNotFound)
	}
	return seller, nil
}

func (s *SellerService) FindByName(ctx context.Context, name string) (*model.Seller, error) {
	seller, err := s.sellerRepo.GetByName(ctx, name)
	if err != nil {
		return nil, sellerLookupError(err, msgSellerNameNotFound)
	}
	return seller, nil
}

// GetTransactionsBySellerID lists the seller's transactions. A seller with
// none fails with a transaction_empty error.
func (s *SellerService) GetTransactionsBySellerID(ctx context.Context, id int64) ([]*model.Transaction, error) {
	if _, err := s.FindByID(ctx, id); err != nil {
		return nil, err
	}

	txns, err := s.transactionRepo.ListBySeller(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list transactions of seller %d: %w", id, err)
	}
	if len(txns) == 0 {
		return nil, model.NewError(model.KindTransactionEmpty, model.ErrNoTransactions, msgTransactionsEmpty)
	}
	return txns, nil
}

// GetBestSellerForPeriod returns every seller tied at the highest total for
// the period.
func (s *SellerService) GetBestSellerForPeriod(ctx context.Context, label string, start, end *time.Time) ([]*model.Seller, error) {
	p, err := period.Classify(label, start, end)
	if err != nil {
		logger.Warn("[seller-service] rejected period", "period", label, "start", start, "end", end, "error", err)
		return nil, err
	}

	started := time.Now()
	sellers, err := s.aggregationRepo.BestSellersForPeriod(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("best sellers for %s: %w", label, err)
	}
	prom.ObserveAggregation("best_seller", started, len(sellers) == 0)

	if len(sellers) == 0 {
		logger.Warn("[seller-service] no best seller", "period", label, "bucket", p.Bucket.String(), "start", p.Start, "end", p.End)
		return nil, model.NewError(model.KindEmptyResult, nil, msgNoBestSellers)
	}
	return sellers, nil
}

// GetSellersBelowAmountForPeriod returns sellers that sold something in
// [start, end] for a total strictly below amount.
func (s *SellerService) GetSellersBelowAmountForPeriod(ctx context.Context, amount float64, start, end *time.Time) ([]*model.Seller, error) {
	if start == nil || end == nil {
		return nil, model.NewError(model.KindIncorrectPeriod, nil, msgDatesRequired)
	}

	started := time.Now()
	sellers, err := s.aggregationRepo.SellersBelowAmount(ctx, amount, *start, *end)
	if err != nil {
		return nil, fmt.Errorf("sellers below %v: %w", amount, err)
	}
	prom.ObserveAggregation("below_amount", started, len(sellers) == 0)

	if len(sellers) == 0 {
		logger.Warn("[seller-service] no seller below amount", "amount", amount, "start", *start, "end", *end)
		return nil, model.NewError(model.KindEmptyResult, nil, msgNoSellersBelow)
	}
	return sellers, nil
}

func (s *SellerService) Create(ctx context.Context, p model.SellerCreateRequest) (*model.Seller, error) {
	if err := p.Validate(); err != nil {
		return nil, model.NewError(model.KindNotCreated, err, "%s", err.Error())
	}

	created, err := s.sellerRepo.Create(ctx, &model.Seller{
		Name:             p.Name,
		ContactInfo:      p.ContactInfo,
		RegistrationDate: s.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("create seller: %w", err)
	}
	logger.Info("[seller-service] seller created", "seller_id", created.ID)
	return created, nil
}

// Update merges p into the stored seller. The read and the write share one
// store transaction and the row stays locked in between.
func (s *SellerService) Update(ctx context.Context, id int64, p model.SellerUpdateRequest) (*model.Seller, error) {
	if err := p.Validate(); err != nil {
		return nil, model.NewError(model.KindNotUpdated, err, "%s", err.Error())
	}

	var updated *model.Seller
	err := s.sellerRepo.WithinTransaction(ctx, func(ctx context.Context) error {
		current, err := s.sellerRepo.GetForUpdate(ctx, id)
		if err != nil {
			return sellerLookupError(err, msgSellerNotFound)
		}

		merged := p.Merge(*current)
		updated, err = s.sellerRepo.Update(ctx, &merged)
		if err != nil {
			if errors.Is(err, model.ErrSellerNotFound) {
				return model.NewError(model.KindNotUpdated, err, msgSellerNotFound)
			}
			return fmt.Errorf("update seller %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *SellerService) Delete(ctx context.Context, id int64) error {
	return s.sellerRepo.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.sellerRepo.GetForUpdate(ctx, id); err != nil {
			return sellerLookupError(err, msgSellerNotFound)
		}
		if err := s.sellerRepo.Delete(ctx, id); err != nil {
			if errors.Is(err, model.ErrSellerNotFound) {
				return model.NewError(model.KindNotDeleted, err, msgSellerNotFound)
			}
			return fmt.Errorf("delete seller %d: %w", id, err)
		}
		logger.Info("[seller-service] seller deleted", "seller_id", id)
		return nil
	})
}

func sellerLookupError(err error, msg string) error {
	if errors.Is(err, model.ErrSellerNotFound) {
		return model.NewError(model.KindNotFound, err, "%s", msg)
	}
	return fmt.Errorf("get seller: %w", err)
}

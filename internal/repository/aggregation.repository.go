package repository

import (
	"context"
	"time"

	"github.com/nimasrn/seller-crm/internal/model"
	"github.com/nimasrn/seller-crm/internal/period"
	"github.com/nimasrn/seller-crm/pkg/pg"
	"gorm.io/gorm"
)

// AggregationRepository sums transaction amounts per seller inside the store
// and resolves the winning seller ids to sellers.
type AggregationRepository struct {
	*pg.DB
	sellers *SellerRepository
}

func NewAggregationRepository(db *pg.DB) *AggregationRepository {
	return &AggregationRepository{
		DB:      db,
		sellers: NewSellerRepository(db),
	}
}

// BestSellersForPeriod returns every seller whose total in the period equals
// the maximum total. An empty slice means no transaction matched.
func (r *AggregationRepository) BestSellersForPeriod(ctx context.Context, p period.Normalized) ([]*model.Seller, error) {
	from, to, inclusive := p.Bounds()
	totals, err := r.SumBySeller(ctx, from, to, inclusive)
	if err != nil {
		return nil, err
	}
	return r.sellers.ListByIDs(ctx, TopSellerIDs(totals))
}

// SellersBelowAmount returns the sellers with at least one transaction in
// [from, to] whose total there is strictly below amount.
func (r *AggregationRepository) SellersBelowAmount(ctx context.Context, amount float64, from, to time.Time) ([]*model.Seller, error) {
	var totals []model.SellerTotal
	err := r.sumQuery(ctx, from, to, true).
		Having("SUM(amount) < ?", amount).
		Scan(&totals).
		Error
	if err != nil {
		return nil, err
	}

	ids := make([]int64, len(totals))
	for i, t := range totals {
		ids[i] = t.SellerID
	}
	return r.sellers.ListByIDs(ctx, ids)
}

// SumBySeller groups transactions dated inside the window by seller and
// returns the totals ordered by total descending, then seller id.
func (r *AggregationRepository) SumBySeller(ctx context.Context, from, to time.Time, inclusive bool) ([]model.SellerTotal, error) {
	var totals []model.SellerTotal
	if err := r.sumQuery(ctx, from, to, inclusive).Scan(&totals).Error; err != nil {
		return nil, err
	}
	return totals, nil
}

func (r *AggregationRepository) sumQuery(ctx context.Context, from, to time.Time, inclusive bool) *gorm.DB {
	q := r.Read(ctx).
		Model(&TransactionEntity{}).
		Select("seller_id, CAST(SUM(amount) AS BIGINT) AS total").
		Where("transaction_date >= ?", from.UTC())
	if inclusive {
		q = q.Where("transaction_date <= ?", to.UTC())
	} else {
		q = q.Where("transaction_date < ?", to.UTC())
	}
	return q.Group("seller_id").Order("total DESC").Order("seller_id ASC")
}

// TopSellerIDs keeps every seller tied at the maximum total. totals must be
// ordered by total descending.
func TopSellerIDs(totals []model.SellerTotal) []int64 {
	if len(totals) == 0 {
		return nil
	}
	top := totals[0].Total
	ids := make([]int64, 0, 1)
	for _, t := range totals {
		if t.Total != top {
			break
		}
		ids = append(ids, t.SellerID)
	}
	return ids
}

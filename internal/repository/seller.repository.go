package repository

import (
	"context"
	"errors"

	"github.com/nimasrn/seller-crm/internal/model"
	"github.com/nimasrn/seller-crm/pkg/pg"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SellerRepository struct {
	*pg.DB
}

func NewSellerRepository(db *pg.DB) *SellerRepository {
	return &SellerRepository{
		db,
	}
}

func (r *SellerRepository) Create(ctx context.Context, s *model.Seller) (*model.Seller, error) {
	entity := toSellerEntity(s)
	entity.ID = 0

	if err := r.Write(ctx).Create(entity).Error; err != nil {
		return nil, err
	}

	return toSellerModel(entity), nil
}

func (r *SellerRepository) List(ctx context.Context) ([]*model.Seller, error) {
	var entities []*SellerEntity
	if err := r.Read(ctx).Order("id ASC").Find(&entities).Error; err != nil {
		return nil, err
	}
	return toSellerModels(entities), nil
}

func (r *SellerRepository) GetByID(ctx context.Context, id int64) (*model.Seller, error) {
	return r.first(r.Read(ctx).Where("id = ?", id))
}

func (r *SellerRepository) GetByName(ctx context.Context, name string) (*model.Seller, error) {
	return r.first(r.Read(ctx).Where("name = ?", name).Order("id ASC"))
}

// GetForUpdate reads the seller and locks its row until the surrounding
// transaction ends. Outside a transaction it behaves like GetByID.
func (r *SellerRepository) GetForUpdate(ctx context.Context, id int64) (*model.Seller, error) {
	return r.first(r.Write(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id))
}

func (r *SellerRepository) first(q *gorm.DB) (*model.Seller, error) {
	var entity SellerEntity
	if err := q.First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrSellerNotFound
		}
		return nil, err
	}
	return toSellerModel(&entity), nil
}

// Update writes name and contact info. The registration date is never touched.
func (r *SellerRepository) Update(ctx context.Context, s *model.Seller) (*model.Seller, error) {
	result := r.Write(ctx).
		Model(&SellerEntity{}).
		Where("id = ?", s.ID).
		Updates(map[string]any{
			"name":         s.Name,
			"contact_info": s.ContactInfo,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, model.ErrSellerNotFound
	}
	return r.first(r.Write(ctx).Where("id = ?", s.ID))
}

func (r *SellerRepository) Delete(ctx context.Context, id int64) error {
	result := r.Write(ctx).Where("id = ?", id).Delete(&SellerEntity{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return model.ErrSellerNotFound
	}
	return nil
}

// ListByIDs returns the sellers in the order of ids; unknown ids are skipped.
func (r *SellerRepository) ListByIDs(ctx context.Context, ids []int64) ([]*model.Seller, error) {
	if len(ids) == 0 {
		return []*model.Seller{}, nil
	}

	var entities []*SellerEntity
	if err := r.Read(ctx).Where("id IN ?", ids).Find(&entities).Error; err != nil {
		return nil, err
	}

	byID := make(map[int64]*SellerEntity, len(entities))
	for _, e := range entities {
		byID[e.ID] = e
	}
	out := make([]*model.Seller, 0, len(ids))
	for _, id := range ids {
		if e, ok := byID[id]; ok {
			out = append(out, toSellerModel(e))
		}
	}
	return out, nil
}

package repository

import (
	"time"

	"github.com/nimasrn/seller-crm/internal/model"
)

type SellerEntity struct {
	ID               int64     `db:"id"                gorm:"primaryKey;autoIncrement;column:id"`
	Name             string    `db:"name"              gorm:"column:name;type:varchar(100);not null;index"`
	ContactInfo      string    `db:"contact_info"      gorm:"column:contact_info;not null"`
	RegistrationDate time.Time `db:"registration_date" gorm:"column:registration_date;not null"`
}

func (SellerEntity) TableName() string {
	return "sellers"
}

func toSellerEntity(m *model.Seller) *SellerEntity {
	if m == nil {
		return nil
	}
	return &SellerEntity{
		ID:               m.ID,
		Name:             m.Name,
		ContactInfo:      m.ContactInfo,
		RegistrationDate: m.RegistrationDate,
	}
}

func toSellerModel(e *SellerEntity) *model.Seller {
	if e == nil {
		return nil
	}
	return &model.Seller{
		ID:               e.ID,
		Name:             e.Name,
		ContactInfo:      e.ContactInfo,
		RegistrationDate: e.RegistrationDate,
	}
}

func toSellerModels(entities []*SellerEntity) []*model.Seller {
	models := make([]*model.Seller, len(entities))
	for i, e := range entities {
		models[i] = toSellerModel(e)
	}
	return models
}

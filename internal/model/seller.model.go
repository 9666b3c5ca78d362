package model

import "time"

type Seller struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	ContactInfo      string    `json:"contact_info"`
	RegistrationDate time.Time `json:"registration_date"`
}

// SellerCreateRequest is the input for creating a seller. The registration
// date is always stamped by the service.
type SellerCreateRequest struct {
	Name        string `json:"name"         validate:"required,min=1,max=100"`
	ContactInfo string `json:"contact_info" validate:"required"`
}

// SellerUpdateRequest carries a partial update. Nil fields keep their stored value.
type SellerUpdateRequest struct {
	Name        *string `json:"name"         validate:"omitnil,min=1,max=100"`
	ContactInfo *string `json:"contact_info" validate:"omitnil,min=1"`
}

// Merge applies the non-nil fields of p on top of s and returns the result.
func (p SellerUpdateRequest) Merge(s Seller) Seller {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.ContactInfo != nil {
		s.ContactInfo = *p.ContactInfo
	}
	return s
}

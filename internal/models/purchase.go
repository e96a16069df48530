// internal/models/purchase.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Purchase is the permanent record that a buyer bought a product at least
// once. It gates rating eligibility and is never removed, even after the
// listing itself is gone. One row per (product, buyer); repeat purchases of
// the same product by the same buyer only show up in the event feed.
type Purchase struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	ProductID uint64    `json:"product_id" gorm:"not null;uniqueIndex:idx_purchases_product_buyer"`
	BuyerID   uuid.UUID `json:"buyer_id" gorm:"type:uuid;not null;uniqueIndex:idx_purchases_product_buyer;index"`
	SellerID  uuid.UUID `json:"seller_id" gorm:"type:uuid;not null;index"`
	Price     uint64    `json:"price" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (p *Purchase) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// internal/models/product.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Product is a marketplace listing. IDs are assigned by the marketplace
// service from the MarketState counter (strictly increasing from 1, never
// reissued), so the column carries no database autoincrement. Removal is a
// hard delete; there is no soft-delete column on purpose.
type Product struct {
	ID          uint64    `json:"id" gorm:"primaryKey;autoIncrement:false"`
	SellerID    uuid.UUID `json:"seller_id" gorm:"type:uuid;not null;index"`
	OwnerID     uuid.UUID `json:"owner_id" gorm:"type:uuid;not null;index"`
	ContentRef  string    `json:"content_ref" gorm:"size:512;not null"`
	Price       uint64    `json:"price" gorm:"not null"`
	Quantity    uint64    `json:"quantity" gorm:"not null"`
	SoldCount   uint64    `json:"sold_count" gorm:"default:0"`
	Revenue     uint64    `json:"revenue" gorm:"default:0"`
	Category    string    `json:"category" gorm:"size:100;index"`
	Name        string    `json:"name" gorm:"size:255"`
	Description string    `json:"description" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relationships
	Seller *User `json:"seller,omitempty" gorm:"foreignKey:SellerID"`
}

// MarketState is a single-row table holding the id counter. The row is
// locked and bumped inside the listing transaction, which keeps ids
// monotone even across removals (a plain sequence could be reset).
type MarketState struct {
	ID            uint   `json:"id" gorm:"primaryKey"`
	LastProductID uint64 `json:"last_product_id"`
}

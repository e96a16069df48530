// internal/models/rating.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// ProductRating accumulates the score total for one product. The row
// survives removal of the listing so averages stay queryable.
type ProductRating struct {
	ProductID uint64    `json:"product_id" gorm:"primaryKey;autoIncrement:false"`
	Sum       uint64    `json:"sum" gorm:"default:0"`
	Count     uint64    `json:"count" gorm:"default:0"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Average is floor(sum/count); 0 when nothing has been rated yet.
func (r *ProductRating) Average() uint64 {
	if r.Count == 0 {
		return 0
	}
	return r.Sum / r.Count
}

// RatingMark is the one-shot "already rated" flag for a (product, buyer)
// pair. The score is kept for auditing but never re-read by the aggregator.
type RatingMark struct {
	ProductID uint64    `json:"product_id" gorm:"primaryKey;autoIncrement:false"`
	BuyerID   uuid.UUID `json:"buyer_id" gorm:"type:uuid;primaryKey"`
	Score     uint64    `json:"score" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}

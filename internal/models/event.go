// internal/models/event.go
package models

import (
	"github.com/google/uuid"
)

// MarketEvent is one row of the append-only history feed. The marketplace
// core only ever writes these, inside the same transaction as the state
// change they describe; the read side is the /events endpoint polled by the
// transaction-history UI.
type MarketEvent struct {
	BaseModel
	Type      EventType `json:"type" gorm:"type:varchar(30);not null;index"`
	ProductID uint64    `json:"product_id" gorm:"index"`
	ActorID   uuid.UUID `json:"actor_id" gorm:"type:uuid;not null;index"`
	Amount    uint64    `json:"amount"`
	Payload   JSONB     `json:"payload" gorm:"type:jsonb"`
}

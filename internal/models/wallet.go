// internal/models/wallet.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Wallet holds a user's spendable balance in currency micro-units. The
// unsigned type makes a negative balance unrepresentable; every debit is
// preceded by a funds check under a row lock.
type Wallet struct {
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;primaryKey"`
	Balance   uint64    `json:"balance" gorm:"default:0"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Deposit tracks an external top-up (card payment through Stripe) that
// credits the internal ledger once the payment intent succeeds.
type Deposit struct {
	BaseModel
	UserID           uuid.UUID     `json:"user_id" gorm:"type:uuid;not null;index"`
	Amount           uint64        `json:"amount" gorm:"not null"`
	PaymentReference string        `json:"payment_reference" gorm:"size:255;index"`
	Status           DepositStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	ProcessedAt      *time.Time    `json:"processed_at"`
}

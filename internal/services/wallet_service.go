// internal/services/wallet_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"
	"gorm.io/gorm"

	"github.com/Doquocdung1609/Mini-Marketplace/internal/config"
	"github.com/Doquocdung1609/Mini-Marketplace/internal/models"
)

// WalletService is the balance ledger. Debit and Credit are primitives meant
// to run inside a caller-owned transaction so a purchase moves money and
// inventory as one unit; deposits bridge an external card payment (Stripe)
// into the internal micro-unit balances.
type WalletService struct {
	db     *gorm.DB
	config *config.Config
	events *EventService
}

type CreateDepositRequest struct {
	Amount uint64 `json:"amount" validate:"required,min=1"` // currency micro-units
}

type DepositIntentResponse struct {
	ClientSecret string    `json:"client_secret"`
	PaymentID    string    `json:"payment_id"`
	DepositID    uuid.UUID `json:"deposit_id"`
	Status       string    `json:"status"`
}

type ConfirmDepositRequest struct {
	PaymentIntentID string `json:"payment_intent_id" validate:"required"`
}

func NewWalletService(db *gorm.DB, cfg *config.Config, events *EventService) *WalletService {
	stripe.Key = cfg.Payment.StripeSecretKey

	return &WalletService{
		db:     db,
		config: cfg,
		events: events,
	}
}

// Balance returns the spendable balance; a user without a wallet row has 0.
func (s *WalletService) Balance(userID uuid.UUID) (uint64, error) {
	var wallet models.Wallet
	if err := s.db.First(&wallet, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("database error: %w", err)
	}
	return wallet.Balance, nil
}

// Debit takes amount from the user's wallet inside tx. It fails with
// ErrInsufficientFunds before touching the row when the balance does not
// cover the amount.
func (s *WalletService) Debit(tx *gorm.DB, userID uuid.UUID, amount uint64) error {
	var wallet models.Wallet
	if err := tx.Set("gorm:query_option", "FOR UPDATE").
		First(&wallet, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInsufficientFunds
		}
		return fmt.Errorf("database error: %w", err)
	}

	if wallet.Balance < amount {
		return ErrInsufficientFunds
	}

	if err := tx.Model(&models.Wallet{}).Where("user_id = ?", userID).
		UpdateColumn("balance", gorm.Expr("balance - ?", amount)).Error; err != nil {
		return fmt.Errorf("failed to debit wallet: %w", err)
	}

	return nil
}

// Credit adds amount to the user's wallet inside tx, creating the wallet row
// on first use.
func (s *WalletService) Credit(tx *gorm.DB, userID uuid.UUID, amount uint64) error {
	wallet := models.Wallet{UserID: userID}
	if err := tx.Set("gorm:query_option", "FOR UPDATE").
		FirstOrCreate(&wallet, "user_id = ?", userID).Error; err != nil {
		return fmt.Errorf("failed to load wallet: %w", err)
	}

	if err := tx.Model(&models.Wallet{}).Where("user_id = ?", userID).
		UpdateColumn("balance", gorm.Expr("balance + ?", amount)).Error; err != nil {
		return fmt.Errorf("failed to credit wallet: %w", err)
	}

	return nil
}

// CreateDepositIntent opens a Stripe payment intent for a top-up and records
// the pending deposit. The wallet is only credited once the payment
// succeeds and the deposit is confirmed.
func (s *WalletService) CreateDepositIntent(userID uuid.UUID, req *CreateDepositRequest) (*DepositIntentResponse, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(microUnitsToCents(req.Amount)),
		Currency: stripe.String("usd"),
	}
	params.AddMetadata("user_id", userID.String())

	pi, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	deposit := &models.Deposit{
		UserID:           userID,
		Amount:           req.Amount,
		PaymentReference: pi.ID,
		Status:           models.DepositStatusPending,
	}
	if err := s.db.Create(deposit).Error; err != nil {
		return nil, fmt.Errorf("failed to record deposit: %w", err)
	}

	return &DepositIntentResponse{
		ClientSecret: pi.ClientSecret,
		PaymentID:    pi.ID,
		DepositID:    deposit.ID,
		Status:       string(pi.Status),
	}, nil
}

// ConfirmDeposit checks the payment intent with Stripe and, on success,
// credits the wallet and completes the deposit in one transaction.
func (s *WalletService) ConfirmDeposit(userID uuid.UUID, req *ConfirmDepositRequest) error {
	pi, err := paymentintent.Get(req.PaymentIntentID, nil)
	if err != nil {
		return fmt.Errorf("failed to get payment intent: %w", err)
	}

	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		return errors.New("payment has not succeeded")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var deposit models.Deposit
		if err := tx.Set("gorm:query_option", "FOR UPDATE").
			Where("payment_reference = ? AND user_id = ?", req.PaymentIntentID, userID).
			First(&deposit).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errors.New("deposit not found")
			}
			return fmt.Errorf("database error: %w", err)
		}

		if deposit.Status == models.DepositStatusCompleted {
			return errors.New("deposit already confirmed")
		}

		now := time.Now()
		deposit.Status = models.DepositStatusCompleted
		deposit.ProcessedAt = &now
		if err := tx.Save(&deposit).Error; err != nil {
			return fmt.Errorf("failed to update deposit: %w", err)
		}

		if err := s.Credit(tx, userID, deposit.Amount); err != nil {
			return err
		}

		return s.events.Record(tx, models.EventTypeWalletDeposit, 0, userID, deposit.Amount, models.JSONB{
			"payment_reference": deposit.PaymentReference,
		})
	})
}

// microUnitsToCents converts ledger micro-units (1e-6 of a dollar) to the
// cent amounts Stripe charges in. Sub-cent remainders round down.
func microUnitsToCents(amount uint64) int64 {
	cents := amount / 10_000
	if cents == 0 {
		cents = 1
	}
	return int64(cents)
}

// internal/services/authorization_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Doquocdung1609/Mini-Marketplace/internal/models"
)

// AuthorizationService gates every mutating marketplace transition. The
// owner and admin checks are pure equality predicates on the caller
// identity; the purchase check consults the permanent purchase facts. None
// of the checks mutate state, and a failed check aborts the transition
// before any side effect.
type AuthorizationService struct {
	db *gorm.DB
}

func NewAuthorizationService(db *gorm.DB) *AuthorizationService {
	return &AuthorizationService{db: db}
}

func (s *AuthorizationService) IsOwner(caller uuid.UUID, product *models.Product) bool {
	return product != nil && caller == product.SellerID
}

func (s *AuthorizationService) IsAdmin(userType models.UserType) bool {
	return userType == models.UserTypeAdmin
}

// CanRemove allows the seller or an administrator to take a listing down.
func (s *AuthorizationService) CanRemove(caller uuid.UUID, userType models.UserType, product *models.Product) bool {
	return s.IsOwner(caller, product) || s.IsAdmin(userType)
}

// HasPurchased reports whether a purchase fact exists for (product, buyer).
// It is evaluated against tx so a transition sees its own prior writes.
func (s *AuthorizationService) HasPurchased(tx *gorm.DB, productID uint64, buyer uuid.UUID) (bool, error) {
	var purchase models.Purchase
	err := tx.Where("product_id = ? AND buyer_id = ?", productID, buyer).First(&purchase).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("database error: %w", err)
	}
	return true, nil
}

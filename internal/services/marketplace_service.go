// internal/services/marketplace_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Doquocdung1609/Mini-Marketplace/internal/models"
	"github.com/Doquocdung1609/Mini-Marketplace/internal/utils"
)

// MarketplaceService is the single entry point for ledger transitions.
// Every mutating operation runs as one database transaction: the
// authorization gate is consulted first, then the registry, ratings,
// wallets and the event feed change together or not at all. Shared state is
// never mutated outside these methods.
type MarketplaceService struct {
	db      *gorm.DB
	gate    *AuthorizationService
	wallets *WalletService
	events  *EventService
}

type ListProductRequest struct {
	ContentRef  string `json:"content_ref" validate:"required"`
	Price       uint64 `json:"price" validate:"required,min=1"`
	Quantity    uint64 `json:"quantity" validate:"required,min=1"`
	Category    string `json:"category,omitempty" validate:"omitempty,max=100"`
	Name        string `json:"name,omitempty" validate:"omitempty,max=255"`
	Description string `json:"description,omitempty"`
}

// UpdateProductRequest carries the owner-editable fields. Zero values mean
// "leave unchanged", the same convention the listing form uses.
type UpdateProductRequest struct {
	ContentRef  string `json:"content_ref,omitempty"`
	Price       uint64 `json:"price,omitempty"`
	Quantity    uint64 `json:"quantity,omitempty"`
	Category    string `json:"category,omitempty" validate:"omitempty,max=100"`
	Name        string `json:"name,omitempty" validate:"omitempty,max=255"`
	Description string `json:"description,omitempty"`
}

type RateProductRequest struct {
	Score uint64 `json:"score" validate:"required"`
}

type ProductSearchParams struct {
	utils.PaginationParams
	SellerID *uuid.UUID `json:"seller_id,omitempty"`
	InStock  *bool      `json:"in_stock,omitempty"`
}

func NewMarketplaceService(db *gorm.DB, gate *AuthorizationService, wallets *WalletService, events *EventService) *MarketplaceService {
	return &MarketplaceService{
		db:      db,
		gate:    gate,
		wallets: wallets,
		events:  events,
	}
}

// List creates a new product under the next id. Ids start at 1, only ever
// grow, and are never reissued after a removal; the counter row is bumped
// inside the same transaction as the insert.
func (s *MarketplaceService) List(seller uuid.UUID, req *ListProductRequest) (uint64, error) {
	if req.Price == 0 || req.Quantity == 0 {
		return 0, ErrInvalidInput
	}
	if err := utils.ValidateStruct(req); err != nil {
		return 0, ErrInvalidInput
	}

	var productID uint64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var state models.MarketState
		if err := tx.Set("gorm:query_option", "FOR UPDATE").
			First(&state).Error; err != nil {
			return fmt.Errorf("failed to load market state: %w", err)
		}

		state.LastProductID++
		productID = state.LastProductID
		if err := tx.Save(&state).Error; err != nil {
			return fmt.Errorf("failed to advance product id: %w", err)
		}

		product := &models.Product{
			ID:          productID,
			SellerID:    seller,
			OwnerID:     seller,
			ContentRef:  req.ContentRef,
			Price:       req.Price,
			Quantity:    req.Quantity,
			Category:    req.Category,
			Name:        req.Name,
			Description: req.Description,
		}
		if err := tx.Create(product).Error; err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}

		return s.events.Record(tx, models.EventTypeProductListed, productID, seller, req.Price, models.JSONB{
			"content_ref": req.ContentRef,
			"quantity":    req.Quantity,
		})
	})
	if err != nil {
		return 0, err
	}

	return productID, nil
}

// Buy performs the atomic purchase: stock check, funds check, balance
// transfer, sale bookkeeping, purchase fact and event, all in one
// transaction. Any failure leaves every table untouched.
func (s *MarketplaceService) Buy(productID uint64, buyer uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.Set("gorm:query_option", "FOR UPDATE").
			First(&product, "id = ?", productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		if product.Quantity == 0 {
			return ErrOutOfStock
		}

		// Debit fails with ErrInsufficientFunds before any mutation.
		if err := s.wallets.Debit(tx, buyer, product.Price); err != nil {
			return err
		}
		if err := s.wallets.Credit(tx, product.SellerID, product.Price); err != nil {
			return err
		}

		if err := tx.Model(&product).Updates(map[string]interface{}{
			"quantity":   gorm.Expr("quantity - 1"),
			"sold_count": gorm.Expr("sold_count + 1"),
			"revenue":    gorm.Expr("revenue + ?", product.Price),
			"owner_id":   buyer,
		}).Error; err != nil {
			return fmt.Errorf("failed to apply sale: %w", err)
		}

		// One purchase fact per (product, buyer); a repeat purchase only
		// adds to the event feed.
		purchase := models.Purchase{ProductID: productID, BuyerID: buyer}
		if err := tx.Where("product_id = ? AND buyer_id = ?", productID, buyer).
			Attrs(models.Purchase{SellerID: product.SellerID, Price: product.Price}).
			FirstOrCreate(&purchase).Error; err != nil {
			return fmt.Errorf("failed to record purchase: %w", err)
		}

		return s.events.Record(tx, models.EventTypeProductSold, productID, buyer, product.Price, models.JSONB{
			"seller_id": product.SellerID.String(),
		})
	})
}

// Unlist removes a listing. Only the seller may do this; the id is gone for
// good and every later id-based operation sees NotFound.
func (s *MarketplaceService) Unlist(productID uint64, caller uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.Set("gorm:query_option", "FOR UPDATE").
			First(&product, "id = ?", productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		if !s.gate.IsOwner(caller, &product) {
			return ErrUnauthorized
		}

		if err := tx.Delete(&product).Error; err != nil {
			return fmt.Errorf("failed to remove product: %w", err)
		}

		return s.events.Record(tx, models.EventTypeProductUnlisted, productID, caller, product.Price, nil)
	})
}

// Update overwrites the supplied fields on an owned listing. Partially sold
// listings may still be edited.
func (s *MarketplaceService) Update(productID uint64, caller uuid.UUID, req *UpdateProductRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return ErrInvalidInput
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.Set("gorm:query_option", "FOR UPDATE").
			First(&product, "id = ?", productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		if !s.gate.IsOwner(caller, &product) {
			return ErrUnauthorized
		}

		updates := make(map[string]interface{})
		if req.ContentRef != "" {
			updates["content_ref"] = req.ContentRef
		}
		if req.Price > 0 {
			updates["price"] = req.Price
		}
		if req.Quantity > 0 {
			updates["quantity"] = req.Quantity
		}
		if req.Category != "" {
			updates["category"] = req.Category
		}
		if req.Name != "" {
			updates["name"] = req.Name
		}
		if req.Description != "" {
			updates["description"] = req.Description
		}

		if len(updates) > 0 {
			if err := tx.Model(&product).Updates(updates).Error; err != nil {
				return fmt.Errorf("failed to update product: %w", err)
			}
		}

		return s.events.Record(tx, models.EventTypeProductUpdated, productID, caller, product.Price, nil)
	})
}

// Rate records a 1..5 score from a verified purchaser, once per buyer. The
// rating tables outlive the listing, so rating stays possible after the
// product itself was unlisted.
func (s *MarketplaceService) Rate(productID uint64, buyer uuid.UUID, score uint64) error {
	if score < 1 || score > 5 {
		return ErrInvalidInput
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		purchased, err := s.gate.HasPurchased(tx, productID, buyer)
		if err != nil {
			return err
		}
		if !purchased {
			return ErrUnauthorized
		}

		var mark models.RatingMark
		err = tx.Where("product_id = ? AND buyer_id = ?", productID, buyer).First(&mark).Error
		if err == nil {
			return ErrAlreadyRated
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("database error: %w", err)
		}

		rating := models.ProductRating{ProductID: productID}
		if err := tx.Set("gorm:query_option", "FOR UPDATE").
			FirstOrCreate(&rating, "product_id = ?", productID).Error; err != nil {
			return fmt.Errorf("failed to load rating: %w", err)
		}

		if err := tx.Model(&models.ProductRating{}).Where("product_id = ?", productID).
			Updates(map[string]interface{}{
				"sum":   gorm.Expr("sum + ?", score),
				"count": gorm.Expr("count + 1"),
			}).Error; err != nil {
			return fmt.Errorf("failed to aggregate rating: %w", err)
		}

		if err := tx.Create(&models.RatingMark{
			ProductID: productID,
			BuyerID:   buyer,
			Score:     score,
		}).Error; err != nil {
			return fmt.Errorf("failed to mark rating: %w", err)
		}

		return s.events.Record(tx, models.EventTypeProductRated, productID, buyer, score, nil)
	})
}

// Delete removes any listing regardless of ownership. Administrator only.
func (s *MarketplaceService) Delete(productID uint64, caller uuid.UUID, userType models.UserType) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.Set("gorm:query_option", "FOR UPDATE").
			First(&product, "id = ?", productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		if !s.gate.IsAdmin(userType) {
			return ErrUnauthorized
		}

		if err := tx.Delete(&product).Error; err != nil {
			return fmt.Errorf("failed to delete product: %w", err)
		}

		return s.events.Record(tx, models.EventTypeProductDeleted, productID, caller, product.Price, nil)
	})
}

// GetProduct is a pure lookup; a missing id returns (nil, nil).
func (s *MarketplaceService) GetProduct(productID uint64) (*models.Product, error) {
	var product models.Product
	if err := s.db.First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &product, nil
}

// GetOwner resolves the current owner of a listing: the seller until the
// first sale, then the most recent buyer.
func (s *MarketplaceService) GetOwner(productID uint64) (uuid.UUID, bool, error) {
	product, err := s.GetProduct(productID)
	if err != nil {
		return uuid.Nil, false, err
	}
	if product == nil {
		return uuid.Nil, false, nil
	}
	return product.OwnerID, true, nil
}

// GetAverageRating returns floor(sum/count), or 0 for an unrated product.
// Ratings survive removal of the listing.
func (s *MarketplaceService) GetAverageRating(productID uint64) (uint64, error) {
	var rating models.ProductRating
	if err := s.db.First(&rating, "product_id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("database error: %w", err)
	}
	return rating.Average(), nil
}

// GetLastID returns the highest product id ever assigned.
func (s *MarketplaceService) GetLastID() (uint64, error) {
	var state models.MarketState
	if err := s.db.First(&state).Error; err != nil {
		return 0, fmt.Errorf("failed to load market state: %w", err)
	}
	return state.LastProductID, nil
}

// SearchProducts is the browse/glue query behind GET /products.
func (s *MarketplaceService) SearchProducts(params ProductSearchParams) ([]models.Product, int64, error) {
	query := s.db.Model(&models.Product{})

	if params.SellerID != nil {
		query = query.Where("seller_id = ?", *params.SellerID)
	}
	if params.Category != "" {
		query = query.Where("category = ?", params.Category)
	}
	if params.Search != "" {
		searchTerm := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", searchTerm, searchTerm)
	}
	if params.InStock != nil && *params.InStock {
		query = query.Where("quantity > 0")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "name", "price", "sold_count"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch products: %w", err)
	}

	return products, total, nil
}

// GetMarketStats backs the admin dashboard.
func (s *MarketplaceService) GetMarketStats() (map[string]interface{}, error) {
	var productCount, saleCount, eventCount int64
	var totalRevenue uint64

	if err := s.db.Model(&models.Product{}).Count(&productCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}
	s.db.Model(&models.Purchase{}).Count(&saleCount)
	s.db.Model(&models.MarketEvent{}).Count(&eventCount)
	s.db.Model(&models.Product{}).Select("COALESCE(SUM(revenue), 0)").Scan(&totalRevenue)

	lastID, err := s.GetLastID()
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"listed_products": productCount,
		"unique_sales":    saleCount,
		"total_revenue":   totalRevenue,
		"events":          eventCount,
		"last_product_id": lastID,
	}, nil
}

// internal/services/event_service.go
package services

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Doquocdung1609/Mini-Marketplace/internal/models"
	"github.com/Doquocdung1609/Mini-Marketplace/internal/utils"
)

// EventService appends to the market history feed. Record runs inside the
// caller's transaction so the event only exists if the transition it
// describes committed; the feed itself is append-only.
type EventService struct {
	db *gorm.DB
}

func NewEventService(db *gorm.DB) *EventService {
	return &EventService{db: db}
}

func (s *EventService) Record(tx *gorm.DB, evtType models.EventType, productID uint64, actor uuid.UUID, amount uint64, payload models.JSONB) error {
	event := &models.MarketEvent{
		Type:      evtType,
		ProductID: productID,
		ActorID:   actor,
		Amount:    amount,
		Payload:   payload,
	}
	if err := tx.Create(event).Error; err != nil {
		return fmt.Errorf("failed to record market event: %w", err)
	}
	return nil
}

// ListEvents serves the external history poller, newest first.
func (s *EventService) ListEvents(params utils.PaginationParams, evtType string, productID uint64) ([]models.MarketEvent, int64, error) {
	query := s.db.Model(&models.MarketEvent{})

	if evtType != "" {
		query = query.Where("type = ?", evtType)
	}
	if productID > 0 {
		query = query.Where("product_id = ?", productID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count events: %w", err)
	}

	query = utils.ApplySort(query, params, []string{"created_at", "type", "amount"})
	query = utils.ApplyPagination(query, params)

	var events []models.MarketEvent
	if err := query.Find(&events).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch events: %w", err)
	}

	return events, total, nil
}

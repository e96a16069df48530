// internal/handlers/events.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Doquocdung1609/Mini-Marketplace/internal/services"
	"github.com/Doquocdung1609/Mini-Marketplace/internal/utils"
)

type EventHandler struct {
	eventService *services.EventService
}

func NewEventHandler(eventService *services.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

// GET /events
func (h *EventHandler) GetEvents(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	evtType := c.Query("type")
	productID, _ := strconv.ParseUint(c.Query("product_id"), 10, 64)

	events, total, err := h.eventService.ListEvents(params, evtType, productID)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(events, total, params))
}

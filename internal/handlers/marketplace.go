// internal/handlers/marketplace.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Doquocdung1609/Mini-Marketplace/internal/models"
	"github.com/Doquocdung1609/Mini-Marketplace/internal/services"
	"github.com/Doquocdung1609/Mini-Marketplace/internal/utils"
)

type MarketplaceHandler struct {
	marketplace *services.MarketplaceService
}

func NewMarketplaceHandler(marketplace *services.MarketplaceService) *MarketplaceHandler {
	return &MarketplaceHandler{marketplace: marketplace}
}

// MarketErrorResponse writes a marketplace failure in the standard
// envelope. The envelope code is the numeric contract code; the HTTP status
// is a plain REST mapping of the same condition.
func MarketErrorResponse(c *gin.Context, err error) {
	me, ok := services.AsMarketError(err)
	if !ok {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	var status int
	switch me.Code {
	case services.CodeNotFound:
		status = http.StatusNotFound
	case services.CodeUnauthorized:
		status = http.StatusForbidden
	case services.CodeOutOfStock, services.CodeAlreadyRated:
		status = http.StatusConflict
	default: // insufficient funds, invalid input
		status = http.StatusBadRequest
	}

	utils.ErrorResponse(c, status, strconv.Itoa(me.Code), me.Message, nil)
}

func callerID(c *gin.Context) (uuid.UUID, bool) {
	userIDStr, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID", nil)
		return uuid.Nil, false
	}
	return userID, true
}

func productIDParam(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return 0, false
	}
	return id, true
}

// GET /products
func (h *MarketplaceHandler) GetProducts(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	searchParams := services.ProductSearchParams{
		PaginationParams: params,
	}

	if sellerIDStr := c.Query("seller_id"); sellerIDStr != "" {
		if sellerID, err := uuid.Parse(sellerIDStr); err == nil {
			searchParams.SellerID = &sellerID
		}
	}

	if inStockStr := c.Query("in_stock"); inStockStr != "" {
		if inStock, err := strconv.ParseBool(inStockStr); err == nil {
			searchParams.InStock = &inStock
		}
	}

	products, total, err := h.marketplace.SearchProducts(searchParams)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(products, total, params)
	utils.PaginatedResponse(c, result)
}

// POST /products
func (h *MarketplaceHandler) ListProduct(c *gin.Context) {
	sellerID, ok := callerID(c)
	if !ok {
		return
	}

	var req services.ListProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	productID, err := h.marketplace.List(sellerID, &req)
	if err != nil {
		MarketErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"product_id": productID,
	})
}

// GET /products/:id
func (h *MarketplaceHandler) GetProduct(c *gin.Context) {
	productID, ok := productIDParam(c)
	if !ok {
		return
	}

	product, err := h.marketplace.GetProduct(productID)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	if product == nil {
		utils.NotFoundResponse(c, "Product not found")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"product": product,
	})
}

// GET /products/:id/owner
func (h *MarketplaceHandler) GetOwner(c *gin.Context) {
	productID, ok := productIDParam(c)
	if !ok {
		return
	}

	owner, found, err := h.marketplace.GetOwner(productID)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	if !found {
		utils.NotFoundResponse(c, "Product not found")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"product_id": productID,
		"owner_id":   owner,
	})
}

// GET /products/:id/rating
func (h *MarketplaceHandler) GetAverageRating(c *gin.Context) {
	productID, ok := productIDParam(c)
	if !ok {
		return
	}

	average, err := h.marketplace.GetAverageRating(productID)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"product_id":     productID,
		"average_rating": average,
	})
}

// GET /products/last-id
func (h *MarketplaceHandler) GetLastID(c *gin.Context) {
	lastID, err := h.marketplace.GetLastID()
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"last_id": lastID,
	})
}

// PUT /products/:id
func (h *MarketplaceHandler) UpdateProduct(c *gin.Context) {
	productID, ok := productIDParam(c)
	if !ok {
		return
	}

	userID, ok := callerID(c)
	if !ok {
		return
	}

	var req services.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if err := h.marketplace.Update(productID, userID, &req); err != nil {
		MarketErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"updated": true,
	})
}

// DELETE /products/:id
func (h *MarketplaceHandler) UnlistProduct(c *gin.Context) {
	productID, ok := productIDParam(c)
	if !ok {
		return
	}

	userID, ok := callerID(c)
	if !ok {
		return
	}

	if err := h.marketplace.Unlist(productID, userID); err != nil {
		MarketErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"unlisted": true,
	})
}

// POST /products/:id/purchase
func (h *MarketplaceHandler) PurchaseProduct(c *gin.Context) {
	productID, ok := productIDParam(c)
	if !ok {
		return
	}

	buyerID, ok := callerID(c)
	if !ok {
		return
	}

	if err := h.marketplace.Buy(productID, buyerID); err != nil {
		MarketErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"purchased": true,
	})
}

// POST /products/:id/rate
func (h *MarketplaceHandler) RateProduct(c *gin.Context) {
	productID, ok := productIDParam(c)
	if !ok {
		return
	}

	buyerID, ok := callerID(c)
	if !ok {
		return
	}

	var req services.RateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if err := h.marketplace.Rate(productID, buyerID, req.Score); err != nil {
		MarketErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"rated": true,
	})
}

// DELETE /admin/products/:id
func (h *MarketplaceHandler) DeleteProduct(c *gin.Context) {
	productID, ok := productIDParam(c)
	if !ok {
		return
	}

	userID, ok := callerID(c)
	if !ok {
		return
	}

	userType, _ := utils.GetUserTypeFromContext(c)

	if err := h.marketplace.Delete(productID, userID, models.UserType(userType)); err != nil {
		MarketErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"deleted": true,
	})
}

// GET /admin/dashboard/stats
func (h *MarketplaceHandler) GetMarketStats(c *gin.Context) {
	stats, err := h.marketplace.GetMarketStats()
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"stats": stats,
	})
}

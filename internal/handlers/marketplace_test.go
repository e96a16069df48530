// internal/handlers/marketplace_test.go
package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Doquocdung1609/Mini-Marketplace/internal/config"
	"github.com/Doquocdung1609/Mini-Marketplace/internal/models"
	"github.com/Doquocdung1609/Mini-Marketplace/internal/services"
)

type MarketplaceHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	router  *gin.Engine
	market  *services.MarketplaceService
	wallets *services.WalletService

	// identity injected into every request by the test middleware
	callerID   uuid.UUID
	callerType string

	seller uuid.UUID
	buyer  uuid.UUID
}

func (suite *MarketplaceHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	suite.Require().NoError(err)
	sqlDB, err := db.DB()
	suite.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)

	suite.Require().NoError(db.AutoMigrate(
		&models.User{},
		&models.Wallet{},
		&models.MarketState{},
		&models.Product{},
		&models.Purchase{},
		&models.ProductRating{},
		&models.RatingMark{},
		&models.MarketEvent{},
	))
	suite.Require().NoError(db.Create(&models.MarketState{ID: 1, LastProductID: 0}).Error)
	suite.db = db

	events := services.NewEventService(db)
	suite.wallets = services.NewWalletService(db, &config.Config{}, events)
	gate := services.NewAuthorizationService(db)
	suite.market = services.NewMarketplaceService(db, gate, suite.wallets, events)

	handler := NewMarketplaceHandler(suite.market)

	suite.seller = uuid.New()
	suite.buyer = uuid.New()
	suite.callerID = suite.seller
	suite.callerType = string(models.UserTypeMember)

	identity := func(c *gin.Context) {
		c.Set("user_id", suite.callerID.String())
		c.Set("username", "tester")
		c.Set("user_type", suite.callerType)
		c.Next()
	}

	suite.router = gin.New()
	products := suite.router.Group("/products", identity)
	{
		products.POST("", handler.ListProduct)
		products.GET("/last-id", handler.GetLastID)
		products.GET("/:id", handler.GetProduct)
		products.GET("/:id/owner", handler.GetOwner)
		products.GET("/:id/rating", handler.GetAverageRating)
		products.PUT("/:id", handler.UpdateProduct)
		products.DELETE("/:id", handler.UnlistProduct)
		products.POST("/:id/purchase", handler.PurchaseProduct)
		products.POST("/:id/rate", handler.RateProduct)
	}
	suite.router.DELETE("/admin/products/:id", identity, handler.DeleteProduct)
}

func (suite *MarketplaceHandlerTestSuite) do(method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}

	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	var response map[string]interface{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	return w, response
}

func (suite *MarketplaceHandlerTestSuite) errorCode(response map[string]interface{}) string {
	suite.Require().False(response["success"].(bool))
	errObj, ok := response["error"].(map[string]interface{})
	suite.Require().True(ok)
	return errObj["code"].(string)
}

func (suite *MarketplaceHandlerTestSuite) listProduct(price, quantity uint64) uint64 {
	w, response := suite.do("POST", "/products", gin.H{
		"content_ref": "s3://content/item.bin",
		"price":       price,
		"quantity":    quantity,
	})
	suite.Require().Equal(http.StatusCreated, w.Code)
	data := response["data"].(map[string]interface{})
	return uint64(data["product_id"].(float64))
}

func (suite *MarketplaceHandlerTestSuite) fund(userID uuid.UUID, amount uint64) {
	err := suite.db.Transaction(func(tx *gorm.DB) error {
		return suite.wallets.Credit(tx, userID, amount)
	})
	suite.Require().NoError(err)
}

func (suite *MarketplaceHandlerTestSuite) TestListAndGetProduct() {
	productID := suite.listProduct(100, 5)
	suite.Equal(uint64(1), productID)

	w, response := suite.do("GET", fmt.Sprintf("/products/%d", productID), nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.True(response["success"].(bool))

	data := response["data"].(map[string]interface{})
	product := data["product"].(map[string]interface{})
	suite.Equal(float64(100), product["price"])
	suite.Equal(float64(5), product["quantity"])
}

func (suite *MarketplaceHandlerTestSuite) TestGetMissingProduct() {
	w, response := suite.do("GET", "/products/42", nil)
	suite.Equal(http.StatusNotFound, w.Code)
	suite.False(response["success"].(bool))
}

func (suite *MarketplaceHandlerTestSuite) TestListRejectsZeroPrice() {
	w, response := suite.do("POST", "/products", gin.H{
		"content_ref": "s3://content/item.bin",
		"price":       0,
		"quantity":    5,
	})
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("422", suite.errorCode(response))
}

func (suite *MarketplaceHandlerTestSuite) TestPurchaseHappyPath() {
	productID := suite.listProduct(100, 5)
	suite.fund(suite.buyer, 100)

	suite.callerID = suite.buyer
	w, response := suite.do("POST", fmt.Sprintf("/products/%d/purchase", productID), nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.True(response["success"].(bool))

	_, response = suite.do("GET", fmt.Sprintf("/products/%d/owner", productID), nil)
	data := response["data"].(map[string]interface{})
	suite.Equal(suite.buyer.String(), data["owner_id"])
}

func (suite *MarketplaceHandlerTestSuite) TestPurchaseMissingProductCode() {
	suite.callerID = suite.buyer
	w, response := suite.do("POST", "/products/42/purchase", nil)
	suite.Equal(http.StatusNotFound, w.Code)
	suite.Equal("404", suite.errorCode(response))
}

func (suite *MarketplaceHandlerTestSuite) TestPurchaseInsufficientFundsCode() {
	productID := suite.listProduct(100, 5)

	suite.callerID = suite.buyer
	w, response := suite.do("POST", fmt.Sprintf("/products/%d/purchase", productID), nil)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("401", suite.errorCode(response))
}

func (suite *MarketplaceHandlerTestSuite) TestPurchaseOutOfStockCode() {
	productID := suite.listProduct(100, 1)
	suite.fund(suite.buyer, 200)

	suite.callerID = suite.buyer
	w, _ := suite.do("POST", fmt.Sprintf("/products/%d/purchase", productID), nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	w, response := suite.do("POST", fmt.Sprintf("/products/%d/purchase", productID), nil)
	suite.Equal(http.StatusConflict, w.Code)
	suite.Equal("400", suite.errorCode(response))
}

func (suite *MarketplaceHandlerTestSuite) TestUnlistByNonSellerCode() {
	productID := suite.listProduct(100, 5)

	suite.callerID = suite.buyer
	w, response := suite.do("DELETE", fmt.Sprintf("/products/%d", productID), nil)
	suite.Equal(http.StatusForbidden, w.Code)
	suite.Equal("407", suite.errorCode(response))
}

func (suite *MarketplaceHandlerTestSuite) TestUnlistThenGone() {
	productID := suite.listProduct(100, 5)

	w, _ := suite.do("DELETE", fmt.Sprintf("/products/%d", productID), nil)
	suite.Equal(http.StatusOK, w.Code)

	w, response := suite.do("DELETE", fmt.Sprintf("/products/%d", productID), nil)
	suite.Equal(http.StatusNotFound, w.Code)
	suite.Equal("404", suite.errorCode(response))
}

func (suite *MarketplaceHandlerTestSuite) TestRateTwiceCode() {
	productID := suite.listProduct(100, 5)
	suite.fund(suite.buyer, 100)

	suite.callerID = suite.buyer
	w, _ := suite.do("POST", fmt.Sprintf("/products/%d/purchase", productID), nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	w, _ = suite.do("POST", fmt.Sprintf("/products/%d/rate", productID), gin.H{"score": 5})
	suite.Equal(http.StatusOK, w.Code)

	w, response := suite.do("POST", fmt.Sprintf("/products/%d/rate", productID), gin.H{"score": 4})
	suite.Equal(http.StatusConflict, w.Code)
	suite.Equal("409", suite.errorCode(response))
}

func (suite *MarketplaceHandlerTestSuite) TestRateWithoutPurchaseCode() {
	productID := suite.listProduct(100, 5)

	suite.callerID = suite.buyer
	w, response := suite.do("POST", fmt.Sprintf("/products/%d/rate", productID), gin.H{"score": 5})
	suite.Equal(http.StatusForbidden, w.Code)
	suite.Equal("407", suite.errorCode(response))
}

func (suite *MarketplaceHandlerTestSuite) TestAverageRatingEndpoint() {
	productID := suite.listProduct(100, 5)
	suite.fund(suite.buyer, 100)

	suite.callerID = suite.buyer
	suite.do("POST", fmt.Sprintf("/products/%d/purchase", productID), nil)
	suite.do("POST", fmt.Sprintf("/products/%d/rate", productID), gin.H{"score": 4})

	w, response := suite.do("GET", fmt.Sprintf("/products/%d/rating", productID), nil)
	suite.Equal(http.StatusOK, w.Code)
	data := response["data"].(map[string]interface{})
	suite.Equal(float64(4), data["average_rating"])
}

func (suite *MarketplaceHandlerTestSuite) TestLastIDEndpoint() {
	suite.listProduct(100, 5)
	suite.listProduct(200, 1)

	w, response := suite.do("GET", "/products/last-id", nil)
	suite.Equal(http.StatusOK, w.Code)
	data := response["data"].(map[string]interface{})
	suite.Equal(float64(2), data["last_id"])
}

func (suite *MarketplaceHandlerTestSuite) TestAdminDeleteRequiresAdminType() {
	productID := suite.listProduct(100, 5)

	suite.callerID = suite.buyer
	w, response := suite.do("DELETE", fmt.Sprintf("/admin/products/%d", productID), nil)
	suite.Equal(http.StatusForbidden, w.Code)
	suite.Equal("407", suite.errorCode(response))

	suite.callerType = string(models.UserTypeAdmin)
	w, _ = suite.do("DELETE", fmt.Sprintf("/admin/products/%d", productID), nil)
	suite.Equal(http.StatusOK, w.Code)
}

func TestMarketplaceHandlerSuite(t *testing.T) {
	suite.Run(t, new(MarketplaceHandlerTestSuite))
}

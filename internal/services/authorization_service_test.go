// internal/services/authorization_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/Doquocdung1609/Mini-Marketplace/internal/models"
)

type AuthorizationServiceTestSuite struct {
	suite.Suite
	db   *gorm.DB
	gate *AuthorizationService
}

func (suite *AuthorizationServiceTestSuite) SetupTest() {
	suite.db = openTestDB(&suite.Suite)
	suite.gate = NewAuthorizationService(suite.db)
}

func (suite *AuthorizationServiceTestSuite) TestIsOwner() {
	seller := uuid.New()
	product := &models.Product{ID: 1, SellerID: seller}

	suite.True(suite.gate.IsOwner(seller, product))
	suite.False(suite.gate.IsOwner(uuid.New(), product))
	suite.False(suite.gate.IsOwner(seller, nil))
}

func (suite *AuthorizationServiceTestSuite) TestIsAdmin() {
	suite.True(suite.gate.IsAdmin(models.UserTypeAdmin))
	suite.False(suite.gate.IsAdmin(models.UserTypeMember))
	suite.False(suite.gate.IsAdmin(models.UserType("moderator")))
}

func (suite *AuthorizationServiceTestSuite) TestCanRemove() {
	seller := uuid.New()
	admin := uuid.New()
	product := &models.Product{ID: 1, SellerID: seller}

	suite.True(suite.gate.CanRemove(seller, models.UserTypeMember, product))
	suite.True(suite.gate.CanRemove(admin, models.UserTypeAdmin, product))
	suite.False(suite.gate.CanRemove(uuid.New(), models.UserTypeMember, product))
}

func (suite *AuthorizationServiceTestSuite) TestHasPurchased() {
	buyer := uuid.New()
	seller := uuid.New()

	purchased, err := suite.gate.HasPurchased(suite.db, 1, buyer)
	suite.NoError(err)
	suite.False(purchased)

	suite.Require().NoError(suite.db.Create(&models.Purchase{
		ProductID: 1,
		BuyerID:   buyer,
		SellerID:  seller,
		Price:     100,
	}).Error)

	purchased, err = suite.gate.HasPurchased(suite.db, 1, buyer)
	suite.NoError(err)
	suite.True(purchased)

	// The fact is scoped to the pair, not the product alone.
	purchased, err = suite.gate.HasPurchased(suite.db, 1, uuid.New())
	suite.NoError(err)
	suite.False(purchased)
}

func TestAuthorizationServiceSuite(t *testing.T) {
	suite.Run(t, new(AuthorizationServiceTestSuite))
}

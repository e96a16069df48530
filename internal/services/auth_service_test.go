// internal/services/auth_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/Doquocdung1609/Mini-Marketplace/internal/config"
	"github.com/Doquocdung1609/Mini-Marketplace/internal/models"
	"github.com/Doquocdung1609/Mini-Marketplace/internal/utils"
)

type AuthServiceTestSuite struct {
	suite.Suite
	db   *gorm.DB
	auth *AuthService
}

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.db = openTestDB(&suite.Suite)

	cfg := &config.Config{
		JWT: config.JWTConfig{
			SecretKey:       "test-secret",
			AccessTokenTTL:  24,
			RefreshTokenTTL: 168,
		},
		Payment: config.PaymentConfig{
			SignupCredit: 1000,
		},
	}
	utils.SetJWTSecret(cfg.JWT.SecretKey)
	suite.auth = NewAuthService(suite.db, cfg)
}

func (suite *AuthServiceTestSuite) register(username, email string) *AuthResponse {
	resp, err := suite.auth.Register(&RegisterRequest{
		Username: username,
		Email:    email,
		Password: "TestPass123!",
	})
	suite.Require().NoError(err)
	return resp
}

func (suite *AuthServiceTestSuite) TestRegisterCreatesUserAndWallet() {
	resp := suite.register("alice", "alice@example.com")

	suite.NotEmpty(resp.AccessToken)
	suite.NotEmpty(resp.RefreshToken)
	suite.Equal("Bearer", resp.TokenType)
	suite.Equal(models.UserTypeMember, resp.User.UserType)

	// The wallet is created in the same transaction, with the faucet credit.
	var wallet models.Wallet
	suite.Require().NoError(suite.db.First(&wallet, "user_id = ?", resp.User.ID).Error)
	suite.Equal(uint64(1000), wallet.Balance)
}

func (suite *AuthServiceTestSuite) TestRegisterRejectsDuplicateEmail() {
	suite.register("alice", "alice@example.com")

	_, err := suite.auth.Register(&RegisterRequest{
		Username: "alice2",
		Email:    "alice@example.com",
		Password: "TestPass123!",
	})
	suite.Error(err)
}

func (suite *AuthServiceTestSuite) TestRegisterRejectsWeakPassword() {
	_, err := suite.auth.Register(&RegisterRequest{
		Username: "bob",
		Email:    "bob@example.com",
		Password: "short",
	})
	suite.Error(err)
}

func (suite *AuthServiceTestSuite) TestLogin() {
	suite.register("alice", "alice@example.com")

	resp, err := suite.auth.Login(&LoginRequest{
		Email:    "alice@example.com",
		Password: "TestPass123!",
	})
	suite.Require().NoError(err)
	suite.NotEmpty(resp.AccessToken)
	suite.NotNil(resp.User.LastLoginAt)
}

func (suite *AuthServiceTestSuite) TestLoginWrongPassword() {
	suite.register("alice", "alice@example.com")

	_, err := suite.auth.Login(&LoginRequest{
		Email:    "alice@example.com",
		Password: "WrongPass123!",
	})
	suite.EqualError(err, "invalid email or password")
}

func (suite *AuthServiceTestSuite) TestLoginSuspendedAccount() {
	resp := suite.register("alice", "alice@example.com")
	suite.Require().NoError(suite.db.Model(&models.User{}).
		Where("id = ?", resp.User.ID).
		Update("status", models.UserStatusSuspended).Error)

	_, err := suite.auth.Login(&LoginRequest{
		Email:    "alice@example.com",
		Password: "TestPass123!",
	})
	suite.EqualError(err, "account is suspended")
}

func (suite *AuthServiceTestSuite) TestRefreshToken() {
	resp := suite.register("alice", "alice@example.com")

	refreshed, err := suite.auth.RefreshToken(resp.RefreshToken)
	suite.Require().NoError(err)
	suite.NotEmpty(refreshed.AccessToken)
	suite.Equal(resp.User.ID, refreshed.User.ID)
}

func TestAuthServiceSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}

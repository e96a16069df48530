// internal/services/wallet_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/Doquocdung1609/Mini-Marketplace/internal/config"
)

type WalletServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	wallets *WalletService

	user uuid.UUID
}

func (suite *WalletServiceTestSuite) SetupTest() {
	suite.db = openTestDB(&suite.Suite)
	suite.wallets = NewWalletService(suite.db, &config.Config{}, NewEventService(suite.db))
	suite.user = uuid.New()
}

func (suite *WalletServiceTestSuite) TestBalanceWithoutWalletIsZero() {
	balance, err := suite.wallets.Balance(suite.user)
	suite.NoError(err)
	suite.Zero(balance)
}

func (suite *WalletServiceTestSuite) TestCreditCreatesWallet() {
	err := suite.db.Transaction(func(tx *gorm.DB) error {
		return suite.wallets.Credit(tx, suite.user, 500)
	})
	suite.Require().NoError(err)

	balance, err := suite.wallets.Balance(suite.user)
	suite.NoError(err)
	suite.Equal(uint64(500), balance)
}

func (suite *WalletServiceTestSuite) TestDebitWithoutWallet() {
	err := suite.db.Transaction(func(tx *gorm.DB) error {
		return suite.wallets.Debit(tx, suite.user, 1)
	})
	suite.ErrorIs(err, ErrInsufficientFunds)
}

func (suite *WalletServiceTestSuite) TestDebitShortBalance() {
	err := suite.db.Transaction(func(tx *gorm.DB) error {
		return suite.wallets.Credit(tx, suite.user, 99)
	})
	suite.Require().NoError(err)

	err = suite.db.Transaction(func(tx *gorm.DB) error {
		return suite.wallets.Debit(tx, suite.user, 100)
	})
	suite.ErrorIs(err, ErrInsufficientFunds)

	// A refused debit leaves the balance alone.
	balance, err := suite.wallets.Balance(suite.user)
	suite.NoError(err)
	suite.Equal(uint64(99), balance)
}

func (suite *WalletServiceTestSuite) TestDebitAndCreditRoundTrip() {
	other := uuid.New()

	err := suite.db.Transaction(func(tx *gorm.DB) error {
		return suite.wallets.Credit(tx, suite.user, 1000)
	})
	suite.Require().NoError(err)

	err = suite.db.Transaction(func(tx *gorm.DB) error {
		if err := suite.wallets.Debit(tx, suite.user, 400); err != nil {
			return err
		}
		return suite.wallets.Credit(tx, other, 400)
	})
	suite.Require().NoError(err)

	userBalance, _ := suite.wallets.Balance(suite.user)
	otherBalance, _ := suite.wallets.Balance(other)
	suite.Equal(uint64(600), userBalance)
	suite.Equal(uint64(400), otherBalance)
}

func (suite *WalletServiceTestSuite) TestMicroUnitsToCents() {
	suite.Equal(int64(100), microUnitsToCents(1_000_000))
	suite.Equal(int64(1), microUnitsToCents(10_000))

	// Sub-cent deposits still charge the Stripe minimum of one cent.
	suite.Equal(int64(1), microUnitsToCents(9_999))
}

func TestWalletServiceSuite(t *testing.T) {
	suite.Run(t, new(WalletServiceTestSuite))
}

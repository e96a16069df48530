// internal/services/event_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/Doquocdung1609/Mini-Marketplace/internal/models"
	"github.com/Doquocdung1609/Mini-Marketplace/internal/utils"
)

type EventServiceTestSuite struct {
	suite.Suite
	db     *gorm.DB
	events *EventService
}

func (suite *EventServiceTestSuite) SetupTest() {
	suite.db = openTestDB(&suite.Suite)
	suite.events = NewEventService(suite.db)
}

func (suite *EventServiceTestSuite) record(evtType models.EventType, productID uint64) {
	err := suite.db.Transaction(func(tx *gorm.DB) error {
		return suite.events.Record(tx, evtType, productID, uuid.New(), 100, models.JSONB{"k": "v"})
	})
	suite.Require().NoError(err)
}

func (suite *EventServiceTestSuite) TestListEventsFilters() {
	suite.record(models.EventTypeProductListed, 1)
	suite.record(models.EventTypeProductSold, 1)
	suite.record(models.EventTypeProductSold, 2)

	params := utils.PaginationParams{Page: 1, Limit: 20, Sort: "created_at", Order: "desc"}

	events, total, err := suite.events.ListEvents(params, "", 0)
	suite.Require().NoError(err)
	suite.Equal(int64(3), total)
	suite.Len(events, 3)

	events, total, err = suite.events.ListEvents(params, string(models.EventTypeProductSold), 0)
	suite.Require().NoError(err)
	suite.Equal(int64(2), total)
	suite.Len(events, 2)

	events, total, err = suite.events.ListEvents(params, string(models.EventTypeProductSold), 2)
	suite.Require().NoError(err)
	suite.Equal(int64(1), total)
	suite.Require().Len(events, 1)
	suite.Equal(uint64(2), events[0].ProductID)
	suite.Equal("v", events[0].Payload["k"])
}

func (suite *EventServiceTestSuite) TestRecordRollsBackWithTransaction() {
	err := suite.db.Transaction(func(tx *gorm.DB) error {
		if err := suite.events.Record(tx, models.EventTypeProductListed, 1, uuid.New(), 0, nil); err != nil {
			return err
		}
		return gorm.ErrInvalidTransaction
	})
	suite.Error(err)

	var count int64
	suite.db.Model(&models.MarketEvent{}).Count(&count)
	suite.Zero(count)
}

func TestEventServiceSuite(t *testing.T) {
	suite.Run(t, new(EventServiceTestSuite))
}

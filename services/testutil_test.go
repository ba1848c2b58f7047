package services

import (
	"fmt"
	"testing"
	"time"

	"stayhub-server/models"
	"stayhub-server/storage"

	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens an isolated in-memory database and installs it as the
// global handle. A single connection stands in for the Postgres row lock:
// admission transactions hold the connection for their whole check-then-write
// sequence, so concurrent attempts serialize the same way they do in
// production.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap test db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	storage.PerformMigrations(db)

	storage.DB = db
	t.Cleanup(func() {
		storage.DB = nil
		sqlDB.Close()
	})
	return db
}

func createTestProperty(t *testing.T, db *gorm.DB, roomSpec string, totalBedrooms int) *models.Property {
	t.Helper()

	property := models.Property{
		OwnerID:       1,
		Title:         "Test Guesthouse",
		City:          "Nouakchott",
		Country:       "Mauritania",
		Capacity:      8,
		TotalBedrooms: totalBedrooms,
		NightlyPrice:  100,
		Currency:      "MRO",
		Status:        models.PropertyStatusApproved,
	}
	if roomSpec != "" {
		property.RoomSpec = datatypes.JSON(roomSpec)
	}
	if err := db.Create(&property).Error; err != nil {
		t.Fatalf("create test property: %v", err)
	}
	return &property
}

func createTestBooking(t *testing.T, db *gorm.DB, propertyID uint, roomCode *string, checkIn, checkOut time.Time, status string) *models.Booking {
	t.Helper()

	booking := models.Booking{
		PropertyID: propertyID,
		GuestID:    2,
		RoomCode:   roomCode,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		NumGuests:  1,
		Status:     status,
	}
	if err := db.Create(&booking).Error; err != nil {
		t.Fatalf("create test booking: %v", err)
	}
	return &booking
}

func createTestBlock(t *testing.T, db *gorm.DB, propertyID uint, roomCode *string, start, end time.Time, beds int) *models.AvailabilityBlock {
	t.Helper()

	block := models.AvailabilityBlock{
		PropertyID:  propertyID,
		OwnerID:     1,
		StartDate:   start,
		EndDate:     end,
		RoomCode:    roomCode,
		Source:      "test-channel",
		BedsBlocked: beds,
	}
	if err := db.Create(&block).Error; err != nil {
		t.Fatalf("create test block: %v", err)
	}
	return &block
}

func day(year int, month time.Month, dayOfMonth int) time.Time {
	return time.Date(year, month, dayOfMonth, 0, 0, 0, 0, time.UTC)
}

func strPtr(s string) *string { return &s }

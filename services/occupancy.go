package services

import (
	"time"

	"stayhub-server/models"

	"gorm.io/gorm"
)

// OccupancyQuery selects the bookings and blocks that overlap a date window
// for one property. RoomCode, when set, restricts both sets to rows with that
// exact code; rows with a NULL room code only ever count against the
// unfiltered whole-property view. ExcludeBlockID removes one block from the
// result, so a block being edited does not conflict with itself.
type OccupancyQuery struct {
	PropertyID     uint
	Start          time.Time
	End            time.Time
	RoomCode       *string
	ExcludeBlockID uint
}

// FetchOccupancy runs the overlap queries on the given handle, which may be a
// plain connection for advisory reads or an open transaction holding the
// property row lock. Overlap is half-open: [start, end) windows that only
// touch at an endpoint do not conflict.
func FetchOccupancy(db *gorm.DB, q OccupancyQuery) ([]models.Booking, []models.AvailabilityBlock, error) {
	bookingQuery := db.
		Where("property_id = ? AND status IN ?", q.PropertyID, models.ActiveBookingStatuses).
		Where("check_in < ? AND check_out > ?", q.End, q.Start)
	if q.RoomCode != nil {
		bookingQuery = bookingQuery.Where("room_code = ?", *q.RoomCode)
	}

	var bookings []models.Booking
	if err := bookingQuery.Order("id").Find(&bookings).Error; err != nil {
		return nil, nil, err
	}

	blockQuery := db.
		Where("property_id = ?", q.PropertyID).
		Where("start_date < ? AND end_date > ?", q.End, q.Start)
	if q.RoomCode != nil {
		blockQuery = blockQuery.Where("room_code = ?", *q.RoomCode)
	}
	if q.ExcludeBlockID != 0 {
		blockQuery = blockQuery.Where("id <> ?", q.ExcludeBlockID)
	}

	var blocks []models.AvailabilityBlock
	if err := blockQuery.Order("id").Find(&blocks).Error; err != nil {
		return nil, nil, err
	}

	return bookings, blocks, nil
}

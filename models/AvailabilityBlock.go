package models

import (
	"time"

	"gorm.io/gorm"
)

// AvailabilityBlock is an owner-declared unavailability window, typically
// mirroring an external channel booking. Blocks have no status: existence
// alone means the rooms are out of inventory for the window.
type AvailabilityBlock struct {
	gorm.Model
	PropertyID uint      `json:"propertyID" gorm:"not null;index"`
	OwnerID    uint      `json:"ownerID" gorm:"not null;index"`
	StartDate  time.Time `json:"startDate" gorm:"not null;index"`
	EndDate    time.Time `json:"endDate" gorm:"not null;index"`

	// RoomCode nil means the block applies property-wide.
	RoomCode    *string `json:"roomCode" gorm:"type:varchar(64)"`
	Source      string  `json:"source" gorm:"type:varchar(128)"` // provenance, e.g. "booking.com"
	BedsBlocked int     `json:"bedsBlocked" gorm:"default:1"`
	Notes       string  `json:"notes"`

	Property *Property `json:"property,omitempty" gorm:"foreignKey:PropertyID"`
}

package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Property statuses set by admin moderation. Only approved properties are
// bookable by the public; that gate lives in the booking routes.
const (
	PropertyStatusPending  = "pending"
	PropertyStatusApproved = "approved"
	PropertyStatusRejected = "rejected"
)

type Property struct {
	gorm.Model
	OwnerID      uint    `json:"ownerID" gorm:"not null;index"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	AddressLine1 string  `json:"addressLine1"`
	City         string  `json:"city"`
	Country      string  `json:"country"`
	Lat          float32 `json:"lat"`
	Lng          float32 `json:"lng"`

	// Capacity is the declared maximum number of guests per booking.
	Capacity      int `json:"capacity"`
	TotalBedrooms int `json:"totalBedrooms"`

	// RoomSpec is the owner-supplied room inventory description. The shape is
	// loose (see services.ResolveRoomTypes); it is normalized at read time and
	// the raw form never travels past the resolver.
	RoomSpec datatypes.JSON `json:"roomSpec" gorm:"type:jsonb"`

	NightlyPrice float32 `json:"nightlyPrice"`
	Currency     string  `json:"currency"`
	CheckInTime  string  `json:"checkInTime" gorm:"column:check_in_time;type:varchar(10)"`
	CheckOutTime string  `json:"checkOutTime" gorm:"column:check_out_time;type:varchar(10)"`

	Status string `json:"status" gorm:"type:varchar(20);default:'pending';index"` // pending, approved, rejected

	Owner    User                `json:"owner" gorm:"foreignKey:OwnerID;references:ID"`
	Bookings []Booking           `json:"bookings,omitempty" gorm:"foreignKey:PropertyID"`
	Blocks   []AvailabilityBlock `json:"blocks,omitempty" gorm:"foreignKey:PropertyID"`
}

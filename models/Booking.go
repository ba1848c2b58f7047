package models

import (
	"time"

	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

const (
	BookingStatusNew        = "new"
	BookingStatusConfirmed  = "confirmed"
	BookingStatusCheckedIn  = "checked_in"
	BookingStatusCheckedOut = "checked_out"
	BookingStatusCancelled  = "cancelled"
)

// ActiveBookingStatuses are the statuses that occupy capacity. Cancelled and
// checked-out bookings keep their rows but never count against availability.
var ActiveBookingStatuses = []string{
	BookingStatusNew,
	BookingStatusConfirmed,
	BookingStatusCheckedIn,
}

// IsActiveBookingStatus reports whether a booking in this status still holds
// capacity.
func IsActiveBookingStatus(status string) bool {
	return slices.Contains(ActiveBookingStatuses, status)
}

// Booking models a guest stay against a property's room inventory. RoomCode is
// nil when the guest did not pick a specific room; such bookings count against
// the whole-property view only.
type Booking struct {
	gorm.Model
	PropertyID uint      `json:"propertyID" gorm:"not null;index"`
	GuestID    uint      `json:"guestID" gorm:"index"`
	RoomCode   *string   `json:"roomCode" gorm:"type:varchar(64);index"`
	CheckIn    time.Time `json:"checkIn" gorm:"not null;index"`
	CheckOut   time.Time `json:"checkOut" gorm:"not null;index"`
	NumGuests  int       `json:"numGuests" gorm:"default:1"`

	GuestName  string `json:"guestName"`
	GuestPhone string `json:"guestPhone"`
	GuestEmail string `json:"guestEmail"`

	TotalAmount float64 `json:"totalAmount"`
	Status      string  `json:"status" gorm:"type:varchar(20);default:'new';index"`

	Property *Property `json:"property,omitempty" gorm:"foreignKey:PropertyID"`
	Guest    *User     `json:"guest,omitempty" gorm:"foreignKey:GuestID"`
}

// BookingAccessCode stores the digest of the short code handed to the guest at
// admission time. The plain code is returned once and never persisted.
type BookingAccessCode struct {
	gorm.Model
	BookingID uint   `json:"bookingID" gorm:"not null;uniqueIndex"`
	CodeHash  string `json:"-" gorm:"type:char(64);uniqueIndex;not null"`

	Booking *Booking `json:"booking,omitempty" gorm:"foreignKey:BookingID"`
}

package services

import (
	"sort"
	"time"

	"stayhub-server/models"

	"gorm.io/gorm"
)

// RoomTypeOccupancy is the computed capacity bucket for one room type over a
// date window. Available counts are clamped at zero.
type RoomTypeOccupancy struct {
	TotalRooms     int `json:"totalRooms"`
	TotalBeds      int `json:"totalBeds"`
	BookedRooms    int `json:"bookedRooms"`
	BookedBeds     int `json:"bookedBeds"`
	BlockedRooms   int `json:"blockedRooms"`
	BlockedBeds    int `json:"blockedBeds"`
	AvailableRooms int `json:"availableRooms"`
	AvailableBeds  int `json:"availableBeds"`
}

type DateRange struct {
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Nights int       `json:"nights"`
}

// Conflict is one overlapping booking or block, flattened for callers that
// only need to render "what is in the way".
type Conflict struct {
	Kind     string    `json:"kind"` // booking | block
	ID       uint      `json:"id"`
	RoomCode *string   `json:"roomCode"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Status   string    `json:"status,omitempty"` // bookings only
	Source   string    `json:"source,omitempty"` // blocks only
}

type CapacityReport struct {
	DateRange    DateRange                     `json:"dateRange"`
	ByRoomType   map[string]*RoomTypeOccupancy `json:"byRoomType"`
	Summary      RoomTypeOccupancy             `json:"summary"`
	Conflicts    []Conflict                    `json:"conflicts"`
	HasConflicts bool                          `json:"hasConflicts"`
}

// CalcOptions narrow a capacity calculation. RoomCode filters the occupancy
// queries by exact code and narrows the resolved types to the code's base
// type; RoomType narrows the resolved types only. ExcludeBlockID is passed
// through to the block query for self-excluding edits.
type CalcOptions struct {
	RoomCode       string
	RoomType       string
	ExcludeBlockID uint
}

// CalculateAvailability computes the capacity report for a property over
// [start, end). It runs the same way on a plain connection (advisory reads,
// dashboards) and on an open transaction holding the property row lock (the
// authoritative admission check); the handle decides which one it is.
func CalculateAvailability(db *gorm.DB, property *models.Property, start, end time.Time, opts CalcOptions) (*CapacityReport, error) {
	types := ResolveRoomTypes(property)
	if opts.RoomType != "" {
		types = SelectRoomTypes(types, opts.RoomType)
	} else if opts.RoomCode != "" {
		types = SelectRoomTypes(types, BaseRoomCode(opts.RoomCode))
	}

	occupancy := make(map[string]*RoomTypeOccupancy, len(types))
	for _, rt := range types {
		totalBeds := rt.RoomCount * rt.BedsPerRoom
		occupancy[rt.Code] = &RoomTypeOccupancy{
			TotalRooms:     rt.RoomCount,
			TotalBeds:      totalBeds,
			AvailableRooms: rt.RoomCount,
			AvailableBeds:  totalBeds,
		}
	}

	query := OccupancyQuery{
		PropertyID:     property.ID,
		Start:          start,
		End:            end,
		ExcludeBlockID: opts.ExcludeBlockID,
	}
	if opts.RoomCode != "" {
		code := opts.RoomCode
		query.RoomCode = &code
	}

	bookings, blocks, err := FetchOccupancy(db, query)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(occupancy))
	for code := range occupancy {
		keys = append(keys, code)
	}
	sort.Strings(keys)

	report := &CapacityReport{
		DateRange: DateRange{
			Start:  start,
			End:    end,
			Nights: int(end.Sub(start) / (24 * time.Hour)),
		},
		ByRoomType: occupancy,
		Conflicts:  []Conflict{},
	}

	for _, booking := range bookings {
		// Every active booking takes one room and one bed, regardless of the
		// room type's declared bed count; blocks count their explicit
		// BedsBlocked. TODO: confirm whether a booking in a multi-bed room
		// should consume BedsPerRoom beds instead of one.
		if bucket := bucketFor(occupancy, keys, booking.RoomCode); bucket != nil {
			bucket.BookedRooms++
			bucket.BookedBeds++
		}
		report.Conflicts = append(report.Conflicts, Conflict{
			Kind:     "booking",
			ID:       booking.ID,
			RoomCode: booking.RoomCode,
			Start:    booking.CheckIn,
			End:      booking.CheckOut,
			Status:   booking.Status,
		})
	}

	for _, block := range blocks {
		if bucket := bucketFor(occupancy, keys, block.RoomCode); bucket != nil {
			beds := block.BedsBlocked
			if beds < 1 {
				beds = 1
			}
			bucket.BlockedRooms++
			bucket.BlockedBeds += beds
		}
		report.Conflicts = append(report.Conflicts, Conflict{
			Kind:     "block",
			ID:       block.ID,
			RoomCode: block.RoomCode,
			Start:    block.StartDate,
			End:      block.EndDate,
			Source:   block.Source,
		})
	}

	for _, bucket := range occupancy {
		bucket.AvailableRooms = clampZero(bucket.TotalRooms - bucket.BookedRooms - bucket.BlockedRooms)
		bucket.AvailableBeds = clampZero(bucket.TotalBeds - bucket.BookedBeds - bucket.BlockedBeds)

		report.Summary.TotalRooms += bucket.TotalRooms
		report.Summary.TotalBeds += bucket.TotalBeds
		report.Summary.BookedRooms += bucket.BookedRooms
		report.Summary.BookedBeds += bucket.BookedBeds
		report.Summary.BlockedRooms += bucket.BlockedRooms
		report.Summary.BlockedBeds += bucket.BlockedBeds
		report.Summary.AvailableRooms += bucket.AvailableRooms
		report.Summary.AvailableBeds += bucket.AvailableBeds
	}
	report.HasConflicts = len(report.Conflicts) > 0

	return report, nil
}

// bucketFor maps a booking's or block's room code onto an occupancy bucket.
// Codes that resolve to no known room type are dropped; they never grow the
// report.
func bucketFor(occupancy map[string]*RoomTypeOccupancy, sortedKeys []string, roomCode *string) *RoomTypeOccupancy {
	key := DefaultRoomCode
	if roomCode != nil && *roomCode != "" {
		key = BaseRoomCode(*roomCode)
	}
	if matched, ok := matchTypeKey(sortedKeys, key); ok {
		return occupancy[matched]
	}
	return nil
}

func clampZero(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// ConflictCheck is the result of CheckConflicts, keeping bookings and blocks
// separate for callers that message owners about each kind differently.
type ConflictCheck struct {
	HasConflicts        bool                       `json:"hasConflicts"`
	ConflictingBookings []models.Booking           `json:"conflictingBookings"`
	ConflictingBlocks   []models.AvailabilityBlock `json:"conflictingBlocks"`
}

// CheckConflicts reports the raw overlapping bookings and blocks for a window
// without computing capacity totals.
func CheckConflicts(db *gorm.DB, propertyID uint, start, end time.Time, roomCode *string, excludeBlockID uint) (*ConflictCheck, error) {
	bookings, blocks, err := FetchOccupancy(db, OccupancyQuery{
		PropertyID:     propertyID,
		Start:          start,
		End:            end,
		RoomCode:       roomCode,
		ExcludeBlockID: excludeBlockID,
	})
	if err != nil {
		return nil, err
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	if blocks == nil {
		blocks = []models.AvailabilityBlock{}
	}
	return &ConflictCheck{
		HasConflicts:        len(bookings) > 0 || len(blocks) > 0,
		ConflictingBookings: bookings,
		ConflictingBlocks:   blocks,
	}, nil
}

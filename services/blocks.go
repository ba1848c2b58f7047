package services

import (
	"errors"
	"sort"
	"time"

	"stayhub-server/models"
	"stayhub-server/storage"

	"gorm.io/gorm"
)

// BlockRequest carries the owner's input for creating or editing an
// availability block.
type BlockRequest struct {
	PropertyID  uint
	OwnerID     uint
	StartDate   time.Time
	EndDate     time.Time
	RoomCode    *string
	Source      string
	BedsBlocked int
	Notes       string
}

// CreateBlock validates the request, gates it on remaining capacity for the
// block's room type, and persists it. Owner edits are not expected to race
// the way public bookings do, so a single unlocked calculator pass is the
// gate; no property row lock is taken here.
func CreateBlock(req BlockRequest) (*models.AvailabilityBlock, error) {
	if err := validateBlockRequest(req); err != nil {
		return nil, err
	}

	property, err := findProperty(req.PropertyID)
	if err != nil {
		return nil, err
	}

	if err := gateBlockCapacity(property, req, 0); err != nil {
		return nil, err
	}

	block := models.AvailabilityBlock{
		PropertyID:  req.PropertyID,
		OwnerID:     req.OwnerID,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		RoomCode:    req.RoomCode,
		Source:      req.Source,
		BedsBlocked: blockBeds(req.BedsBlocked),
		Notes:       req.Notes,
	}
	if err := storage.DB.Create(&block).Error; err != nil {
		return nil, err
	}

	PublishAvailabilityEvent(EventBlockCreated, block.PropertyID, &block)
	return &block, nil
}

// UpdateBlock re-runs the capacity gate with the block excluded from its own
// occupancy, so edits that leave capacity untouched (say, a notes change)
// always pass.
func UpdateBlock(block *models.AvailabilityBlock, req BlockRequest) error {
	if err := validateBlockRequest(req); err != nil {
		return err
	}

	property, err := findProperty(block.PropertyID)
	if err != nil {
		return err
	}

	if err := gateBlockCapacity(property, req, block.ID); err != nil {
		return err
	}

	block.StartDate = req.StartDate
	block.EndDate = req.EndDate
	block.RoomCode = req.RoomCode
	block.Source = req.Source
	block.BedsBlocked = blockBeds(req.BedsBlocked)
	block.Notes = req.Notes
	if err := storage.DB.Save(block).Error; err != nil {
		return err
	}

	PublishAvailabilityEvent(EventBlockUpdated, block.PropertyID, block)
	return nil
}

func DeleteBlock(block *models.AvailabilityBlock) error {
	if err := storage.DB.Delete(&models.AvailabilityBlock{}, block.ID).Error; err != nil {
		return err
	}
	PublishAvailabilityEvent(EventBlockDeleted, block.PropertyID, block)
	return nil
}

func FindBlock(blockID uint) (*models.AvailabilityBlock, error) {
	var block models.AvailabilityBlock
	if err := storage.DB.First(&block, blockID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "block", ID: blockID}
		}
		return nil, err
	}
	return &block, nil
}

func validateBlockRequest(req BlockRequest) error {
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return &ValidationError{Field: "dates", Reason: "startDate and endDate are required"}
	}
	if !req.EndDate.After(req.StartDate) {
		return &ValidationError{Field: "endDate", Reason: "endDate must be after startDate"}
	}
	if req.BedsBlocked < 0 {
		return &ValidationError{Field: "bedsBlocked", Reason: "bedsBlocked cannot be negative"}
	}
	return nil
}

// gateBlockCapacity rejects a block whose bed count exceeds what is left of
// its room type over the window. Blocks without a room code apply
// property-wide and are not gated.
func gateBlockCapacity(property *models.Property, req BlockRequest, excludeBlockID uint) error {
	if req.RoomCode == nil || *req.RoomCode == "" {
		return nil
	}

	report, err := CalculateAvailability(storage.DB, property, req.StartDate, req.EndDate, CalcOptions{
		ExcludeBlockID: excludeBlockID,
	})
	if err != nil {
		return err
	}

	typeCode := BaseRoomCode(*req.RoomCode)
	matchedCode := typeCode
	availableRooms, availableBeds := 0, 0
	keys := make([]string, 0, len(report.ByRoomType))
	for code := range report.ByRoomType {
		keys = append(keys, code)
	}
	sort.Strings(keys)
	if matched, ok := matchTypeKey(keys, typeCode); ok {
		matchedCode = matched
		availableRooms = report.ByRoomType[matched].AvailableRooms
		availableBeds = report.ByRoomType[matched].AvailableBeds
	}

	beds := blockBeds(req.BedsBlocked)
	if beds > availableRooms {
		return &CapacityExceededError{
			RoomCode:       *req.RoomCode,
			RequestedRooms: beds,
			RequestedBeds:  beds,
			AvailableRooms: availableRooms,
			AvailableBeds:  availableBeds,
			Alternatives:   availableAlternatives(report, matchedCode),
		}
	}
	return nil
}

func blockBeds(requested int) int {
	if requested < 1 {
		return 1
	}
	return requested
}

func findProperty(propertyID uint) (*models.Property, error) {
	var property models.Property
	if err := storage.DB.First(&property, propertyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "property", ID: propertyID}
		}
		return nil, err
	}
	return &property, nil
}

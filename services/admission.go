package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"stayhub-server/models"
	"stayhub-server/storage"

	"gorm.io/gorm"
)

// Access codes are short enough to read over a phone; the alphabet drops the
// visually confusable 0/O/1/I pairs.
const (
	accessCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	accessCodeLength   = 8
	maxCodeAttempts    = 10
)

// BookingRequest is the admission input after the HTTP layer has done its
// field-level schema validation.
type BookingRequest struct {
	PropertyID uint
	GuestID    uint
	RoomCode   *string
	CheckIn    time.Time
	CheckOut   time.Time
	NumGuests  int
	GuestName  string
	GuestPhone string
	GuestEmail string
}

// AdmissionResult is returned on a successful admission. AccessCode is the
// plain code; it exists nowhere else, only its digest is stored.
type AdmissionResult struct {
	Booking    *models.Booking `json:"booking"`
	AccessCode string          `json:"accessCode"`
	Report     *CapacityReport `json:"report"`
}

// AdmitBooking runs the two-phase admission protocol: structural validation,
// an advisory unlocked precheck for fast feedback, then the authoritative
// check-then-write inside a single transaction holding the property row lock.
// The precheck result is never trusted; the in-lock recheck alone decides.
func AdmitBooking(req BookingRequest) (*AdmissionResult, error) {
	if err := validateBookingRequest(req); err != nil {
		return nil, err
	}

	var property models.Property
	if err := storage.DB.First(&property, req.PropertyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "property", ID: req.PropertyID}
		}
		return nil, err
	}

	if property.Capacity > 0 && req.NumGuests > property.Capacity {
		return nil, &ValidationError{
			Field:  "numGuests",
			Reason: fmt.Sprintf("property sleeps at most %d guests", property.Capacity),
		}
	}

	opts := CalcOptions{}
	if req.RoomCode != nil {
		opts.RoomCode = *req.RoomCode
	}

	// Advisory precheck outside any lock. It can be stale the moment it
	// returns; its only job is rejecting obviously-full requests cheaply.
	precheck, err := CalculateAvailability(storage.DB, &property, req.CheckIn, req.CheckOut, opts)
	if err != nil {
		return nil, err
	}
	if precheck.Summary.AvailableRooms <= 0 && precheck.Summary.AvailableBeds <= 0 {
		return nil, bookingCapacityError(storage.DB, &property, req, precheck, false)
	}

	result := &AdmissionResult{}
	txErr := storage.DB.Transaction(func(tx *gorm.DB) error {
		locked, err := storage.LockPropertyRow(tx, req.PropertyID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Resource: "property", ID: req.PropertyID}
			}
			return err
		}

		// The authoritative recheck, same math as the precheck but on the
		// locked transaction's snapshot.
		final, err := CalculateAvailability(tx, locked, req.CheckIn, req.CheckOut, opts)
		if err != nil {
			return err
		}
		if final.Summary.AvailableRooms <= 0 && final.Summary.AvailableBeds <= 0 {
			return bookingCapacityError(tx, locked, req, final, true)
		}

		nights := final.DateRange.Nights
		booking := models.Booking{
			PropertyID:  req.PropertyID,
			GuestID:     req.GuestID,
			RoomCode:    req.RoomCode,
			CheckIn:     req.CheckIn,
			CheckOut:    req.CheckOut,
			NumGuests:   req.NumGuests,
			GuestName:   req.GuestName,
			GuestPhone:  req.GuestPhone,
			GuestEmail:  req.GuestEmail,
			TotalAmount: float64(locked.NightlyPrice) * float64(nights),
			Status:      models.BookingStatusNew,
		}
		if err := tx.Create(&booking).Error; err != nil {
			return err
		}

		code, err := issueAccessCode(tx, booking.ID)
		if err != nil {
			return err
		}

		result.Booking = &booking
		result.AccessCode = code
		result.Report = final
		return nil
	})
	if txErr != nil {
		return nil, classifyAdmissionError(txErr)
	}

	PublishAvailabilityEvent(EventBookingCreated, req.PropertyID, result.Booking)
	return result, nil
}

func validateBookingRequest(req BookingRequest) error {
	if req.CheckIn.IsZero() || req.CheckOut.IsZero() {
		return &ValidationError{Field: "dates", Reason: "checkIn and checkOut are required"}
	}
	if !req.CheckOut.After(req.CheckIn) {
		return &ValidationError{Field: "checkOut", Reason: "checkOut must be after checkIn"}
	}
	if req.NumGuests < 1 {
		return &ValidationError{Field: "numGuests", Reason: "at least one guest is required"}
	}
	return nil
}

// bookingCapacityError builds the rejection payload. A booking always asks for
// one room and one bed. Alternatives come from an unfiltered report so the
// caller can offer other room types that still have capacity.
func bookingCapacityError(db *gorm.DB, property *models.Property, req BookingRequest, report *CapacityReport, becameUnavailable bool) error {
	capErr := &CapacityExceededError{
		RequestedRooms:    1,
		RequestedBeds:     1,
		AvailableRooms:    report.Summary.AvailableRooms,
		AvailableBeds:     report.Summary.AvailableBeds,
		Alternatives:      []RoomTypeAlternative{},
		BecameUnavailable: becameUnavailable,
	}
	if req.RoomCode != nil {
		capErr.RoomCode = *req.RoomCode
		if full, err := CalculateAvailability(db, property, req.CheckIn, req.CheckOut, CalcOptions{}); err == nil {
			capErr.Alternatives = availableAlternatives(full, BaseRoomCode(*req.RoomCode))
		}
	}
	return capErr
}

// availableAlternatives lists room types from a report that still have rooms,
// skipping the one the caller already asked for.
func availableAlternatives(report *CapacityReport, excludeCode string) []RoomTypeAlternative {
	alternatives := []RoomTypeAlternative{}
	for code, bucket := range report.ByRoomType {
		if strings.EqualFold(code, excludeCode) || bucket.AvailableRooms <= 0 {
			continue
		}
		alternatives = append(alternatives, RoomTypeAlternative{
			Code:           code,
			AvailableRooms: bucket.AvailableRooms,
			AvailableBeds:  bucket.AvailableBeds,
		})
	}
	sort.Slice(alternatives, func(i, j int) bool { return alternatives[i].Code < alternatives[j].Code })
	return alternatives
}

// classifyAdmissionError surfaces lock timeouts and serialization failures as
// retryable ConcurrencyAbortedError; domain errors pass through untouched.
func classifyAdmissionError(err error) error {
	var validation *ValidationError
	var notFound *NotFoundError
	var capacity *CapacityExceededError
	var exhausted *CodeGenerationExhaustedError
	if errors.As(err, &validation) || errors.As(err, &notFound) ||
		errors.As(err, &capacity) || errors.As(err, &exhausted) {
		return err
	}

	msg := err.Error()
	for _, marker := range []string{
		"could not serialize access",
		"deadlock detected",
		"lock timeout",
		"canceling statement due to lock timeout",
		"database is locked",
	} {
		if strings.Contains(msg, marker) {
			return &ConcurrencyAbortedError{Err: err}
		}
	}
	return err
}

// issueAccessCode inserts a unique access-code digest for the booking within
// the admission transaction. Collisions roll back to a savepoint and retry
// with a fresh code; the capacity check is never re-run here.
func issueAccessCode(tx *gorm.DB, bookingID uint) (string, error) {
	for attempt := 1; attempt <= maxCodeAttempts; attempt++ {
		code, err := generateAccessCode()
		if err != nil {
			return "", err
		}

		savepoint := fmt.Sprintf("access_code_%d", attempt)
		if err := tx.SavePoint(savepoint).Error; err != nil {
			return "", err
		}

		record := models.BookingAccessCode{
			BookingID: bookingID,
			CodeHash:  hashAccessCode(code),
		}
		err = tx.Create(&record).Error
		if err == nil {
			return code, nil
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if err := tx.RollbackTo(savepoint).Error; err != nil {
				return "", err
			}
			continue
		}
		return "", err
	}
	return "", &CodeGenerationExhaustedError{Attempts: maxCodeAttempts}
}

func generateAccessCode() (string, error) {
	buf := make([]byte, accessCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = accessCodeAlphabet[int(b)%len(accessCodeAlphabet)]
	}
	return string(buf), nil
}

func hashAccessCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}

// FindBooking loads a booking by primary key.
func FindBooking(id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := storage.DB.First(&booking, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "booking", ID: id}
		}
		return nil, err
	}
	return &booking, nil
}

// CancelBooking releases the capacity held by an active booking. No lock is
// needed: cancellation only frees rooms, it can never overbook.
func CancelBooking(booking *models.Booking) error {
	if !models.IsActiveBookingStatus(booking.Status) {
		return &ValidationError{
			Field:  "status",
			Reason: fmt.Sprintf("booking is already %s", booking.Status),
		}
	}

	booking.Status = models.BookingStatusCancelled
	if err := storage.DB.Save(booking).Error; err != nil {
		return err
	}

	PublishAvailabilityEvent(EventBookingCancelled, booking.PropertyID, booking)
	return nil
}

// VerifyAccessCode resolves a plain access code back to its booking, for
// check-in flows.
func VerifyAccessCode(code string) (*models.Booking, error) {
	var record models.BookingAccessCode
	err := storage.DB.Preload("Booking").
		Where("code_hash = ?", hashAccessCode(strings.ToUpper(strings.TrimSpace(code)))).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "access code", ID: 0}
		}
		return nil, err
	}
	return record.Booking, nil
}

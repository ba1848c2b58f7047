package services

import (
	"fmt"
)

// ValidationError is a client error raised before any store access.
type ValidationError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// NotFoundError is returned when a property or block does not exist.
type NotFoundError struct {
	Resource string `json:"resource"`
	ID       uint   `json:"id"`
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

// RoomTypeAlternative names another room type that still has capacity, so a
// rejected caller can be offered something bookable.
type RoomTypeAlternative struct {
	Code           string `json:"code"`
	AvailableRooms int    `json:"availableRooms"`
	AvailableBeds  int    `json:"availableBeds"`
}

// CapacityExceededError carries the capacity diagnostics for a rejected
// booking or block. Precheck, final check and the block gate all raise it the
// same way; only the final check inside the property row lock is
// authoritative, and that instance sets BecameUnavailable when the advisory
// precheck had passed moments earlier. That flow is expected under
// concurrency, not a bug.
type CapacityExceededError struct {
	RoomCode          string                `json:"roomCode,omitempty"`
	RequestedRooms    int                   `json:"requestedRooms"`
	RequestedBeds     int                   `json:"requestedBeds"`
	AvailableRooms    int                   `json:"availableRooms"`
	AvailableBeds     int                   `json:"availableBeds"`
	Alternatives      []RoomTypeAlternative `json:"alternatives"`
	BecameUnavailable bool                  `json:"becameUnavailable"`
}

func (e *CapacityExceededError) Error() string {
	if e.BecameUnavailable {
		return "capacity became unavailable during processing"
	}
	return fmt.Sprintf("capacity exceeded: requested %d rooms, %d available", e.RequestedRooms, e.AvailableRooms)
}

// ConcurrencyAbortedError wraps a lock timeout or serialization failure. The
// caller may retry; capacity may well be there on the next attempt.
type ConcurrencyAbortedError struct {
	Err error
}

func (e *ConcurrencyAbortedError) Error() string {
	return "booking attempt aborted by concurrent activity: " + e.Err.Error()
}

func (e *ConcurrencyAbortedError) Unwrap() error { return e.Err }

// CodeGenerationExhaustedError means every generated access code collided
// with an existing one. It deliberately carries no codes.
type CodeGenerationExhaustedError struct {
	Attempts int
}

func (e *CodeGenerationExhaustedError) Error() string {
	return fmt.Sprintf("could not generate a unique access code in %d attempts", e.Attempts)
}

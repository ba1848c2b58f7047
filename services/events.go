package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"stayhub-server/storage"

	"github.com/google/uuid"
)

// Event kinds published to the availability channel.
const (
	EventBookingCreated   = "booking.created"
	EventBookingCancelled = "booking.cancelled"
	EventBlockCreated     = "block.created"
	EventBlockUpdated     = "block.updated"
	EventBlockDeleted     = "block.deleted"
)

const availabilityChannel = "availability-events"

var eventContext = context.Background()

// AvailabilityEvent is the fire-and-forget payload pushed to subscribers
// (dashboards, channel sync workers) whenever capacity changes.
type AvailabilityEvent struct {
	ID         string      `json:"id"`
	Kind       string      `json:"kind"`
	PropertyID uint        `json:"propertyID"`
	Entity     interface{} `json:"entity"`
	OccurredAt time.Time   `json:"occurredAt"`
}

// PublishAvailabilityEvent pushes an event to the Redis channel. Delivery is
// best-effort: failures are logged and never bubble up into the write path
// that triggered them.
func PublishAvailabilityEvent(kind string, propertyID uint, entity interface{}) {
	if storage.Redis == nil {
		return
	}

	event := AvailabilityEvent{
		ID:         uuid.NewString(),
		Kind:       kind,
		PropertyID: propertyID,
		Entity:     entity,
		OccurredAt: time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("availability event %s for property %d not published: %v", kind, propertyID, err)
		return
	}

	if err := storage.Redis.Publish(eventContext, availabilityChannel, payload).Err(); err != nil {
		log.Printf("availability event %s for property %d not published: %v", kind, propertyID, err)
	}
}

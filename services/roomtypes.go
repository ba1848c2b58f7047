package services

import (
	"encoding/json"
	"strconv"
	"strings"

	"stayhub-server/models"
)

// DefaultRoomCode is the synthetic room type used when a property declares no
// usable room inventory, and the bucket for bookings without a room code.
const DefaultRoomCode = "default"

// Room specs written before the inventory editor existed carry no bed counts;
// two beds per room is the capacity assumption for those defaults.
const defaultFallbackBeds = 2

// RoomType is the normalized view of one entry in a property's room spec.
// Nothing outside this file reads the raw spec shape.
type RoomType struct {
	Code        string `json:"code"`
	BedsPerRoom int    `json:"bedsPerRoom"`
	RoomCount   int    `json:"roomCount"`
}

// ResolveRoomTypes normalizes a property's room specification. The spec may be
// a JSON array of room-type objects, an object wrapping such an array under
// "rooms", or absent. Each entry may use either historical field naming:
// "code" or "roomCode" for the code, "beds" for beds per room, and "rooms" or
// "roomsCount" for the room count. Malformed or empty specs degrade to a
// single default room type sized from TotalBedrooms; this never fails.
func ResolveRoomTypes(property *models.Property) []RoomType {
	types := parseRoomSpec(property.RoomSpec)
	if len(types) == 0 {
		roomCount := property.TotalBedrooms
		if roomCount < 1 {
			roomCount = 1
		}
		return []RoomType{{
			Code:        DefaultRoomCode,
			BedsPerRoom: defaultFallbackBeds,
			RoomCount:   roomCount,
		}}
	}
	return types
}

func parseRoomSpec(raw []byte) []RoomType {
	if len(raw) == 0 {
		return nil
	}

	var entries []map[string]interface{}
	if err := json.Unmarshal(raw, &entries); err != nil {
		var wrapper struct {
			Rooms []map[string]interface{} `json:"rooms"`
		}
		if err := json.Unmarshal(raw, &wrapper); err != nil {
			return nil
		}
		entries = wrapper.Rooms
	}

	var types []RoomType
	for _, entry := range entries {
		code := specString(entry, "code", "roomCode")
		if code == "" {
			continue
		}
		beds := specInt(entry, "beds")
		if beds < 1 {
			beds = 1
		}
		rooms := specInt(entry, "rooms", "roomsCount")
		if rooms < 1 {
			rooms = 1
		}
		types = append(types, RoomType{Code: code, BedsPerRoom: beds, RoomCount: rooms})
	}
	return types
}

func specString(entry map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if v, ok := entry[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

func specInt(entry map[string]interface{}, keys ...string) int {
	for _, key := range keys {
		switch v := entry[key].(type) {
		case float64:
			return int(v)
		case string:
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
	}
	return 0
}

// SelectRoomTypes narrows resolved room types down to a single requested code:
// exact match first, then a case-insensitive scan, then an attempt to read the
// code as a numeric index into the list. When nothing matches, every declared
// room type is returned so a mismatched filter never reports zero capacity.
func SelectRoomTypes(types []RoomType, requested string) []RoomType {
	if requested == "" {
		return types
	}
	for _, rt := range types {
		if rt.Code == requested {
			return []RoomType{rt}
		}
	}
	for _, rt := range types {
		if strings.EqualFold(rt.Code, requested) {
			return []RoomType{rt}
		}
	}
	if idx, err := strconv.Atoi(requested); err == nil && idx >= 0 && idx < len(types) {
		return []RoomType{types[idx]}
	}
	return types
}

// BaseRoomCode strips a trailing "-<digits>" room number from a code, so that
// "DELUXE-3" counts against the "DELUXE" type. Numbered physical rooms within
// a type are interchangeable capacity units.
func BaseRoomCode(code string) string {
	i := strings.LastIndexByte(code, '-')
	if i <= 0 || i == len(code)-1 {
		return code
	}
	for _, r := range code[i+1:] {
		if r < '0' || r > '9' {
			return code
		}
	}
	return code[:i]
}

// matchTypeKey resolves a requested code against known occupancy bucket keys:
// exact key first, then a case-insensitive scan. Shared by every call site
// that filters by room code or type so the lookup rules cannot drift.
func matchTypeKey(keys []string, requested string) (string, bool) {
	for _, k := range keys {
		if k == requested {
			return k, true
		}
	}
	for _, k := range keys {
		if strings.EqualFold(k, requested) {
			return k, true
		}
	}
	return "", false
}

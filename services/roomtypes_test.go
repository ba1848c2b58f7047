package services

import (
	"testing"

	"stayhub-server/models"

	"gorm.io/datatypes"
)

func TestResolveRoomTypesArraySpec(t *testing.T) {
	property := &models.Property{
		RoomSpec: datatypes.JSON(`[
			{"code": "STD", "beds": 2, "rooms": 3},
			{"roomCode": "DELUXE", "beds": 3, "roomsCount": 2}
		]`),
	}

	types := ResolveRoomTypes(property)
	if len(types) != 2 {
		t.Fatalf("expected 2 room types, got %d", len(types))
	}
	if types[0].Code != "STD" || types[0].BedsPerRoom != 2 || types[0].RoomCount != 3 {
		t.Errorf("unexpected first type: %+v", types[0])
	}
	if types[1].Code != "DELUXE" || types[1].BedsPerRoom != 3 || types[1].RoomCount != 2 {
		t.Errorf("roomCode/roomsCount aliases not honored: %+v", types[1])
	}
}

func TestResolveRoomTypesWrapperObject(t *testing.T) {
	property := &models.Property{
		RoomSpec: datatypes.JSON(`{"rooms": [{"code": "A"}]}`),
	}

	types := ResolveRoomTypes(property)
	if len(types) != 1 {
		t.Fatalf("expected 1 room type, got %d", len(types))
	}
	if types[0].Code != "A" || types[0].BedsPerRoom != 1 || types[0].RoomCount != 1 {
		t.Errorf("missing counts should default to 1: %+v", types[0])
	}
}

func TestResolveRoomTypesDefaultFallback(t *testing.T) {
	cases := []struct {
		name          string
		spec          string
		totalBedrooms int
		wantRooms     int
	}{
		{"absent spec", "", 3, 3},
		{"malformed spec", `not json at all`, 2, 2},
		{"array of unusable entries", `[{"beds": 2}]`, 4, 4},
		{"zero bedrooms still yields one room", "", 0, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			property := &models.Property{TotalBedrooms: tc.totalBedrooms}
			if tc.spec != "" {
				property.RoomSpec = datatypes.JSON(tc.spec)
			}

			types := ResolveRoomTypes(property)
			if len(types) != 1 {
				t.Fatalf("expected single default type, got %d", len(types))
			}
			rt := types[0]
			if rt.Code != DefaultRoomCode {
				t.Errorf("expected default code, got %q", rt.Code)
			}
			if rt.RoomCount != tc.wantRooms {
				t.Errorf("expected %d rooms, got %d", tc.wantRooms, rt.RoomCount)
			}
			if rt.BedsPerRoom != defaultFallbackBeds {
				t.Errorf("expected %d beds per room, got %d", defaultFallbackBeds, rt.BedsPerRoom)
			}
		})
	}
}

func TestSelectRoomTypes(t *testing.T) {
	types := []RoomType{
		{Code: "STD", BedsPerRoom: 2, RoomCount: 3},
		{Code: "DELUXE", BedsPerRoom: 3, RoomCount: 2},
	}

	exact := SelectRoomTypes(types, "DELUXE")
	if len(exact) != 1 || exact[0].Code != "DELUXE" {
		t.Errorf("exact match failed: %+v", exact)
	}

	insensitive := SelectRoomTypes(types, "deluxe")
	if len(insensitive) != 1 || insensitive[0].Code != "DELUXE" {
		t.Errorf("case-insensitive match failed: %+v", insensitive)
	}

	byIndex := SelectRoomTypes(types, "1")
	if len(byIndex) != 1 || byIndex[0].Code != "DELUXE" {
		t.Errorf("numeric index match failed: %+v", byIndex)
	}

	// A filter that matches nothing must fall back to every declared type,
	// never to an empty (zero-capacity) view.
	all := SelectRoomTypes(types, "PENTHOUSE")
	if len(all) != len(types) {
		t.Errorf("unmatched filter should return all types, got %+v", all)
	}

	empty := SelectRoomTypes(types, "")
	if len(empty) != len(types) {
		t.Errorf("empty filter should return all types, got %+v", empty)
	}
}

func TestBaseRoomCode(t *testing.T) {
	cases := map[string]string{
		"DELUXE-3":  "DELUXE",
		"DELUXE-12": "DELUXE",
		"DELUXE":    "DELUXE",
		"A-B":       "A-B",
		"STD-":      "STD-",
		"-1":        "-1",
		"default":   "default",
	}
	for input, want := range cases {
		if got := BaseRoomCode(input); got != want {
			t.Errorf("BaseRoomCode(%q) = %q, want %q", input, got, want)
		}
	}
}

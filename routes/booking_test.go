package routes

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"stayhub-server/models"
)

func postJSON(app http.Handler, url, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, url, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	return resp
}

func TestCreateBookingRequiresToken(t *testing.T) {
	db := setupTestDB(t)
	app := buildTestApp()

	property := seedProperty(t, db, 1, "")

	resp := postJSON(app, fmt.Sprintf("/api/property/%d/bookings", property.ID), "",
		`{"checkIn": "2026-11-01", "checkOut": "2026-11-03", "numGuests": 2, "guestName": "Guest"}`)
	if resp.Code == http.StatusCreated {
		t.Fatalf("expected rejection without token, got %d", resp.Code)
	}
}

func TestCreateBookingEqualDatesRejected(t *testing.T) {
	db := setupTestDB(t)
	app := buildTestApp()

	property := seedProperty(t, db, 1, `[{"code": "STD", "beds": 1, "rooms": 2}]`)
	token := signTestToken(7, "guest")

	resp := postJSON(app, fmt.Sprintf("/api/property/%d/bookings", property.ID), token,
		`{"checkIn": "2026-11-01", "checkOut": "2026-11-01", "numGuests": 2, "guestName": "Guest"}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for equal dates, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestCreateBookingSucceedsAndIssuesCode(t *testing.T) {
	db := setupTestDB(t)
	app := buildTestApp()

	property := seedProperty(t, db, 1, `[{"code": "STD", "beds": 1, "rooms": 2}]`)
	token := signTestToken(7, "guest")

	resp := postJSON(app, fmt.Sprintf("/api/property/%d/bookings", property.ID), token,
		`{"roomCode": "STD", "checkIn": "2026-11-01", "checkOut": "2026-11-04", "numGuests": 2, "guestName": "Aicha Sall", "guestEmail": "aicha@example.com"}`)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var payload struct {
		Booking    models.Booking `json:"booking"`
		AccessCode string         `json:"accessCode"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatal(err)
	}
	if payload.Booking.ID == 0 || payload.Booking.GuestID != 7 {
		t.Errorf("unexpected booking: %+v", payload.Booking)
	}
	if len(payload.AccessCode) != 8 {
		t.Errorf("expected 8-char access code, got %q", payload.AccessCode)
	}

	var count int64
	db.Model(&models.Booking{}).Where("property_id = ?", property.ID).Count(&count)
	if count != 1 {
		t.Errorf("expected one persisted booking, got %d", count)
	}
}

func TestCreateBookingRejectedWhenPropertyNotApproved(t *testing.T) {
	db := setupTestDB(t)
	app := buildTestApp()

	property := seedProperty(t, db, 1, "")
	if err := db.Model(property).Update("status", models.PropertyStatusPending).Error; err != nil {
		t.Fatal(err)
	}
	token := signTestToken(7, "guest")

	resp := postJSON(app, fmt.Sprintf("/api/property/%d/bookings", property.ID), token,
		`{"checkIn": "2026-11-01", "checkOut": "2026-11-03", "numGuests": 2, "guestName": "Guest"}`)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for unapproved property, got %d", resp.Code)
	}
}

func TestCreateBlockRequiresOwnerRole(t *testing.T) {
	db := setupTestDB(t)
	app := buildTestApp()

	property := seedProperty(t, db, 1, `[{"code": "STD", "beds": 1, "rooms": 2}]`)

	guestToken := signTestToken(1, "guest")
	resp := postJSON(app, fmt.Sprintf("/api/property/%d/blocks", property.ID), guestToken,
		`{"startDate": "2026-11-01", "endDate": "2026-11-05", "roomCode": "STD-1", "bedsBlocked": 1}`)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for guest role, got %d", resp.Code)
	}

	ownerToken := signTestToken(1, "owner")
	resp = postJSON(app, fmt.Sprintf("/api/property/%d/blocks", property.ID), ownerToken,
		`{"startDate": "2026-11-01", "endDate": "2026-11-05", "roomCode": "STD-1", "bedsBlocked": 1}`)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 for owner, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestCancelBookingOwnershipAndStatus(t *testing.T) {
	db := setupTestDB(t)
	app := buildTestApp()

	property := seedProperty(t, db, 1, `[{"code": "STD", "beds": 1, "rooms": 2}]`)
	token := signTestToken(7, "guest")

	resp := postJSON(app, fmt.Sprintf("/api/property/%d/bookings", property.ID), token,
		`{"checkIn": "2026-11-01", "checkOut": "2026-11-04", "numGuests": 2, "guestName": "Aicha Sall"}`)
	if resp.Code != http.StatusCreated {
		t.Fatalf("seed booking failed: %d: %s", resp.Code, resp.Body.String())
	}
	var payload struct {
		Booking models.Booking `json:"booking"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatal(err)
	}

	cancel := func(tok string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/booking/%d", payload.Booking.ID), nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		rec := httptest.NewRecorder()
		app.ServeHTTP(rec, req)
		return rec
	}

	// Another guest cannot cancel someone else's booking.
	if rec := cancel(signTestToken(9, "guest")); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for foreign guest, got %d", rec.Code)
	}

	if rec := cancel(token); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for own booking, got %d: %s", rec.Code, rec.Body.String())
	}

	var persisted models.Booking
	if err := db.First(&persisted, payload.Booking.ID).Error; err != nil {
		t.Fatal(err)
	}
	if persisted.Status != models.BookingStatusCancelled {
		t.Errorf("status = %q, want cancelled", persisted.Status)
	}

	// A second cancel is rejected as a validation error.
	if rec := cancel(token); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 on double cancel, got %d", rec.Code)
	}
}

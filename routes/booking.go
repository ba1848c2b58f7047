package routes

import (
	"time"

	"stayhub-server/models"
	"stayhub-server/services"
	"stayhub-server/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

type CreateBookingInput struct {
	RoomCode   string `json:"roomCode"`
	CheckIn    string `json:"checkIn" validate:"required"`
	CheckOut   string `json:"checkOut" validate:"required"`
	NumGuests  int    `json:"numGuests" validate:"required,gte=1,lte=32"`
	GuestName  string `json:"guestName" validate:"required,max=256"`
	GuestPhone string `json:"guestPhone" validate:"max=32"`
	GuestEmail string `json:"guestEmail" validate:"omitempty,email"`
}

type VerifyAccessCodeInput struct {
	Code string `json:"code" validate:"required,len=8"`
}

// CreateBooking admits a public booking against the property's inventory. The
// engine owns the capacity decision; this handler only does structural
// parsing and the bookable-status gate.
func CreateBooking(ctx iris.Context) {
	userID := ctx.Values().Get("userID").(uint)

	var input CreateBookingInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	checkIn, inErr := time.Parse(dateLayout, input.CheckIn)
	checkOut, outErr := time.Parse(dateLayout, input.CheckOut)
	if inErr != nil || outErr != nil {
		utils.JSONError(ctx, iris.StatusBadRequest, "invalid_dates", "checkIn and checkOut are required as YYYY-MM-DD")
		return
	}
	if !checkOut.After(checkIn) {
		writeServiceError(ctx, &services.ValidationError{Field: "checkOut", Reason: "checkOut must be after checkIn"})
		return
	}

	property := findPropertyByParam(ctx)
	if property == nil {
		return
	}
	if property.Status != models.PropertyStatusApproved {
		utils.JSONError(ctx, iris.StatusForbidden, "property_not_bookable", "This property is not accepting bookings")
		return
	}

	request := services.BookingRequest{
		PropertyID: property.ID,
		GuestID:    userID,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
		NumGuests:  input.NumGuests,
		GuestName:  input.GuestName,
		GuestPhone: input.GuestPhone,
		GuestEmail: input.GuestEmail,
	}
	if input.RoomCode != "" {
		request.RoomCode = &input.RoomCode
	}

	result, err := services.AdmitBooking(request)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{
		"booking":    result.Booking,
		"accessCode": result.AccessCode,
		"report":     result.Report,
	})
}

// CancelBooking cancels a guest's own booking, freeing its capacity. Admins
// can cancel any booking.
func CancelBooking(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, iris.StatusBadRequest, "invalid_id", "booking id must be numeric")
		return
	}

	booking, findErr := services.FindBooking(id)
	if findErr != nil {
		writeServiceError(ctx, findErr)
		return
	}

	claims := jwt.Get(ctx).(*utils.AccessToken)
	if booking.GuestID != claims.ID && claims.Role != "admin" {
		ctx.StatusCode(iris.StatusForbidden)
		return
	}

	before := *booking
	if err := services.CancelBooking(booking); err != nil {
		writeServiceError(ctx, err)
		return
	}

	utils.Audit(ctx, "booking.cancel", "booking", booking.ID, before, booking)
	ctx.JSON(iris.Map{"booking": booking})
}

// VerifyBookingAccessCode resolves a guest's access code at check-in.
func VerifyBookingAccessCode(ctx iris.Context) {
	var input VerifyAccessCodeInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	booking, err := services.VerifyAccessCode(input.Code)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}

	ctx.JSON(iris.Map{"booking": booking})
}

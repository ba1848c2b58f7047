package routes

import (
	"strconv"
	"time"

	"stayhub-server/models"
	"stayhub-server/services"
	"stayhub-server/storage"
	"stayhub-server/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

const dateLayout = "2006-01-02"

// parseDateWindow reads the start/end query parameters. Both are required and
// end must come after start; dates are day-granular like the owner dashboard.
func parseDateWindow(ctx iris.Context) (time.Time, time.Time, bool) {
	start, startErr := time.Parse(dateLayout, ctx.URLParam("start"))
	end, endErr := time.Parse(dateLayout, ctx.URLParam("end"))
	if startErr != nil || endErr != nil {
		utils.JSONError(ctx, iris.StatusBadRequest, "invalid_dates", "start and end are required as YYYY-MM-DD")
		return time.Time{}, time.Time{}, false
	}
	if !end.After(start) {
		utils.JSONError(ctx, iris.StatusBadRequest, "invalid_dates", "end must be after start")
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

func findPropertyByParam(ctx iris.Context) *models.Property {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, iris.StatusBadRequest, "invalid_id", "property id must be numeric")
		return nil
	}

	var property models.Property
	result := storage.DB.Find(&property, id)
	if result.Error != nil {
		utils.CreateInternalServerError(ctx)
		return nil
	}
	if result.RowsAffected == 0 {
		utils.CreateNotFound(ctx)
		return nil
	}
	return &property
}

// GetPropertyAvailability serves the capacity report for dashboards and the
// public booking screen. Read-only and lock-free; the numbers may be stale
// relative to a booking committed a moment later.
func GetPropertyAvailability(ctx iris.Context) {
	property := findPropertyByParam(ctx)
	if property == nil {
		return
	}

	start, end, ok := parseDateWindow(ctx)
	if !ok {
		return
	}

	report, err := services.CalculateAvailability(storage.DB, property, start, end, services.CalcOptions{
		RoomCode: ctx.URLParam("roomCode"),
		RoomType: ctx.URLParam("roomType"),
	})
	if err != nil {
		writeServiceError(ctx, err)
		return
	}

	ctx.JSON(report)
}

// CheckPropertyConflicts returns the raw overlapping bookings and blocks for
// a window, used by the owner dashboard before creating a block. The rows
// carry guest contact details, so only the property's owner (or an admin)
// may read them.
func CheckPropertyConflicts(ctx iris.Context) {
	property := findPropertyByParam(ctx)
	if property == nil {
		return
	}

	claims := jwt.Get(ctx).(*utils.AccessToken)
	if property.OwnerID != claims.ID && claims.Role != "admin" {
		ctx.StatusCode(iris.StatusForbidden)
		return
	}

	start, end, ok := parseDateWindow(ctx)
	if !ok {
		return
	}

	var roomCode *string
	if code := ctx.URLParam("roomCode"); code != "" {
		roomCode = &code
	}
	var excludeBlockID uint
	if raw := ctx.URLParam("excludeBlockID"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			utils.JSONError(ctx, iris.StatusBadRequest, "invalid_id", "excludeBlockID must be numeric")
			return
		}
		excludeBlockID = uint(parsed)
	}

	check, err := services.CheckConflicts(storage.DB, property.ID, start, end, roomCode, excludeBlockID)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}

	ctx.JSON(check)
}

// GetPropertyRoomTypes exposes the normalized room inventory, mostly for the
// owner dashboard's room pickers.
func GetPropertyRoomTypes(ctx iris.Context) {
	property := findPropertyByParam(ctx)
	if property == nil {
		return
	}

	ctx.JSON(iris.Map{"roomTypes": services.ResolveRoomTypes(property)})
}

package routes

import (
	"encoding/json"

	"stayhub-server/models"
	"stayhub-server/storage"
	"stayhub-server/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"gorm.io/datatypes"
)

type CreatePropertyInput struct {
	Title         string          `json:"title" validate:"required,max=256"`
	Description   string          `json:"description"`
	AddressLine1  string          `json:"addressLine1" validate:"max=512"`
	City          string          `json:"city" validate:"required,max=256"`
	Country       string          `json:"country" validate:"required,max=128"`
	Lat           float32         `json:"lat"`
	Lng           float32         `json:"lng"`
	Capacity      int             `json:"capacity" validate:"required,gte=1,lte=64"`
	TotalBedrooms int             `json:"totalBedrooms" validate:"gte=0,lte=64"`
	RoomSpec      json.RawMessage `json:"roomSpec"`
	NightlyPrice  float32         `json:"nightlyPrice" validate:"gte=0"`
	Currency      string          `json:"currency" validate:"max=8"`
	CheckInTime   string          `json:"checkInTime"`
	CheckOutTime  string          `json:"checkOutTime"`
}

// CreateProperty registers a new listing. The room spec is stored as the owner
// sent it; normalization happens at read time in the resolver so older spec
// shapes keep working.
func CreateProperty(ctx iris.Context) {
	claims := jwt.Get(ctx).(*utils.AccessToken)

	var input CreatePropertyInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	property := models.Property{
		OwnerID:       claims.ID,
		Title:         input.Title,
		Description:   input.Description,
		AddressLine1:  input.AddressLine1,
		City:          input.City,
		Country:       input.Country,
		Lat:           input.Lat,
		Lng:           input.Lng,
		Capacity:      input.Capacity,
		TotalBedrooms: input.TotalBedrooms,
		NightlyPrice:  input.NightlyPrice,
		Currency:      input.Currency,
		CheckInTime:   input.CheckInTime,
		CheckOutTime:  input.CheckOutTime,
		Status:        models.PropertyStatusPending,
	}
	if len(input.RoomSpec) > 0 {
		property.RoomSpec = datatypes.JSON(input.RoomSpec)
	}

	if err := storage.DB.Create(&property).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(property)
}

func GetProperty(ctx iris.Context) {
	property := findPropertyByParam(ctx)
	if property == nil {
		return
	}

	ctx.JSON(property)
}

type UpdatePropertyStatusInput struct {
	Status string `json:"status" validate:"required,oneof=pending approved rejected"`
}

// UpdatePropertyStatus is the admin moderation gate; only approved properties
// accept public bookings.
func UpdatePropertyStatus(ctx iris.Context) {
	property := findPropertyByParam(ctx)
	if property == nil {
		return
	}

	claims := jwt.Get(ctx).(*utils.AccessToken)
	if claims.Role != "admin" {
		ctx.StatusCode(iris.StatusForbidden)
		return
	}

	var input UpdatePropertyStatusInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	before := property.Status
	property.Status = input.Status
	if err := storage.DB.Model(property).Update("status", input.Status).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.Audit(ctx, "property.status", "property", property.ID, iris.Map{"status": before}, iris.Map{"status": property.Status})
	ctx.JSON(property)
}

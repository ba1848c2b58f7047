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

type BlockInput struct {
	StartDate   string `json:"startDate" validate:"required"`
	EndDate     string `json:"endDate" validate:"required"`
	RoomCode    string `json:"roomCode"`
	Source      string `json:"source" validate:"max=128"`
	BedsBlocked int    `json:"bedsBlocked" validate:"gte=0,lte=64"`
	Notes       string `json:"notes" validate:"max=1024"`
}

func (input BlockInput) toRequest(propertyID, ownerID uint, ctx iris.Context) (services.BlockRequest, bool) {
	start, startErr := time.Parse(dateLayout, input.StartDate)
	end, endErr := time.Parse(dateLayout, input.EndDate)
	if startErr != nil || endErr != nil {
		utils.JSONError(ctx, iris.StatusBadRequest, "invalid_dates", "startDate and endDate are required as YYYY-MM-DD")
		return services.BlockRequest{}, false
	}

	request := services.BlockRequest{
		PropertyID:  propertyID,
		OwnerID:     ownerID,
		StartDate:   start,
		EndDate:     end,
		Source:      input.Source,
		BedsBlocked: input.BedsBlocked,
		Notes:       input.Notes,
	}
	if input.RoomCode != "" {
		code := input.RoomCode
		request.RoomCode = &code
	}
	return request, true
}

func ListBlocks(ctx iris.Context) {
	property := findPropertyByParam(ctx)
	if property == nil {
		return
	}

	claims := jwt.Get(ctx).(*utils.AccessToken)
	if property.OwnerID != claims.ID && claims.Role != "admin" {
		ctx.StatusCode(iris.StatusForbidden)
		return
	}

	page, err := strconv.Atoi(ctx.URLParamDefault("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	perPage, err := strconv.Atoi(ctx.URLParamDefault("perPage", "50"))
	if err != nil || perPage < 1 || perPage > 200 {
		perPage = 50
	}

	var total int64
	if err := storage.DB.Model(&models.AvailabilityBlock{}).Where("property_id = ?", property.ID).Count(&total).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var blocks []models.AvailabilityBlock
	if err := storage.DB.Where("property_id = ?", property.ID).
		Order("start_date").Limit(perPage).Offset((page - 1) * perPage).
		Find(&blocks).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.JSONPage(ctx, blocks, page, perPage, total)
}

func CreateBlock(ctx iris.Context) {
	property := findPropertyByParam(ctx)
	if property == nil {
		return
	}

	claims := jwt.Get(ctx).(*utils.AccessToken)
	if property.OwnerID != claims.ID && claims.Role != "admin" {
		ctx.StatusCode(iris.StatusForbidden)
		return
	}

	var input BlockInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	request, ok := input.toRequest(property.ID, claims.ID, ctx)
	if !ok {
		return
	}

	block, err := services.CreateBlock(request)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}

	utils.Audit(ctx, "block.create", "availability_block", block.ID, nil, block)
	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(block)
}

func UpdateBlock(ctx iris.Context) {
	block := findBlockByParam(ctx)
	if block == nil {
		return
	}

	claims := jwt.Get(ctx).(*utils.AccessToken)
	if block.OwnerID != claims.ID && claims.Role != "admin" {
		ctx.StatusCode(iris.StatusForbidden)
		return
	}

	var input BlockInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	request, ok := input.toRequest(block.PropertyID, block.OwnerID, ctx)
	if !ok {
		return
	}

	before := *block
	if err := services.UpdateBlock(block, request); err != nil {
		writeServiceError(ctx, err)
		return
	}

	utils.Audit(ctx, "block.update", "availability_block", block.ID, before, block)
	ctx.JSON(block)
}

func DeleteBlock(ctx iris.Context) {
	block := findBlockByParam(ctx)
	if block == nil {
		return
	}

	claims := jwt.Get(ctx).(*utils.AccessToken)
	if block.OwnerID != claims.ID && claims.Role != "admin" {
		ctx.StatusCode(iris.StatusForbidden)
		return
	}

	if err := services.DeleteBlock(block); err != nil {
		writeServiceError(ctx, err)
		return
	}

	utils.Audit(ctx, "block.delete", "availability_block", block.ID, block, nil)
	ctx.StatusCode(iris.StatusNoContent)
}

func findBlockByParam(ctx iris.Context) *models.AvailabilityBlock {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.JSONError(ctx, iris.StatusBadRequest, "invalid_id", "block id must be numeric")
		return nil
	}

	block, findErr := services.FindBlock(id)
	if findErr != nil {
		writeServiceError(ctx, findErr)
		return nil
	}
	return block
}

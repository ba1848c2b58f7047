package routes

import (
	"errors"

	"stayhub-server/services"
	"stayhub-server/utils"

	"github.com/kataras/iris/v12"
)

// writeServiceError maps the engine's error taxonomy onto HTTP responses.
// Capacity rejections keep their full diagnostic payload so clients can offer
// alternative room types.
func writeServiceError(ctx iris.Context, err error) {
	var validation *services.ValidationError
	if errors.As(err, &validation) {
		ctx.StatusCode(iris.StatusBadRequest)
		ctx.JSON(iris.Map{
			"error":   "validation_error",
			"field":   validation.Field,
			"message": validation.Reason,
		})
		return
	}

	var notFound *services.NotFoundError
	if errors.As(err, &notFound) {
		ctx.StatusCode(iris.StatusNotFound)
		ctx.JSON(iris.Map{
			"error":   "not_found",
			"message": notFound.Error(),
		})
		return
	}

	var capacity *services.CapacityExceededError
	if errors.As(err, &capacity) {
		message := "Not enough capacity for the requested dates"
		if capacity.BecameUnavailable {
			message = "The property became unavailable while your booking was processed"
		}
		ctx.StatusCode(iris.StatusConflict)
		ctx.JSON(iris.Map{
			"error":    "capacity_exceeded",
			"message":  message,
			"capacity": capacity,
		})
		return
	}

	var aborted *services.ConcurrencyAbortedError
	if errors.As(err, &aborted) {
		ctx.StatusCode(iris.StatusServiceUnavailable)
		ctx.JSON(iris.Map{
			"error":     "concurrency_aborted",
			"message":   "The booking attempt was aborted by concurrent activity, please retry",
			"retryable": true,
		})
		return
	}

	var exhausted *services.CodeGenerationExhaustedError
	if errors.As(err, &exhausted) {
		utils.CreateInternalServerError(ctx)
		return
	}

	utils.CreateInternalServerError(ctx)
}

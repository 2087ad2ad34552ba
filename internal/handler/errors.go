package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/cardwise/coach_api/internal/utils"
)

// respondError maps service errors onto the response envelope.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, utils.ErrNotFound):
		utils.Error(c, 404, "NOT_FOUND", err.Error())
	case errors.Is(err, utils.ErrInvalidInput):
		utils.Error(c, 400, "INVALID_INPUT", err.Error())
	case errors.Is(err, utils.ErrModelUnavailable):
		utils.Error(c, 503, "MODEL_UNAVAILABLE", err.Error())
	default:
		utils.Error(c, 500, "INTERNAL_ERROR", "Internal server error")
	}
}

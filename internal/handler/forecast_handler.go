package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cardwise/coach_api/internal/service"
	"github.com/cardwise/coach_api/internal/utils"
)

// ForecastHandler handles earnings forecast HTTP endpoints.
type ForecastHandler struct {
	forecastService *service.ForecastService
}

// NewForecastHandler constructs a ForecastHandler.
func NewForecastHandler(forecastService *service.ForecastService) *ForecastHandler {
	return &ForecastHandler{forecastService: forecastService}
}

// GetForecast handles GET /v1/forecast/:agentId
func (h *ForecastHandler) GetForecast(c *gin.Context) {
	months := 0
	if raw := c.Query("months"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 12 {
			utils.Error(c, 400, "INVALID_INPUT", "months must be between 1 and 12")
			return
		}
		months = n
	}

	forecast, err := h.forecastService.GenerateForecast(c.Param("agentId"), months)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, 200, "Forecast generated", forecast)
}

// GetOptimization handles GET /v1/forecast/:agentId/optimization
func (h *ForecastHandler) GetOptimization(c *gin.Context) {
	suggestions, err := h.forecastService.OptimizationSuggestions(c.Param("agentId"))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, 200, "Optimization suggestions generated", gin.H{
		"suggestions": suggestions,
		"total":       len(suggestions),
	})
}

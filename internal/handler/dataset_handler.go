package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/cardwise/coach_api/internal/generator"
	"github.com/cardwise/coach_api/internal/service"
	"github.com/cardwise/coach_api/internal/utils"
)

// DatasetHandler handles admin dataset management endpoints.
type DatasetHandler struct {
	datasetService *service.DatasetService
}

// NewDatasetHandler constructs a DatasetHandler.
func NewDatasetHandler(datasetService *service.DatasetService) *DatasetHandler {
	return &DatasetHandler{datasetService: datasetService}
}

// Generate handles POST /v1/admin/dataset/generate
func (h *DatasetHandler) Generate(c *gin.Context) {
	cfg := generator.DefaultConfig
	if err := c.ShouldBindJSON(&cfg); err != nil && c.Request.ContentLength > 0 {
		utils.Error(c, 400, "INVALID_INPUT", "Invalid request body")
		return
	}
	if cfg.Agents < 1 || cfg.Cards < 1 || cfg.Sales < 1 {
		utils.Error(c, 400, "INVALID_INPUT", "agents, cards and sales must be positive")
		return
	}

	stats, err := h.datasetService.Generate(c.Request.Context(), cfg)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, 201, "Dataset generated", stats)
}

// GetStats handles GET /v1/admin/dataset/stats
func (h *DatasetHandler) GetStats(c *gin.Context) {
	stats, err := h.datasetService.Stats(true)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, 200, "Dataset stats retrieved", stats)
}

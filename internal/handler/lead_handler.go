package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cardwise/coach_api/internal/models"
	"github.com/cardwise/coach_api/internal/service"
	"github.com/cardwise/coach_api/internal/utils"
)

// LeadHandler handles lead recommendation HTTP endpoints.
type LeadHandler struct {
	leadService *service.LeadService
}

// NewLeadHandler constructs a LeadHandler.
func NewLeadHandler(leadService *service.LeadService) *LeadHandler {
	return &LeadHandler{leadService: leadService}
}

// GetRecommendations handles GET /v1/leads/recommendations/:agentId
func (h *LeadHandler) GetRecommendations(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			utils.Error(c, 400, "INVALID_INPUT", "limit must be a positive integer")
			return
		}
		limit = n
	}

	leads, err := h.leadService.RecommendLeads(c.Param("agentId"), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, 200, "Lead recommendations generated", gin.H{
		"leads": leads,
		"total": len(leads),
	})
}

// Predict handles POST /v1/leads/predict
func (h *LeadHandler) Predict(c *gin.Context) {
	var req struct {
		CardID   string                 `json:"card_id" binding:"required"`
		Customer models.CustomerProfile `json:"customer" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_INPUT", "card_id and customer are required")
		return
	}

	prediction, err := h.leadService.PredictSuccess(req.Customer, req.CardID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, 200, "Prediction generated", prediction)
}

package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cardwise/coach_api/internal/service"
	"github.com/cardwise/coach_api/internal/utils"
)

// CardHandler handles card analytics HTTP endpoints.
type CardHandler struct {
	cardService *service.CardService
}

// NewCardHandler constructs a CardHandler.
func NewCardHandler(cardService *service.CardService) *CardHandler {
	return &CardHandler{cardService: cardService}
}

// GetPerformance handles GET /v1/cards/performance
func (h *CardHandler) GetPerformance(c *gin.Context) {
	cards, network, err := h.cardService.AnalyzeAllCards(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, 200, "Card performance retrieved", gin.H{
		"cards":   cards,
		"network": network,
	})
}

// GetRecommendations handles GET /v1/cards/recommendations/:agentId
func (h *CardHandler) GetRecommendations(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			utils.Error(c, 400, "INVALID_INPUT", "limit must be a positive integer")
			return
		}
		limit = n
	}

	result, err := h.cardService.RecommendCards(c.Param("agentId"), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, 200, "Recommendations generated", result)
}

// CompareCards handles POST /v1/cards/compare
func (h *CardHandler) CompareCards(c *gin.Context) {
	var req struct {
		CardIDs []string `json:"card_ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_INPUT", "card_ids is required")
		return
	}

	comparison, err := h.cardService.CompareCards(req.CardIDs)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, 200, "Comparison generated", comparison)
}

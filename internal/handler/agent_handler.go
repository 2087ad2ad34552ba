package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/cardwise/coach_api/internal/service"
	"github.com/cardwise/coach_api/internal/utils"
)

// AgentHandler handles agent analytics HTTP endpoints.
type AgentHandler struct {
	agentService *service.AgentService
}

// NewAgentHandler constructs an AgentHandler.
func NewAgentHandler(agentService *service.AgentService) *AgentHandler {
	return &AgentHandler{agentService: agentService}
}

// GetPerformance handles GET /v1/agents/:agentId/performance
func (h *AgentHandler) GetPerformance(c *gin.Context) {
	perf, err := h.agentService.AnalyzePerformance(c.Param("agentId"))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, 200, "Performance retrieved", perf)
}

// GetDashboard handles GET /v1/agents/:agentId/dashboard
func (h *AgentHandler) GetDashboard(c *gin.Context) {
	dashboard, err := h.agentService.Dashboard(c.Param("agentId"))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, 200, "Dashboard retrieved", dashboard)
}

// GetInsights handles GET /v1/agents/:agentId/insights
func (h *AgentHandler) GetInsights(c *gin.Context) {
	insights, err := h.agentService.GenerateInsights(c.Param("agentId"))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, 200, "Insights generated", insights)
}

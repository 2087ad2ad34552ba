package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/cardwise/coach_api/internal/service"
	"github.com/cardwise/coach_api/internal/utils"
)

// ScriptHandler handles sales script HTTP endpoints.
type ScriptHandler struct {
	scriptService *service.ScriptService
}

// NewScriptHandler constructs a ScriptHandler.
func NewScriptHandler(scriptService *service.ScriptService) *ScriptHandler {
	return &ScriptHandler{scriptService: scriptService}
}

// GetScript handles GET /v1/scripts/:cardId
func (h *ScriptHandler) GetScript(c *gin.Context) {
	script, err := h.scriptService.CreateScript(c.Param("cardId"), c.Query("agent_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, 200, "Script generated", script)
}

// GetObjections handles GET /v1/scripts/:cardId/objections
func (h *ScriptHandler) GetObjections(c *gin.Context) {
	guide, err := h.scriptService.ObjectionHandling(c.Param("cardId"))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, 200, "Objection guide generated", guide)
}

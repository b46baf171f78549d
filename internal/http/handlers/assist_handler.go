// README: AI sorting-assistant endpoint (material classification).
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"reloop/internal/http/middleware"
	"reloop/internal/modules/assist"
)

type AssistHandler struct {
	assist *assist.Service
}

func NewAssistHandler(svc *assist.Service) *AssistHandler {
	return &AssistHandler{assist: svc}
}

type classifyReq struct {
	Description string `json:"description"`
}

func (h *AssistHandler) Classify(c *gin.Context) {
	var req classifyReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Description == "" {
		writeError(c, http.StatusBadRequest, "missing description")
		return
	}
	result, err := h.assist.Classify(c.Request.Context(), middleware.CallerUID(c), req.Description)
	if err == assist.ErrInsufficientRequests {
		writeError(c, http.StatusTooManyRequests, err.Error())
		return
	}
	if err != nil {
		writeError(c, http.StatusBadGateway, "classification unavailable")
		return
	}
	writeJSON(c, http.StatusOK, result)
}

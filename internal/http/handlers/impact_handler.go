// README: Impact stats read endpoint.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"reloop/internal/http/middleware"
	"reloop/internal/modules/impact"
	"reloop/internal/types"
)

type ImpactHandler struct {
	impact *impact.Service
}

func NewImpactHandler(svc *impact.Service) *ImpactHandler {
	return &ImpactHandler{impact: svc}
}

// Get returns the caller's own cumulative impact stats.
func (h *ImpactHandler) Get(c *gin.Context) {
	profileID := c.Param("profile_id")
	if profileID != middleware.CallerUID(c) {
		writeError(c, http.StatusForbidden, "stats are private to the profile owner")
		return
	}
	st, err := h.impact.Stats(c.Request.Context(), types.ID(profileID))
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(c, http.StatusOK, gin.H{
		"profile_id":         st.ProfileID,
		"weight_by_material": st.WeightByMaterial,
		"total_weight_kg":    st.TotalWeightKg,
	})
}

// README: Requester-facing pickup handlers (create, get, list, cancel).
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"reloop/internal/http/middleware"
	"reloop/internal/modules/pickup"
	"reloop/internal/types"
)

type PickupHandler struct {
	pickup *pickup.Service
}

func NewPickupHandler(svc *pickup.Service) *PickupHandler {
	return &PickupHandler{pickup: svc}
}

type createPickupReq struct {
	RequesterID        string            `json:"requester_id"`
	Address            string            `json:"address"`
	Lat                *float64          `json:"lat"`
	Lng                *float64          `json:"lng"`
	Materials          []pickup.Material `json:"materials"`
	PickupTime         time.Time         `json:"pickup_time"`
	Note               string            `json:"note"`
	DisclaimerAccepted bool              `json:"disclaimer_accepted"`
}

func (h *PickupHandler) Create(c *gin.Context) {
	var req createPickupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.RequesterID == "" || req.Address == "" {
		writeError(c, http.StatusBadRequest, "missing fields")
		return
	}
	if req.RequesterID != middleware.CallerUID(c) {
		writeError(c, http.StatusForbidden, "requester_id does not match caller")
		return
	}

	cmd := pickup.CreateCommand{
		RequesterID:        types.ID(req.RequesterID),
		Address:            req.Address,
		Materials:          req.Materials,
		PickupTime:         req.PickupTime,
		Note:               req.Note,
		DisclaimerAccepted: req.DisclaimerAccepted,
	}
	if req.Lat != nil && req.Lng != nil {
		cmd.Coords = &types.Point{Lat: *req.Lat, Lng: *req.Lng}
	}

	p, err := h.pickup.Create(c.Request.Context(), cmd)
	if err != nil {
		writePickupError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, toPickupResponse(p))
}

func (h *PickupHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if !isValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid pickup id")
		return
	}
	p, err := h.pickup.Get(c.Request.Context(), types.ID(id))
	if err != nil {
		writePickupError(c, err)
		return
	}
	uid := middleware.CallerUID(c)
	if string(p.RequesterID) != uid && (p.DriverID == nil || string(*p.DriverID) != uid) {
		writeError(c, http.StatusForbidden, "not a participant of this pickup")
		return
	}
	writeJSON(c, http.StatusOK, toPickupResponse(p))
}

// ListOwned returns every pickup created by the caller, newest first.
func (h *PickupHandler) ListOwned(c *gin.Context) {
	ps, err := h.pickup.ListByRequester(c.Request.Context(), types.ID(middleware.CallerUID(c)))
	if err != nil {
		writePickupError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"pickups": toPickupList(ps)})
}

// Cancel handles both requester and driver cancellation. The service derives
// the actor's side from the pickup itself; the handler only supplies the
// verified caller identity.
func (h *PickupHandler) Cancel(c *gin.Context) {
	id := c.Param("id")
	if !isValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid pickup id")
		return
	}
	p, err := h.pickup.Cancel(c.Request.Context(), pickup.CancelCommand{
		PickupID: types.ID(id),
		ActorID:  types.ID(middleware.CallerUID(c)),
	})
	if err != nil {
		writePickupError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toPickupResponse(p))
}

// README: Driver handlers for discovery, accept, start, complete.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"reloop/internal/http/middleware"
	"reloop/internal/modules/discovery"
	"reloop/internal/modules/pickup"
	"reloop/internal/types"
)

type DriverHandler struct {
	pickup    *pickup.Service
	discovery *discovery.Service
}

func NewDriverHandler(pickupSvc *pickup.Service, discoverySvc *discovery.Service) *DriverHandler {
	return &DriverHandler{pickup: pickupSvc, discovery: discoverySvc}
}

const listAvailableLimit = 50

// requireDriver rejects callers without the driver role claim.
func requireDriver(c *gin.Context) bool {
	if middleware.CallerRole(c) != "driver" {
		writeError(c, http.StatusForbidden, "driver role required")
		return false
	}
	return true
}

// ListAvailable returns pending pickups. With lat/lng query params the geo
// index orders them by proximity; otherwise newest first.
func (h *DriverHandler) ListAvailable(c *gin.Context) {
	if !requireDriver(c) {
		return
	}
	ctx := c.Request.Context()

	latStr, lngStr := c.Query("lat"), c.Query("lng")
	if latStr != "" && lngStr != "" && h.discovery != nil {
		lat, errLat := strconv.ParseFloat(latStr, 64)
		lng, errLng := strconv.ParseFloat(lngStr, 64)
		if errLat != nil || errLng != nil {
			writeError(c, http.StatusBadRequest, "invalid coordinates")
			return
		}
		radius, _ := strconv.ParseFloat(c.Query("radius_km"), 64)

		ids, err := h.discovery.NearbyOpen(ctx, types.Point{Lat: lat, Lng: lng}, radius, listAvailableLimit)
		if err != nil {
			writeError(c, http.StatusInternalServerError, "internal error")
			return
		}
		out := make([]pickupResponse, 0, len(ids))
		for _, id := range ids {
			p, err := h.pickup.Get(ctx, id)
			if err != nil || p.Status != pickup.StatusPending {
				// Index entries lag behind lifecycle transitions; skip stale ones.
				continue
			}
			out = append(out, toPickupResponse(p))
		}
		writeJSON(c, http.StatusOK, gin.H{"pickups": out})
		return
	}

	ps, err := h.pickup.ListOpen(ctx, listAvailableLimit)
	if err != nil {
		writePickupError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"pickups": toPickupList(ps)})
}

// ListAssigned returns the caller's accepted/active/finished pickups.
func (h *DriverHandler) ListAssigned(c *gin.Context) {
	if !requireDriver(c) {
		return
	}
	ps, err := h.pickup.ListByDriver(c.Request.Context(), types.ID(middleware.CallerUID(c)))
	if err != nil {
		writePickupError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"pickups": toPickupList(ps)})
}

func (h *DriverHandler) Accept(c *gin.Context) {
	if !requireDriver(c) {
		return
	}
	id := c.Param("id")
	if !isValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid pickup id")
		return
	}
	p, err := h.pickup.Accept(c.Request.Context(), pickup.AcceptCommand{
		PickupID: types.ID(id),
		DriverID: types.ID(middleware.CallerUID(c)),
	})
	if err != nil {
		writePickupError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toPickupResponse(p))
}

func (h *DriverHandler) Start(c *gin.Context) {
	if !requireDriver(c) {
		return
	}
	id := c.Param("id")
	if !isValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid pickup id")
		return
	}
	p, err := h.pickup.Start(c.Request.Context(), pickup.StartCommand{
		PickupID: types.ID(id),
		DriverID: types.ID(middleware.CallerUID(c)),
	})
	if err != nil {
		writePickupError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toPickupResponse(p))
}

type completePickupReq struct {
	Materials []pickup.Material `json:"materials"`
}

func (h *DriverHandler) Complete(c *gin.Context) {
	if !requireDriver(c) {
		return
	}
	id := c.Param("id")
	if !isValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid pickup id")
		return
	}
	var req completePickupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	p, statsPending, err := h.pickup.Complete(c.Request.Context(), pickup.CompleteCommand{
		PickupID: types.ID(id),
		DriverID: types.ID(middleware.CallerUID(c)),
		Measured: req.Materials,
	})
	if err != nil {
		writePickupError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{
		"pickup":        toPickupResponse(p),
		"stats_pending": statsPending,
	})
}

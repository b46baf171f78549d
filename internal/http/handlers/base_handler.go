// README: Base handler utilities (JSON helpers, error mapping, response shapes).
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"reloop/internal/modules/pickup"
)

type errorResponse struct {
	Error string `json:"error"`
}

// isValidID ensures IDs look like the generator's output: lowercase hex,
// at most 32 chars.
func isValidID(v string) bool {
	if v == "" || len(v) > 32 {
		return false
	}
	for _, c := range v {
		if (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') {
			continue
		}
		return false
	}
	return true
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

func writePickupError(c *gin.Context, err error) {
	switch err {
	case pickup.ErrBadRequest, pickup.ErrDisclaimerRequired:
		writeError(c, http.StatusBadRequest, err.Error())
	case pickup.ErrForbidden:
		writeError(c, http.StatusForbidden, err.Error())
	case pickup.ErrNotFound:
		writeError(c, http.StatusNotFound, err.Error())
	case pickup.ErrInvalidState, pickup.ErrQuotaExceeded, pickup.ErrAlreadyAccepted, pickup.ErrConflict:
		writeError(c, http.StatusConflict, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

type pickupResponse struct {
	ID                 string            `json:"id"`
	RequesterID        string            `json:"requester_id"`
	DriverID           *string           `json:"driver_id,omitempty"`
	Status             string            `json:"status"`
	Address            string            `json:"address"`
	Lat                *float64          `json:"lat,omitempty"`
	Lng                *float64          `json:"lng,omitempty"`
	Materials          []pickup.Material `json:"materials"`
	PickupTime         time.Time         `json:"pickup_time"`
	Note               *string           `json:"note,omitempty"`
	DisclaimerAccepted bool              `json:"disclaimer_accepted"`
	CancelledBy        *string           `json:"cancelled_by,omitempty"`
	CreatedAt          time.Time         `json:"created_at"`
	AcceptedAt         *time.Time        `json:"accepted_at,omitempty"`
	StartedAt          *time.Time        `json:"started_at,omitempty"`
	CompletedAt        *time.Time        `json:"completed_at,omitempty"`
	CancelledAt        *time.Time        `json:"cancelled_at,omitempty"`
}

func toPickupResponse(p *pickup.Pickup) pickupResponse {
	resp := pickupResponse{
		ID:                 string(p.ID),
		RequesterID:        string(p.RequesterID),
		Status:             string(p.Status),
		Address:            p.Address,
		Materials:          p.Materials,
		PickupTime:         p.PickupTime,
		Note:               p.Note,
		DisclaimerAccepted: p.DisclaimerAccepted,
		CancelledBy:        p.CancelledBy,
		CreatedAt:          p.CreatedAt,
		AcceptedAt:         p.AcceptedAt,
		StartedAt:          p.StartedAt,
		CompletedAt:        p.CompletedAt,
		CancelledAt:        p.CancelledAt,
	}
	if p.DriverID != nil {
		d := string(*p.DriverID)
		resp.DriverID = &d
	}
	if p.Coords != nil {
		resp.Lat, resp.Lng = &p.Coords.Lat, &p.Coords.Lng
	}
	return resp
}

func toPickupList(ps []*pickup.Pickup) []pickupResponse {
	out := make([]pickupResponse, 0, len(ps))
	for _, p := range ps {
		out = append(out, toPickupResponse(p))
	}
	return out
}

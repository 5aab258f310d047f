// Package handler implements the HTTP handlers for the dashboard API.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/roaringfork/irondash/internal/api/models"
	"github.com/roaringfork/irondash/internal/api/response"
	"github.com/roaringfork/irondash/internal/dashboard"
)

// SessionHeader carries the session id. When a request arrives without one
// (or with an expired one), a fresh session is minted and echoed back.
const SessionHeader = "X-Session-Id"

// DashboardHandler serves the parameter, chart, and table endpoints.
type DashboardHandler struct {
	svc *dashboard.Service
}

// NewDashboardHandler creates a dashboard handler.
func NewDashboardHandler(svc *dashboard.Service) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// session resolves the request's session and echoes the authoritative id.
func (h *DashboardHandler) session(w http.ResponseWriter, r *http.Request) *dashboard.Session {
	sess := h.svc.Session(r.Header.Get(SessionHeader))
	w.Header().Set(SessionHeader, sess.ID)
	return sess
}

// UpdateParams handles PUT /v1/dashboard/params.
func (h *DashboardHandler) UpdateParams(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateParamsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid request body")
		return
	}

	start, end, err := req.ParseRange()
	if err != nil {
		response.BadRequest(w, r, err.Error())
		return
	}

	sess := h.session(w, r)
	h.svc.UpdateParams(sess, req.Station, req.Variables, start, end)

	resp := models.UpdateParamsResponse{
		Station:   req.Station,
		Variables: req.Variables,
		Start:     req.Start,
		End:       req.End,
	}
	response.JSON(w, r, http.StatusOK, resp)
}

// GetChart handles GET /v1/dashboard/chart.
func (h *DashboardHandler) GetChart(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	response.JSON(w, r, http.StatusOK, h.svc.Chart(r.Context(), sess))
}

// GetTable handles GET /v1/dashboard/table.
func (h *DashboardHandler) GetTable(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	response.JSON(w, r, http.StatusOK, h.svc.Table(r.Context(), sess))
}

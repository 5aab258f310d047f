package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/roaringfork/irondash/internal/api/models"
	"github.com/roaringfork/irondash/internal/api/response"
	"github.com/roaringfork/irondash/internal/dashboard"
	"github.com/roaringfork/irondash/internal/feedback"
)

// FeedbackHandler serves the feedback submission endpoints.
type FeedbackHandler struct {
	svc *dashboard.Service
}

// NewFeedbackHandler creates a feedback handler.
func NewFeedbackHandler(svc *dashboard.Service) *FeedbackHandler {
	return &FeedbackHandler{svc: svc}
}

// Submit handles POST /v1/feedback. A submission already in flight is a
// conflict; the state machine, not this handler, enforces that.
func (h *FeedbackHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, "invalid request body")
		return
	}

	sess := h.svc.Session(r.Header.Get(SessionHeader))
	w.Header().Set(SessionHeader, sess.ID)

	sub, err := h.svc.SubmitFeedback(r.Context(), sess, req.Text)
	if err != nil {
		if errors.Is(err, feedback.ErrBusy) {
			response.Conflict(w, r, "a feedback submission is already in flight")
			return
		}
		response.InternalError(w, r, "feedback submission failed")
		return
	}

	response.JSON(w, r, http.StatusOK, statusResponse(sub))
}

// Status handles GET /v1/feedback/status.
func (h *FeedbackHandler) Status(w http.ResponseWriter, r *http.Request) {
	sess := h.svc.Session(r.Header.Get(SessionHeader))
	w.Header().Set(SessionHeader, sess.ID)

	response.JSON(w, r, http.StatusOK, statusResponse(h.svc.FeedbackStatus(sess)))
}

func statusResponse(sub feedback.Submission) models.FeedbackStatusResponse {
	return models.FeedbackStatusResponse{
		Status:    string(sub.Status),
		Message:   sub.Message,
		UpdatedAt: sub.UpdatedAt,
	}
}

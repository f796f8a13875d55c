package handler

import (
	"errors"   // errors.Is comparisons against repository sentinels
	"net/http" // HTTP status codes
	"strconv"  // parsing path parameters
	"strings"  // normalising the requested status

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/training-session-scheduler/internal/model"
	"github.com/iliyamo/training-session-scheduler/internal/repository"
)

// AdminSessionHandler lets administrators move sessions and assignments
// through their state machines: start or cancel a session, confirm an
// assignment, record attendance.  Illegal transitions are rejected with
// 409; cancelling a session cascades to its active assignments inside the
// repository transaction.
type AdminSessionHandler struct {
	SessionRepo    *repository.SessionRepo    // session status updates
	AssignmentRepo *repository.AssignmentRepo // assignment status updates
}

// NewAdminSessionHandler constructs an AdminSessionHandler and panics if a
// repository is nil.
func NewAdminSessionHandler(sessionRepo *repository.SessionRepo, assignmentRepo *repository.AssignmentRepo) *AdminSessionHandler {
	if sessionRepo == nil || assignmentRepo == nil {
		panic("nil repository passed to NewAdminSessionHandler")
	}
	return &AdminSessionHandler{SessionRepo: sessionRepo, AssignmentRepo: assignmentRepo}
}

// statusRequest is the body of both status update endpoints.
type statusRequest struct {
	Status string `json:"status"`
}

// UpdateSessionStatus handles PATCH /v1/admin/sessions/:id/status.
func (h *AdminSessionHandler) UpdateSessionStatus(c echo.Context) error {
	sessionID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || sessionID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid session id"})
	}
	var body statusRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	to := strings.ToUpper(strings.TrimSpace(body.Status))
	switch to {
	case model.SessionInProgress, model.SessionCompleted, model.SessionCancelled:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown session status"})
	}

	if err := h.SessionRepo.UpdateStatus(c.Request().Context(), sessionID, to); err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
		}
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "illegal status transition"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update session"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": sessionID, "status": to})
}

// UpdateAssignmentStatus handles PATCH /v1/admin/assignments/:id/status.
func (h *AdminSessionHandler) UpdateAssignmentStatus(c echo.Context) error {
	assignmentID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || assignmentID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid assignment id"})
	}
	var body statusRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	to := strings.ToUpper(strings.TrimSpace(body.Status))
	switch to {
	case model.AssignmentConfirmed, model.AssignmentAttended, model.AssignmentNoShow, model.AssignmentCancelled:
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown assignment status"})
	}

	if err := h.AssignmentRepo.UpdateStatus(c.Request().Context(), assignmentID, to); err != nil {
		if errors.Is(err, repository.ErrAssignmentNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "assignment not found"})
		}
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "illegal status transition"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update assignment"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": assignmentID, "status": to})
}

package handler

import (
	"errors"   // errors.Is comparisons against repository sentinels
	"net/http" // HTTP status codes
	"strconv"  // parsing path parameters

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/training-session-scheduler/internal/repository"
)

// MemberHandler covers member self-service: cancelling an assignment
// before its session starts.  The freed seat is picked up by the next
// adjustment pass.  JWT authentication is applied by middleware.
type MemberHandler struct {
	AssignmentRepo *repository.AssignmentRepo // assignment cancellation
}

// NewMemberHandler constructs a MemberHandler and panics if the repository
// is nil.
func NewMemberHandler(assignmentRepo *repository.AssignmentRepo) *MemberHandler {
	if assignmentRepo == nil {
		panic("nil repository passed to NewMemberHandler")
	}
	return &MemberHandler{AssignmentRepo: assignmentRepo}
}

// CancelAssignment handles DELETE /v1/assignments/:id.  It cancels an
// assignment belonging to the current member if the session has not
// started yet.  Returns 204 on success, 404 when the assignment does not
// exist, 403 when it belongs to another member, and 409 when the session
// has already started or the assignment is already terminal.
func (h *MemberHandler) CancelAssignment(c echo.Context) error {
	memberID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	assignmentID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || assignmentID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid assignment id"})
	}

	if err := h.AssignmentRepo.CancelForMember(c.Request().Context(), assignmentID, memberID); err != nil {
		if errors.Is(err, repository.ErrAssignmentNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "assignment not found"})
		}
		if errors.Is(err, repository.ErrForbidden) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "assignment can no longer be cancelled"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to cancel assignment"})
	}
	return c.NoContent(http.StatusNoContent)
}

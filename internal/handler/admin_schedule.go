package handler

import (
	"context"  // context carries request-scoped deadlines into the scheduler
	"net/http" // HTTP status codes
	"time"     // parsing the week_start parameter

	"github.com/labstack/echo/v4" // Echo web framework
	"github.com/rs/zerolog"       // structured logging

	"github.com/iliyamo/training-session-scheduler/internal/queue"
	"github.com/iliyamo/training-session-scheduler/internal/scheduler"
	queue_publisher "github.com/iliyamo/training-session-scheduler/internal/service"
)

// ScheduleHandler exposes the on-demand administrative triggers for the
// two scheduling passes.  Only the structured run summaries cross this
// boundary; internal errors are logged and reported as a generic 500.
// JWT authentication and the ADMIN role check are applied by middleware.
type ScheduleHandler struct {
	Orch *scheduler.Orchestrator // the scheduling engine
	Log  zerolog.Logger          // run logging
}

// NewScheduleHandler constructs a ScheduleHandler and panics on a nil
// orchestrator.
func NewScheduleHandler(orch *scheduler.Orchestrator, log zerolog.Logger) *ScheduleHandler {
	if orch == nil {
		panic("nil orchestrator passed to NewScheduleHandler")
	}
	return &ScheduleHandler{Orch: orch, Log: log}
}

// weekRequest is the shared request body of both triggers.
type weekRequest struct {
	WeekStart string `json:"week_start"` // YYYY-MM-DD, normalised to its Monday
}

// parseWeek validates the week_start body field.
func parseWeek(body weekRequest) (time.Time, bool) {
	t, err := time.Parse("2006-01-02", body.WeekStart)
	if err != nil {
		return time.Time{}, false
	}
	return t.UTC(), true
}

// RunSchedule handles POST /v1/admin/schedule/runs.  It executes the
// initial scheduling pass for the requested week on behalf of the
// authenticated administrator and returns the run summary.
func (h *ScheduleHandler) RunSchedule(c echo.Context) error {
	actorID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body weekRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	week, ok := parseWeek(body)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "week_start must be YYYY-MM-DD"})
	}

	summary, err := h.Orch.Run(c.Request().Context(), week, actorID)
	if err != nil {
		h.Log.Error().Err(err).Str("week_start", body.WeekStart).Msg("initial pass failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "scheduling pass failed"})
	}
	h.publishRunEvent(queue.RunKindInitial, summary.WeekStart, summary.ActorID,
		summary.SlotsScheduled, len(summary.SlotsSkipped), summary.MembersAssigned, summary.MembersUnassigned)
	return c.JSON(http.StatusOK, echo.Map{"summary": summary})
}

// RunAdjustment handles POST /v1/admin/schedule/adjustments.  It executes
// the adjustment pass for the requested week and returns its summary.
func (h *ScheduleHandler) RunAdjustment(c echo.Context) error {
	actorID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body weekRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	week, ok := parseWeek(body)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "week_start must be YYYY-MM-DD"})
	}

	summary, err := h.Orch.Adjust(c.Request().Context(), week)
	if err != nil {
		h.Log.Error().Err(err).Str("week_start", body.WeekStart).Msg("adjustment pass failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "adjustment pass failed"})
	}
	h.publishRunEvent(queue.RunKindAdjustment, summary.WeekStart, actorID,
		summary.SessionsBackfilled, 0, summary.AssignmentsAdded, summary.CandidatesLeft)
	return c.JSON(http.StatusOK, echo.Map{"summary": summary})
}

// publishRunEvent emits the run-completed event; publishing is best-effort
// and never fails the request.
func (h *ScheduleHandler) publishRunEvent(kind, weekStart string, actorID uint64, scheduled, skipped, assigned, unassigned int) {
	ev := queue.ScheduleRunCompletedEvent{
		Kind:              kind,
		WeekStart:         weekStart,
		ActorID:           actorID,
		SlotsScheduled:    scheduled,
		SlotsSkipped:      skipped,
		MembersAssigned:   assigned,
		MembersUnassigned: unassigned,
		CompletedAt:       time.Now().UTC().Format(time.RFC3339),
	}
	if err := queue_publisher.PublishScheduleRunCompleted(context.Background(), ev); err != nil {
		h.Log.Warn().Err(err).Msg("run event publish failed")
	}
}

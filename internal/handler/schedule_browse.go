package handler

import (
	"errors"   // errors.Is comparisons against repository sentinels
	"net/http" // HTTP status codes
	"strconv"  // parsing path parameters
	"time"     // parsing the week path parameter

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/training-session-scheduler/internal/repository"
	"github.com/iliyamo/training-session-scheduler/internal/scheduler"
)

// PublicHandler exposes the generated schedule for browsing.  These routes
// apply no authentication; members check the published week before their
// assignments are confirmed.  The response cache middleware fronts them.
type PublicHandler struct {
	SessionRepo *repository.SessionRepo // read access to generated sessions
	HallRepo    *repository.HallRepo    // read access to the hall catalog
}

// NewPublicHandler constructs a PublicHandler and panics if a repository
// is nil.
func NewPublicHandler(sessionRepo *repository.SessionRepo, hallRepo *repository.HallRepo) *PublicHandler {
	if sessionRepo == nil || hallRepo == nil {
		panic("nil repository passed to NewPublicHandler")
	}
	return &PublicHandler{SessionRepo: sessionRepo, HallRepo: hallRepo}
}

// GetWeekSchedule handles GET /v1/schedule/weeks/:week.  The :week
// parameter is any date (YYYY-MM-DD) inside the requested week; it is
// normalised to the week's Monday.  The response lists the non-cancelled
// sessions of the week with hall, trainer and fill details.
func (h *PublicHandler) GetWeekSchedule(c echo.Context) error {
	day, err := time.Parse("2006-01-02", c.Param("week"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "week must be YYYY-MM-DD"})
	}
	week := scheduler.NormalizeWeekStart(day)

	items, err := h.SessionRepo.ListWeekDetails(c.Request().Context(), week)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load schedule"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"week_start": week.Format("2006-01-02"),
		"items":      items,
	})
}

// GetHall handles GET /v1/halls/:id.  Members look up a hall's capacity and
// status while browsing the published week; the response cache fronts this
// route too since the catalog changes rarely.
func (h *PublicHandler) GetHall(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hall id"})
	}

	hall, err := h.HallRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrHallNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hall not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load hall"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id":        hall.ID,
		"name":      hall.Name,
		"capacity":  hall.Capacity,
		"is_active": hall.IsActive,
	})
}

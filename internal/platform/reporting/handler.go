package reporting

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ehr/hms/internal/platform/apierr"
	"github.com/ehr/hms/internal/platform/export"
	"github.com/ehr/hms/internal/views"
	"github.com/ehr/hms/pkg/pagination"
)

const maxCalendarDays = 366

// Handler provides the derived-view endpoints.
type Handler struct {
	data   Source
	now    func() time.Time
	logger zerolog.Logger
}

func NewHandler(data Source, logger zerolog.Logger) *Handler {
	return &Handler{data: data, now: time.Now, logger: logger.With().Str("component", "reporting").Logger()}
}

// SetClock replaces the time source used for "today".
func (h *Handler) SetClock(now func() time.Time) {
	h.now = now
}

// RegisterRoutes registers the view endpoints. Static segments such as
// /patients/search take precedence over the /:id routes of the domain
// handlers.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/patients/search", h.SearchPatients)
	api.GET("/doctors/schedules", h.DoctorSchedules)
	api.GET("/appointments/upcoming", h.UpcomingAppointments)
	api.GET("/appointments/calendar", h.Calendar)
	api.GET("/inventory/low-stock", h.LowStock)

	reportGroup := api.Group("/reports")
	reportGroup.GET("/views", h.ListViews)
	reportGroup.GET("/views/:id", h.EvaluateView)
	reportGroup.GET("/overview", h.Overview)
	reportGroup.GET("/export", h.Export)
}

func (h *Handler) SearchPatients(c echo.Context) error {
	var f views.PatientFilter
	if err := c.Bind(&f); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	patients, err := h.data.ListPatients(c.Request().Context())
	if err != nil {
		return apierr.HTTP(err)
	}
	return c.JSON(http.StatusOK, pagination.Paginate(c, views.SearchPatients(patients, f)))
}

func (h *Handler) DoctorSchedules(c echo.Context) error {
	doctors, err := h.data.ListDoctors(c.Request().Context())
	if err != nil {
		return apierr.HTTP(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"departments": views.Departments(doctors),
		"schedules":   views.DoctorSchedules(doctors, c.QueryParam("department")),
	})
}

func (h *Handler) UpcomingAppointments(c echo.Context) error {
	n := DefaultUpcomingLimit
	if v := c.QueryParam("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a non-negative integer")
		}
		n = parsed
	}
	appts, err := h.data.ListAppointments(c.Request().Context())
	if err != nil {
		return apierr.HTTP(err)
	}
	return c.JSON(http.StatusOK, views.UpcomingAppointments(appts, views.Today(h.now()), n))
}

// Calendar groups appointments by day between start and end (inclusive).
// The default range is today plus one week.
func (h *Handler) Calendar(c echo.Context) error {
	today := h.now()
	start, err := dateParam(c, "start", today)
	if err != nil {
		return err
	}
	end, err := dateParam(c, "end", start.AddDate(0, 0, DefaultCalendarDays))
	if err != nil {
		return err
	}
	if end.Before(start) {
		return echo.NewHTTPError(http.StatusBadRequest, "end must not be before start")
	}
	if end.Sub(start) > maxCalendarDays*24*time.Hour {
		return echo.NewHTTPError(http.StatusBadRequest, "calendar range is limited to one year")
	}

	appts, err := h.data.ListAppointments(c.Request().Context())
	if err != nil {
		return apierr.HTTP(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"start": views.Today(start),
		"end":   views.Today(end),
		"days":  views.AppointmentsInRange(appts, views.Today(start), views.Today(end)),
	})
}

func dateParam(c echo.Context, name string, def time.Time) (time.Time, error) {
	v := c.QueryParam(name)
	if v == "" {
		return time.Date(def.Year(), def.Month(), def.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return time.Time{}, echo.NewHTTPError(http.StatusBadRequest, name+" must be a YYYY-MM-DD date")
	}
	return t, nil
}

func (h *Handler) LowStock(c echo.Context) error {
	items, err := h.data.ListItems(c.Request().Context())
	if err != nil {
		return apierr.HTTP(err)
	}
	return c.JSON(http.StatusOK, views.LowStock(items))
}

// ListViews returns all available view definitions.
func (h *Handler) ListViews(c echo.Context) error {
	return c.JSON(http.StatusOK, PredefinedViews)
}

// EvaluateView loads every collection and evaluates one predefined view.
func (h *Handler) EvaluateView(c echo.Context) error {
	def := FindView(c.Param("id"))
	if def == nil {
		return echo.NewHTTPError(http.StatusNotFound, "view not found")
	}

	params := map[string]string{}
	for _, p := range def.Parameters {
		params[p] = c.QueryParam(p)
	}

	ds, err := h.data.Load(c.Request().Context())
	if err != nil {
		return apierr.HTTP(err)
	}
	report, err := Evaluate(def.ID, ds, h.now(), params)
	if err != nil {
		if errors.Is(err, ErrViewNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "view not found")
		}
		return apierr.HTTP(err)
	}
	h.logger.Debug().Str("view", def.ID).Msg("view evaluated")
	return c.JSON(http.StatusOK, report)
}

// Overview returns the dashboard KPIs.
func (h *Handler) Overview(c echo.Context) error {
	ds, err := h.data.Load(c.Request().Context())
	if err != nil {
		return apierr.HTTP(err)
	}
	return c.JSON(http.StatusOK, views.ComputeOverview(ds, views.Today(h.now())))
}

// Export streams every collection as an Excel workbook.
func (h *Handler) Export(c echo.Context) error {
	ds, err := h.data.Load(c.Request().Context())
	if err != nil {
		return apierr.HTTP(err)
	}
	today := views.Today(h.now())
	f, err := export.Workbook(ds, today)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "export failed").SetInternal(err)
	}
	defer f.Close()

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="hms-`+today+`.xlsx"`)
	c.Response().Header().Set(echo.HeaderContentType, export.ContentType)
	c.Response().WriteHeader(http.StatusOK)
	_, err = f.WriteTo(c.Response())
	return err
}

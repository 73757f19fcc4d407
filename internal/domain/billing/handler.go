package billing

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ehr/hms/internal/platform/apierr"
	"github.com/ehr/hms/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/bills", h.ListBills)
	api.POST("/bills", h.CreateBill)
	api.POST("/bills/preview", h.PreviewBill)
	api.GET("/bills/:id", h.GetBill)
}

func (h *Handler) CreateBill(c echo.Context) error {
	var in BillInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	b, err := h.svc.CreateBill(c.Request().Context(), in)
	if err != nil {
		return apierr.HTTP(err)
	}
	return c.JSON(http.StatusCreated, b)
}

// PreviewBill prices a bill without storing it.
func (h *Handler) PreviewBill(c echo.Context) error {
	var in BillInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	totals, err := Calculate(in)
	if err != nil {
		return apierr.HTTP(err)
	}
	return c.JSON(http.StatusOK, totals)
}

func (h *Handler) GetBill(c echo.Context) error {
	b, err := h.svc.GetBill(c.Request().Context(), c.Param("id"))
	if err != nil {
		return apierr.HTTP(err)
	}
	return c.JSON(http.StatusOK, b)
}

func (h *Handler) ListBills(c echo.Context) error {
	items, err := h.svc.ListBills(c.Request().Context())
	if err != nil {
		return apierr.HTTP(err)
	}
	return c.JSON(http.StatusOK, pagination.Paginate(c, items))
}

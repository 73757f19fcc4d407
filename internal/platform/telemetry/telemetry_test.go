package telemetry

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/ehr/hms/internal/platform/store"
)

func TestMiddleware_CountsRequests(t *testing.T) {
	m := New()
	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/api/v1/patients/:id", func(c echo.Context) error {
		if c.Param("id") == "P404" {
			return echo.NewHTTPError(http.StatusNotFound, "not found")
		}
		return c.String(http.StatusOK, "ok")
	})

	for _, path := range []string{"/api/v1/patients/P001", "/api/v1/patients/P002", "/api/v1/patients/P404"} {
		e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	if got := testutil.ToFloat64(m.requests.WithLabelValues("GET", "/api/v1/patients/:id", "200")); got != 2 {
		t.Errorf("expected 2 ok requests, got %v", got)
	}
	if got := testutil.ToFloat64(m.requests.WithLabelValues("GET", "/api/v1/patients/:id", "404")); got != 1 {
		t.Errorf("expected 1 not-found request, got %v", got)
	}
	if got := testutil.ToFloat64(m.active); got != 0 {
		t.Errorf("expected no requests in flight, got %v", got)
	}
}

func TestStatusOf(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.Response().Status = http.StatusCreated

	if got := statusOf(c, nil); got != http.StatusCreated {
		t.Errorf("expected response status, got %d", got)
	}
	if got := statusOf(c, echo.NewHTTPError(http.StatusConflict)); got != http.StatusConflict {
		t.Errorf("expected 409, got %d", got)
	}
	if got := statusOf(c, errors.New("boom")); got != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", got)
	}
}

type fakeLoader map[store.Collection][]store.Record

func (f fakeLoader) Load(_ context.Context, c store.Collection) ([]store.Record, error) {
	if c == store.Billing {
		return []store.Record{}, store.ErrCorrupt
	}
	return f[c], nil
}

func TestRegisterStore(t *testing.T) {
	m := New()
	m.RegisterStore(fakeLoader{
		store.Patients: {{"id": "P001"}, {"id": "P002"}},
		store.Doctors:  {{"id": "D001"}},
	})

	want := `
# HELP hms_collection_records Records currently stored in a collection.
# TYPE hms_collection_records gauge
hms_collection_records{collection="appointments"} 0
hms_collection_records{collection="billing"} 0
hms_collection_records{collection="doctors"} 1
hms_collection_records{collection="inventory"} 0
hms_collection_records{collection="patients"} 2
# HELP hms_collection_readable 1 when the collection could be read, 0 when it is corrupt or unreachable.
# TYPE hms_collection_readable gauge
hms_collection_readable{collection="appointments"} 1
hms_collection_readable{collection="billing"} 0
hms_collection_readable{collection="doctors"} 1
hms_collection_readable{collection="inventory"} 1
hms_collection_readable{collection="patients"} 1
`
	if err := testutil.GatherAndCompare(m.Registry(), strings.NewReader(want),
		"hms_collection_records", "hms_collection_readable"); err != nil {
		t.Error(err)
	}
}

func TestHandler_Exposition(t *testing.T) {
	m := New()
	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/metrics", m.Handler())

	e.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/metrics", nil))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`hms_http_requests_total{method="GET",route="/metrics",status_code="200"} 1`,
		"hms_http_request_duration_seconds_bucket",
		"go_goroutines",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("exposition missing %q", want)
		}
	}
}

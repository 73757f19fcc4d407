package pagination

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/labstack/echo/v4"
)

func ctxFor(target string) echo.Context {
	return echo.New().NewContext(httptest.NewRequest(http.MethodGet, target, nil), httptest.NewRecorder())
}

func TestFromContext(t *testing.T) {
	tests := []struct {
		query string
		want  Params
	}{
		{"", Params{Limit: DefaultLimit}},
		{"?limit=5&offset=10", Params{Limit: 5, Offset: 10}},
		{"?limit=500", Params{Limit: MaxLimit}},
		{"?limit=0&offset=-3", Params{Limit: DefaultLimit}},
		{"?limit=abc&offset=4", Params{Limit: DefaultLimit, Offset: 4}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			if got := FromContext(ctxFor("/api/v1/patients" + tt.query)); got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestWindow(t *testing.T) {
	items := []string{"P001", "P002", "P003", "P004", "P005"}
	tests := []struct {
		name string
		p    Params
		want int
	}{
		{"first page", Params{Limit: 2}, 2},
		{"last partial page", Params{Limit: 2, Offset: 4}, 1},
		{"past the end", Params{Limit: 2, Offset: 9}, 0},
		{"everything", Params{Limit: 20}, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Window(items, tt.p)
			if got == nil || len(got) != tt.want {
				t.Errorf("expected %d items, got %v", tt.want, got)
			}
		})
	}
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	page := Paginate(ctxFor("/api/v1/doctors?limit=2&offset=2"), items)

	if page.Total != 5 || page.Limit != 2 || page.Offset != 2 || !page.HasMore {
		t.Errorf("unexpected metadata %+v", page)
	}
	if len(page.Data) != 2 || page.Data[0] != 3 {
		t.Errorf("unexpected data %v", page.Data)
	}
	if len(page.Links) != 3 {
		t.Fatalf("expected self, next and previous links, got %+v", page.Links)
	}
}

func TestPaginate_EmptyIsNotNull(t *testing.T) {
	page := Paginate[string](ctxFor("/api/v1/bills"), nil)
	if page.Data == nil || page.HasMore || page.Total != 0 {
		t.Errorf("unexpected empty page %+v", page)
	}
}

func TestLinks_KeepFilters(t *testing.T) {
	u, _ := url.Parse("/api/v1/patients/search?name=john&status=Admitted&offset=3&limit=3")
	links := Params{Limit: 3, Offset: 3}.Links(u, 10)

	want := map[string]string{
		"self":     "/api/v1/patients/search?limit=3&name=john&offset=3&status=Admitted",
		"next":     "/api/v1/patients/search?limit=3&name=john&offset=6&status=Admitted",
		"previous": "/api/v1/patients/search?limit=3&name=john&offset=0&status=Admitted",
	}
	if len(links) != len(want) {
		t.Fatalf("expected %d links, got %+v", len(want), links)
	}
	for _, l := range links {
		if want[l.Relation] != l.URL {
			t.Errorf("%s: expected %s, got %s", l.Relation, want[l.Relation], l.URL)
		}
	}
}

func TestLinks_LastPageHasNoNext(t *testing.T) {
	u, _ := url.Parse("/api/v1/inventory")
	for _, l := range (Params{Limit: 5, Offset: 5}).Links(u, 10) {
		if l.Relation == "next" {
			t.Errorf("unexpected next link %s", l.URL)
		}
	}
}

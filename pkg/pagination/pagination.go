// Package pagination windows in-memory result sets for list endpoints.
package pagination

import (
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params is a limit/offset window.
type Params struct {
	Limit  int
	Offset int
}

// FromContext reads limit and offset from the query string. Missing or
// malformed values fall back to the defaults; limit is capped at MaxLimit.
func FromContext(c echo.Context) Params {
	p := Params{Limit: DefaultLimit}
	_ = echo.QueryParamsBinder(c).
		FailFast(false).
		Int("limit", &p.Limit).
		Int("offset", &p.Offset).
		BindErrors()

	switch {
	case p.Limit <= 0:
		p.Limit = DefaultLimit
	case p.Limit > MaxLimit:
		p.Limit = MaxLimit
	}
	p.Offset = max(p.Offset, 0)
	return p
}

// Page is one window of a list response.
type Page[T any] struct {
	Data    []T    `json:"data"`
	Total   int    `json:"total"`
	Limit   int    `json:"limit"`
	Offset  int    `json:"offset"`
	HasMore bool   `json:"has_more"`
	Links   []Link `json:"links,omitempty"`
}

// Link is a navigation link of a Page.
type Link struct {
	Relation string `json:"relation"`
	URL      string `json:"url"`
}

// Window returns the items selected by p. The result is never nil.
func Window[T any](items []T, p Params) []T {
	if p.Offset >= len(items) {
		return []T{}
	}
	return items[p.Offset:min(p.Offset+p.Limit, len(items))]
}

// Paginate windows items according to the request's limit and offset.
func Paginate[T any](c echo.Context, items []T) *Page[T] {
	p := FromContext(c)
	return &Page[T]{
		Data:    Window(items, p),
		Total:   len(items),
		Limit:   p.Limit,
		Offset:  p.Offset,
		HasMore: p.Offset+p.Limit < len(items),
		Links:   p.Links(c.Request().URL, len(items)),
	}
}

// Links builds self, next and previous links from the request URL. Other
// query parameters, such as search filters, are kept.
func (p Params) Links(u *url.URL, total int) []Link {
	at := func(rel string, offset int) Link {
		q := u.Query()
		q.Set("offset", strconv.Itoa(offset))
		q.Set("limit", strconv.Itoa(p.Limit))
		return Link{Relation: rel, URL: u.Path + "?" + q.Encode()}
	}

	links := []Link{at("self", p.Offset)}
	if p.Offset+p.Limit < total {
		links = append(links, at("next", p.Offset+p.Limit))
	}
	if p.Offset > 0 {
		links = append(links, at("previous", max(p.Offset-p.Limit, 0)))
	}
	return links
}

package pagination

import (
	"fmt"
	"strconv"

	"github.com/labstack/echo/v4"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Params holds pagination parameters extracted from a request.
type Params struct {
	Page     int
	PageSize int
}

// FromContext extracts pagination parameters from the echo context.
// Accepts page/page_size and falls back to limit/offset for API clients
// that paginate by offset.
func FromContext(c echo.Context) Params {
	size, _ := strconv.Atoi(c.QueryParam("page_size"))
	if size <= 0 {
		size, _ = strconv.Atoi(c.QueryParam("limit"))
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page <= 0 {
		offset, _ := strconv.Atoi(c.QueryParam("offset"))
		if offset > 0 {
			page = offset/size + 1
		}
	}
	if page <= 0 {
		page = 1
	}

	return Params{Page: page, PageSize: size}
}

// Response wraps a paginated API response.
type Response struct {
	Data     interface{} `json:"data"`
	Total    int         `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
	Pages    int         `json:"pages"`
	HasMore  bool        `json:"has_more"`
}

func NewResponse(data interface{}, total int, p Params) *Response {
	pages := total / p.PageSize
	if total%p.PageSize != 0 {
		pages++
	}
	if pages == 0 {
		pages = 1
	}
	return &Response{
		Data:     data,
		Total:    total,
		Page:     p.Page,
		PageSize: p.PageSize,
		Pages:    pages,
		HasMore:  p.Offset()+p.PageSize < total,
	}
}

// Offset returns the row offset of the first item on the current page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// SQL returns the LIMIT and OFFSET clause for SQL queries.
func (p Params) SQL() string {
	return fmt.Sprintf("LIMIT %d OFFSET %d", p.PageSize, p.Offset())
}

// HasNext returns true if there are more results after the current page.
func (p Params) HasNext(total int) bool {
	return p.Offset()+p.PageSize < total
}

// HasPrevious returns true if there are results before the current page.
func (p Params) HasPrevious() bool {
	return p.Page > 1
}

package common

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Meta carries pagination metadata.
type Meta struct {
	Page     int64 `json:"page"`
	PageSize int64 `json:"page_size"`
	Total    int64 `json:"total"`
}

// BaseParams carries the common paging and sorting query parameters.
type BaseParams struct {
	PageSize int64  `json:"page_size" form:"page_size" query:"page_size"`
	Page     int64  `json:"page" form:"page" query:"page"`
	SortBy   string `json:"sort_by" form:"sort_by" query:"sort_by"`
	SortDesc bool   `json:"sort_desc" form:"sort_desc" query:"sort_desc"`
}

// Normalize clamps paging to sane bounds.
func (p *BaseParams) Normalize() {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
}

// Offset returns the row offset of the current page.
func (p BaseParams) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return int((p.Page - 1) * p.PageSize)
}

// ListQuery drives generic catalogue listings.
//
// Filters come from the client and are applied only for whitelisted
// columns. Where is set by services and applied as given. Staff lifts the
// visibility filter.
type ListQuery struct {
	BaseParams
	Keyword string
	Filters map[string]string
	Where   map[string]interface{}
	Staff   bool
}

package paging

// Pagination envelope returned by paginated listings
type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalCount  int64 `json:"totalCount"`
	HasMore     bool  `json:"hasMore"`
}

// DefaultPageSize used when the caller does not send a limit
const DefaultPageSize = 50

// Normalize clamp page and limit to sane values (page is 1-based)
func Normalize(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	return page, limit
}

// New compute the envelope for a 1-based page over total items
func New(page, limit int, total int64) Pagination {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalCount:  total,
		HasMore:     int64(page)*int64(limit) < total,
	}
}

package service

// Pagination describes one page of a listing.
type Pagination struct {
	Current    int   `json:"current"`
	Total      int   `json:"total"`
	Limit      int   `json:"limit"`
	TotalItems int64 `json:"totalItems"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// normalizePage clamps page and limit to sane values.
func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

// buildPagination derives the page metadata from the listing counts.
func buildPagination(page, limit int, totalItems int64) Pagination {
	totalPages := int((totalItems + int64(limit) - 1) / int64(limit))
	return Pagination{
		Current:    page,
		Total:      totalPages,
		Limit:      limit,
		TotalItems: totalItems,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

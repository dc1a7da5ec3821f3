package table

// Pager tracks the current page over a fully fetched row set
type Pager struct {
	page  int
	limit int
	total int
}

// NewPager creates a pager on page 1. A non-positive limit falls back to 10.
func NewPager(limit int) *Pager {
	if limit <= 0 {
		limit = 10
	}
	return &Pager{page: 1, limit: limit}
}

// Reset sets the row count and returns to page 1
func (p *Pager) Reset(total int) {
	p.total = max(total, 0)
	p.page = 1
}

// Page returns the current 1-based page number
func (p *Pager) Page() int { return p.page }

// Limit returns the page size
func (p *Pager) Limit() int { return p.limit }

// Total returns the row count
func (p *Pager) Total() int { return p.total }

// TotalPages returns the number of pages, at least 1
func (p *Pager) TotalPages() int {
	if p.total == 0 {
		return 1
	}
	return (p.total + p.limit - 1) / p.limit
}

// HasPrev reports whether the previous-page action is enabled
func (p *Pager) HasPrev() bool { return p.page > 1 }

// HasNext reports whether the next-page action is enabled
func (p *Pager) HasNext() bool { return p.page < p.TotalPages() }

// Next moves forward one page. It does nothing and returns false on the last page.
func (p *Pager) Next() bool {
	if !p.HasNext() {
		return false
	}
	p.page++
	return true
}

// Prev moves back one page. It does nothing and returns false on the first page.
func (p *Pager) Prev() bool {
	if !p.HasPrev() {
		return false
	}
	p.page--
	return true
}

// GoTo jumps to a page. Out-of-range pages are rejected.
func (p *Pager) GoTo(page int) bool {
	if page < 1 || page > p.TotalPages() {
		return false
	}
	p.page = page
	return true
}

// Bounds returns the half-open row range [start, end) of the current page
func (p *Pager) Bounds() (start, end int) {
	start = (p.page - 1) * p.limit
	end = min(start+p.limit, p.total)
	if start > end {
		start = end
	}
	return start, end
}

// PageOf returns the rows of the pager's current page
func PageOf[T any](rows []T, p *Pager) []T {
	start, end := p.Bounds()
	end = min(end, len(rows))
	start = min(start, end)
	return rows[start:end]
}

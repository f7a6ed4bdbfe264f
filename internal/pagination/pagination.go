// Package pagination implements the over-fetch page policy shared by the
// order and catalog listings: fetch one row more than the page size and
// use the surplus to decide whether another page exists, instead of
// running a separate count query.
package pagination

// DefaultPageSize is the fixed page size of order and product listings.
const DefaultPageSize = 25

// Params describes one requested page.
type Params struct {
	Page int
	Size int
}

// New clamps a requested page number to zero and applies the default
// page size.
func New(page int) Params {
	if page < 0 {
		page = 0
	}
	return Params{Page: page, Size: DefaultPageSize}
}

// Offset is the row offset of the page.
func (p Params) Offset() int { return p.Page * p.Size }

// FetchLimit is the number of rows to ask the store for: one more than
// the page size, so HasNext can be decided from the result length alone.
func (p Params) FetchLimit() int { return p.Size + 1 }

// HasNext reports whether a fetch of FetchLimit rows indicates a
// following page.
func (p Params) HasNext(fetched int) bool { return fetched > p.Size }

// Cut trims an over-fetched row count down to the page size.
func (p Params) Cut(fetched int) int {
	if fetched > p.Size {
		return p.Size
	}
	return fetched
}

package discovery

import (
	"strings"

	"github.com/s0up4200/marquee/catalog"
)

// SearchFilters is the browse/search state of one view
type SearchFilters struct {
	Query   string          `json:"query,omitempty"`
	GenreID *int            `json:"genreId,omitempty"`
	Sort    catalog.SortKey `json:"sort,omitempty"`
	// MinDate is an ISO date bounding the earliest release (discover only)
	MinDate string `json:"minDate,omitempty"`
	Page    int    `json:"page"`
}

// NextPage returns the filters for the following page
func (f SearchFilters) NextPage() SearchFilters {
	f = f.normalized()
	f.Page++
	return f
}

// WithGenre returns the filters narrowed to a genre, starting over at page 1
func (f SearchFilters) WithGenre(id int) SearchFilters {
	f.GenreID = &id
	f.Page = 1
	return f
}

func (f SearchFilters) normalized() SearchFilters {
	f.Query = strings.TrimSpace(f.Query)
	if f.Sort == "" {
		f.Sort = catalog.SortPopular
	}
	f.Page = clampPage(f.Page)
	return f
}

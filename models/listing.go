package models

import "fmt"

// SortMode selects the result ordering on the marketplace side.
// The numeric values are the opst codes OLX expects; SortDefault is
// never sent on the wire.
type SortMode int

const (
	SortDefault   SortMode = 0
	SortNewest    SortMode = 2
	SortPriceAsc  SortMode = 3
	SortPriceDesc SortMode = 4
)

// SearchSpec describes one search: a category path plus optional
// free-text term, price bounds, sort mode and facet filter codes.
// Zero values mean "not set" and are omitted from the encoded URL.
type SearchSpec struct {
	CategoryPath string
	Term         string
	PriceMin     int
	PriceMax     int
	Sort         SortMode
	Facets       []int
}

// Validate rejects inconsistent specs before any network activity.
func (s SearchSpec) Validate() error {
	if s.CategoryPath == "" {
		return fmt.Errorf("category path is required")
	}
	if s.PriceMin < 0 {
		return fmt.Errorf("price floor cannot be negative")
	}
	if s.PriceMax < 0 {
		return fmt.Errorf("price ceiling cannot be negative")
	}
	if s.PriceMin > 0 && s.PriceMax > 0 && s.PriceMin > s.PriceMax {
		return fmt.Errorf("price floor (%d) cannot exceed price ceiling (%d)", s.PriceMin, s.PriceMax)
	}
	switch s.Sort {
	case SortDefault, SortNewest, SortPriceAsc, SortPriceDesc:
	default:
		return fmt.Errorf("unknown sort mode %d", s.Sort)
	}
	for _, f := range s.Facets {
		if f <= 0 {
			return fmt.Errorf("facet codes must be positive, got %d", f)
		}
	}
	return nil
}

// PageRequest is a SearchSpec pinned to one 1-based result page.
type PageRequest struct {
	Spec SearchSpec
	Page int
}

// ListingDetail is one scraped ad. Link is always set; every other
// field may be empty when the page did not yield it, so the output
// stays rectangular. Price is the parsed value of RawPrice and is nil
// when no currency token was found.
type ListingDetail struct {
	Link        string
	Title       string
	RawPrice    string
	Price       *int
	Location    string
	Description string
}

// CrawlResult is the final dataset for one crawl. When Blocked is set
// Listings holds a single sentinel record explaining the block instead
// of real data.
type CrawlResult struct {
	Listings   []ListingDetail
	TotalFound int
	Truncated  bool
	Blocked    bool
}

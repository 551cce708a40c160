package catalog

import (
	"strings"

	"github.com/hongminglow/club-finder/internal/models"
)

// Filters are the catalog search criteria. Empty fields impose no constraint.
type Filters struct {
	City        string   `json:"city"`
	Sports      []string `json:"sports"`
	PriceRange  string   `json:"price_range"`
	Facilities  []string `json:"facilities"`
	SearchQuery string   `json:"search_query"`
}

// FilterPatch is a partial Filters update; nil fields keep their previous value.
type FilterPatch struct {
	City        *string
	Sports      *[]string
	PriceRange  *string
	Facilities  *[]string
	SearchQuery *string
}

// Merge returns f with the non-nil fields of p applied.
func (f Filters) Merge(p FilterPatch) Filters {
	if p.City != nil {
		f.City = *p.City
	}
	if p.Sports != nil {
		f.Sports = append([]string(nil), (*p.Sports)...)
	}
	if p.PriceRange != nil {
		f.PriceRange = *p.PriceRange
	}
	if p.Facilities != nil {
		f.Facilities = append([]string(nil), (*p.Facilities)...)
	}
	if p.SearchQuery != nil {
		f.SearchQuery = *p.SearchQuery
	}
	return f
}

// IsZero reports whether f imposes no constraint at all.
func (f Filters) IsZero() bool {
	return f.City == "" && len(f.Sports) == 0 && f.PriceRange == "" &&
		len(f.Facilities) == 0 && f.SearchQuery == ""
}

// Match reports whether club satisfies every criterion in f.
//
// Criteria are checked in order: city, sports, price range, facilities, then the
// search query. Sports and facilities match when the club carries any of the
// requested tags. The search query is a case-insensitive substring match against
// name, description or address, and is ANDed with the other criteria.
func Match(club models.Club, f Filters) bool {
	if f.City != "" && club.City != f.City {
		return false
	}
	if len(f.Sports) > 0 && !anyOf(f.Sports, club.Sports) {
		return false
	}
	if f.PriceRange != "" && club.PriceRange != f.PriceRange {
		return false
	}
	if len(f.Facilities) > 0 && !anyOf(f.Facilities, club.Facilities) {
		return false
	}
	if f.SearchQuery != "" {
		return matchesQuery(club, f.SearchQuery)
	}
	return true
}

// Apply returns the clubs matching f, preserving order.
func Apply(clubs []models.Club, f Filters) []models.Club {
	out := make([]models.Club, 0, len(clubs))
	for _, club := range clubs {
		if Match(club, f) {
			out = append(out, club)
		}
	}
	return out
}

func matchesQuery(club models.Club, query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(club.Name), q) ||
		strings.Contains(strings.ToLower(club.Description), q) ||
		strings.Contains(strings.ToLower(club.Address), q)
}

func anyOf(wanted, have []string) bool {
	for _, w := range wanted {
		for _, h := range have {
			if w == h {
				return true
			}
		}
	}
	return false
}

package query

import "strings"

// DefaultSortField is used for absent or unknown sort keys
const DefaultSortField = "createdAt"

var novelSortFields = map[string]string{
	"title":     "title",
	"rating":    "averageRating",
	"views":     "totalViews",
	"favorites": "totalFavorites",
	"updated":   "lastUpdated",
	"published": "publishedAt",
}

// ResolveNovelSort maps a public sort key and order to a SortSpec.
// Keys and orders are matched case-insensitively; the default is createdAt descending.
func ResolveNovelSort(key, order *string) SortSpec {
	field := DefaultSortField
	if key != nil {
		if f, ok := novelSortFields[strings.ToLower(*key)]; ok {
			field = f
		}
	}
	return Sort(field, ParseDirection(order))
}

// ParseDirection returns Asc only for an explicit "asc"
func ParseDirection(order *string) Direction {
	if order != nil && strings.EqualFold(*order, "asc") {
		return Asc
	}
	return Desc
}

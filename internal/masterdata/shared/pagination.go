package shared

import (
	"net/url"
	"strconv"
)

// ListFilters represents standard list page filters
type ListFilters struct {
	Page    int
	Limit   int
	Search  string
	SortBy  string
	SortDir string

	// Entity specific filters
	CityID *int64
}

// FiltersFromQuery parses the standard list filters from a query
// string, applying defaults for page and limit.
func FiltersFromQuery(values url.Values) ListFilters {
	page, _ := strconv.Atoi(values.Get("page"))
	if page < 1 {
		page = DefaultPage
	}
	limit, _ := strconv.Atoi(values.Get("limit"))
	if limit < 1 {
		limit = DefaultLimit
	}
	filters := ListFilters{
		Page:    page,
		Limit:   limit,
		Search:  values.Get("search"),
		SortBy:  values.Get("sort"),
		SortDir: values.Get("dir"),
	}
	if raw := values.Get("city_id"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			filters.CityID = &id
		}
	}
	return filters
}

package models

import (
	"net/url"
	"strconv"
	"strings"
)

// BusinessFilters is the filter set of the business list. It is seeded from
// and written back to the page URL, so the URL stays the single source of truth.
type BusinessFilters struct {
	Island   string `form:"island" json:"island,omitempty"`
	Category string `form:"category" json:"category,omitempty"`
	Query    string `form:"q" json:"q,omitempty"`
	Limit    int    `form:"limit" json:"limit,omitempty"`
}

// BusinessFiltersFromQuery seeds filters from a URL query string
func BusinessFiltersFromQuery(q url.Values) BusinessFilters {
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 0 {
		limit = 0
	}
	return BusinessFilters{
		Island:   strings.TrimSpace(q.Get("island")),
		Category: strings.TrimSpace(q.Get("category")),
		Query:    strings.TrimSpace(q.Get("q")),
		Limit:    limit,
	}
}

// IsSearch reports whether the free-text search endpoint applies
func (f BusinessFilters) IsSearch() bool {
	return f.Query != ""
}

// Values returns exactly the non-empty filter fields for the plain list endpoint
func (f BusinessFilters) Values() url.Values {
	v := url.Values{}
	setIfNotEmpty(v, "island", f.Island)
	setIfNotEmpty(v, "category", f.Category)
	if f.Limit > 0 {
		v.Set("limit", strconv.Itoa(f.Limit))
	}
	return v
}

// SearchValues returns the query for /businesses/search
func (f BusinessFilters) SearchValues() url.Values {
	v := url.Values{}
	setIfNotEmpty(v, "q", f.Query)
	return v
}

// ApartmentFilters is the filter set of the apartment list. Numeric filters
// stay strings so an untouched field is omitted rather than sent as zero.
type ApartmentFilters struct {
	Island       string `form:"island" json:"island,omitempty"`
	PropertyType string `form:"property_type" json:"property_type,omitempty"`
	MinRent      string `form:"min_rent" json:"min_rent,omitempty"`
	MaxRent      string `form:"max_rent" json:"max_rent,omitempty"`
	Bedrooms     string `form:"bedrooms" json:"bedrooms,omitempty"`
}

// ApartmentFiltersFromQuery reads the filter set from a URL query string
func ApartmentFiltersFromQuery(q url.Values) ApartmentFilters {
	return ApartmentFilters{
		Island:       strings.TrimSpace(q.Get("island")),
		PropertyType: strings.TrimSpace(q.Get("property_type")),
		MinRent:      strings.TrimSpace(q.Get("min_rent")),
		MaxRent:      strings.TrimSpace(q.Get("max_rent")),
		Bedrooms:     strings.TrimSpace(q.Get("bedrooms")),
	}
}

// Values returns exactly the non-empty filter fields
func (f ApartmentFilters) Values() url.Values {
	v := url.Values{}
	setIfNotEmpty(v, "island", f.Island)
	setIfNotEmpty(v, "property_type", f.PropertyType)
	setIfNotEmpty(v, "min_rent", f.MinRent)
	setIfNotEmpty(v, "max_rent", f.MaxRent)
	setIfNotEmpty(v, "bedrooms", f.Bedrooms)
	return v
}

// EventFilters is the filter set of the event list
type EventFilters struct {
	Island   string `form:"island" json:"island,omitempty"`
	Category string `form:"category" json:"category,omitempty"`
	Date     string `form:"date" json:"date,omitempty"`
}

// EventFiltersFromQuery reads the filter set from a URL query string
func EventFiltersFromQuery(q url.Values) EventFilters {
	return EventFilters{
		Island:   strings.TrimSpace(q.Get("island")),
		Category: strings.TrimSpace(q.Get("category")),
		Date:     strings.TrimSpace(q.Get("date")),
	}
}

// Values returns exactly the non-empty filter fields
func (f EventFilters) Values() url.Values {
	v := url.Values{}
	setIfNotEmpty(v, "island", f.Island)
	setIfNotEmpty(v, "category", f.Category)
	setIfNotEmpty(v, "date", f.Date)
	return v
}

func setIfNotEmpty(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}

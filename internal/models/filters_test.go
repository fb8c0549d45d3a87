package models

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBusinessFiltersFromQuery(t *testing.T) {
	q, _ := url.ParseQuery("island=Nassau&category=Food")
	f := BusinessFiltersFromQuery(q)

	assert.Equal(t, "Nassau", f.Island)
	assert.Equal(t, "Food", f.Category)
	assert.False(t, f.IsSearch())
	assert.Equal(t, "category=Food&island=Nassau", f.Values().Encode())
}

func TestBusinessFilters_Search(t *testing.T) {
	f := BusinessFilters{Island: "Abaco", Query: "conch & fritters"}

	assert.True(t, f.IsSearch())
	assert.Equal(t, "q=conch+%26+fritters", f.SearchValues().Encode())
}

func TestApartmentFilters_OnlyNonEmptyFields(t *testing.T) {
	cases := []struct {
		name     string
		filters  ApartmentFilters
		expected string
	}{
		{"Empty", ApartmentFilters{}, ""},
		{"Island only", ApartmentFilters{Island: "Grand Bahama"}, "island=Grand+Bahama"},
		{"Rent range", ApartmentFilters{MinRent: "500", MaxRent: "1500"}, "max_rent=1500&min_rent=500"},
		{"All", ApartmentFilters{Island: "Exuma", PropertyType: "Condo", MinRent: "1", MaxRent: "2", Bedrooms: "3"},
			"bedrooms=3&island=Exuma&max_rent=2&min_rent=1&property_type=Condo"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.filters.Values().Encode())
		})
	}
}

func TestEventFilters_Values(t *testing.T) {
	f := EventFiltersFromQuery(url.Values{"date": {"2026-12-26"}, "category": {""}, "island": {" Bimini "}})
	assert.Equal(t, "date=2026-12-26&island=Bimini", f.Values().Encode())
}

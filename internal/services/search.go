package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/desertthunder/ytproxy/internal/shared"
)

// search filter -> encoded "params" value understood by the search endpoint
var searchFilterParams = map[string]string{
	"songs":               "EgWKAQIIAWoMEA4QChADEAQQCRAF",
	"videos":              "EgWKAQIQAWoMEA4QChADEAQQCRAF",
	"albums":              "EgWKAQIYAWoMEA4QChADEAQQCRAF",
	"artists":             "EgWKAQIgAWoMEA4QChADEAQQCRAF",
	"playlists":           "EgWKAQIoAWoMEA4QChADEAQQCRAF",
	"community_playlists": "EgeKAQQoAEABagwQDhAKEAMQBBAJEAU%3D",
	"featured_playlists":  "EgeKAQQoADgBagwQDhAKEAMQBBAJEAU%3D",
	"profiles":            "EgWKAQJYAWoMEA4QChADEAQQCRAF",
	"podcasts":            "EgWKAQJQAWoMEA4QChADEAQQCRAF",
	"episodes":            "EgWKAQJIAWoMEA4QChADEAQQCRAF",
}

// SearchFilters lists the filter names accepted by [Client.Search].
func SearchFilters() []string {
	names := make([]string, 0, len(searchFilterParams))
	for name := range searchFilterParams {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func searchParams(filter string) (string, error) {
	if filter == "" {
		return "", nil
	}
	params, ok := searchFilterParams[filter]
	if !ok {
		return "", fmt.Errorf("%w: invalid filter provided %q, use one of: %s",
			shared.ErrInvalidInput, filter, strings.Join(SearchFilters(), ", "))
	}
	return params, nil
}

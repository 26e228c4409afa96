package menu

import (
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// DefaultCategory labels items the backend returns without a menu grouping.
	DefaultCategory = "Other"

	// DefaultLocation is the selector used when none is given.
	DefaultLocation = "default"
)

// Locations lists the selectors offered when none are configured.
var Locations = []string{"default", "downtown", "uptown", "westside"}

// Item is a sellable entry of a location's menu. Items are never mutated;
// a new fetch replaces the whole list.
type Item struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
	Category    string
	Seasonal    bool
}

// NormalizeLocation maps an empty or padded selector to its canonical form.
func NormalizeLocation(location string) string {
	location = strings.ToLower(strings.TrimSpace(location))
	if location == "" {
		return DefaultLocation
	}
	return location
}

// Group is a named run of items sharing a category.
type Group struct {
	Category string
	Items    []Item
}

// GroupByCategory groups items by category, keeping the order in which each
// category first appears.
func GroupByCategory(items []Item) []Group {
	index := make(map[string]int)
	var groups []Group
	for _, item := range items {
		category := item.Category
		if category == "" {
			category = DefaultCategory
		}
		i, ok := index[category]
		if !ok {
			i = len(groups)
			index[category] = i
			groups = append(groups, Group{Category: category})
		}
		groups[i].Items = append(groups[i].Items, item)
	}
	return groups
}

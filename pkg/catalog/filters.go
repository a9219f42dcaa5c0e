package catalog

import "strings"

// Filters is a conjunction of predicates applied before ranking. Nil/zero
// fields impose no restriction. Categorical matches are case-insensitive
// substring matches, same as the ILIKE filters on the browse surface.
type Filters struct {
	PriceMaxUSD  *float64
	PriceMinUSD  *float64
	CargoMinSCU  *int
	CrewMax      *int // ship's minimum crew must not exceed this
	Manufacturer string
	Focus        string
	Type         string
	ExcludeIDs   []string
}

// Matches reports whether the item satisfies every predicate.
func (f Filters) Matches(item Item) bool {
	if f.PriceMaxUSD != nil && item.PriceUSD > *f.PriceMaxUSD {
		return false
	}
	if f.PriceMinUSD != nil && item.PriceUSD < *f.PriceMinUSD {
		return false
	}
	if f.CargoMinSCU != nil && item.CargoCapacity < *f.CargoMinSCU {
		return false
	}
	if f.CrewMax != nil && item.CrewMin > *f.CrewMax {
		return false
	}
	if f.Manufacturer != "" && !containsFold(item.Manufacturer, f.Manufacturer) {
		return false
	}
	if f.Focus != "" && !containsFold(item.Focus, f.Focus) {
		return false
	}
	if f.Type != "" && !containsFold(item.Type, f.Type) {
		return false
	}
	for _, id := range f.ExcludeIDs {
		if id == item.ID {
			return false
		}
	}
	return true
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

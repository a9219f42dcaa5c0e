package consultant

import (
	"strings"

	"ship-consultant-be/pkg/retrieval"
	"ship-consultant-be/pkg/store"
)

// searchQueryTemplates expands interest tags into richer retrieval queries.
var searchQueryTemplates = map[string]string{
	"combat":      "fast combat ship for dogfighting and bounty hunting",
	"trading":     "cargo hauler for trading and freight transport",
	"exploration": "exploration ship with long range and scanning capabilities",
	"mining":      "mining ship for resource extraction and ore processing",
	"multi_role":  "versatile multi-role ship for various activities",
	"luxury":      "luxury ship with premium amenities and comfort",
	"stealth":     "stealth ship for infiltration and covert operations",
	"starter":     "affordable beginner-friendly starter ship",
}

// buildSearchQuery turns accumulated preferences into a natural-language
// retrieval query.
func buildSearchQuery(prefs store.Preferences) string {
	if len(prefs.Playstyles) == 0 {
		return "versatile multi-role ship"
	}
	parts := make([]string, 0, len(prefs.Playstyles))
	for _, style := range prefs.Playstyles {
		if tmpl, ok := searchQueryTemplates[style]; ok {
			parts = append(parts, tmpl)
		} else {
			parts = append(parts, style+" ship")
		}
	}
	return strings.Join(parts, " ")
}

// buildConstraints maps preferences plus the session exclusion set (rejected
// ships and ships already in the fleet) to retrieval constraints.
func buildConstraints(sess *store.Session, fleetIDs []string) retrieval.Constraints {
	prefs := sess.Preferences
	c := retrieval.Constraints{
		Manufacturer: prefs.Manufacturer,
		RoleKeywords: roleKeywords(prefs.Playstyles),
	}
	if prefs.BudgetMaxUSD > 0 {
		v := prefs.BudgetMaxUSD
		c.PriceMaxUSD = &v
	}
	if prefs.BudgetMinUSD > 0 {
		v := prefs.BudgetMinUSD
		c.PriceMinUSD = &v
	}
	if prefs.CrewMax > 0 {
		v := prefs.CrewMax
		c.CrewMax = &v
	}
	if prefs.CargoMinSCU > 0 {
		v := prefs.CargoMinSCU
		c.CargoMinSCU = &v
	}

	c.ExcludeIDs = append(c.ExcludeIDs, sess.Excluded...)
	c.ExcludeIDs = append(c.ExcludeIDs, fleetIDs...)
	return c
}

// roleKeywords maps playstyle tags to catalog focus vocabulary for the
// retrieval score boost.
func roleKeywords(playstyles []string) []string {
	mapping := map[string]string{
		"combat":      "fighter",
		"trading":     "freight",
		"exploration": "exploration",
		"mining":      "mining",
		"multi_role":  "multi",
		"starter":     "starter",
		"luxury":      "touring",
		"stealth":     "stealth",
	}
	var out []string
	for _, style := range playstyles {
		if kw, ok := mapping[style]; ok {
			out = append(out, kw)
		}
	}
	return out
}

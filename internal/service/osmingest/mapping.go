// internal/service/osmingest/mapping.go

package osmingest

import (
	"strings"
	"unicode/utf8"

	"lbs/internal/domain/amenity"
)

// categoryByTag maps OSM tag values onto the internal category set.
// Loaded once, read-only afterwards; concurrent reads are safe. Tags
// with no entry cause the element to be rejected, never defaulted.
var categoryByTag = map[string]amenity.Category{
	// Cafes / food / drink
	"cafe":       amenity.CategoryCafe,
	"restaurant": amenity.CategoryCafe,
	"fast_food":  amenity.CategoryCafe,
	"ice_cream":  amenity.CategoryCafe,
	"pub":        amenity.CategoryCafe,
	"bar":        amenity.CategoryCafe,

	// Shops
	"convenience":      amenity.CategoryShop,
	"supermarket":      amenity.CategoryShop,
	"department_store": amenity.CategoryShop,
	"mall":             amenity.CategoryShop,
	"marketplace":      amenity.CategoryShop,

	// Gyms
	"fitness_centre": amenity.CategoryGym,
	"gym":            amenity.CategoryGym,

	// ATMs / banks
	"atm":  amenity.CategoryATM,
	"bank": amenity.CategoryATM,

	// Parks
	"park":              amenity.CategoryPark,
	"garden":            amenity.CategoryPark,
	"recreation_ground": amenity.CategoryPark,
}

// CategoryFor resolves the internal category for an element's tags.
// The amenity, shop and leisure tag families are consulted against the
// fixed table; a sport=fitness tag also counts as a gym. The second
// return is false when nothing maps.
func CategoryFor(tags map[string]string) (amenity.Category, bool) {
	for _, key := range []string{"amenity", "shop", "leisure"} {
		if category, ok := categoryByTag[tags[key]]; ok {
			return category, true
		}
	}

	if tags["sport"] == "fitness" {
		return amenity.CategoryGym, true
	}

	return "", false
}

// descriptionSeparator joins the optional descriptive fragments
const descriptionSeparator = " | "

// BuildDescription assembles a bounded description from whatever
// descriptive tags the element carries, each fragment omitted when its
// tag is absent
func BuildDescription(tags map[string]string) string {
	var parts []string

	if v := tags["cuisine"]; v != "" {
		parts = append(parts, "Cuisine: "+v)
	}
	if v := tags["opening_hours"]; v != "" {
		parts = append(parts, "Hours: "+v)
	}
	if v := tags["phone"]; v != "" {
		parts = append(parts, "Phone: "+v)
	}
	if v := tags["website"]; v != "" {
		parts = append(parts, "Website: "+v)
	}
	if v := tags["operator"]; v != "" {
		parts = append(parts, "Operator: "+v)
	}
	if street := tags["addr:street"]; street != "" {
		addr := street
		if num := tags["addr:housenumber"]; num != "" {
			addr = num + " " + street
		}
		parts = append(parts, "Address: "+addr)
	}

	return truncate(strings.Join(parts, descriptionSeparator), amenity.MaxDescriptionLen)
}

// truncate bounds s to at most max bytes, backing the cut up to a rune
// boundary so the result is always valid UTF-8
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}

	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

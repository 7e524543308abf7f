// internal/service/osmingest/mapping_test.go

package osmingest

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"lbs/internal/domain/amenity"
)

func TestCategoryFor(t *testing.T) {
	t.Run("amenity tags", func(t *testing.T) {
		category, ok := CategoryFor(map[string]string{"amenity": "restaurant"})
		assert.True(t, ok)
		assert.Equal(t, amenity.CategoryCafe, category)

		category, ok = CategoryFor(map[string]string{"amenity": "atm"})
		assert.True(t, ok)
		assert.Equal(t, amenity.CategoryATM, category)
	})

	t.Run("shop tags", func(t *testing.T) {
		category, ok := CategoryFor(map[string]string{"shop": "supermarket"})
		assert.True(t, ok)
		assert.Equal(t, amenity.CategoryShop, category)
	})

	t.Run("leisure tags", func(t *testing.T) {
		category, ok := CategoryFor(map[string]string{"leisure": "park"})
		assert.True(t, ok)
		assert.Equal(t, amenity.CategoryPark, category)
	})

	t.Run("sport fitness counts as gym", func(t *testing.T) {
		category, ok := CategoryFor(map[string]string{"sport": "fitness"})
		assert.True(t, ok)
		assert.Equal(t, amenity.CategoryGym, category)
	})

	t.Run("amenity family wins over leisure", func(t *testing.T) {
		category, ok := CategoryFor(map[string]string{
			"amenity": "cafe",
			"leisure": "garden",
		})
		assert.True(t, ok)
		assert.Equal(t, amenity.CategoryCafe, category)
	})

	t.Run("unmapped tags are rejected, not defaulted", func(t *testing.T) {
		_, ok := CategoryFor(map[string]string{"amenity": "fountain"})
		assert.False(t, ok)

		_, ok = CategoryFor(map[string]string{})
		assert.False(t, ok)
	})
}

func TestBuildDescription(t *testing.T) {
	t.Run("joins present fragments in order", func(t *testing.T) {
		description := BuildDescription(map[string]string{
			"cuisine":       "italian",
			"opening_hours": "Mo-Fr 08:00-18:00",
			"operator":      "Luigi",
		})
		assert.Equal(t, "Cuisine: italian | Hours: Mo-Fr 08:00-18:00 | Operator: Luigi", description)
	})

	t.Run("address combines house number and street", func(t *testing.T) {
		description := BuildDescription(map[string]string{
			"addr:street":      "Main St",
			"addr:housenumber": "12",
		})
		assert.Equal(t, "Address: 12 Main St", description)
	})

	t.Run("street alone still yields an address", func(t *testing.T) {
		description := BuildDescription(map[string]string{"addr:street": "Main St"})
		assert.Equal(t, "Address: Main St", description)
	})

	t.Run("empty tags yield an empty description", func(t *testing.T) {
		assert.Equal(t, "", BuildDescription(map[string]string{}))
	})

	t.Run("truncates to the field bound", func(t *testing.T) {
		description := BuildDescription(map[string]string{
			"website": strings.Repeat("x", 2*amenity.MaxDescriptionLen),
		})
		assert.Len(t, description, amenity.MaxDescriptionLen)
	})

	t.Run("truncation lands on a rune boundary", func(t *testing.T) {
		// "Cuisine: " is 9 bytes, so the byte cut falls mid-rune in
		// the two-byte repeats that follow
		description := BuildDescription(map[string]string{
			"cuisine": strings.Repeat("é", amenity.MaxDescriptionLen),
		})
		assert.True(t, utf8.ValidString(description))
		assert.LessOrEqual(t, len(description), amenity.MaxDescriptionLen)
	})
}

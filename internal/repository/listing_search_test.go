package repository

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchConditions(t *testing.T) {
	t.Run("no filters keeps only the open-slot guard", func(t *testing.T) {
		cond, args := searchConditions(ListingSearchQuery{})
		assert.Equal(t, "l.is_booked = FALSE", cond)
		assert.Empty(t, args)
	})

	t.Run("free text searches location, city and state", func(t *testing.T) {
		cond, args := searchConditions(ListingSearchQuery{Text: "Austin"})
		assert.Contains(t, cond, "LOWER(l.location) LIKE ?")
		assert.Contains(t, cond, "LOWER(l.city) LIKE ?")
		assert.Contains(t, cond, "LOWER(l.state) LIKE ?")
		require.Len(t, args, 4)
		for _, a := range args {
			assert.Equal(t, "%austin%", a)
		}
	})

	t.Run("free text never matches the description column", func(t *testing.T) {
		cond, _ := searchConditions(ListingSearchQuery{Text: "studio"})
		assert.NotContains(t, cond, "description")
	})

	t.Run("all filters combine with AND", func(t *testing.T) {
		cond, args := searchConditions(ListingSearchQuery{
			Text:  "Park",
			City:  "Denver",
			State: "CO",
			Date:  "2026-09-01",
		})
		assert.Equal(t, 4, strings.Count(cond, " AND "))
		assert.Contains(t, cond, "l.available_date = ?")
		require.Len(t, args, 7)
		assert.Equal(t, "%denver%", args[4])
		assert.Equal(t, "co", args[5])
		assert.Equal(t, "2026-09-01", args[6])
	})
}

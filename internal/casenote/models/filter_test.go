package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFilterNormalize(t *testing.T) {
	f := Filter{
		ParentType:     "  POM ",
		SubType:        "\t",
		AuthorUsername: "jsmith",
		LocationID:     "   ",
	}.Normalize()

	assert.Equal(t, "POM", f.ParentType)
	assert.Empty(t, f.SubType)
	assert.Equal(t, "jsmith", f.AuthorUsername)
	assert.Empty(t, f.LocationID)
	assert.Equal(t, SortAscending, f.Sort)

	desc := Filter{Sort: SortDescending}.Normalize()
	assert.Equal(t, SortDescending, desc.Sort)
}

func TestFilterMatches(t *testing.T) {
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	note := &CaseNote{
		SubjectID:      "A1234BC",
		LocationID:     "LEI",
		AuthorUsername: "jsmith",
		ParentType:     "POM",
		SubType:        "GEN",
		ModifiedAt:     at,
	}

	t.Run("empty filter matches everything", func(t *testing.T) {
		assert.True(t, Filter{}.Normalize().Matches(note))
	})

	t.Run("present criteria are AND-composed", func(t *testing.T) {
		assert.True(t, Filter{ParentType: "POM", LocationID: "LEI"}.Normalize().Matches(note))
		assert.False(t, Filter{ParentType: "POM", LocationID: "MDI"}.Normalize().Matches(note))
	})

	t.Run("blank criterion is a wildcard not an empty-string match", func(t *testing.T) {
		assert.True(t, Filter{SubjectID: "  "}.Normalize().Matches(note))
	})

	t.Run("modified-after bound is strict", func(t *testing.T) {
		assert.False(t, Filter{ModifiedAfter: &at}.Normalize().Matches(note))
		before := at.Add(-time.Second)
		assert.True(t, Filter{ModifiedAfter: &before}.Normalize().Matches(note))
	})
}

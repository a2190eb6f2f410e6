package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casenotes/internal/notetype/models"
	"casenotes/pkg/platform/sentinel"
)

func TestInMemoryCatalog(t *testing.T) {
	ctx := context.Background()
	catalog := NewInMemory()
	SeedDefaultTypes(catalog)

	t.Run("resolves a seeded pair", func(t *testing.T) {
		noteType, err := catalog.Resolve(ctx, "POM", "SPECIAL")
		require.NoError(t, err)
		assert.True(t, noteType.Sensitive)
	})

	t.Run("unknown pair is not found", func(t *testing.T) {
		_, err := catalog.Resolve(ctx, "POM", "NOPE")
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("put replaces an existing descriptor", func(t *testing.T) {
		catalog.Put(models.NoteType{ParentType: "POM", SubType: "GEN", Description: "updated", Sensitive: true})
		noteType, err := catalog.Resolve(ctx, "POM", "GEN")
		require.NoError(t, err)
		assert.Equal(t, "updated", noteType.Description)
		assert.True(t, noteType.Sensitive)
	})
}

package chat

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoryFeedbackStore_Record(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryFeedbackStore()

	t.Run("only -1 penalizes", func(t *testing.T) {
		assert.NoError(t, store.Record(ctx, "s1", 0, -1))
		assert.NoError(t, store.Record(ctx, "s1", 1, 1))
		assert.NoError(t, store.Record(ctx, "s1", 2, 0))

		penalized, err := store.PenalizedIndices(ctx, "s1")
		assert.NoError(t, err)
		assert.Equal(t, map[int]bool{0: true}, penalized)
	})

	t.Run("re-recording is idempotent", func(t *testing.T) {
		assert.NoError(t, store.Record(ctx, "s2", 3, -1))
		assert.NoError(t, store.Record(ctx, "s2", 3, -1))

		penalized, err := store.PenalizedIndices(ctx, "s2")
		assert.NoError(t, err)
		assert.Len(t, penalized, 1)
	})

	t.Run("a newer rating overwrites", func(t *testing.T) {
		assert.NoError(t, store.Record(ctx, "s3", 0, -1))
		assert.NoError(t, store.Record(ctx, "s3", 0, 1))

		penalized, err := store.PenalizedIndices(ctx, "s3")
		assert.NoError(t, err)
		assert.Empty(t, penalized)
	})

	t.Run("sessions are isolated", func(t *testing.T) {
		assert.NoError(t, store.Record(ctx, "s4", 0, -1))

		penalized, err := store.PenalizedIndices(ctx, "s5")
		assert.NoError(t, err)
		assert.Empty(t, penalized)
	})
}

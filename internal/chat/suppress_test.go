package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPositionalSuppressor_Filter(t *testing.T) {
	ctx := context.Background()
	chunks := []string{"A", "B", "C", "D", "E"}

	t.Run("no feedback keeps everything", func(t *testing.T) {
		s := NewPositionalSuppressor(NewMemoryFeedbackStore())
		assert.Equal(t, chunks, s.Filter(ctx, "s1", chunks))
	})

	t.Run("penalized index is dropped, order preserved", func(t *testing.T) {
		s := NewPositionalSuppressor(NewMemoryFeedbackStore())
		assert.NoError(t, s.Record(ctx, "s1", 1, -1))

		assert.Equal(t, []string{"A", "C", "D", "E"}, s.Filter(ctx, "s1", chunks))
	})

	t.Run("positive rating does not suppress", func(t *testing.T) {
		s := NewPositionalSuppressor(NewMemoryFeedbackStore())
		assert.NoError(t, s.Record(ctx, "s1", 1, 1))

		assert.Equal(t, chunks, s.Filter(ctx, "s1", chunks))
	})

	t.Run("feedback outside the candidate range has no effect", func(t *testing.T) {
		s := NewPositionalSuppressor(NewMemoryFeedbackStore())
		assert.NoError(t, s.Record(ctx, "s1", 99, -1))

		assert.Equal(t, chunks, s.Filter(ctx, "s1", chunks))
	})

	t.Run("all penalized yields empty", func(t *testing.T) {
		s := NewPositionalSuppressor(NewMemoryFeedbackStore())
		for i := range chunks {
			assert.NoError(t, s.Record(ctx, "s1", i, -1))
		}

		assert.Empty(t, s.Filter(ctx, "s1", chunks))
	})

	t.Run("other sessions are untouched", func(t *testing.T) {
		s := NewPositionalSuppressor(NewMemoryFeedbackStore())
		assert.NoError(t, s.Record(ctx, "s1", 0, -1))

		assert.Equal(t, chunks, s.Filter(ctx, "s2", chunks))
	})

	t.Run("store failure fails open", func(t *testing.T) {
		s := NewPositionalSuppressor(failingFeedbackStore{})
		assert.Equal(t, chunks, s.Filter(ctx, "s1", chunks))
	})
}

type failingFeedbackStore struct{}

func (failingFeedbackStore) Record(context.Context, string, int, int) error {
	return errors.New("store down")
}

func (failingFeedbackStore) PenalizedIndices(context.Context, string) (map[int]bool, error) {
	return nil, errors.New("store down")
}

func TestContentSuppressor(t *testing.T) {
	ctx := context.Background()

	t.Run("suppression follows content across rankings", func(t *testing.T) {
		s := NewContentSuppressor()

		first := []string{"A", "B", "C"}
		assert.Equal(t, first, s.Filter(ctx, "s1", first))
		assert.NoError(t, s.Record(ctx, "s1", 1, -1)) // penalize "B"

		// B moved to the front in the next retrieval, still dropped
		second := []string{"B", "C", "D"}
		assert.Equal(t, []string{"C", "D"}, s.Filter(ctx, "s1", second))
	})

	t.Run("feedback before any retrieval is dropped", func(t *testing.T) {
		s := NewContentSuppressor()
		assert.NoError(t, s.Record(ctx, "s1", 0, -1))

		chunks := []string{"A", "B"}
		assert.Equal(t, chunks, s.Filter(ctx, "s1", chunks))
	})

	t.Run("index outside the last retrieval is dropped", func(t *testing.T) {
		s := NewContentSuppressor()
		chunks := []string{"A", "B"}
		s.Filter(ctx, "s1", chunks)
		assert.NoError(t, s.Record(ctx, "s1", 5, -1))

		assert.Equal(t, chunks, s.Filter(ctx, "s1", chunks))
	})

	t.Run("non-negative rating lifts the penalty", func(t *testing.T) {
		s := NewContentSuppressor()
		chunks := []string{"A", "B"}
		s.Filter(ctx, "s1", chunks)
		assert.NoError(t, s.Record(ctx, "s1", 0, -1))
		assert.Equal(t, []string{"B"}, s.Filter(ctx, "s1", chunks))

		assert.NoError(t, s.Record(ctx, "s1", 0, 1))
		assert.Equal(t, chunks, s.Filter(ctx, "s1", chunks))
	})
}

package chat

import (
	"sync"
	"testing"

	"github.com/parenthaven/backend/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestMemorySessionStore_History(t *testing.T) {
	store := NewMemorySessionStore()

	t.Run("empty session", func(t *testing.T) {
		assert.Empty(t, store.History("missing", 5))
	})

	t.Run("formats role and content oldest first", func(t *testing.T) {
		store.Append("s1", domain.RoleUser, "hello")
		store.Append("s1", domain.RoleAssistant, "hi there")

		history := store.History("s1", 5)
		assert.Equal(t, []string{"user: hello", "assistant: hi there"}, history)
	})

	t.Run("limit keeps the most recent turns", func(t *testing.T) {
		store := NewMemorySessionStore()
		for i := 0; i < 4; i++ {
			store.Append("s2", domain.RoleUser, "q")
			store.Append("s2", domain.RoleAssistant, "a")
		}

		history := store.History("s2", 5)
		assert.Len(t, history, 5)
		// An odd limit cuts mid-pair; the window is strictly the last N turns
		assert.Equal(t, "assistant: a", history[0])
		assert.Equal(t, "assistant: a", history[4])
	})
}

func TestMemorySessionStore_AppendTurns(t *testing.T) {
	store := NewMemorySessionStore()

	store.AppendTurns("s1",
		domain.Turn{Role: domain.RoleUser, Content: "q"},
		domain.Turn{Role: domain.RoleAssistant, Content: "a"},
	)

	turns := store.Turns("s1")
	assert.Len(t, turns, 2)
	assert.Equal(t, domain.RoleUser, turns[0].Role)
	assert.Equal(t, domain.RoleAssistant, turns[1].Role)
}

func TestMemorySessionStore_AppendTurns_Concurrent(t *testing.T) {
	store := NewMemorySessionStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.AppendTurns("shared",
				domain.Turn{Role: domain.RoleUser, Content: "q"},
				domain.Turn{Role: domain.RoleAssistant, Content: "a"},
			)
		}()
	}
	wg.Wait()

	turns := store.Turns("shared")
	assert.Len(t, turns, 100)
	// Pairs never interleave: even positions are user, odd are assistant
	for i, turn := range turns {
		if i%2 == 0 {
			assert.Equal(t, domain.RoleUser, turn.Role)
		} else {
			assert.Equal(t, domain.RoleAssistant, turn.Role)
		}
	}
}

func TestMemorySessionStore_Clear(t *testing.T) {
	store := NewMemorySessionStore()

	t.Run("unknown session", func(t *testing.T) {
		err := store.Clear("missing")
		assert.ErrorIs(t, err, ErrSessionNotFound)
	})

	t.Run("empties turns but keeps session", func(t *testing.T) {
		store.Append("s1", domain.RoleUser, "hello")
		assert.Equal(t, 1, store.Len("s1"))

		err := store.Clear("s1")
		assert.NoError(t, err)
		assert.Equal(t, 0, store.Len("s1"))

		// Still known after clearing
		assert.NoError(t, store.Clear("s1"))
	})

	t.Run("pre-created session can be cleared", func(t *testing.T) {
		store.GetOrCreate("fresh")
		assert.NoError(t, store.Clear("fresh"))
	})

	t.Run("known tracks creation, not turn count", func(t *testing.T) {
		assert.False(t, store.Known("never"))
		assert.True(t, store.Known("s1"))
		assert.True(t, store.Known("fresh"))
	})
}

func TestMemorySessionStore_TurnsReturnsCopy(t *testing.T) {
	store := NewMemorySessionStore()
	store.Append("s1", domain.RoleUser, "original")

	turns := store.Turns("s1")
	turns[0].Content = "mutated"

	assert.Equal(t, "original", store.Turns("s1")[0].Content)
}

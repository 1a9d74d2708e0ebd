package media

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractorRegistry(t *testing.T) {
	ctx := context.Background()
	reg := NewExtractorRegistry(NewPlainTextExtractor())

	t.Run("plain text passes through", func(t *testing.T) {
		text, err := reg.Extract(ctx, "text/plain", strings.NewReader("hello world"))
		assert.NoError(t, err)
		assert.Equal(t, "hello world", text)
	})

	t.Run("markdown is accepted", func(t *testing.T) {
		text, err := reg.Extract(ctx, "text/markdown", strings.NewReader("# title"))
		assert.NoError(t, err)
		assert.Equal(t, "# title", text)
	})

	t.Run("content type parameters are ignored", func(t *testing.T) {
		text, err := reg.Extract(ctx, "text/plain; charset=utf-8", strings.NewReader("x"))
		assert.NoError(t, err)
		assert.Equal(t, "x", text)
	})

	t.Run("unsupported type errors", func(t *testing.T) {
		_, err := reg.Extract(ctx, "application/pdf", strings.NewReader("%PDF"))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported content type")
	})

	t.Run("supported lookup", func(t *testing.T) {
		assert.True(t, reg.Supported("text/plain"))
		assert.True(t, reg.Supported("Text/Plain; charset=utf-8"))
		assert.False(t, reg.Supported("audio/mpeg"))
	})
}

package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubProvider struct {
	name       string
	configured bool
}

func (p *stubProvider) Name() string              { return p.name }
func (p *stubProvider) AvailableModels() []string { return []string{p.name + "-model"} }
func (p *stubProvider) DefaultModel() string      { return p.name + "-model" }
func (p *stubProvider) IsConfigured() bool        { return p.configured }
func (p *stubProvider) Complete(context.Context, string, string) (*Response, error) {
	return &Response{Text: "stub"}, nil
}

func TestRouter_GetProvider(t *testing.T) {
	router := NewRouter("gemini")
	router.RegisterProvider(&stubProvider{name: "gemini", configured: true})
	router.RegisterProvider(&stubProvider{name: "ollama", configured: false})

	t.Run("by name", func(t *testing.T) {
		p, err := router.GetProvider("gemini")
		assert.NoError(t, err)
		assert.Equal(t, "gemini", p.Name())
	})

	t.Run("empty name falls back to default", func(t *testing.T) {
		p, err := router.GetProvider("")
		assert.NoError(t, err)
		assert.Equal(t, "gemini", p.Name())
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, err := router.GetProvider("missing")
		assert.Error(t, err)
	})

	t.Run("unconfigured provider", func(t *testing.T) {
		_, err := router.GetProvider("ollama")
		assert.Error(t, err)
	})
}

func TestRouter_GetProvidersInfo(t *testing.T) {
	router := NewRouter("gemini")
	router.RegisterProvider(&stubProvider{name: "gemini", configured: true})
	router.RegisterProvider(&stubProvider{name: "openai", configured: true})

	infos := router.GetProvidersInfo()
	assert.Len(t, infos, 2)

	byName := make(map[string]ProviderInfo)
	for _, info := range infos {
		byName[info.Name] = info
	}
	assert.True(t, byName["gemini"].Default)
	assert.False(t, byName["openai"].Default)
	assert.Equal(t, []string{"openai-model"}, byName["openai"].Models)
}

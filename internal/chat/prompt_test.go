package chat

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt(
		"passage one\npassage two",
		[]string{"user: earlier question", "assistant: earlier answer"},
		"current question",
	)

	t.Run("contains all sections", func(t *testing.T) {
		assert.Contains(t, prompt, "Context:\npassage one\npassage two")
		assert.Contains(t, prompt, "Chat History:\nuser: earlier question\nassistant: earlier answer")
		assert.Contains(t, prompt, "User Question:\ncurrent question")
	})

	t.Run("sections appear in fixed order", func(t *testing.T) {
		ctxIdx := strings.Index(prompt, "Context:")
		histIdx := strings.Index(prompt, "Chat History:")
		questionIdx := strings.Index(prompt, "User Question:")
		answerIdx := strings.Index(prompt, "Answer concisely")

		assert.True(t, ctxIdx < histIdx)
		assert.True(t, histIdx < questionIdx)
		assert.True(t, questionIdx < answerIdx)
	})

	t.Run("keeps safety instructions", func(t *testing.T) {
		assert.Contains(t, prompt, "Do NOT provide medical diagnosis")
		assert.Contains(t, prompt, "recommend professional consultation")
	})

	t.Run("empty history leaves the section blank", func(t *testing.T) {
		p := BuildPrompt("ctx", nil, "q")
		assert.Contains(t, p, "Chat History:\n\n")
	})
}

package chat

import (
	"fmt"
	"strings"
)

// promptTemplate fixes the section order the completion model is tuned
// against: instructions, context, history, question, answer directive.
const promptTemplate = `You are a compassionate mental health assistant for parents of children with developmental or mental disabilities.
Use the context below (from trusted resources) and the chat history to answer concisely, empathetically, and safely.
Do NOT provide medical diagnosis or prescribe treatment — always recommend professional consultation.

Context:
%s

Chat History:
%s

User Question:
%s

Answer concisely in 2-4 sentences:`

// BuildPrompt composes the completion request. Pure string transform; history
// lines arrive oldest first as "role: content".
func BuildPrompt(contextBlock string, history []string, query string) string {
	return fmt.Sprintf(promptTemplate, contextBlock, strings.Join(history, "\n"), query)
}

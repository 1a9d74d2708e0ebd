package retrieval

// ChunkText splits a document into overlapping chunks for embedding.
// Chunks are size characters long and consecutive chunks share overlap
// characters, so a sentence cut at a boundary still appears whole in one of
// its neighbors. Boundaries advance by runes, never through the middle of a
// multibyte character.
func ChunkText(text string, size, overlap int) []string {
	if size <= 0 {
		size = 1000
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}
	if text == "" {
		return nil
	}

	runes := []rune(text)
	step := size - overlap
	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return chunks
}

package rope

// Chunk size constants control the granularity of text storage.
const (
	// MaxChunkSize is the maximum bytes per chunk before splitting.
	MaxChunkSize = 256

	// TargetChunkSize is the preferred chunk size when building.
	TargetChunkSize = 192
)

// splitIntoChunks splits a string into chunks of at most MaxChunkSize bytes.
// Chunks are substrings of s and share its backing memory.
func splitIntoChunks(s string) []string {
	if len(s) == 0 {
		return nil
	}
	if len(s) <= MaxChunkSize {
		return []string{s}
	}

	chunks := make([]string, 0, len(s)/TargetChunkSize+1)
	for len(s) > MaxChunkSize {
		cut := TargetChunkSize
		// Prefer a cut just after a newline when one is close by.
		for i := TargetChunkSize; i < MaxChunkSize; i++ {
			if s[i-1] == '\n' {
				cut = i
				break
			}
		}
		chunks = append(chunks, s[:cut])
		s = s[cut:]
	}
	return append(chunks, s)
}

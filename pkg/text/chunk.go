package text

// Chunk size constants control the granularity of text storage.
const (
	// DefaultChunkSize is the preferred chunk size when building a source.
	DefaultChunkSize = 4096

	// MinChunkSize is the smallest chunk size accepted by WithChunkSize.
	MinChunkSize = 16
)

// splitIntoChunks splits a string into chunks of roughly size bytes.
// Chunks never split a UTF-8 sequence and prefer ending after a newline.
func splitIntoChunks(s string, size int) []string {
	if len(s) == 0 {
		return nil
	}
	if len(s) <= size {
		return []string{s}
	}

	chunks := make([]string, 0, len(s)/size+1)
	remaining := s

	for len(remaining) > 0 {
		if len(remaining) <= size+size/2 {
			// Last chunk, take it all.
			chunks = append(chunks, remaining)
			break
		}

		splitPoint := findBoundary(remaining, size)
		chunks = append(chunks, remaining[:splitPoint])
		remaining = remaining[splitPoint:]
	}

	return chunks
}

// findBoundary finds a split position near target that does not fall inside
// a UTF-8 sequence, preferring the byte after a nearby newline.
func findBoundary(s string, target int) int {
	if target >= len(s) {
		return len(s)
	}
	if target <= 0 {
		return 0
	}

	window := max(target/8, 1)
	searchStart := max(target-window, 1)
	searchEnd := min(target+window, len(s))

	for i := target; i < searchEnd; i++ {
		if s[i] == '\n' {
			return i + 1
		}
	}
	for i := target - 1; i >= searchStart; i-- {
		if s[i] == '\n' {
			return i + 1
		}
	}

	pos := target
	for pos < len(s) && !isUTF8Start(s[pos]) && pos < target+4 {
		pos++
	}
	if pos >= len(s) || !isUTF8Start(s[pos]) {
		pos = target
		for pos > 1 && !isUTF8Start(s[pos]) {
			pos--
		}
	}

	return pos
}

// isUTF8Start returns true if the byte is the start of a UTF-8 sequence.
func isUTF8Start(b byte) bool {
	// Continuation bytes are 10xxxxxx.
	return b&0xC0 != 0x80
}

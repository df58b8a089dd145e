// Package chunker splits input text into word-bounded chunks small enough for
// the backend translation model, and merges the translated chunks back into
// a single string.
//
// Splitting is by word count only, so a chunk boundary may fall in the middle
// of a sentence.
package chunker

import "strings"

const (
	// DefaultChunkWords is the maximum number of words sent per chunk.
	DefaultChunkWords = 15
)

// ChunkWords tokenises text on whitespace and groups consecutive words into
// chunks of at most size words, each joined by a single space. The last chunk
// may be shorter. Empty or whitespace-only text returns an empty, non-nil
// slice so it still encodes as a JSON array.
// If size ≤ 0, DefaultChunkWords is used.
func ChunkWords(text string, size int) []string {
	if size <= 0 {
		size = DefaultChunkWords
	}

	words := strings.Fields(text)
	chunks := make([]string, 0, (len(words)+size-1)/size)
	for start := 0; start < len(words); start += size {
		end := start + size
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[start:end], " "))
	}
	return chunks
}

// Merge joins translated chunks with single spaces. A nil or empty slice
// yields the empty string.
func Merge(parts []string) string {
	return strings.Join(parts, " ")
}

// WordCount returns the number of whitespace-separated words in text.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

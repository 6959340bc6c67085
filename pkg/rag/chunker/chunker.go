package chunker

import "strings"

// Default window parameters, tuned for ~800-token reference pages.
const (
	DefaultTargetWords  = 600
	DefaultOverlapWords = 75
)

// Split slices text into overlapping word windows of targetWords words
// with overlapWords words shared between consecutive windows. Text at or
// under the target size comes back unchanged as a single chunk.
//
// The result is a pure function of the input's word sequence: same text
// and parameters always produce the same chunks.
func Split(text string, targetWords, overlapWords int) []string {
	if targetWords <= 0 {
		targetWords = DefaultTargetWords
	}
	if overlapWords < 0 || overlapWords >= targetWords {
		overlapWords = 0 // fallback if overlap >= window
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	if len(words) <= targetWords {
		return []string{text}
	}

	step := targetWords - overlapWords

	var chunks []string
	for start := 0; start < len(words); start += step {
		end := start + targetWords
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[start:end], " "))
		if end == len(words) {
			break
		}
	}

	return chunks
}

// SplitDefault applies the standard window parameters.
func SplitDefault(text string) []string {
	return Split(text, DefaultTargetWords, DefaultOverlapWords)
}

package chunker

import (
	"strings"
	"unicode/utf8"
)

// defaultSeparators split on paragraph breaks first, then lines, then
// sentence boundaries, then words, then single characters as a last resort.
var defaultSeparators = []string{"\n\n", "\n", ". ", " ", ""}

// Splitter performs recursive character splitting: text is broken on the
// coarsest separator that appears, oversized pieces are re-split on finer
// separators, and adjacent pieces are merged back into windows of at most
// chunkSize characters with overlapChars carried between consecutive windows.
type Splitter struct {
	chunkSize    int
	chunkOverlap int
	separators   []string
}

// NewSplitter creates a splitter with the given window and overlap sizes
// (in characters). Non-positive values fall back to 1000/200.
func NewSplitter(chunkSize, chunkOverlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		chunkOverlap = 200
	}
	return &Splitter{
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
		separators:   defaultSeparators,
	}
}

// Split breaks text into overlapping chunks. Whitespace-only pieces are
// dropped; an empty input yields no chunks.
func (s *Splitter) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return s.splitText(text, s.separators)
}

func (s *Splitter) splitText(text string, separators []string) []string {
	var finalChunks []string

	// Pick the coarsest separator present in the text
	separator := separators[len(separators)-1]
	var newSeparators []string
	for i, sep := range separators {
		if sep == "" {
			separator = sep
			break
		}
		if strings.Contains(text, sep) {
			separator = sep
			newSeparators = separators[i+1:]
			break
		}
	}

	splits := splitKeepingSeparator(text, separator)

	// Merge short pieces into windows; recurse on pieces that are still
	// longer than the window.
	var good []string
	for _, piece := range splits {
		if utf8.RuneCountInString(piece) < s.chunkSize {
			good = append(good, piece)
			continue
		}
		if len(good) > 0 {
			finalChunks = append(finalChunks, s.mergeSplits(good)...)
			good = nil
		}
		if len(newSeparators) == 0 {
			finalChunks = append(finalChunks, piece)
		} else {
			finalChunks = append(finalChunks, s.splitText(piece, newSeparators)...)
		}
	}
	if len(good) > 0 {
		finalChunks = append(finalChunks, s.mergeSplits(good)...)
	}

	return finalChunks
}

// splitKeepingSeparator splits text on separator, attaching the separator to
// the start of the following piece so no characters are lost during merging.
// An empty separator splits into individual characters.
func splitKeepingSeparator(text, separator string) []string {
	if separator == "" {
		out := make([]string, 0, utf8.RuneCountInString(text))
		for _, r := range text {
			out = append(out, string(r))
		}
		return out
	}

	parts := strings.Split(text, separator)
	splits := make([]string, 0, len(parts))
	if parts[0] != "" {
		splits = append(splits, parts[0])
	}
	for _, p := range parts[1:] {
		splits = append(splits, separator+p)
	}
	return splits
}

// mergeSplits packs pieces into windows of at most chunkSize characters.
// When a window fills, leading pieces are evicted until the retained tail is
// within the overlap budget; that tail seeds the next window.
func (s *Splitter) mergeSplits(splits []string) []string {
	var docs []string
	var current []string
	total := 0

	for _, piece := range splits {
		pieceLen := utf8.RuneCountInString(piece)

		if total+pieceLen > s.chunkSize && len(current) > 0 {
			if doc := strings.TrimSpace(strings.Join(current, "")); doc != "" {
				docs = append(docs, doc)
			}
			for total > s.chunkOverlap || (total+pieceLen > s.chunkSize && total > 0) {
				total -= utf8.RuneCountInString(current[0])
				current = current[1:]
			}
		}

		current = append(current, piece)
		total += pieceLen
	}

	if doc := strings.TrimSpace(strings.Join(current, "")); doc != "" {
		docs = append(docs, doc)
	}
	return docs
}

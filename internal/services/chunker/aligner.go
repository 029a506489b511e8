package chunker

import (
	"strings"
	"unicode/utf8"

	"github.com/ternarybob/verba/internal/models"
)

// alignChunk maps a chunk of joined transcript text back to the segment
// timeline and returns the [start, end] second range it covers.
//
// Matching is heuristic: the chunk's opening and closing phrases are searched
// for in the segment texts, longest phrase first, with a word-overlap check
// as a looser secondary signal. The start and end segment are chosen
// independently, so the raw pair can come back inverted when vocabulary
// repeats across distant segments; the result is normalized so start <= end
// always holds. This is a bag-of-words matcher, not a true alignment, and
// can mis-attribute chunks when phrases recur. That approximation is
// accepted.
func alignChunk(chunkText string, segments []models.Segment) (float64, float64) {
	if len(segments) == 0 {
		return 0, 0
	}

	words := strings.Fields(strings.ToLower(strings.TrimSpace(chunkText)))
	if len(words) < 3 {
		// Too little signal to match; attribute to the opening segment
		return segments[0].StartSeconds, segments[0].EndSeconds
	}

	// Opening phrases: the first five words, then progressively shorter
	// prefixes. Closing phrases: the last five words, then shorter suffixes.
	// A chunk usually starts mid-segment, so only the tail of its opening
	// phrase overlaps the start segment's text.
	openPhrases := prefixPhrases(words)
	closePhrases := suffixPhrases(words)

	var startSegment, endSegment *models.Segment
	bestStartScore, bestEndScore := 0, 0

	for i := range segments {
		segmentText := strings.ToLower(strings.TrimSpace(segments[i].Text))
		segmentWords := wordSet(segmentText)

		// Exact phrase containment scores by phrase length, so longer
		// matches dominate; word overlap of the chunk's first ten words is
		// the weaker fallback signal.
		if score := phraseScore(segmentText, openPhrases); score > bestStartScore {
			bestStartScore = score
			startSegment = &segments[i]
		}
		if overlap := countIn(words[:min(10, len(words))], segmentWords); overlap >= 3 && overlap > bestStartScore {
			bestStartScore = overlap
			startSegment = &segments[i]
		}

		if score := phraseScore(segmentText, closePhrases); score > bestEndScore {
			bestEndScore = score
			endSegment = &segments[i]
		}
		if overlap := countIn(words[max(0, len(words)-10):], segmentWords); overlap >= 3 && overlap > bestEndScore {
			bestEndScore = overlap
			endSegment = &segments[i]
		}
	}

	if startSegment != nil && endSegment != nil {
		start, end := startSegment.StartSeconds, endSegment.EndSeconds
		if start > end {
			start, end = end, start
		}
		return start, end
	}

	// Fallback: any single segment containing a good share of the chunk words
	threshold := min(5, len(words)/2)
	for i := range segments {
		segmentWords := wordSet(strings.ToLower(strings.TrimSpace(segments[i].Text)))
		if countIn(words, segmentWords) >= threshold {
			return segments[i].StartSeconds, segments[i].EndSeconds
		}
	}

	return segments[0].StartSeconds, segments[0].EndSeconds
}

// prefixPhrases returns the chunk's opening phrase at decreasing lengths:
// first 5 words, first 4, ... down to the first word alone.
func prefixPhrases(words []string) []string {
	n := min(5, len(words))
	phrases := make([]string, 0, n)
	for k := n; k >= 1; k-- {
		phrases = append(phrases, strings.Join(words[:k], " "))
	}
	return phrases
}

// suffixPhrases returns the chunk's closing phrase at decreasing lengths:
// last 5 words, last 4, ... down to the final word alone.
func suffixPhrases(words []string) []string {
	n := min(5, len(words))
	phrases := make([]string, 0, n)
	for k := n; k >= 1; k-- {
		phrases = append(phrases, strings.Join(words[len(words)-k:], " "))
	}
	return phrases
}

// phraseScore returns the character length of the longest phrase contained
// in the segment text, or 0 when none match. Phrases must be ordered longest
// first.
func phraseScore(segmentText string, phrases []string) int {
	for _, p := range phrases {
		if strings.Contains(segmentText, p) {
			return utf8.RuneCountInString(p)
		}
	}
	return 0
}

func wordSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(text) {
		set[w] = struct{}{}
	}
	return set
}

// countIn counts how many of the given words (duplicates included) appear in
// the set.
func countIn(words []string, set map[string]struct{}) int {
	n := 0
	for _, w := range words {
		if _, ok := set[w]; ok {
			n++
		}
	}
	return n
}

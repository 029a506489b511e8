package lexical

import "math"

// Okapi BM25 parameters. Negative IDF values (terms present in more than
// half the corpus) are floored at epsilon * averageIDF so very common terms
// still contribute a small positive weight instead of a penalty.
const (
	k1      = 1.5
	b       = 0.75
	epsilon = 0.25
)

// BM25 scores tokenized queries against a fixed corpus of tokenized
// documents. Build once per corpus; scoring is read-only and safe for
// concurrent use.
type BM25 struct {
	corpusSize int
	avgDocLen  float64
	docLens    []int
	docFreqs   []map[string]int
	idf        map[string]float64
}

// NewBM25 builds the index over a corpus of tokenized documents.
func NewBM25(corpus [][]string) *BM25 {
	bm := &BM25{
		corpusSize: len(corpus),
		docLens:    make([]int, len(corpus)),
		docFreqs:   make([]map[string]int, len(corpus)),
		idf:        make(map[string]float64),
	}

	// Document frequency per term
	nd := make(map[string]int)
	totalLen := 0
	for i, doc := range corpus {
		bm.docLens[i] = len(doc)
		totalLen += len(doc)

		freqs := make(map[string]int, len(doc))
		for _, token := range doc {
			freqs[token]++
		}
		bm.docFreqs[i] = freqs

		for token := range freqs {
			nd[token]++
		}
	}
	if bm.corpusSize > 0 {
		bm.avgDocLen = float64(totalLen) / float64(bm.corpusSize)
	}

	// Probabilistic IDF, with the negative values collected and floored
	idfSum := 0.0
	var negative []string
	for token, freq := range nd {
		idf := math.Log(float64(bm.corpusSize)-float64(freq)+0.5) - math.Log(float64(freq)+0.5)
		bm.idf[token] = idf
		idfSum += idf
		if idf < 0 {
			negative = append(negative, token)
		}
	}
	if len(nd) > 0 {
		avgIDF := idfSum / float64(len(nd))
		floor := epsilon * avgIDF
		for _, token := range negative {
			bm.idf[token] = floor
		}
	}

	return bm
}

// Scores returns one BM25 score per corpus document for the given query
// tokens. Documents sharing no terms with the query score zero.
func (bm *BM25) Scores(query []string) []float64 {
	scores := make([]float64, bm.corpusSize)
	for _, token := range query {
		idf, ok := bm.idf[token]
		if !ok {
			continue
		}
		for i := 0; i < bm.corpusSize; i++ {
			freq := float64(bm.docFreqs[i][token])
			if freq == 0 {
				continue
			}
			norm := 1 - b + b*float64(bm.docLens[i])/bm.avgDocLen
			scores[i] += idf * (freq * (k1 + 1)) / (freq + k1*norm)
		}
	}
	return scores
}

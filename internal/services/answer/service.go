package answer

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/verba/internal/interfaces"
	"github.com/ternarybob/verba/internal/models"
	"github.com/ternarybob/verba/internal/services/citations"
)

// NoRelevantInformation is the terminal answer when retrieval finds nothing.
const NoRelevantInformation = "No relevant information found."

// sourceMarkerPattern strips the model's inline [Source N] markers; the full
// citation block replaces them.
var sourceMarkerPattern = regexp.MustCompile(`\[Source \d+\]`)

const sourcesDivider = "=================================================="

// Service turns a question into a cited answer over one collection: hybrid
// retrieval for context, a chat completion to phrase the answer, and the
// citation block appended. A chat failure degrades to a template answer
// assembled from the top chunks, flagged low-confidence, rather than an
// error.
type Service struct {
	retrieval interfaces.RetrievalService
	llm       interfaces.LLMService
	topK      int
	logger    arbor.ILogger
}

// NewService creates the answer service.
func NewService(retrieval interfaces.RetrievalService, llm interfaces.LLMService, topK int, logger arbor.ILogger) *Service {
	if topK <= 0 {
		topK = 3
	}
	return &Service{
		retrieval: retrieval,
		llm:       llm,
		topK:      topK,
		logger:    logger,
	}
}

// Answer retrieves context for the question and generates a cited answer.
// Empty retrieval is a normal terminal state, not an error.
func (s *Service) Answer(ctx context.Context, question, collection string) (*models.Answer, error) {
	results, err := s.retrieval.Search(ctx, collection, question, s.topK)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return &models.Answer{Text: NoRelevantInformation, Found: false}, nil
	}

	// Context blocks and citations share numbering, so the model's [Source N]
	// references line up with the citation list
	contextBlocks := make([]string, len(results))
	citationLines := make([]string, len(results))
	for i, result := range results {
		contextBlocks[i] = fmt.Sprintf("[Source %d] %s", i+1, result.Chunk.Text)
		citationLines[i] = citations.Format(i+1, result.Chunk)
	}
	contextText := strings.Join(contextBlocks, "\n\n")

	generated, err := s.llm.Chat(ctx, []interfaces.Message{
		{Role: "user", Content: fmt.Sprintf(answerPrompt, contextText, question)},
	})

	answer := &models.Answer{
		Citations: citationLines,
		Sources:   results,
		Found:     true,
	}

	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("collection", collection).
			Msg("Answer generation failed, using template fallback")

		answer.Text = s.templateAnswer(results, citationLines)
		answer.LowConfidence = true
		return answer, nil
	}

	text := strings.TrimSpace(sourceMarkerPattern.ReplaceAllString(strings.TrimSpace(generated), ""))
	answer.Text = fmt.Sprintf("%s\n\n%s\nSources:\n%s", text, sourcesDivider, strings.Join(citationLines, "\n"))
	return answer, nil
}

// templateAnswer concatenates the top chunks when the chat model is
// unavailable. Reported as a successful answer, flagged low-confidence.
func (s *Service) templateAnswer(results []*models.SearchResult, citationLines []string) string {
	n := min(2, len(results))
	texts := make([]string, n)
	for i := 0; i < n; i++ {
		texts[i] = results[i].Chunk.Text
	}

	simple := fmt.Sprintf("Based on the video content:\n\n%s", strings.Join(texts, " "))
	return fmt.Sprintf("%s\n\n%s\nSources:\n%s", simple, sourcesDivider, strings.Join(citationLines, "\n"))
}

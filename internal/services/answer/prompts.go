package answer

// answerPrompt frames the retrieved transcript context for the chat model.
// The model is asked to cite with [Source X] markers; those markers are
// stripped from the generated text afterwards and replaced with the full
// citation block, so the inline markers never reach the user.
const answerPrompt = `Based on the following video transcript context, answer the question and include source references.

Context:
%s

Question: %s

Answer with citations (use [Source X] format):`

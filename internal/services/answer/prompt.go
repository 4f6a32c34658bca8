package answer

import (
	"fmt"
	"strings"

	"github.com/ternarybob/nuntius/internal/models"
)

const systemPrompt = `You are a news assistant. Answer the user's question using ONLY the news context supplied below. Do not use outside knowledge. If the context does not contain the answer, say that the available news coverage does not answer the question. Answer in the language the question was asked in, and cite the source names you relied on.`

// buildContextBlock renders retrieved articles into the prompt context, one
// block per article in relevance order.
func buildContextBlock(matches []*models.ScoredArticle) string {
	var b strings.Builder
	for _, match := range matches {
		b.WriteString(fmt.Sprintf("Source: %s\nContent: %s\n\n", match.Title, match.Content))
	}
	return b.String()
}

// buildUserPrompt combines the context block with the verbatim question.
func buildUserPrompt(contextBlock, question string) string {
	return fmt.Sprintf("News context:\n\n%s\nQuestion: %s", contextBlock, question)
}

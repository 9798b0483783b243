package rag

import (
	"fmt"
	"strings"

	"docqa/document"
)

// RefusalMessage is the exact string the model is instructed to emit when
// the answer is not in the excerpts. Downstream consumers pattern-match
// on it, so it must only ever be changed here.
const RefusalMessage = "I cannot find that information in the provided documents."

const promptTemplate = `You are an expert assistant that answers questions based on provided document excerpts.

Use the following relevant excerpts to answer the question accurately and concisely.
If the answer cannot be found in the excerpts, say "{refusal}"

Relevant excerpts:
{context}

Question: {question}

Answer:`

// BuildPrompt renders the instruction template with the retrieved context
// and the user's question.
func BuildPrompt(question string, retrieved []document.ScoredUnit) string {
	prompt := strings.ReplaceAll(promptTemplate, "{refusal}", RefusalMessage)
	prompt = strings.ReplaceAll(prompt, "{context}", formatExcerpts(retrieved))
	return strings.ReplaceAll(prompt, "{question}", question)
}

// formatExcerpts numbers the excerpts 1-based in the order received,
// which is the index's ranking order.
func formatExcerpts(retrieved []document.ScoredUnit) string {
	formatted := make([]string, len(retrieved))
	for i, unit := range retrieved {
		formatted[i] = fmt.Sprintf("[Excerpt %d]\n%s\n", i+1, unit.Content)
	}
	return strings.Join(formatted, "\n")
}

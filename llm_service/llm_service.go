package llm_service

import "context"

// LLMService is the text-generation collaborator: prompt in, completion
// out. Failures are wrapped into a GenerationError by callers; no retry
// logic lives at this layer or above it.
type LLMService interface {
	CallLLM(ctx context.Context, prompt string) (string, error)
}

package texo

import (
	"context"

	"github.com/sashabaranov/go-openai"
)

// LLM is the reasoning capability every workflow consumes: a chat completion
// over a fragment of conversation, plus raw access for structured extraction.
type LLM interface {
	Ask(ctx context.Context, f Fragment) (Fragment, error)
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

package texo

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// OpenAIClient implements LLM against any OpenAI-compatible endpoint.
type OpenAIClient struct {
	model  string
	client *openai.Client
}

func NewOpenAILLM(model, apiKey, baseURL string) *OpenAIClient {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}

	return &OpenAIClient{
		model:  model,
		client: openai.NewClientWithConfig(config),
	}
}

// Ask prompts the LLM with the fragment messages and returns a new fragment
// with the response appended and the parent set to the input fragment.
func (llm *OpenAIClient) Ask(ctx context.Context, f Fragment) (Fragment, error) {
	resp, err := llm.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model:    llm.model,
			Messages: f.Messages,
		},
	)

	if err != nil {
		return Fragment{}, err
	}

	if len(resp.Choices) == 0 {
		return Fragment{}, fmt.Errorf("no choices: %d", len(resp.Choices))
	}

	return Fragment{
		Messages:       append(f.Messages, resp.Choices[0].Message),
		ParentFragment: &f,
	}, nil
}

func (llm *OpenAIClient) CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	request.Model = llm.model
	return llm.client.CreateChatCompletion(ctx, request)
}

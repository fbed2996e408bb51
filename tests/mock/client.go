package mock

import (
	"context"
	"fmt"
	"sync"

	. "github.com/texo-ai/texo"

	"github.com/sashabaranov/go-openai"
)

// MockClient implements the LLM interface for testing. Responses are queued
// up front and consumed in order; every fragment passed to Ask is recorded.
// Safe for concurrent use so fan-out branches can share one client.
type MockClient struct {
	mu sync.Mutex

	AskResponses                  []Fragment
	AskResponseIndex              int
	CreateChatCompletionResponses []openai.ChatCompletionResponse
	CreateChatCompletionIndex     int
	AskError                      error
	CreateChatCompletionError     error
	FragmentHistory               []Fragment
	RequestHistory                []openai.ChatCompletionRequest
}

func NewMockClient() *MockClient {
	return &MockClient{
		AskResponses:                  []Fragment{},
		CreateChatCompletionResponses: []openai.ChatCompletionResponse{},
	}
}

func (m *MockClient) Ask(ctx context.Context, f Fragment) (Fragment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.FragmentHistory = append(m.FragmentHistory, f)
	if m.AskError != nil {
		return Fragment{}, m.AskError
	}

	if m.AskResponseIndex >= len(m.AskResponses) {
		return Fragment{}, fmt.Errorf("no more Ask responses configured")
	}

	response := m.AskResponses[m.AskResponseIndex]
	m.AskResponseIndex++

	response.Messages = append(f.Messages, response.Messages...)
	response.ParentFragment = &f

	return response, nil
}

func (m *MockClient) CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.RequestHistory = append(m.RequestHistory, request)
	if m.CreateChatCompletionError != nil {
		return openai.ChatCompletionResponse{}, m.CreateChatCompletionError
	}

	if m.CreateChatCompletionIndex >= len(m.CreateChatCompletionResponses) {
		return openai.ChatCompletionResponse{}, fmt.Errorf("no more CreateChatCompletion responses configured")
	}

	response := m.CreateChatCompletionResponses[m.CreateChatCompletionIndex]
	m.CreateChatCompletionIndex++

	return response, nil
}

// SetAskResponse queues an assistant message to be returned by the next Ask
func (m *MockClient) SetAskResponse(content string) {
	fragment := NewEmptyFragment().AddMessage("assistant", content)
	m.AskResponses = append(m.AskResponses, fragment)
}

func (m *MockClient) SetAskError(err error) {
	m.AskError = err
}

func (m *MockClient) SetCreateChatCompletionResponse(response openai.ChatCompletionResponse) {
	m.CreateChatCompletionResponses = append(m.CreateChatCompletionResponses, response)
}

// AddAssistantResponse queues a plain assistant completion (a final answer)
func (m *MockClient) AddAssistantResponse(content string) {
	m.SetCreateChatCompletionResponse(
		openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{
					Message: openai.ChatCompletionMessage{
						Role:    "assistant",
						Content: content,
					},
				},
			},
		})
}

// AddToolCallResponse queues a completion requesting the named tool
func (m *MockClient) AddToolCallResponse(name, args string) {
	m.SetCreateChatCompletionResponse(
		openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{
					Message: openai.ChatCompletionMessage{
						Role: "assistant",
						ToolCalls: []openai.ToolCall{
							{
								Type: openai.ToolTypeFunction,
								Function: openai.FunctionCall{
									Name:      name,
									Arguments: args,
								},
							},
						},
					},
				},
			},
		})
}

func (m *MockClient) SetCreateChatCompletionError(err error) {
	m.CreateChatCompletionError = err
}

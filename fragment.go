package texo

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/mudler/xlog"
	"github.com/sashabaranov/go-openai"
	"github.com/texo-ai/texo/structures"
)

// Status tracks what happened during one workflow run over a fragment.
type Status struct {
	Iterations  int
	ToolsCalled Tools

	// Stopped is set when the run hit its iteration bound before the LLM
	// produced a final answer. It is a normal terminal state, not an error.
	Stopped     bool
	FinalAnswer string
}

// Fragment is an append-only piece of conversation. Workflows take a fragment
// and return a new one; the parent chain records how fragments were derived.
type Fragment struct {
	Messages       []openai.ChatCompletionMessage
	ParentFragment *Fragment
	Status         Status
	Attachments    []Attachment
}

// Attachment is multimedia content referenced by URL (images for now).
type Attachment interface {
	URL() string
}

func NewEmptyFragment() Fragment {
	return Fragment{}
}

func NewFragment(messages ...openai.ChatCompletionMessage) Fragment {
	return Fragment{
		Messages: messages,
	}
}

func (f Fragment) AddMessage(role, content string, attachments ...Attachment) Fragment {
	message := openai.ChatCompletionMessage{
		Role: role,
	}

	if len(attachments) > 0 {
		multiContent := []openai.ChatMessagePart{
			{
				Text: content,
				Type: openai.ChatMessagePartTypeText,
			},
		}

		for _, a := range attachments {
			f.Attachments = append(f.Attachments, a)
			multiContent = append(multiContent, openai.ChatMessagePart{
				Type: openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{
					URL: a.URL(),
				},
			})
		}
		message.MultiContent = multiContent
	} else {
		message.Content = content
	}

	f.Messages = append(f.Messages, message)

	return f
}

func (f Fragment) AddStartMessage(role, content string) Fragment {
	f.Messages = append([]openai.ChatCompletionMessage{
		{
			Role:    role,
			Content: content,
		},
	}, f.Messages...)
	return f
}

// ExtractStructure forces the LLM to answer with the provided JSON schema
// and unmarshals the result into the structure's destination.
func (f Fragment) ExtractStructure(ctx context.Context, llm LLM, s structures.Structure) error {
	toolName := "json"

	decision := openai.ChatCompletionRequest{
		Messages: slices.Clone(f.Messages),
		Tools: []openai.Tool{
			{
				Type: openai.ToolTypeFunction,
				Function: &openai.FunctionDefinition{
					Strict:     true,
					Name:       toolName,
					Parameters: s.Schema,
				},
			},
		},
		ToolChoice: openai.ToolChoice{
			Type:     openai.ToolTypeFunction,
			Function: openai.ToolFunction{Name: toolName},
		},
	}

	resp, err := llm.CreateChatCompletion(ctx, decision)
	if err != nil {
		return err
	}

	if len(resp.Choices) != 1 {
		return fmt.Errorf("no choices: %d", len(resp.Choices))
	}

	msg := resp.Choices[0].Message

	if len(msg.ToolCalls) == 0 {
		return fmt.Errorf("no tool calls: %d", len(msg.ToolCalls))
	}

	return json.Unmarshal([]byte(msg.ToolCalls[0].Function.Arguments), s.Object)
}

// Decide runs one reasoning step over the fragment with the given tools
// attached. The response is either a tool invocation request (non-nil
// ToolChoice) or a final answer; in both cases the assistant message is
// appended to the returned fragment.
func (f Fragment) Decide(ctx context.Context, llm LLM, availableTools Tools) (Fragment, *ToolChoice, error) {
	decision := openai.ChatCompletionRequest{
		Messages: slices.Clone(f.Messages),
		Tools:    availableTools.ToOpenAI(),
	}

	resp, err := llm.CreateChatCompletion(ctx, decision)
	if err != nil {
		return Fragment{}, nil, err
	}

	if len(resp.Choices) != 1 {
		return Fragment{}, nil, fmt.Errorf("no choices: %d", len(resp.Choices))
	}

	msg := resp.Choices[0].Message

	if len(msg.ToolCalls) == 0 {
		f.Messages = append(f.Messages, msg)
		return f, nil, nil
	}

	toolCall := msg.ToolCalls[0]
	arguments := make(map[string]any)

	// Zero-parameter tools come back with empty arguments.
	if toolCall.Function.Arguments == "" {
		toolCall.Function.Arguments = "{}"
	}

	if err := json.Unmarshal([]byte(toolCall.Function.Arguments), &arguments); err != nil {
		return Fragment{}, nil, fmt.Errorf("failed to parse tool call arguments: %w", err)
	}

	xlog.Debug("LLM requested a tool invocation", "tool", toolCall.Function.Name)

	f.Messages = append(f.Messages, openai.ChatCompletionMessage{
		Role: "assistant",
		ToolCalls: []openai.ToolCall{
			{
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      toolCall.Function.Name,
					Arguments: toolCall.Function.Arguments,
				},
			},
		},
	})

	return f, &ToolChoice{Name: toolCall.Function.Name, Arguments: arguments}, nil
}

func (f Fragment) String() string {
	var str strings.Builder
	for _, msg := range f.Messages {
		str.WriteString(fmt.Sprintf("%s: %s\n", msg.Role, msg.Content))
		if len(msg.ToolCalls) > 0 {
			for _, tool := range msg.ToolCalls {
				str.WriteString(fmt.Sprintf("  Tool call: %s(%s)\n", tool.Function.Name, tool.Function.Arguments))
			}
		}
	}

	return str.String()
}

// AllFragmentsStrings walks the parent chain to render the whole derivation
// as a string, useful to feed chained conversations back as context.
func (f Fragment) AllFragmentsStrings() string {
	if f.ParentFragment == nil {
		return f.String()
	}
	return f.String() + "\n\n" + f.ParentFragment.AllFragmentsStrings()
}

func (f Fragment) AddLastMessage(f2 Fragment) Fragment {
	if len(f2.Messages) > 0 {
		f.Messages = append(f.Messages, f2.Messages[len(f2.Messages)-1])
	}
	return f
}

func (f Fragment) LastMessage() *openai.ChatCompletionMessage {
	if len(f.Messages) == 0 {
		return nil
	}
	return &f.Messages[len(f.Messages)-1]
}

// LastAssistantAndToolMessages returns the trailing run of assistant and tool
// messages, i.e. everything produced since the last user or system message.
func (f Fragment) LastAssistantAndToolMessages() []openai.ChatCompletionMessage {
	lastMessages := []openai.ChatCompletionMessage{}
	for i := len(f.Messages) - 1; i >= 0; i-- {
		if f.Messages[i].Role != "assistant" && f.Messages[i].Role != "tool" {
			break
		}
		lastMessages = append([]openai.ChatCompletionMessage{f.Messages[i]}, lastMessages...)
	}

	return lastMessages
}

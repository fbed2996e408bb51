package texo

import (
	"errors"

	"github.com/sashabaranov/go-openai"
)

var (
	// ErrToolNotFound is returned when the LLM names a tool the registry does not hold.
	ErrToolNotFound error = errors.New("tool not found in the registry")

	// ErrAmbiguousDecision is returned by loops configured with FailOnAmbiguity
	// when a reasoning step produces neither a tool call nor an answer.
	ErrAmbiguousDecision error = errors.New("ambiguous decision from the LLM")
)

// ToolChoice is a tool invocation requested by the LLM.
type ToolChoice struct {
	Name      string
	Arguments map[string]any
}

type ToolStatus struct {
	Executed bool
	Choice   ToolChoice
	Result   string
	Name     string
}

type Tool interface {
	Tool() openai.Tool
	Status() *ToolStatus
	Run(args map[string]any) (string, error)
}

type Tools []Tool

func (t Tools) Find(name string) Tool {
	for _, tool := range t {
		if tool.Tool().Function.Name == name {
			return tool
		}
	}
	return nil
}

func (t Tools) ToOpenAI() []openai.Tool {
	openaiTools := []openai.Tool{}
	for _, tool := range t {
		openaiTools = append(openaiTools, tool.Tool())
	}

	return openaiTools
}

func (t Tools) Definitions() []*openai.FunctionDefinition {
	defs := []*openai.FunctionDefinition{}
	for _, tool := range t {
		if tool.Tool().Function != nil {
			defs = append(defs, tool.Tool().Function)
		}
	}
	return defs
}

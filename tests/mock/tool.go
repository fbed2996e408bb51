package mock

import (
	. "github.com/texo-ai/texo"

	"github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
)

// MockTool implements the Tool interface for testing. Run results are queued
// and consumed in order; every argument map passed to Run is recorded.
type MockTool struct {
	name        string
	description string
	runResults  []string
	runError    error
	runIndex    int
	status      ToolStatus

	Calls []map[string]any
}

func NewMockTool(name, description string) *MockTool {
	return &MockTool{
		name:        name,
		description: description,
	}
}

func (m *MockTool) Tool() openai.Tool {
	return openai.Tool{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        m.name,
			Description: m.description,
			Parameters: jsonschema.Definition{
				Type:       jsonschema.Object,
				Properties: map[string]jsonschema.Definition{},
			},
		},
	}
}

func (m *MockTool) Status() *ToolStatus {
	return &m.status
}

func (m *MockTool) Run(args map[string]any) (string, error) {
	m.Calls = append(m.Calls, args)
	if m.runError != nil {
		return "", m.runError
	}

	if m.runIndex >= len(m.runResults) {
		// Keep answering with the last configured result
		if len(m.runResults) == 0 {
			return "", nil
		}
		return m.runResults[len(m.runResults)-1], nil
	}

	defer func() {
		m.runIndex++
	}()
	return m.runResults[m.runIndex], nil
}

func (m *MockTool) SetRunResult(result string) {
	m.runResults = append(m.runResults, result)
}

func (m *MockTool) SetRunError(err error) {
	m.runError = err
}

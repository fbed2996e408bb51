package texo

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/mudler/xlog"
	"github.com/sashabaranov/go-openai"
	"github.com/tmc/langchaingo/jsonschema"
)

// mcpTool exposes a tool served over a Model Context Protocol session
// through the Tool interface.
type mcpTool struct {
	name, description string
	inputSchema       toolInputSchema
	props             map[string]jsonschema.Definition
	session           *mcp.ClientSession
	ctx               context.Context
	status            ToolStatus
}

func (t *mcpTool) Tool() openai.Tool {
	return openai.Tool{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        t.name,
			Description: t.description,
			Parameters: jsonschema.Definition{
				Type:       jsonschema.Object,
				Properties: t.props,
				Required:   t.inputSchema.Required,
			},
		},
	}
}

func (t *mcpTool) Status() *ToolStatus {
	return &t.status
}

func (t *mcpTool) Run(args map[string]any) (string, error) {
	params := &mcp.CallToolParams{
		Name:      t.name,
		Arguments: args,
	}
	res, err := t.session.CallTool(t.ctx, params)
	if err != nil {
		xlog.Error("CallTool failed", "tool", t.name, "error", err)
		return "", err
	}

	result := ""
	for _, c := range res.Content {
		if text, ok := c.(*mcp.TextContent); ok {
			result += text.Text
		}
	}

	if res.IsError {
		xlog.Error("tool failed", "tool", t.name, "result", result)
		return result, errors.New("tool failed: " + result)
	}

	return result, nil
}

type toolInputSchema struct {
	Type       string                 `json:"type"`
	Properties map[string]interface{} `json:"properties,omitempty"`
	Required   []string               `json:"required,omitempty"`
}

// mcpToolsFromSession probes the MCP session and wraps every tool it serves.
func mcpToolsFromSession(ctx context.Context, session *mcp.ClientSession) (Tools, error) {
	allTools := Tools{}

	tools, err := session.ListTools(ctx, nil)
	if err != nil {
		xlog.Error("Error listing tools", "error", err)
		return nil, err
	}

	for _, tool := range tools.Tools {
		dat, err := json.Marshal(tool.InputSchema)
		if err != nil {
			xlog.Error("Error marshalling input schema", "tool", tool.Name, "error", err)
			continue
		}

		var inputSchema toolInputSchema
		if err := json.Unmarshal(dat, &inputSchema); err != nil {
			xlog.Error("Error unmarshalling input schema", "tool", tool.Name, "error", err)
			continue
		}

		props := map[string]jsonschema.Definition{}
		dat, err = json.Marshal(inputSchema.Properties)
		if err != nil {
			xlog.Error("Error marshalling input schema properties", "tool", tool.Name, "error", err)
			continue
		}
		if err := json.Unmarshal(dat, &props); err != nil {
			xlog.Error("Error unmarshalling input schema properties", "tool", tool.Name, "error", err)
			continue
		}

		allTools = append(allTools, &mcpTool{
			name:        tool.Name,
			description: tool.Description,
			session:     session,
			ctx:         ctx,
			props:       props,
			inputSchema: inputSchema,
		})
	}

	return allTools, nil
}

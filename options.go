package texo

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/texo-ai/texo/prompt"
)

// AmbiguityPolicy decides what a loop does when a reasoning step is neither
// clearly a tool call nor a final answer.
type AmbiguityPolicy int

const (
	// AnswerVerbatim treats the ambiguous response as the final answer.
	AnswerVerbatim AmbiguityPolicy = iota
	// FailOnAmbiguity aborts the run with ErrAmbiguousDecision.
	FailOnAmbiguity
)

type Options struct {
	prompts            prompt.PromptMap
	maxIterations      int
	maxAttempts        int
	tools              Tools
	deepContext        bool
	ctx                context.Context
	statusCallback     func(string)
	toolCallCallback   func(*ToolChoice) bool
	toolResultCallback func(Tool)
	reviewer           LLM
	fallbackRoute      string
	ambiguityPolicy    AmbiguityPolicy
	mcpSessions        []*mcp.ClientSession
	workerLimit        int
}

type Option func(*Options)

func defaultOptions() *Options {
	return &Options{
		maxIterations:  3,
		maxAttempts:    1,
		ctx:            context.Background(),
		statusCallback: func(s string) {},
	}
}

func (o *Options) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(o)
	}
}

// availableTools merges the configured tools with the ones exposed by the
// attached MCP sessions.
func (o *Options) availableTools() (Tools, error) {
	tools := append(Tools{}, o.tools...)

	for _, session := range o.mcpSessions {
		mcpTools, err := mcpToolsFromSession(o.ctx, session)
		if err != nil {
			return Tools{}, fmt.Errorf("failed to get MCP tools: %w", err)
		}
		tools = append(tools, mcpTools...)
	}

	return tools, nil
}

var (
	// EnableDeepContext feeds the full parent chain to the LLM when chaining
	// conversations. It might yield better results at the cost of bigger context use.
	EnableDeepContext Option = func(o *Options) {
		o.deepContext = true
	}
)

// WithIterations sets the iteration bound of the loop-based workflows
func WithIterations(i int) func(o *Options) {
	return func(o *Options) {
		o.maxIterations = i
	}
}

// WithMaxAttempts sets how many times a failing tool invocation is re-run
// before the run is aborted
func WithMaxAttempts(i int) func(o *Options) {
	return func(o *Options) {
		o.maxAttempts = i
	}
}

// WithPrompt overrides the prompt used for a given PromptType
func WithPrompt(t prompt.PromptType, p prompt.StaticPrompt) func(o *Options) {
	return func(o *Options) {
		if o.prompts == nil {
			o.prompts = make(prompt.PromptMap)
		}

		o.prompts[t] = p
	}
}

// WithTools sets the tools available to the loop
func WithTools(tools ...Tool) func(o *Options) {
	return func(o *Options) {
		o.tools = append(o.tools, tools...)
	}
}

// WithContext sets the execution context for the run
func WithContext(ctx context.Context) func(o *Options) {
	return func(o *Options) {
		o.ctx = ctx
	}
}

// WithStatusCallback sets a callback receiving status updates during execution
func WithStatusCallback(fn func(string)) func(o *Options) {
	return func(o *Options) {
		o.statusCallback = fn
	}
}

// WithToolCallback sets a callback consulted before every tool invocation;
// returning false interrupts the run
func WithToolCallback(fn func(*ToolChoice) bool) func(o *Options) {
	return func(o *Options) {
		o.toolCallCallback = fn
	}
}

// WithToolResultCallback runs the callback on every executed tool
func WithToolResultCallback(fn func(Tool)) func(o *Options) {
	return func(o *Options) {
		o.toolResultCallback = fn
	}
}

// WithReviewer sets a separate LLM for the critique side of Reflect
// (defaults to the generating LLM)
func WithReviewer(llm LLM) func(o *Options) {
	return func(o *Options) {
		o.reviewer = llm
	}
}

// WithFallbackRoute names the route to dispatch to when the classifier
// picks none of the configured routes
func WithFallbackRoute(name string) func(o *Options) {
	return func(o *Options) {
		o.fallbackRoute = name
	}
}

// WithAmbiguityPolicy overrides how loops treat responses that are neither
// a tool call nor an answer
func WithAmbiguityPolicy(p AmbiguityPolicy) func(o *Options) {
	return func(o *Options) {
		o.ambiguityPolicy = p
	}
}

// WithMCPs adds Model Context Protocol client sessions; the tools they expose
// become available to the loops
func WithMCPs(sessions ...*mcp.ClientSession) func(o *Options) {
	return func(o *Options) {
		o.mcpSessions = append(o.mcpSessions, sessions...)
	}
}

// WithWorkerLimit caps how many branches or subtasks run concurrently
// (0 means no cap)
func WithWorkerLimit(n int) func(o *Options) {
	return func(o *Options) {
		o.workerLimit = n
	}
}

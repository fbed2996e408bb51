package texo_test

import (
	"strings"

	. "github.com/texo-ai/texo"
	"github.com/texo-ai/texo/prompt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
)

type searchTool struct {
	results []string
	status  ToolStatus
}

func (s *searchTool) Tool() openai.Tool {
	return openai.Tool{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        "search",
			Description: "A search engine to find information about a topic",
			Parameters: jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"query": {
						Type:        jsonschema.String,
						Description: "The topic to search for",
					},
				},
				Required: []string{"query"},
			},
		},
	}
}

func (s *searchTool) Status() *ToolStatus { return &s.status }

func (s *searchTool) Run(args map[string]any) (string, error) {
	return strings.Join(s.results, "\n"), nil
}

var _ = Describe("texo e2e", Label("e2e"), func() {
	BeforeEach(func() {
		if apiEndpoint == "" {
			Skip("LOCALAI_IMAGE not set")
		}
	})

	Context("ReAct", func() {
		It("answers using a tool", func() {
			defaultLLM := NewOpenAILLM(defaultModel, "", apiEndpoint)

			tool := &searchTool{
				results: []string{
					"Guinea pigs are rodents native to South America.",
					"Guinea pigs eat hay, vegetables and vitamin C rich food.",
				},
			}

			conv := NewEmptyFragment().
				AddMessage("system", "Use the search tool to find information before answering.").
				AddMessage("user", "What do guinea pigs eat?")

			result, err := ReAct(defaultLLM, conv, WithTools(tool), WithIterations(2))
			Expect(err).ToNot(HaveOccurred())

			Expect(result.Status.FinalAnswer).ToNot(BeEmpty())
			if !result.Status.Stopped {
				Expect(strings.ToLower(result.Status.FinalAnswer)).To(ContainSubstring("hay"))
			}
		})
	})

	Context("Chain", func() {
		It("feeds each step the previous output", func() {
			defaultLLM := NewOpenAILLM(defaultModel, "", apiEndpoint)

			steps := []ChainStep{
				{
					Name:   "facts",
					Prompt: prompt.NewPrompt(`List three short facts about {{.Input}}. Answer with the facts only.`),
				},
				{
					Name:   "summary",
					Prompt: prompt.NewPrompt(`Summarize the following facts in one sentence: {{.Previous}}`),
				},
			}

			result, err := Chain(defaultLLM, "the planet Mars", steps)
			Expect(err).ToNot(HaveOccurred())
			Expect(result.Status.FinalAnswer).ToNot(BeEmpty())
		})
	})

	Context("Dispatch", func() {
		It("routes a billing question to the right handler", func() {
			defaultLLM := NewOpenAILLM(defaultModel, "", apiEndpoint)

			routes := []Route{
				{Name: "billing", Description: "Refunds, invoices and payment problems"},
				{Name: "technical", Description: "Bugs, outages and technical questions"},
			}

			conv := NewEmptyFragment().AddMessage("user", "I was charged twice for my subscription, I want my money back.")

			result, err := Dispatch(defaultLLM, routes, conv, WithFallbackRoute("billing"))
			Expect(err).ToNot(HaveOccurred())
			Expect(result.Status.FinalAnswer).ToNot(BeEmpty())
		})
	})

	Context("Reflect", func() {
		It("refines an answer through critique", func() {
			defaultLLM := NewOpenAILLM(defaultModel, "", apiEndpoint)

			conv := NewEmptyFragment().AddMessage("user", "Write one sentence explaining what a compiler does.")

			result, err := Reflect(defaultLLM, conv, WithIterations(2))
			Expect(err).ToNot(HaveOccurred())
			Expect(result.Status.FinalAnswer).ToNot(BeEmpty())
		})
	})
})

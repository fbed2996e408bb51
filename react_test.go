package texo_test

import (
	"errors"

	. "github.com/texo-ai/texo"
	"github.com/texo-ai/texo/tests/mock"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ReAct", func() {
	var mockLLM *mock.MockClient
	var conv Fragment

	BeforeEach(func() {
		mockLLM = mock.NewMockClient()
		conv = NewEmptyFragment().AddMessage("user", "What is photosynthesis?")
	})

	Context("final answers", func() {
		It("terminates in one step when the LLM answers directly", func() {
			mockLLM.AddAssistantResponse("Photosynthesis converts sunlight into energy.")

			result, err := ReAct(mockLLM, conv)
			Expect(err).ToNot(HaveOccurred())

			Expect(result.Status.FinalAnswer).To(Equal("Photosynthesis converts sunlight into energy."))
			Expect(result.Status.Stopped).To(BeFalse())
			Expect(result.Status.Iterations).To(Equal(0))
			Expect(len(mockLLM.RequestHistory)).To(Equal(1))

			Expect(len(result.Messages)).To(Equal(2))
			Expect(result.Messages[0].Content).To(Equal("What is photosynthesis?"))
			Expect(result.LastMessage().Content).To(Equal(result.Status.FinalAnswer))
		})

		It("invokes the requested tool and feeds the result back", func() {
			mockTool := mock.NewMockTool("search", "Search for information")
			mockTool.SetRunResult("Chlorophyll is a green pigment found in plants.")

			mockLLM.AddToolCallResponse("search", `{"query": "chlorophyll"}`)
			mockLLM.AddAssistantResponse("Plants use chlorophyll to capture light.")

			result, err := ReAct(mockLLM, conv, WithTools(mockTool))
			Expect(err).ToNot(HaveOccurred())

			Expect(result.Status.FinalAnswer).To(Equal("Plants use chlorophyll to capture light."))
			Expect(result.Status.Iterations).To(Equal(1))
			Expect(len(result.Status.ToolsCalled)).To(Equal(1))

			Expect(mockTool.Calls).To(HaveLen(1))
			Expect(mockTool.Calls[0]).To(HaveKeyWithValue("query", "chlorophyll"))
			Expect(mockTool.Status().Executed).To(BeTrue())
			Expect(mockTool.Status().Result).To(Equal("Chlorophyll is a green pigment found in plants."))

			// The conversation only grows: user, tool request, tool result, answer.
			Expect(len(result.Messages)).To(Equal(4))
			Expect(result.Messages[0].Content).To(Equal("What is photosynthesis?"))
			Expect(result.Messages[1].ToolCalls[0].Function.Name).To(Equal("search"))
			Expect(result.Messages[2].Role).To(Equal("tool"))
			Expect(result.Messages[2].Content).To(Equal("Chlorophyll is a green pigment found in plants."))
			Expect(result.Messages[3].Content).To(Equal("Plants use chlorophyll to capture light."))

			// The second reasoning step saw the tool result.
			Expect(len(mockLLM.RequestHistory)).To(Equal(2))
			Expect(mockLLM.RequestHistory[1].Messages[2].Content).To(
				ContainSubstring("Chlorophyll is a green pigment"))
		})

		It("invokes zero-parameter tools called with empty arguments", func() {
			mockTool := mock.NewMockTool("list_tables", "List all tables in the database")
			mockTool.SetRunResult("albums, artists, tracks")

			mockLLM.AddToolCallResponse("list_tables", "")
			mockLLM.AddAssistantResponse("The database holds albums, artists and tracks.")

			result, err := ReAct(mockLLM, conv, WithTools(mockTool))
			Expect(err).ToNot(HaveOccurred())

			Expect(mockTool.Calls).To(HaveLen(1))
			Expect(result.Status.FinalAnswer).To(Equal("The database holds albums, artists and tracks."))
		})
	})

	Context("iteration bound", func() {
		It("stops after exactly the configured iterations when the LLM keeps calling tools", func() {
			mockTool := mock.NewMockTool("search", "Search for information")
			mockTool.SetRunResult("More results.")

			mockLLM.AddToolCallResponse("search", `{"query": "first"}`)
			mockLLM.AddToolCallResponse("search", `{"query": "second"}`)
			mockLLM.AddToolCallResponse("search", `{"query": "third"}`)

			result, err := ReAct(mockLLM, conv, WithTools(mockTool))
			Expect(err).ToNot(HaveOccurred())

			Expect(result.Status.Stopped).To(BeTrue())
			Expect(result.Status.Iterations).To(Equal(3))
			Expect(result.Status.FinalAnswer).To(Equal(StoppedAnswer))
			Expect(result.LastMessage().Content).To(Equal(StoppedAnswer))
			Expect(mockTool.Calls).To(HaveLen(3))
		})

		It("honors WithIterations", func() {
			mockTool := mock.NewMockTool("search", "Search for information")
			mockTool.SetRunResult("More results.")

			mockLLM.AddToolCallResponse("search", `{"query": "first"}`)

			result, err := ReAct(mockLLM, conv, WithTools(mockTool), WithIterations(1))
			Expect(err).ToNot(HaveOccurred())

			Expect(result.Status.Stopped).To(BeTrue())
			Expect(result.Status.Iterations).To(Equal(1))
			Expect(mockTool.Calls).To(HaveLen(1))
		})
	})

	Context("failures", func() {
		It("fails when the LLM requests an unknown tool", func() {
			mockLLM.AddToolCallResponse("missing", `{}`)

			_, err := ReAct(mockLLM, conv)
			Expect(err).To(MatchError(ErrToolNotFound))
		})

		It("fails when the tool keeps failing", func() {
			mockTool := mock.NewMockTool("search", "Search for information")
			mockTool.SetRunError(errors.New("network down"))

			mockLLM.AddToolCallResponse("search", `{"query": "anything"}`)

			_, err := ReAct(mockLLM, conv, WithTools(mockTool))
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("all attempts exhausted"))
		})

		It("retries a failing tool up to WithMaxAttempts", func() {
			mockTool := mock.NewMockTool("search", "Search for information")
			mockTool.SetRunError(errors.New("network down"))

			mockLLM.AddToolCallResponse("search", `{"query": "anything"}`)

			_, err := ReAct(mockLLM, conv, WithTools(mockTool), WithMaxAttempts(3))
			Expect(err).To(HaveOccurred())
			Expect(mockTool.Calls).To(HaveLen(3))
		})

		It("wraps reasoning failures", func() {
			mockLLM.SetCreateChatCompletionError(errors.New("connection refused"))

			_, err := ReAct(mockLLM, conv)
			Expect(err).To(MatchError(ErrReasoningUnavailable))
		})
	})

	Context("ambiguous responses", func() {
		It("treats an empty answer as the final one by default", func() {
			mockLLM.AddAssistantResponse("")

			result, err := ReAct(mockLLM, conv)
			Expect(err).ToNot(HaveOccurred())
			Expect(result.Status.FinalAnswer).To(Equal(""))
		})

		It("fails on an empty answer with FailOnAmbiguity", func() {
			mockLLM.AddAssistantResponse("")

			_, err := ReAct(mockLLM, conv, WithAmbiguityPolicy(FailOnAmbiguity))
			Expect(err).To(MatchError(ErrAmbiguousDecision))
		})
	})

	Context("callbacks", func() {
		It("interrupts the run when the tool callback denies the call", func() {
			mockTool := mock.NewMockTool("search", "Search for information")

			mockLLM.AddToolCallResponse("search", `{"query": "anything"}`)

			_, err := ReAct(mockLLM, conv,
				WithTools(mockTool),
				WithToolCallback(func(choice *ToolChoice) bool {
					return false
				}))
			Expect(err).To(HaveOccurred())
			Expect(mockTool.Calls).To(BeEmpty())
		})

		It("reports executed tools through the result callback", func() {
			mockTool := mock.NewMockTool("search", "Search for information")
			mockTool.SetRunResult("Found it.")

			mockLLM.AddToolCallResponse("search", `{"query": "anything"}`)
			mockLLM.AddAssistantResponse("Done.")

			executed := []string{}
			_, err := ReAct(mockLLM, conv,
				WithTools(mockTool),
				WithToolResultCallback(func(tool Tool) {
					executed = append(executed, tool.Status().Name)
				}))
			Expect(err).ToNot(HaveOccurred())
			Expect(executed).To(Equal([]string{"search"}))
		})
	})
})

package texo_test

import (
	. "github.com/texo-ai/texo"
	"github.com/texo-ai/texo/tests/mock"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Dispatch", func() {
	var mockLLM *mock.MockClient
	var conv Fragment
	var routes []Route

	BeforeEach(func() {
		mockLLM = mock.NewMockClient()
		conv = NewEmptyFragment().AddMessage("user", "I want a refund for my last order.")
		routes = []Route{
			{
				Name:        "support",
				Description: "Billing issues, refunds and complaints",
				System:      "You are a patient support agent.",
			},
			{
				Name:        "sales",
				Description: "Product questions and purchases",
			},
		}
	})

	It("classifies the conversation and dispatches to the chosen route", func() {
		mockLLM.AddToolCallResponse("json", `{"route": "support", "reasoning": "The user asks for a refund."}`)
		mockLLM.SetAskResponse("Your refund is on its way.")

		result, err := Dispatch(mockLLM, routes, conv)
		Expect(err).ToNot(HaveOccurred())

		Expect(result.Status.FinalAnswer).To(Equal("Your refund is on its way."))

		// The classifier saw the conversation and every route.
		classification := mockLLM.RequestHistory[0].Messages[0].Content
		Expect(classification).To(
			And(
				ContainSubstring("I want a refund"),
				ContainSubstring("support"),
				ContainSubstring("Billing issues, refunds and complaints"),
				ContainSubstring("sales"),
			))

		// The classification is constrained to the route names.
		Expect(mockLLM.RequestHistory[0].Tools[0].Function.Name).To(Equal("json"))

		// The handling call got the original conversation with the route system message.
		dispatched := mockLLM.FragmentHistory[0]
		Expect(dispatched.Messages[0].Role).To(Equal("system"))
		Expect(dispatched.Messages[0].Content).To(Equal("You are a patient support agent."))
		Expect(dispatched.Messages[1].Content).To(Equal("I want a refund for my last order."))
	})

	It("dispatches to the route's own LLM when one is set", func() {
		routeLLM := mock.NewMockClient()
		routeLLM.SetAskResponse("Handled by the dedicated model.")
		routes[0].LLM = routeLLM

		mockLLM.AddToolCallResponse("json", `{"route": "support", "reasoning": "refund request"}`)

		result, err := Dispatch(mockLLM, routes, conv)
		Expect(err).ToNot(HaveOccurred())

		Expect(result.Status.FinalAnswer).To(Equal("Handled by the dedicated model."))
		Expect(routeLLM.FragmentHistory).To(HaveLen(1))
		Expect(mockLLM.FragmentHistory).To(BeEmpty())
	})

	It("fails when the classification names no configured route", func() {
		mockLLM.AddToolCallResponse("json", `{"route": "shipping", "reasoning": "sounds like logistics"}`)

		_, err := Dispatch(mockLLM, routes, conv)
		Expect(err).To(MatchError(ErrNoRouteSelected))
	})

	It("falls back to the configured route on an out-of-set classification", func() {
		mockLLM.AddToolCallResponse("json", `{"route": "shipping", "reasoning": "sounds like logistics"}`)
		mockLLM.SetAskResponse("Let me help you with that.")

		result, err := Dispatch(mockLLM, routes, conv, WithFallbackRoute("support"))
		Expect(err).ToNot(HaveOccurred())

		Expect(result.Status.FinalAnswer).To(Equal("Let me help you with that."))
		Expect(mockLLM.FragmentHistory[0].Messages[0].Content).To(Equal("You are a patient support agent."))
	})

	It("fails when the fallback route does not exist either", func() {
		mockLLM.AddToolCallResponse("json", `{"route": "shipping", "reasoning": "sounds like logistics"}`)

		_, err := Dispatch(mockLLM, routes, conv, WithFallbackRoute("missing"))
		Expect(err).To(MatchError(ErrNoRouteSelected))
	})

	It("fails without routes", func() {
		_, err := Dispatch(mockLLM, nil, conv)
		Expect(err).To(HaveOccurred())
	})
})

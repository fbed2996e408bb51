package texo

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/mudler/xlog"
	"github.com/texo-ai/texo/prompt"
)

// Agent is one participant in a collaboration: an isolated loop instance with
// its own role, optionally its own LLM and tools. Agents never share state;
// they only exchange messages through the transcript the mediator owns.
type Agent struct {
	Name  string
	Role  string
	LLM   LLM
	Tools Tools
}

// Collaborate mediates a discussion between the agents over the fragment.
// Each round every agent takes one turn against a private copy of the shared
// transcript; after the round a moderator call decides whether the discussion
// has converged. Rounds are bounded by WithIterations; the transcript is then
// synthesized into a single final answer.
func Collaborate(llm LLM, f Fragment, agents []Agent, opts ...Option) (Fragment, error) {
	o := defaultOptions()
	o.Apply(opts...)

	if len(agents) == 0 {
		return Fragment{}, fmt.Errorf("no agents in team")
	}

	for i := range agents {
		if agents[i].Name == "" {
			agents[i].Name = uuid.NewString()
		}
	}

	transcript := f

	for round := 1; round <= o.maxIterations; round++ {
		for _, agent := range agents {
			turn, err := agentTurn(llm, agent, transcript, o)
			if err != nil {
				return transcript, fmt.Errorf("agent %q in round %d: %w", agent.Name, round, err)
			}

			message := *turn.LastMessage()
			message.Name = agent.Name
			o.statusCallback(fmt.Sprintf("%s: %s", agent.Name, message.Content))

			transcript.Messages = append(transcript.Messages, message)
		}

		transcript.Status.Iterations = round

		moderator, err := moderatorConv(transcript, o, prompt.TeamConvergedType)
		if err != nil {
			return transcript, err
		}

		converged, err := ExtractBoolean(llm, moderator, withExtraction(opts)...)
		if err != nil {
			return transcript, fmt.Errorf("failed to check convergence in round %d: %w", round, err)
		}

		xlog.Debug("Collaboration round completed", "round", round, "converged", converged.Boolean)

		if converged.Boolean {
			return teamSynthesis(llm, transcript, o)
		}
	}

	transcript.Status.Stopped = true
	return teamSynthesis(llm, transcript, o)
}

// agentTurn runs one agent over the shared transcript with its own role
// prepended. Agents with tools get a full tool loop; the others, one call.
func agentTurn(llm LLM, agent Agent, transcript Fragment, o *Options) (Fragment, error) {
	prompter := o.prompts.GetPrompt(prompt.TeamTurnType)

	p, err := prompter.Render(struct {
		Name string
		Role string
	}{Name: agent.Name, Role: agent.Role})
	if err != nil {
		return Fragment{}, fmt.Errorf("failed to render turn prompt: %w", err)
	}

	target := agent.LLM
	if target == nil {
		target = llm
	}

	turnConv := NewFragment(transcript.Messages...).AddStartMessage("system", p)

	if len(agent.Tools) > 0 {
		return ReAct(target, turnConv, WithContext(o.ctx), WithTools(agent.Tools...), WithIterations(o.maxIterations))
	}

	result, err := target.Ask(o.ctx, turnConv)
	if err != nil {
		return Fragment{}, fmt.Errorf("%w: %w", ErrReasoningUnavailable, err)
	}
	return result, nil
}

func moderatorConv(transcript Fragment, o *Options, t prompt.PromptType) (Fragment, error) {
	p, err := o.prompts.GetPrompt(t).Render(struct {
		Context string
	}{Context: transcript.String()})
	if err != nil {
		return Fragment{}, fmt.Errorf("failed to render moderator prompt: %w", err)
	}
	return NewEmptyFragment().AddMessage("user", p), nil
}

func teamSynthesis(llm LLM, transcript Fragment, o *Options) (Fragment, error) {
	p, err := o.prompts.GetPrompt(prompt.TeamSynthesisType).Render(struct {
		Context string
	}{Context: transcript.String()})
	if err != nil {
		return transcript, fmt.Errorf("failed to render team synthesis prompt: %w", err)
	}

	synthesized, err := llm.Ask(o.ctx, NewEmptyFragment().AddMessage("user", p))
	if err != nil {
		return transcript, fmt.Errorf("%w: synthesizing discussion: %w", ErrReasoningUnavailable, err)
	}

	answer := synthesized.LastMessage().Content
	o.statusCallback(answer)

	transcript = transcript.AddMessage("assistant", answer)
	transcript.Status.FinalAnswer = answer
	return transcript, nil
}

// withExtraction narrows the caller options to the ones meaningful for a
// structure extraction call.
func withExtraction(opts []Option) []Option {
	o := defaultOptions()
	o.Apply(opts...)

	kept := []Option{WithContext(o.ctx)}
	if o.prompts != nil {
		for t, p := range o.prompts {
			if static, ok := p.(prompt.StaticPrompt); ok {
				kept = append(kept, WithPrompt(t, static))
			}
		}
	}
	return kept
}

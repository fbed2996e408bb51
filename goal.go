package texo

import (
	"fmt"

	"github.com/mudler/xlog"
	"github.com/texo-ai/texo/prompt"
	"github.com/texo-ai/texo/structures"
)

// ExtractGoal identifies the goal of a conversation
func ExtractGoal(llm LLM, f Fragment, opts ...Option) (*structures.Goal, error) {
	o := defaultOptions()
	o.Apply(opts...)

	prompter := o.prompts.GetPrompt(prompt.IdentifyGoalType)

	goalIdentifierOptions := struct {
		Context           string
		AdditionalContext string
	}{
		Context: f.String(),
	}
	if o.deepContext && f.ParentFragment != nil {
		goalIdentifierOptions.AdditionalContext = f.ParentFragment.AllFragmentsStrings()
	}

	p, err := prompter.Render(goalIdentifierOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to render goal identification prompt: %w", err)
	}

	reasoningGoal, err := llm.Ask(o.ctx, NewEmptyFragment().AddMessage("user", p))
	if err != nil {
		return nil, fmt.Errorf("failed to ask LLM for goal identification: %w", err)
	}

	structure, goal := structures.StructureGoal()

	goalConv := NewEmptyFragment().AddMessage("user", reasoningGoal.LastMessage().Content)

	err = goalConv.ExtractStructure(o.ctx, llm, structure)
	if err != nil {
		return nil, fmt.Errorf("failed to extract goal structure: %w", err)
	}

	return goal, nil
}

// IsGoalAchieved checks if a goal has been achieved in the conversation
func IsGoalAchieved(llm LLM, f Fragment, goal *structures.Goal, opts ...Option) (*structures.Boolean, error) {
	o := defaultOptions()
	o.Apply(opts...)

	prompter := o.prompts.GetPrompt(prompt.GoalAchievedType)

	goalAchievedOpts := struct {
		Context           string
		AdditionalContext string
		Goal              string
	}{
		Context: f.String(),
	}
	if goal != nil {
		goalAchievedOpts.Goal = goal.Goal
	}
	if o.deepContext && f.ParentFragment != nil {
		goalAchievedOpts.AdditionalContext = f.ParentFragment.AllFragmentsStrings()
	}

	p, err := prompter.Render(goalAchievedOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to render goal achieved prompt: %w", err)
	}

	reasoningGoal, err := llm.Ask(o.ctx, NewEmptyFragment().AddMessage("user", p))
	if err != nil {
		return nil, fmt.Errorf("failed to ask LLM for goal evaluation: %w", err)
	}

	xlog.Debug("Check if goal is achieved in current conversation", "reasoning", reasoningGoal.LastMessage().Content)

	boolConv := NewEmptyFragment().AddMessage("user", reasoningGoal.LastMessage().Content)

	return ExtractBoolean(llm, boolConv, opts...)
}

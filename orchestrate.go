package texo

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/mudler/xlog"
	"github.com/sashabaranov/go-openai"
	"github.com/texo-ai/texo/prompt"
	"github.com/texo-ai/texo/structures"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrUnresolvableDependencies is returned when the remaining subtasks of a
	// plan form a cycle or depend on subtasks that do not exist.
	ErrUnresolvableDependencies error = errors.New("plan has unresolvable dependencies")
)

// SubtaskResult is the outcome of one executed subtask.
type SubtaskResult struct {
	ID      string
	Subtask string
	Result  string
}

// ExtractPlan breaks a conversation down into a plan of subtasks with
// dependencies. The LLM first reasons about the plan in free form, then the
// subtask list is extracted as a structure; subtasks that come back without
// an ID get one assigned.
func ExtractPlan(llm LLM, f Fragment, goal *structures.Goal, opts ...Option) (*structures.Plan, error) {
	o := defaultOptions()
	o.Apply(opts...)

	prompter := o.prompts.GetPrompt(prompt.PlanType)

	planOptions := struct {
		Context           string
		AdditionalContext string
		Goal              string
		Tools             []*openai.FunctionDefinition
	}{
		Context: f.String(),
		Tools:   o.tools.Definitions(),
	}
	if goal != nil {
		planOptions.Goal = goal.Goal
	}
	if o.deepContext && f.ParentFragment != nil {
		planOptions.AdditionalContext = f.ParentFragment.AllFragmentsStrings()
	}

	p, err := prompter.Render(planOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to render plan prompt: %w", err)
	}

	reasoningPlan, err := llm.Ask(o.ctx, NewEmptyFragment().AddMessage("user", p))
	if err != nil {
		return nil, fmt.Errorf("failed to ask LLM for plan identification: %w", err)
	}

	identifiedPlan := reasoningPlan.LastMessage()

	extractionPrompt, err := o.prompts.GetPrompt(prompt.SubtaskExtractionType).Render(struct {
		Context string
	}{Context: identifiedPlan.Content})
	if err != nil {
		return nil, fmt.Errorf("failed to render subtask extraction prompt: %w", err)
	}

	structure, plan := structures.StructurePlan()

	planConv := NewEmptyFragment().AddMessage("user", extractionPrompt)
	if err := planConv.ExtractStructure(o.ctx, llm, structure); err != nil {
		return nil, fmt.Errorf("failed to extract plan structure: %w", err)
	}

	for i := range plan.Subtasks {
		if plan.Subtasks[i].ID == "" {
			plan.Subtasks[i].ID = uuid.NewString()
		}
	}

	plan.Description = identifiedPlan.Content
	return plan, nil
}

// ExecutePlan runs a plan's subtasks in dependency waves: every subtask whose
// dependencies are all completed runs concurrently with the other ready ones,
// each as an isolated worker loop with the configured tools. Once every
// subtask has completed, the results are synthesized into one final answer
// appended to the conversation.
func ExecutePlan(llm LLM, conv Fragment, plan *structures.Plan, goal *structures.Goal, opts ...Option) (Fragment, error) {
	o := defaultOptions()
	o.Apply(opts...)

	if len(plan.Subtasks) == 0 {
		return NewEmptyFragment(), fmt.Errorf("no subtasks found in plan")
	}

	xlog.Debug("Executing plan", "subtasks", len(plan.Subtasks), "plan", plan.Description)

	completed := map[string]SubtaskResult{}
	results := []SubtaskResult{}

	for len(completed) < len(plan.Subtasks) {
		ready := readySubtasks(plan, completed)
		if len(ready) == 0 {
			return conv, fmt.Errorf("%w: %d subtasks remaining", ErrUnresolvableDependencies, len(plan.Subtasks)-len(completed))
		}

		waveResults := make([]SubtaskResult, len(ready))
		waveFragments := make([]Fragment, len(ready))

		g, ctx := errgroup.WithContext(o.ctx)
		if o.workerLimit > 0 {
			g.SetLimit(o.workerLimit)
		}

		for i, subtask := range ready {
			g.Go(func() error {
				result, fragment, err := executeSubtask(ctx, llm, subtask, goal, results, o, opts)
				if err != nil {
					return err
				}
				waveResults[i] = result
				waveFragments[i] = fragment
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return conv, err
		}

		for i, result := range waveResults {
			completed[result.ID] = result
			results = append(results, result)
			conv.Messages = append(conv.Messages, waveFragments[i].LastAssistantAndToolMessages()...)
			conv.Status.Iterations = conv.Status.Iterations + 1
			conv.Status.ToolsCalled = append(conv.Status.ToolsCalled, waveFragments[i].Status.ToolsCalled...)
			xlog.Debug("Subtask completed", "id", result.ID, "subtask", result.Subtask)
		}
	}

	return synthesize(llm, conv, goal, results, o)
}

func readySubtasks(plan *structures.Plan, completed map[string]SubtaskResult) []structures.Subtask {
	ready := []structures.Subtask{}
	for _, subtask := range plan.Subtasks {
		if _, done := completed[subtask.ID]; done {
			continue
		}

		satisfied := true
		for _, dep := range subtask.Dependencies {
			if _, done := completed[dep]; !done {
				satisfied = false
				break
			}
		}
		if satisfied {
			ready = append(ready, subtask)
		}
	}
	return ready
}

func executeSubtask(ctx context.Context, llm LLM, subtask structures.Subtask, goal *structures.Goal, completed []SubtaskResult, o *Options, opts []Option) (SubtaskResult, Fragment, error) {
	prompter := o.prompts.GetPrompt(prompt.SubtaskExecutionType)

	subtaskOptions := struct {
		Goal      string
		Subtask   string
		Completed []SubtaskResult
	}{
		Subtask:   subtask.Description,
		Completed: completed,
	}
	if goal != nil {
		subtaskOptions.Goal = goal.Goal
	}

	p, err := prompter.Render(subtaskOptions)
	if err != nil {
		return SubtaskResult{}, Fragment{}, fmt.Errorf("failed to render subtask execution prompt: %w", err)
	}

	worker := NewEmptyFragment().AddMessage("user", p)

	result, err := ReAct(llm, worker, append(slices.Clone(opts), WithContext(ctx))...)
	if err != nil {
		return SubtaskResult{}, Fragment{}, fmt.Errorf("failed to execute subtask %q: %w", subtask.ID, err)
	}

	return SubtaskResult{
		ID:      subtask.ID,
		Subtask: subtask.Description,
		Result:  result.Status.FinalAnswer,
	}, result, nil
}

func synthesize(llm LLM, conv Fragment, goal *structures.Goal, results []SubtaskResult, o *Options) (Fragment, error) {
	prompter := o.prompts.GetPrompt(prompt.SynthesisType)

	synthesisOptions := struct {
		Goal      string
		Completed []SubtaskResult
	}{
		Completed: results,
	}
	if goal != nil {
		synthesisOptions.Goal = goal.Goal
	}

	p, err := prompter.Render(synthesisOptions)
	if err != nil {
		return conv, fmt.Errorf("failed to render synthesis prompt: %w", err)
	}

	synthesized, err := llm.Ask(o.ctx, NewEmptyFragment().AddMessage("user", p))
	if err != nil {
		return conv, fmt.Errorf("%w: synthesizing: %w", ErrReasoningUnavailable, err)
	}

	answer := synthesized.LastMessage().Content
	o.statusCallback(answer)

	conv = conv.AddMessage("assistant", answer)
	conv.Status.FinalAnswer = answer
	return conv, nil
}

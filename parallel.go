package texo

import (
	"fmt"

	"github.com/mudler/xlog"
	"github.com/texo-ai/texo/prompt"
	"golang.org/x/sync/errgroup"
)

// Branch is one isolated arm of a fan-out. Each branch owns its fragment;
// LLM optionally overrides the shared model for this branch only.
type Branch struct {
	Name     string
	LLM      LLM
	Fragment Fragment
}

// BranchResult pairs a branch with the output it produced.
type BranchResult struct {
	Name   string
	Output string
}

// FanOut runs every branch concurrently and returns the resulting fragments
// in branch order, so the join is independent of completion order. Branches
// share no state; the first branch error cancels the rest and fails the call.
func FanOut(llm LLM, branches []Branch, opts ...Option) ([]Fragment, error) {
	o := defaultOptions()
	o.Apply(opts...)

	results := make([]Fragment, len(branches))

	g, ctx := errgroup.WithContext(o.ctx)
	if o.workerLimit > 0 {
		g.SetLimit(o.workerLimit)
	}

	for i, branch := range branches {
		g.Go(func() error {
			target := branch.LLM
			if target == nil {
				target = llm
			}

			res, err := target.Ask(ctx, branch.Fragment)
			if err != nil {
				return fmt.Errorf("%w: branch %q: %w", ErrReasoningUnavailable, branch.Name, err)
			}

			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	xlog.Debug("Fan-out completed", "branches", len(branches))
	return results, nil
}

// Aggregate synthesizes the branch outputs into one response with a single
// call over the aggregator prompt.
func Aggregate(llm LLM, task string, results []BranchResult, opts ...Option) (Fragment, error) {
	o := defaultOptions()
	o.Apply(opts...)

	prompter := o.prompts.GetPrompt(prompt.AggregatorType)

	aggregatorOptions := struct {
		Task     string
		Branches []BranchResult
	}{
		Task:     task,
		Branches: results,
	}

	p, err := prompter.Render(aggregatorOptions)
	if err != nil {
		return Fragment{}, fmt.Errorf("failed to render aggregator prompt: %w", err)
	}

	aggregated, err := llm.Ask(o.ctx, NewEmptyFragment().AddMessage("user", p))
	if err != nil {
		return Fragment{}, fmt.Errorf("%w: aggregating: %w", ErrReasoningUnavailable, err)
	}

	o.statusCallback(aggregated.LastMessage().Content)
	aggregated.Status.FinalAnswer = aggregated.LastMessage().Content
	return aggregated, nil
}

// Personas fans the same task out to one branch per persona and aggregates
// the answers: the classic parallelization workflow.
func Personas(llm LLM, task string, personas []string, opts ...Option) (Fragment, error) {
	o := defaultOptions()
	o.Apply(opts...)

	prompter := o.prompts.GetPrompt(prompt.PersonaType)

	branches := []Branch{}
	for _, persona := range personas {
		p, err := prompter.Render(struct {
			Persona string
			Task    string
		}{Persona: persona, Task: task})
		if err != nil {
			return Fragment{}, fmt.Errorf("failed to render persona prompt for %q: %w", persona, err)
		}

		branches = append(branches, Branch{
			Name:     persona,
			Fragment: NewEmptyFragment().AddMessage("user", p),
		})
	}

	fragments, err := FanOut(llm, branches, opts...)
	if err != nil {
		return Fragment{}, err
	}

	results := []BranchResult{}
	for i, fragment := range fragments {
		results = append(results, BranchResult{
			Name:   branches[i].Name,
			Output: fragment.LastMessage().Content,
		})
	}

	return Aggregate(llm, task, results, opts...)
}

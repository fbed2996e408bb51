package texo

import (
	"fmt"

	"github.com/mudler/xlog"
	"github.com/texo-ai/texo/prompt"
	"github.com/texo-ai/texo/structures"
)

// Reflect generates an answer to the fragment and refines it through
// critique rounds: a reviewer LLM (WithReviewer, defaults to the generating
// one) examines each generation and either approves it or produces feedback,
// which is appended as a user message before regenerating. The loop is
// bounded by WithIterations; hitting the bound keeps the last generation and
// sets Status.Stopped.
func Reflect(llm LLM, f Fragment, opts ...Option) (Fragment, error) {
	o := defaultOptions()
	o.Apply(opts...)

	reviewer := o.reviewer
	if reviewer == nil {
		reviewer = llm
	}

	task := f

	var answer string

	for i := range o.maxIterations {
		generated, err := llm.Ask(o.ctx, f)
		if err != nil {
			return Fragment{}, fmt.Errorf("%w: generating in iteration %d: %w", ErrReasoningUnavailable, i+1, err)
		}
		f = generated
		f.Status.Iterations = i + 1

		answer = f.LastMessage().Content
		o.statusCallback(answer)

		verdict, err := critique(reviewer, task, answer, o)
		if err != nil {
			return Fragment{}, fmt.Errorf("failed to critique in iteration %d: %w", i+1, err)
		}

		xlog.Debug("Critique round completed", "iteration", i+1, "approved", verdict.Approved)

		if verdict.Approved {
			f.Status.FinalAnswer = answer
			return f, nil
		}

		f = f.AddMessage("user", verdict.Feedback)
	}

	f.Status.Stopped = true
	f.Status.FinalAnswer = answer
	return f, nil
}

// critique asks the reviewer to examine an answer against the original task
// and extracts a structured verdict from its reasoning.
func critique(reviewer LLM, task Fragment, answer string, o *Options) (*structures.Verdict, error) {
	prompter := o.prompts.GetPrompt(prompt.CritiqueType)

	critiqueOptions := struct {
		Task              string
		Answer            string
		AdditionalContext string
	}{
		Task:   task.String(),
		Answer: answer,
	}
	if o.deepContext && task.ParentFragment != nil {
		critiqueOptions.AdditionalContext = task.ParentFragment.AllFragmentsStrings()
	}

	p, err := prompter.Render(critiqueOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to render critique prompt: %w", err)
	}

	review, err := reviewer.Ask(o.ctx, NewEmptyFragment().AddMessage("user", p))
	if err != nil {
		return nil, fmt.Errorf("failed to ask reviewer: %w", err)
	}

	o.statusCallback(review.LastMessage().Content)

	extractionPrompt, err := o.prompts.GetPrompt(prompt.VerdictExtractionType).Render(struct{}{})
	if err != nil {
		return nil, fmt.Errorf("failed to render verdict extraction prompt: %w", err)
	}

	structure, verdict := structures.StructureVerdict()
	err = review.AddMessage("user", extractionPrompt).ExtractStructure(o.ctx, reviewer, structure)
	if err != nil {
		return nil, fmt.Errorf("failed to extract verdict: %w", err)
	}

	return verdict, nil
}

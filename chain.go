package texo

import (
	"fmt"

	"github.com/mudler/xlog"
	"github.com/texo-ai/texo/prompt"
)

// ChainStep is one stage of a prompt chain. Its prompt template is rendered
// with the chain input, the previous step's output and the outputs of all
// completed steps keyed by name.
type ChainStep struct {
	Name   string
	System string
	Prompt prompt.StaticPrompt
}

// ChainData is the render context passed to every ChainStep prompt.
type ChainData struct {
	Input    string
	Previous string
	Outputs  map[string]string
}

// Chain runs the steps in order, each over a fresh fragment carrying the
// rendered prompt, with the previous step's fragment as parent. The returned
// fragment is the last step's, its final answer being the last output.
func Chain(llm LLM, input string, steps []ChainStep, opts ...Option) (Fragment, error) {
	o := defaultOptions()
	o.Apply(opts...)

	if len(steps) == 0 {
		return Fragment{}, fmt.Errorf("no steps in chain")
	}

	data := ChainData{
		Input:   input,
		Outputs: map[string]string{},
	}

	var f Fragment
	var parent *Fragment

	for i, step := range steps {
		p, err := step.Prompt.Render(data)
		if err != nil {
			return Fragment{}, fmt.Errorf("failed to render prompt for step %q: %w", step.Name, err)
		}

		stepConv := NewEmptyFragment()
		if step.System != "" {
			stepConv = stepConv.AddMessage("system", step.System)
		}
		stepConv = stepConv.AddMessage("user", p)

		f, err = llm.Ask(o.ctx, stepConv)
		if err != nil {
			return Fragment{}, fmt.Errorf("%w: step %q: %w", ErrReasoningUnavailable, step.Name, err)
		}

		// Ask parents the response onto its own input; the chain links each
		// step to the previous step's completed exchange instead.
		f.ParentFragment = parent

		output := f.LastMessage().Content
		o.statusCallback(output)
		xlog.Debug("Chain step completed", "step", step.Name, "position", i+1)

		data.Previous = output
		data.Outputs[step.Name] = output

		f.Status.Iterations = i + 1
		completed := f
		parent = &completed
	}

	f.Status.FinalAnswer = data.Previous
	return f, nil
}

package texo

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mudler/xlog"
)

var (
	// ErrReasoningUnavailable wraps failures of the reasoning capability:
	// the completion endpoint could not be reached or returned garbage.
	ErrReasoningUnavailable error = errors.New("reasoning capability unavailable")
)

// StoppedAnswer is the answer synthesized when a loop hits its iteration
// bound before the LLM produces a final one.
const StoppedAnswer = "stopped: max iterations reached"

// ReAct alternates reasoning and tool invocations over a fragment until the
// LLM produces a final answer or the iteration bound is reached. Each tool
// result is appended to the fragment as a tool message before the next
// reasoning step, so the conversation only ever grows.
//
// Errors from the reasoning capability or from a tool abort the run; no retry
// happens inside the loop beyond the WithMaxAttempts re-invocation knob.
// Hitting the bound is not an error: the returned fragment carries
// StoppedAnswer and Status.Stopped is set.
func ReAct(llm LLM, f Fragment, opts ...Option) (Fragment, error) {
	o := defaultOptions()
	o.Apply(opts...)

	tools, err := o.availableTools()
	if err != nil {
		return Fragment{}, err
	}

	for {
		decided, choice, err := f.Decide(o.ctx, llm, tools)
		if err != nil {
			return f, fmt.Errorf("%w: %w", ErrReasoningUnavailable, err)
		}
		f = decided

		if choice == nil {
			answer := f.LastMessage().Content
			if strings.TrimSpace(answer) == "" && o.ambiguityPolicy == FailOnAmbiguity {
				return f, ErrAmbiguousDecision
			}

			// Anything that is not a tool call is taken as the final
			// answer verbatim, ambiguous or not.
			o.statusCallback(answer)
			f.Status.FinalAnswer = answer
			return f, nil
		}

		if o.toolCallCallback != nil && !o.toolCallCallback(choice) {
			return f, fmt.Errorf("interrupted via tool callback")
		}

		tool := tools.Find(choice.Name)
		if tool == nil {
			return f, fmt.Errorf("%w: %s", ErrToolNotFound, choice.Name)
		}

		xlog.Debug("Invoking tool", "tool", choice.Name, "iteration", f.Status.Iterations+1)

		attempts := 1
		var result string
		for range o.maxAttempts {
			result, err = tool.Run(choice.Arguments)
			if err != nil {
				if attempts >= o.maxAttempts {
					return f, fmt.Errorf("failed to run tool and all attempts exhausted %s: %w", choice.Name, err)
				}
				attempts++
			} else {
				break
			}
		}

		o.statusCallback(result)
		tool.Status().Result = result
		tool.Status().Executed = true
		tool.Status().Choice = *choice
		tool.Status().Name = choice.Name

		f = f.AddMessage("tool", result)
		f.Status.Iterations = f.Status.Iterations + 1
		f.Status.ToolsCalled = append(f.Status.ToolsCalled, tool)
		if o.toolResultCallback != nil {
			o.toolResultCallback(tool)
		}

		if f.Status.Iterations >= o.maxIterations {
			xlog.Debug("Iteration bound reached", "iterations", f.Status.Iterations)
			f = f.AddMessage("assistant", StoppedAnswer)
			f.Status.Stopped = true
			f.Status.FinalAnswer = StoppedAnswer
			return f, nil
		}
	}
}

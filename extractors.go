package texo

import (
	"fmt"

	"github.com/texo-ai/texo/prompt"
	"github.com/texo-ai/texo/structures"
)

// ExtractBoolean extracts a yes/no answer from a conversation
func ExtractBoolean(llm LLM, f Fragment, opts ...Option) (*structures.Boolean, error) {
	o := defaultOptions()
	o.Apply(opts...)

	prompter := o.prompts.GetPrompt(prompt.BooleanType)

	structure, boolean := structures.StructureBoolean()

	booleanExtractor := struct {
		Context string
	}{
		Context: f.Messages[len(f.Messages)-1].Content,
	}

	p, err := prompter.Render(booleanExtractor)
	if err != nil {
		return nil, fmt.Errorf("failed to render boolean extraction prompt: %w", err)
	}

	booleanConv := NewEmptyFragment().AddMessage("user", p)

	err = booleanConv.ExtractStructure(o.ctx, llm, structure)
	if err != nil {
		return nil, fmt.Errorf("failed to extract boolean structure: %w", err)
	}

	return boolean, nil
}

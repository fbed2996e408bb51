package prompt

import (
	"bytes"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

type Prompt interface {
	Render(data any) (string, error)
}

// StaticPrompt is a prompt backed by a text/template parsed with the sprig function map.
type StaticPrompt struct {
	template string
}

func NewPrompt(template string) StaticPrompt {
	return StaticPrompt{template: template}
}

func (p StaticPrompt) Render(data any) (string, error) {
	tmpl, err := template.New("prompt").Funcs(sprig.FuncMap()).Parse(p.template)
	if err != nil {
		return "", err
	}

	b := bytes.NewBuffer([]byte{})
	err = tmpl.Execute(b, data)

	return b.String(), err
}

type PromptMap map[PromptType]Prompt

// GetPrompt returns the prompt configured for t, falling back to the built-in default.
func (p PromptMap) GetPrompt(t PromptType) Prompt {
	prompter, exists := p[t]
	if !exists {
		return defaultPromptMap[t]
	}

	return prompter
}

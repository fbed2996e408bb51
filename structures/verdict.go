package structures

import "github.com/sashabaranov/go-openai/jsonschema"

// Verdict is the outcome of a review: either approval or improvement feedback.
type Verdict struct {
	Approved bool   `json:"approved"`
	Feedback string `json:"feedback"`
}

func StructureVerdict() (Structure, *Verdict) {
	return structureType[Verdict](
		jsonschema.Definition{
			Type:                 jsonschema.Object,
			AdditionalProperties: false,
			Properties: map[string]jsonschema.Definition{
				"approved": {
					Type:        jsonschema.Boolean,
					Description: "Whether the answer under review is approved as-is",
				},
				"feedback": {
					Type:        jsonschema.String,
					Description: "Actionable feedback on what must be improved, empty if approved",
				},
			},
			Required: []string{"approved", "feedback"},
		})
}

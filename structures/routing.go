package structures

import "github.com/sashabaranov/go-openai/jsonschema"

// Routing is a classification of a conversation into one of a known set of routes.
type Routing struct {
	Route     string `json:"route"`
	Reasoning string `json:"reasoning"`
}

// StructureRouting constrains the extraction to the given route names.
func StructureRouting(names []string) (Structure, *Routing) {
	return structureType[Routing](
		jsonschema.Definition{
			Type:                 jsonschema.Object,
			AdditionalProperties: false,
			Properties: map[string]jsonschema.Definition{
				"route": {
					Type:        jsonschema.String,
					Description: "The route to dispatch the conversation to",
					Enum:        names,
				},
				"reasoning": {
					Type:        jsonschema.String,
					Description: "The reasoning for the route choice",
				},
			},
			Required: []string{"route"},
		})
}

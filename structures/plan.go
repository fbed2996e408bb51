package structures

import "github.com/sashabaranov/go-openai/jsonschema"

type Subtask struct {
	ID           string   `json:"id"`
	Description  string   `json:"description"`
	Dependencies []string `json:"dependencies"`
}

type Plan struct {
	Description string    `json:"-"`
	Subtasks    []Subtask `json:"subtasks"`
}

func StructurePlan() (Structure, *Plan) {
	return structureType[Plan](jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"subtasks": {
				Type:        jsonschema.Array,
				Description: "List of detailed subtasks which compose the plan",
				Items: &jsonschema.Definition{
					Type: jsonschema.Object,
					Properties: map[string]jsonschema.Definition{
						"id": {
							Type:        jsonschema.String,
							Description: "Short unique identifier for the subtask",
						},
						"description": {
							Type:        jsonschema.String,
							Description: "Description of what the subtask should do",
						},
						"dependencies": {
							Type:        jsonschema.Array,
							Items:       &jsonschema.Definition{Type: jsonschema.String},
							Description: "IDs of the subtasks that must be completed first",
						},
					},
					Required: []string{"id", "description", "dependencies"},
				},
			},
		},
		Required: []string{"subtasks"},
	})
}

package structures

import "github.com/sashabaranov/go-openai/jsonschema"

// Structure pairs a JSON schema with the destination the extraction unmarshals into.
type Structure struct {
	Schema jsonschema.Definition
	Object any
}

func structureType[T any](definition jsonschema.Definition) (Structure, *T) {
	var t T
	return Structure{definition, &t}, &t
}

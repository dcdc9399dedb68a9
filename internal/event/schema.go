package event

import "github.com/invopop/jsonschema"

// Schema describes Record as a JSON Schema. Additional properties are allowed
// because the writer may add fields this reader does not know about yet.
func Schema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
		DoNotReference:            true,
	}
	s := reflector.Reflect(&Record{})
	s.Title = "evlog event record"
	return s
}

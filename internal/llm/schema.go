package llm

import (
	"encoding/json"
	"strings"
)

// jsonSchema renders s as standard JSON schema. Objects are closed
// (additionalProperties false) so strict modes accept them.
func jsonSchema(s *Schema) map[string]any {
	if s == nil {
		return nil
	}
	out := map[string]any{"type": string(s.Type)}
	if s.Description != "" {
		out["description"] = s.Description
	}
	if s.Type == TypeObject {
		props := make(map[string]any, len(s.Properties))
		for name, p := range s.Properties {
			props[name] = jsonSchema(p)
		}
		out["properties"] = props
		out["additionalProperties"] = false
		if len(s.Required) > 0 {
			out["required"] = s.Required
		}
	}
	return out
}

// geminiSchema renders s in the OpenAPI dialect Gemini expects, with
// upper-case type names and an explicit property ordering.
func geminiSchema(s *Schema) map[string]any {
	if s == nil {
		return nil
	}
	out := map[string]any{"type": strings.ToUpper(string(s.Type))}
	if s.Description != "" {
		out["description"] = s.Description
	}
	if s.Type == TypeObject {
		props := make(map[string]any, len(s.Properties))
		for name, p := range s.Properties {
			props[name] = geminiSchema(p)
		}
		out["properties"] = props
		if len(s.Required) > 0 {
			out["required"] = s.Required
		}
		if len(s.Order) > 0 {
			out["propertyOrdering"] = s.Order
		}
	}
	return out
}

// schemaMarshaler adapts a Schema to json.Marshaler.
type schemaMarshaler struct{ s *Schema }

func (m schemaMarshaler) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonSchema(m.s))
}

// schemaInstruction is appended to prompts for providers without native
// structured output.
func schemaInstruction(s *Schema) string {
	b, err := json.Marshal(jsonSchema(s))
	if err != nil {
		return "Respond with a single JSON object."
	}
	return "Respond with a single JSON object matching this JSON schema, and nothing else:\n" + string(b)
}

package toolkit

import (
	"encoding/json"

	"github.com/google/jsonschema-go/jsonschema"
)

// InputSchema exports the declared parameters as a JSON Schema object
func InputSchema(decl *Declaration) *jsonschema.Schema {
	schema := &jsonschema.Schema{
		Type:       "object",
		Properties: make(map[string]*jsonschema.Schema, len(decl.Params)),
	}

	for _, p := range decl.Params {
		schema.Properties[p.Name] = paramSchema(p)
		if p.Required {
			schema.Required = append(schema.Required, p.Name)
		}
	}
	return schema
}

// FormSchema is the flat schema a human fills in for a human-in-the-loop
// tool. Only scalar fields are asked for; current argument values become
// defaults.
func FormSchema(decl *Declaration, args map[string]any) *jsonschema.Schema {
	schema := &jsonschema.Schema{
		Type:       "object",
		Properties: make(map[string]*jsonschema.Schema, len(decl.Params)),
	}

	required := make(map[string]bool, len(decl.SubmitRequired))
	for _, name := range decl.SubmitRequired {
		required[name] = true
	}

	for _, p := range decl.Params {
		var typ string
		switch p.Type {
		case TypeString, TypeStringOrNumber:
			typ = "string"
		case TypeNumber:
			typ = "number"
		case TypeBoolean:
			typ = "boolean"
		default:
			continue
		}

		prop := &jsonschema.Schema{Type: typ, Description: p.Description}
		if v, ok := args[p.Name]; ok && v != nil {
			if typ == "string" {
				v = str(v)
			}
			if raw, err := json.Marshal(v); err == nil {
				prop.Default = raw
			}
		}
		schema.Properties[p.Name] = prop

		if p.Required || required[p.Name] {
			schema.Required = append(schema.Required, p.Name)
		}
	}
	return schema
}

func paramSchema(p Param) *jsonschema.Schema {
	s := &jsonschema.Schema{Description: p.Description}

	switch p.Type {
	case TypeString, TypeNumber, TypeBoolean, TypeObject:
		s.Type = string(p.Type)
	case TypeArray:
		s.Type = "array"
		s.Items = &jsonschema.Schema{Type: "object"}
	case TypeStringOrNumber:
		s.Types = []string{"string", "number"}
	}
	return s
}

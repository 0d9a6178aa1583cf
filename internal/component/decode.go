package component

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// parseDocument reads a YAML document into a generic tree for schema checks.
func parseDocument(data []byte, component, source string) (map[string]any, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{
			Component: component,
			Source:    source,
			Message:   "invalid YAML",
			Detail:    err.Error(),
		}
	}
	if doc == nil {
		doc = map[string]any{}
	}
	return doc, nil
}

// decodeSpec parses, schema-checks and decodes a base spec registered under name.
func decodeSpec(data []byte, name, source string) (*Spec, error) {
	doc, err := parseDocument(data, name, source)
	if err != nil {
		return nil, err
	}
	if err := checkSchema(doc, componentDef, name); err != nil {
		return nil, err
	}

	var spec Spec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, &ParseError{Component: name, Source: source, Message: "decode spec", Detail: err.Error()}
	}
	if err := checkDeclaredName(spec.Name, name); err != nil {
		return nil, err
	}
	spec.Name = name
	spec.normalize()
	return &spec, nil
}

// decodeOverrideYAML parses an override document read from disk.
func decodeOverrideYAML(data []byte, name, source string) (*Override, error) {
	doc, err := parseDocument(data, name, source)
	if err != nil {
		return nil, err
	}
	return decodeOverride(doc, name, source)
}

// decodeOverride schema-checks a generic override tree and decodes it. Lua
// overrides arrive here as converted tables, so both sources share one path.
func decodeOverride(doc map[string]any, name, source string) (*Override, error) {
	if err := checkSchema(doc, overrideDef, name); err != nil {
		return nil, err
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, &ParseError{Component: name, Source: source, Message: "encode override", Detail: err.Error()}
	}
	var o Override
	if err := yaml.Unmarshal(data, &o); err != nil {
		return nil, &ParseError{Component: name, Source: source, Message: "decode override", Detail: err.Error()}
	}
	if err := checkDeclaredName(o.Name, name); err != nil {
		return nil, err
	}
	return &o, nil
}

func checkDeclaredName(declared, name string) error {
	if declared == "" || declared == name {
		return nil
	}
	return &ValidationError{
		Component: name,
		Field:     "name",
		Message:   fmt.Sprintf("document declares %q", declared),
	}
}

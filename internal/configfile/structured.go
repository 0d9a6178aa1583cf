package configfile

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// JSONWriter renders values as an indented JSON object.
type JSONWriter struct{}

func (JSONWriter) Format() string { return "json" }

func (JSONWriter) Write(values map[string]any) ([]byte, error) {
	if values == nil {
		values = map[string]any{}
	}
	return marshalJSON(values)
}

// JSONArrayWriter renders the "items" list as a JSON array. Without an
// "items" key the whole value tree becomes the only element.
type JSONArrayWriter struct{}

func (JSONArrayWriter) Format() string { return "jsonarray" }

func (JSONArrayWriter) Write(values map[string]any) ([]byte, error) {
	items, ok := values["items"]
	if !ok {
		return marshalJSON([]any{values})
	}
	if list, ok := items.([]any); ok {
		return marshalJSON(list)
	}
	return marshalJSON([]any{items})
}

func marshalJSON(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode json: %w", err)
	}
	return append(data, '\n'), nil
}

// YAMLWriter renders values as YAML with two-space indentation.
type YAMLWriter struct{}

func (YAMLWriter) Format() string { return "yaml" }

func (YAMLWriter) Write(values map[string]any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(values); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	return buf.Bytes(), nil
}

// TOMLWriter renders values as TOML; nested maps become tables.
type TOMLWriter struct{}

func (TOMLWriter) Format() string { return "toml" }

func (TOMLWriter) Write(values map[string]any) ([]byte, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(false)
	if err := enc.Encode(values); err != nil {
		return nil, fmt.Errorf("encode toml: %w", err)
	}
	return buf.Bytes(), nil
}

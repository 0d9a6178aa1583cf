// Package configfile renders a component's FileSpecs into configuration files
// under the generated-output root. Each format has a FormatWriter; dispatch
// goes through an explicit Formats map so callers and tests can supply their
// own set.
package configfile

import (
	"fmt"
	"sort"
	"strings"
)

// FormatWriter serializes a value tree into one file format.
type FormatWriter interface {
	// Format returns the format identifier, e.g. "json" or "keyvalue".
	Format() string
	// Write renders values. Output must be deterministic.
	Write(values map[string]any) ([]byte, error)
}

// Formats maps format identifiers to writers.
type Formats map[string]FormatWriter

// FormatUnsupportedError reports a FileSpec format with no writer.
type FormatUnsupportedError struct {
	Format    string
	Available []string
}

func (e *FormatUnsupportedError) Error() string {
	return fmt.Sprintf("unsupported format %q (available: %s)", e.Format, strings.Join(e.Available, ", "))
}

// DefaultFormats returns a fresh map holding every built-in writer.
func DefaultFormats() Formats {
	return NewFormats(
		JSONWriter{},
		JSONArrayWriter{},
		YAMLWriter{},
		TOMLWriter{},
		KeyValueWriter{},
		INIWriter{},
		TextListWriter{},
		XMLWriter{},
		RawWriter{},
	)
}

// NewFormats builds a Formats map keyed by each writer's Format().
func NewFormats(writers ...FormatWriter) Formats {
	f := make(Formats, len(writers))
	for _, w := range writers {
		f[w.Format()] = w
	}
	return f
}

// Lookup returns the writer for format.
func (f Formats) Lookup(format string) (FormatWriter, error) {
	if w, ok := f[format]; ok {
		return w, nil
	}
	return nil, &FormatUnsupportedError{Format: format, Available: f.Names()}
}

// Names returns the registered format identifiers, sorted.
func (f Formats) Names() []string {
	names := make([]string, 0, len(f))
	for name := range f {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// scalar formats a leaf value for line-oriented formats.
func scalar(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return fmt.Sprint(t), nil
	default:
		return "", fmt.Errorf("unsupported value of type %T", v)
	}
}

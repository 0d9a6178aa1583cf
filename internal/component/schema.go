package component

import (
	_ "embed"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

//go:embed schema.cue
var schemaSource string

const (
	componentDef = "#Component"
	overrideDef  = "#Override"
)

// checkSchema validates a decoded document against the named schema
// definition. Violations come back as a *ValidationError whose Field is the
// path of the first offending value.
func checkSchema(doc map[string]any, definition, component string) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile component schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath(definition))
	if err := def.Err(); err != nil {
		return fmt.Errorf("schema definition %s not found: %w", definition, err)
	}

	value := ctx.Encode(doc)
	if err := value.Err(); err != nil {
		return &ValidationError{Component: component, Message: err.Error()}
	}

	unified := def.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return schemaError(err, component)
	}
	return nil
}

func schemaError(err error, component string) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &ValidationError{Component: component, Message: err.Error()}
	}

	field := formatPath(cueerrors.Path(errs[0]))
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		path := cueerrors.Path(e)
		// CUE prefixes messages with the dotted path, definition included.
		msg := strings.TrimPrefix(e.Error(), strings.Join(path, "."))
		msg = strings.TrimSpace(strings.TrimPrefix(msg, ":"))
		if p := formatPath(path); p != "" && p != field {
			msg = p + ": " + msg
		}
		msgs = append(msgs, msg)
	}
	return &ValidationError{
		Component: component,
		Field:     field,
		Message:   strings.Join(msgs, "; "),
	}
}

// formatPath renders a CUE error path as paths[0].condition, dropping the
// schema definition selectors such as #Component.
func formatPath(path []string) string {
	var b strings.Builder
	for _, part := range path {
		if strings.HasPrefix(part, "#") {
			continue
		}
		switch {
		case b.Len() > 0 && isIndex(part):
			b.WriteString("[" + part + "]")
		case b.Len() > 0:
			b.WriteString("." + part)
		default:
			b.WriteString(part)
		}
	}
	return b.String()
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

package component

import (
	"fmt"
	"strings"
)

// NotFoundError reports a component name with no base spec in the registry.
type NotFoundError struct {
	Name      string
	Available []string
}

func (e *NotFoundError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("component %q not found", e.Name)
	}
	return fmt.Sprintf("component %q not found (available: %s)", e.Name, strings.Join(e.Available, ", "))
}

// ParseError reports a spec or override source that could not be read as a
// document at all.
type ParseError struct {
	Component string // component being loaded
	Source    string // where the document came from, e.g. "embedded:go.yaml"
	Message   string // user-friendly message
	Detail    string // raw decoder or Lua error
}

func (e *ParseError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("parse %s: %s", e.Source, e.Message)
	}
	return fmt.Sprintf("parse %s: %s: %s", e.Source, e.Message, e.Detail)
}

// ValidationError reports a well-formed document that breaks a spec rule.
type ValidationError struct {
	Component string
	Field     string
	Message   string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("invalid component")
	if e.Component != "" {
		fmt.Fprintf(&b, " %q", e.Component)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, ": %s", e.Field)
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	return b.String()
}

// FormatError formats err for display. Without verbose, Lua stack
// tracebacks are cut from parse errors.
func FormatError(err error, verbose bool) string {
	parseErr, ok := err.(*ParseError)
	if !ok || verbose {
		return err.Error()
	}
	detail := parseErr.Detail
	if idx := strings.Index(detail, "stack traceback"); idx > 0 {
		detail = strings.TrimSpace(detail[:idx])
	}
	trimmed := *parseErr
	trimmed.Detail = detail
	return trimmed.Error()
}

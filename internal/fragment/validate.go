package fragment

import (
	"errors"
	"fmt"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// SyntaxError reports generated shell text that does not parse.
type SyntaxError struct {
	Name    string
	Line    uint
	Column  uint
	Message string
	Err     error
}

func (e *SyntaxError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("invalid shell in %s: %s", e.Name, e.Message)
	}
	return fmt.Sprintf("invalid shell in %s:%d:%d: %s", e.Name, e.Line, e.Column, e.Message)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// Validate parses text in the bash dialect, the strictest of the shells that
// source fragments. zsh accepts every construct the generator emits. name
// labels the text in errors.
func Validate(name, text string) error {
	parser := syntax.NewParser(syntax.Variant(syntax.LangBash))
	if _, err := parser.Parse(strings.NewReader(text), name); err != nil {
		serr := &SyntaxError{Name: name, Message: err.Error(), Err: err}

		var perr syntax.ParseError
		var lerr syntax.LangError
		switch {
		case errors.As(err, &perr):
			serr.Line, serr.Column = perr.Pos.Line(), perr.Pos.Col()
			serr.Message = perr.Text
		case errors.As(err, &lerr):
			serr.Line, serr.Column = lerr.Pos.Line(), lerr.Pos.Col()
		}
		return serr
	}
	return nil
}

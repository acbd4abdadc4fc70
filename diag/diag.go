// Package diag collects the errors produced while running a program.
//
// Static errors (lexical, syntax and resolution errors) are accumulated in a
// Collector which is handed to every front-end pass. Runtime errors are
// returned as *RuntimeError values and abort evaluation.
package diag

import (
	"fmt"
	"io"
	"mox/token"
)

// Error is a single static error.
type Error struct {
	Line int
	// Empty, "at end" or "at '<lexeme>'".
	Where   string
	Message string
}

func (e Error) Error() string {
	return fmt.Sprintf("[line %v] Error %v: %v", e.Line, e.Where, e.Message)
}

// Collector accumulates static errors across the scanner, parser and
// resolver passes of a single run.
type Collector struct {
	errors []Error
}

func NewCollector() *Collector {
	return &Collector{}
}

// Report records an error that is not tied to a token.
func (c *Collector) Report(line int, message string) {
	c.errors = append(c.errors, Error{Line: line, Message: message})
}

// ReportAt records an error located at the given token.
func (c *Collector) ReportAt(tok token.Token, message string) {
	where := "at '" + tok.Lexeme + "'"
	if tok.Kind == token.END_OF_FILE {
		where = "at end"
	}

	c.errors = append(c.errors, Error{Line: tok.Line, Where: where, Message: message})
}

func (c *Collector) HasErrors() bool {
	return len(c.errors) > 0
}

func (c *Collector) Errors() []Error {
	return c.errors
}

// WriteTo prints every collected error, one per line.
func (c *Collector) WriteTo(w io.Writer) (int64, error) {
	var total int64

	for _, e := range c.errors {
		n, err := fmt.Fprintln(w, e.Error())
		total += int64(n)
		if err != nil {
			return total, err
		}
	}

	return total, nil
}

// RuntimeError aborts evaluation of the current run.
type RuntimeError struct {
	Token   token.Token
	Message string
}

func NewRuntimeError(tok token.Token, format string, args ...any) *RuntimeError {
	return &RuntimeError{Token: tok, Message: fmt.Sprintf(format, args...)}
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%v\n[line %v]", e.Message, e.Token.Line)
}

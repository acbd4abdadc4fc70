// Package runner drives one source buffer through the scanner, parser,
// resolver and interpreter, reporting diagnostics along the way.
package runner

import (
	"errors"
	"fmt"
	"io"
	"mox/ast"
	"mox/config"
	"mox/diag"
	"mox/interpreter"
	"mox/parser"
	"mox/resolver"
)

// Status is the outcome of a run.
type Status int

const (
	StatusOK Status = iota
	// Lexical, syntax or resolution errors, nothing was executed.
	StatusStaticError
	// Execution was aborted by a runtime error.
	StatusRuntimeError
)

// ExitCode maps the status to the conventional process exit code.
func (s Status) ExitCode() int {
	switch s {
	case StatusOK:
		return 0
	case StatusStaticError:
		return 65
	case StatusRuntimeError:
		return 70
	default:
		panic(fmt.Sprintf("runner: unknown status %d", int(s)))
	}
}

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusStaticError:
		return "static"
	case StatusRuntimeError:
		return "runtime"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Session keeps the interpreter state (globals) alive across runs, as
// needed by the REPL where each line is a separate run.
type Session struct {
	interp *interpreter.Interpreter
	stderr io.Writer
}

// NewSession writes program output to stdout and diagnostics to stderr.
func NewSession(stdout, stderr io.Writer, cfg config.Config) *Session {
	return &Session{
		interp: interpreter.New(stdout, interpreter.WithMaxCallDepth(cfg.MaxCallDepth)),
		stderr: stderr,
	}
}

// Run executes source. Static errors suppress execution of the whole source.
func (s *Session) Run(source string) Status {
	diags := diag.NewCollector()

	stmts := parser.ParseSource(source, diags)
	if diags.HasErrors() {
		diags.WriteTo(s.stderr)
		return StatusStaticError
	}

	locals := resolver.Resolve(stmts, diags)
	if diags.HasErrors() {
		diags.WriteTo(s.stderr)
		return StatusStaticError
	}

	if err := s.interp.Interpret(stmts, locals); err != nil {
		var runtime_err *diag.RuntimeError
		if !errors.As(err, &runtime_err) {
			panic(err)
		}

		fmt.Fprintln(s.stderr, runtime_err.Error())
		return StatusRuntimeError
	}

	return StatusOK
}

// Dump parses source and writes its syntax tree instead of running it.
func (s *Session) Dump(source string, out io.Writer) Status {
	diags := diag.NewCollector()

	stmts := parser.ParseSource(source, diags)
	if diags.HasErrors() {
		diags.WriteTo(s.stderr)
		return StatusStaticError
	}

	if len(stmts) != 0 {
		fmt.Fprintln(out, ast.Sprint(stmts))
	}
	return StatusOK
}

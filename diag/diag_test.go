package diag

import (
	"bytes"
	"mox/token"
	"testing"
)

func TestCollector(t *testing.T) {
	c := NewCollector()
	if c.HasErrors() {
		t.Fatalf("new collector has errors")
	}

	c.Report(3, "Unexpected character.")
	c.ReportAt(token.Token{Kind: token.IDENTIFIER, Lexeme: "foo", Line: 4}, "Expect ';' after value.")
	c.ReportAt(token.Token{Kind: token.END_OF_FILE, Line: 5}, "Expect expression.")

	if !c.HasErrors() || len(c.Errors()) != 3 {
		t.Fatalf("errors = %v", c.Errors())
	}

	var buf bytes.Buffer
	if _, err := c.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}

	want := "[line 3] Error : Unexpected character.\n" +
		"[line 4] Error at 'foo': Expect ';' after value.\n" +
		"[line 5] Error at end: Expect expression.\n"
	if got := buf.String(); got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func TestRuntimeError(t *testing.T) {
	err := NewRuntimeError(token.Token{Lexeme: "x", Line: 7}, "Undefined variable '%v'.", "x")
	if got, want := err.Error(), "Undefined variable 'x'.\n[line 7]"; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}

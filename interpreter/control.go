package interpreter

import "mox/value"

type controlKind uint8

const (
	controlLinear controlKind = iota
	controlReturn
)

// Result of executing a statement. A return unwinds every enclosing
// statement up to the function call which intercepts it.
type control struct {
	kind  controlKind
	value value.Value // Set for controlReturn
}

var linear = control{kind: controlLinear}

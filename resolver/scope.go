package resolver

type localScope struct {
	// Local variables are usually small in number, so this is fine.
	locals []localVar
}

type localVar struct {
	name    string
	defined bool
}

func makeLocalScope() localScope {
	return localScope{locals: make([]localVar, 0, 4)}
}

// Returns the slot index along with if defined, -1 if variable is not present.
func (s *localScope) getVariable(name string) (int, bool) {
	for i, local := range s.locals {
		if local.name == name {
			return i, local.defined
		}
	}

	return -1, false
}

// Pushes the variable into the scope, not yet defined.
func (s *localScope) putVariable(name string) {
	s.locals = append(s.locals, localVar{name: name, defined: false})
}

// Marks the variable defined, it must have been put before.
func (s *localScope) markDefined(name string) {
	if slot, _ := s.getVariable(name); slot >= 0 {
		s.locals[slot].defined = true
	}
}

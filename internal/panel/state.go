package panel

import "github.com/sells-group/measure-cli/internal/units"

// noLength never matches a selection size, so a reset gate always reports
// a change.
const noLength = -1

// Gate decides whether a selection differs from the one last rendered.
type Gate struct {
	lastLength   int
	lastSingular string
}

// NewGate returns a gate that reports a change on first use.
func NewGate() Gate {
	return Gate{lastLength: noLength}
}

// Changed records the selection size and singular ID (empty when the size
// is not one) and reports whether either differs from the previous call.
func (g *Gate) Changed(n int, singular string) bool {
	if n == g.lastLength && singular == g.lastSingular {
		return false
	}
	g.lastLength = n
	g.lastSingular = singular
	return true
}

// Reset forces the next Changed call to report a change.
func (g *Gate) Reset() {
	g.lastLength = noLength
}

// State is the mutable per-panel state: the active unit system and the
// change gate.
type State struct {
	System units.System
	Gate   Gate
}

// NewState returns state for a fresh panel.
func NewState(system units.System) *State {
	return &State{System: system, Gate: NewGate()}
}

// ToggleSystem flips the unit system and resets the gate.
func (s *State) ToggleSystem() {
	s.System = s.System.Toggle()
	s.Gate.Reset()
}

package panel

import (
	"io"
	"strings"

	"github.com/rotisserie/eris"
)

// ResultState is the panel state a result was rendered in.
type ResultState string

// Panel states.
const (
	StateIdle         ResultState = "idle"
	StateAggregate    ResultState = "aggregate"
	StateSingleOpen   ResultState = "single_open"
	StateSingleClosed ResultState = "single_closed"
	// StateSinglePoint covers every single feature reported by location
	// only: points, vertices and relations that are not areas.
	StateSinglePoint ResultState = "single_point"
)

// Measurement is the formatted detail block for a single line or area.
// Area is empty for open lines.
type Measurement struct {
	Geometry string `json:"geometry"`
	Area     string `json:"area,omitempty"`
	Length   string `json:"length"`
	Centroid string `json:"centroid"`
}

// Result is what the presentation layer draws.
type Result struct {
	State       ResultState  `json:"state"`
	Heading     string       `json:"heading"`
	Items       []string     `json:"items"`
	Measurement *Measurement `json:"measurement,omitempty"`
	// Toggle is the label of the unit toggle. Empty when no toggle is shown.
	Toggle string `json:"toggle,omitempty"`
	System string `json:"system"`
}

// HasToggle reports whether the result offers a unit toggle.
func (r *Result) HasToggle() bool { return r.Toggle != "" }

// Lines renders the result as plain text lines.
func (r *Result) Lines() []string {
	lines := make([]string, 0, len(r.Items)+2)
	lines = append(lines, r.Heading)
	for _, item := range r.Items {
		lines = append(lines, "- "+item)
	}
	if r.HasToggle() {
		lines = append(lines, "["+r.Toggle+"]")
	}
	return lines
}

// WriteText writes Lines to w, one per line.
func (r *Result) WriteText(w io.Writer) error {
	_, err := io.WriteString(w, strings.Join(r.Lines(), "\n")+"\n")
	if err != nil {
		return eris.Wrap(err, "panel: write text")
	}
	return nil
}

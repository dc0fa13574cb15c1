// Package panel is the measurement info panel: it tracks the selection,
// skips work when the selection is unchanged and renders lengths, areas and
// centroids in the active unit system.
package panel

import (
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"

	"github.com/sells-group/measure-cli/internal/format"
	"github.com/sells-group/measure-cli/internal/geodesic"
	"github.com/sells-group/measure-cli/internal/osm"
	"github.com/sells-group/measure-cli/internal/units"
)

// WidgetID identifies the panel among info widgets.
const WidgetID = "measurement"

// redrawEvent is the signal the panel subscribes to.
const redrawEvent = "drawn"

// Store is the data store the panel reads entities from.
type Store interface {
	geodesic.Resolver
	Entity(id string) (*osm.Entity, bool)
	HasEntity(id string) bool
	Extent(e *osm.Entity) *geom.Bounds
	Geometry(e *osm.Entity) osm.Geometry
}

// Localizer returns display strings.
type Localizer interface {
	T(key string, args ...any) string
}

// Source delivers redraw signals. Subscriptions are keyed "event.name".
type Source interface {
	On(key string, fn func()) error
	Emit(event string)
}

// AnalyzeFunc computes the raw measurement of a single feature.
type AnalyzeFunc func(r geodesic.Resolver, e *osm.Entity) (geodesic.Measurement, error)

// Option configures a Panel.
type Option func(*Panel)

// WithAnalyzer replaces geodesic.Analyze.
func WithAnalyzer(fn AnalyzeFunc) Option {
	return func(p *Panel) {
		p.analyze = fn
	}
}

// WithLogger sets the logger used for skipped features.
func WithLogger(log *zap.Logger) Option {
	return func(p *Panel) {
		p.log = log
	}
}

// Panel renders measurements for the current selection.
type Panel struct {
	store   Store
	loc     Localizer
	analyze AnalyzeFunc
	log     *zap.Logger
	state   *State
	last    *Result
	hidden  bool

	source Source
	key    string
}

// New creates a panel starting in the given unit system.
func New(store Store, loc Localizer, system units.System, opts ...Option) *Panel {
	p := &Panel{
		store:   store,
		loc:     loc,
		analyze: geodesic.Analyze,
		log:     zap.L(),
		state:   NewState(system),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ID returns the widget identifier.
func (p *Panel) ID() string { return WidgetID }

// Title returns the localized widget title.
func (p *Panel) Title() string { return p.loc.T("infobox.measurement.title") }

// Key returns the localized keyboard shortcut.
func (p *Panel) Key() string { return p.loc.T("infobox.measurement.key") }

// System returns the active unit system.
func (p *Panel) System() units.System { return p.state.System }

// SetHidden hides or shows the panel. A hidden panel keeps returning its
// last result without consulting the gate.
func (p *Panel) SetHidden(hidden bool) { p.hidden = hidden }

// Evaluate renders selection. When the selection is unchanged since the
// previous call, the previous result is returned as-is.
func (p *Panel) Evaluate(selection []string) *Result {
	res, _ := p.evaluate(selection)
	return res
}

func (p *Panel) evaluate(selection []string) (*Result, bool) {
	if p.hidden {
		return p.last, false
	}

	resolved := make([]*osm.Entity, 0, len(selection))
	for _, id := range selection {
		if e, ok := p.store.Entity(id); ok {
			resolved = append(resolved, e)
		}
	}

	var singular string
	if len(resolved) == 1 {
		singular = resolved[0].ID
	}
	if !p.state.Gate.Changed(len(resolved), singular) {
		return p.last, false
	}

	p.last = p.render(resolved, len(selection))
	return p.last, true
}

// Toggle flips the unit system and forces the next evaluation to
// recompute. An attached panel is redrawn through its source.
func (p *Panel) Toggle() {
	p.state.ToggleSystem()
	if p.source != nil {
		p.source.Emit(redrawEvent)
	}
}

// Attach renders the current selection and re-renders it on every redraw
// signal from src. A previously attached source is detached first.
func (p *Panel) Attach(src Source, selected func() []string, render func(*Result)) error {
	if err := p.Detach(); err != nil {
		return err
	}

	key := redrawEvent + ".info-measurement-" + uuid.NewString()
	redraw := func() {
		if res, changed := p.evaluate(selected()); changed {
			render(res)
		}
	}
	if err := src.On(key, redraw); err != nil {
		return eris.Wrap(err, "panel: attach")
	}
	p.source = src
	p.key = key

	redraw()
	return nil
}

// Detach removes the subscription made by Attach.
func (p *Panel) Detach() error {
	if p.source == nil {
		return nil
	}
	if err := p.source.On(p.key, nil); err != nil {
		return eris.Wrap(err, "panel: detach")
	}
	p.source = nil
	p.key = ""
	return nil
}

// render builds the result for the resolved entities. requested is the
// size of the selection before unresolvable IDs were dropped.
func (p *Panel) render(resolved []*osm.Entity, requested int) *Result {
	res := &Result{
		State:  StateIdle,
		Items:  []string{},
		System: p.state.System.String(),
	}
	if len(resolved) == 1 {
		res.Heading = resolved[0].ID
	} else {
		res.Heading = p.loc.T("infobox.measurement.selected", len(resolved))
	}
	if len(resolved) == 0 {
		if requested > 0 {
			res.State = StateAggregate
		}
		return res
	}

	lon, lat, hasCenter := p.extentCenter(resolved)

	if len(resolved) > 1 {
		res.State = StateAggregate
		if hasCenter {
			res.Items = append(res.Items, p.label("center", format.Coordinate(lon, lat)))
		}
		return res
	}

	e := resolved[0]
	kind := p.store.Geometry(e)
	if kind != osm.GeometryLine && kind != osm.GeometryArea {
		res.State = StateSinglePoint
		where := "center"
		if e.Type == osm.Node {
			where = "location"
		}
		res.Items = append(res.Items, p.label("geometry", p.loc.T("geometry."+string(kind))))
		if hasCenter {
			res.Items = append(res.Items, p.label(where, format.Coordinate(lon, lat)))
		}
		return res
	}

	m, err := p.analyze(p.store, e)
	if err != nil {
		p.log.Debug("panel: skipping feature",
			zap.String("entity", e.ID),
			zap.Error(err),
		)
		res.State = StateSingleOpen
		return res
	}

	res.Measurement = p.measurement(kind, m)
	res.State = StateSingleOpen
	if m.Closed() {
		res.State = StateSingleClosed
	}
	for _, line := range []string{
		res.Measurement.Geometry,
		res.Measurement.Area,
		res.Measurement.Length,
		res.Measurement.Centroid,
	} {
		if line != "" {
			res.Items = append(res.Items, line)
		}
	}
	res.Toggle = p.loc.T("infobox.measurement." + p.state.System.String())
	return res
}

func (p *Panel) measurement(kind osm.Geometry, m geodesic.Measurement) *Measurement {
	geometry := p.loc.T("geometry." + string(kind))
	lengthKey := "length"
	if m.Closed() {
		geometry = p.loc.T("infobox.measurement.closed") + " " + geometry
		lengthKey = "perimeter"
	}

	out := &Measurement{
		Geometry: p.label("geometry", geometry),
		Length:   p.label(lengthKey, format.Length(m.LengthMeters, p.state.System)),
		Centroid: p.label("centroid", format.Coordinate(m.Centroid[0], m.Centroid[1])),
	}
	if m.Closed() {
		out.Area = p.label("area", format.Area(m.AreaSqMeters, p.state.System))
	}
	return out
}

func (p *Panel) label(key, value string) string {
	return p.loc.T("infobox.measurement."+key) + ": " + value
}

// extentCenter returns the center of the union of the entities' extents.
// ok is false when every extent is empty.
func (p *Panel) extentCenter(entities []*osm.Entity) (lon, lat float64, ok bool) {
	union := geom.NewBounds(geom.XY)
	for _, e := range entities {
		if b := p.store.Extent(e); b != nil && !b.IsEmpty() {
			union.Extend(b.Polygon())
		}
	}
	if union.IsEmpty() {
		return 0, 0, false
	}
	return (union.Min(0) + union.Max(0)) / 2, (union.Min(1) + union.Max(1)) / 2, true
}

// Package explorer is the interactive engine behind the PheWAS graph. It
// owns the graph store and turns user intents (clicks, hovers, filter
// changes) into backend fetches and graph mutations.
//
// An Explorer has exactly one owner. Operations that need the backend
// return Effects; the owner runs them wherever it likes (a goroutine, a
// bubbletea command) and hands each resulting Outcome back to Apply. Apply
// is the only place the graph changes after a fetch, so every Outcome
// re-checks the graph before touching it.
package explorer

import (
	"context"
	"errors"
	"fmt"

	"github.com/dd0wney/phewas-explorer/pkg/filter"
	"github.com/dd0wney/phewas-explorer/pkg/gateway"
	"github.com/dd0wney/phewas-explorer/pkg/graph"
	"github.com/dd0wney/phewas-explorer/pkg/logging"
	"github.com/dd0wney/phewas-explorer/pkg/metrics"
	"github.com/dd0wney/phewas-explorer/pkg/visualization"
)

var (
	// ErrNotExpandable is returned when expanding or collapsing an allele.
	ErrNotExpandable = errors.New("node cannot be expanded")
	// ErrBusy is returned when a node is activated while its fetch is in flight.
	ErrBusy = errors.New("node expansion in progress")
)

// Gateway is the backend as seen by the explorer.
type Gateway interface {
	GraphData(ctx context.Context, q gateway.GraphQuery) (*gateway.Graph, error)
	Diseases(ctx context.Context, categoryID, filters string, showSubtypes bool) ([]string, error)
	Info(ctx context.Context, allele, disease string) (*gateway.Info, error)
	PathToNode(ctx context.Context, disease string) ([]string, error)
	CombinedAssociations(ctx context.Context, disease string, showSubtypes bool) ([]gateway.Association, error)
}

// Preferences persists the show-subtypes choice.
type Preferences interface {
	ShowSubtypes() bool
	ToggleShowSubtypes() (bool, error)
}

// Effect is a unit of backend work. It runs off the owning goroutine and
// must not touch the Explorer; its Outcome is passed to Apply.
type Effect func(ctx context.Context) Outcome

// Outcome is the result of an Effect.
type Outcome interface {
	apply(e *Explorer) ([]Effect, error)
}

// Deps are the collaborators of an Explorer.
type Deps struct {
	Gateway Gateway
	Layout  *visualization.Engine
	Prefs   Preferences
	Logger  logging.Logger
	Metrics *metrics.Registry
	// Strict surfaces missing-node conditions as errors from Apply and the
	// interaction methods instead of logging and skipping them.
	Strict bool
}

// Explorer is the graph exploration engine.
type Explorer struct {
	gw      Gateway
	layout  *visualization.Engine
	prefs   Preferences
	logger  logging.Logger
	metrics *metrics.Registry
	strict  bool

	store        *graph.Store
	form         *filter.Form
	filters      string
	showSubtypes bool

	states  map[string]State
	pending map[string]uint64
	seq     uint64 // request tokens
	epoch   uint64 // bumped on every full re-initialization
	rootSeq uint64

	camera      visualization.Camera
	initialized bool

	selection    Selection
	panel        *Panel
	notice       *Notice
	associations *Associations
	task         *task
}

// New creates an Explorer. Gateway and Layout are required.
func New(deps Deps) (*Explorer, error) {
	if deps.Gateway == nil {
		return nil, errors.New("explorer: gateway is required")
	}
	if deps.Layout == nil {
		return nil, errors.New("explorer: layout engine is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	e := &Explorer{
		gw:      deps.Gateway,
		layout:  deps.Layout,
		prefs:   deps.Prefs,
		logger:  logger.With(logging.Component("explorer")),
		metrics: deps.Metrics,
		strict:  deps.Strict,
		store:   graph.NewStore(),
		form:    filter.NewForm(),
		states:  make(map[string]State),
		pending: make(map[string]uint64),
		camera:  visualization.NewCamera(deps.Layout.Config()),
	}
	if deps.Prefs != nil {
		e.showSubtypes = deps.Prefs.ShowSubtypes()
	}
	e.form.SetShowSubtypes(e.showSubtypes)
	return e, nil
}

// Apply merges the outcome of an Effect and returns follow-up effects.
func (e *Explorer) Apply(o Outcome) ([]Effect, error) {
	if o == nil {
		return nil, nil
	}
	return o.apply(e)
}

// Store exposes the graph for rendering. Callers must not mutate it.
func (e *Explorer) Store() *graph.Store {
	return e.store
}

// Filters returns the filter string of the current graph.
func (e *Explorer) Filters() string {
	return e.filters
}

// ShowSubtypes reports whether allele subtypes are shown.
func (e *Explorer) ShowSubtypes() bool {
	return e.showSubtypes
}

// Camera returns the current viewport.
func (e *Explorer) Camera() visualization.Camera {
	return e.camera
}

// SetCamera replaces the viewport, e.g. after a pan or zoom.
func (e *Explorer) SetCamera(c visualization.Camera) {
	e.camera = c
}

// Selection returns the highlighted allele and disease.
func (e *Explorer) Selection() Selection {
	return e.selection
}

// Snapshot returns the positioned, styled graph for export.
func (e *Explorer) Snapshot() *visualization.Visualization {
	return visualization.Snapshot(e.store, e.camera)
}

func (e *Explorer) nextToken() uint64 {
	e.seq++
	return e.seq
}

// missing handles a reference to a node that is not in the store.
func (e *Explorer) missing(op string, err error) error {
	if err == nil {
		return nil
	}
	if e.strict {
		return fmt.Errorf("%s: %w", op, err)
	}
	e.logger.Warn("missing graph element", logging.Operation(op), logging.Error(err))
	return nil
}

func (e *Explorer) recordGraph() {
	if e.metrics == nil {
		return
	}
	byKind := map[string]int{
		string(graph.KindCategory): 0,
		string(graph.KindDisease):  0,
		string(graph.KindAllele):   0,
	}
	visible := 0
	for _, n := range e.store.Nodes() {
		byKind[string(n.Kind)]++
		if !n.Hidden {
			visible++
		}
	}
	e.metrics.UpdateGraphMetrics(byKind, e.store.EdgeCount(), visible)
}

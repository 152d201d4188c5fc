package app

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/hperssn/mapty/internal/domain"
)

var (
	ErrWorkoutNotFound = errors.New("workout not found")
	ErrMapNotReady     = errors.New("map is not ready")
	ErrFormClosed      = errors.New("form is not open")
	ErrLocationFailed  = errors.New("could not get your position")
	ErrLocationHandled = errors.New("location already handled")
)

const (
	DefaultZoom      = 13
	DefaultFormDelay = time.Second
	hereLabel        = "You are here👋🏻"
)

type State string

const (
	StateAwaitingLocation State = "awaiting_location"
	StateMapReady         State = "map_ready"
	StateFormOpen         State = "form_open"
	StateFailed           State = "failed"
)

// View is the presentation side of the app. Calls are made while the app
// holds its lock, except the delayed RestoreFormLayout, so implementations
// must not call back into the App.
type View interface {
	LoadMap(center domain.Coords, zoom int, label string)
	RenderMarker(w domain.Workout)
	RenderWorkout(w domain.Workout)
	ShowForm()
	HideForm()
	RestoreFormLayout()
	ToggleFields(kind domain.Kind)
	PanTo(center domain.Coords, zoom int)
	Alert(message string)
}

// Journal records accepted workouts and clicks outside the process.
type Journal interface {
	Record(w *domain.Workout) error
	Clicked(id string) error
}

type Options struct {
	Zoom      int
	FormDelay time.Duration
	Journal   Journal
	Now       func() time.Time
}

// App is the workout controller for a single user.
type App struct {
	mu sync.Mutex

	view    View
	journal Journal
	now     func() time.Time

	zoom      int
	formDelay time.Duration

	state    State
	kind     domain.Kind
	pending  *domain.Coords
	workouts []*domain.Workout

	lastSeen time.Time
}

func New(view View, opts Options) *App {
	if opts.Zoom <= 0 {
		opts.Zoom = DefaultZoom
	}
	if opts.FormDelay <= 0 {
		opts.FormDelay = DefaultFormDelay
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &App{
		view:      view,
		journal:   opts.Journal,
		now:       opts.Now,
		zoom:      opts.Zoom,
		formDelay: opts.FormDelay,
		state:     StateAwaitingLocation,
		kind:      domain.KindRunning,
		lastSeen:  opts.Now(),
	}
}

// Restore loads previously saved workouts. They are rendered once the map
// is ready.
func (a *App) Restore(ws []*domain.Workout) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.workouts = append(a.workouts, ws...)
	if a.state == StateMapReady || a.state == StateFormOpen {
		for _, w := range ws {
			a.render(w)
		}
	}
}

// LocationResolved creates the map centred on the user's position. Only the
// first resolution counts.
func (a *App) LocationResolved(pos domain.Coords) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.touch()

	if a.state != StateAwaitingLocation {
		return fmt.Errorf("%w: %s", ErrLocationHandled, a.state)
	}

	a.view.LoadMap(pos, a.zoom, hereLabel)
	a.state = StateMapReady

	for _, w := range a.workouts {
		a.render(w)
	}
	return nil
}

// LocationFailed is terminal: no map is created and there is no retry.
func (a *App) LocationFailed(reason string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.touch()

	if a.state != StateAwaitingLocation {
		return fmt.Errorf("%w: %s", ErrLocationHandled, a.state)
	}

	log.Printf("geolocation failed: %s", reason)
	a.state = StateFailed
	a.view.Alert("Not successful..!")
	return fmt.Errorf("%w: %s", ErrLocationFailed, reason)
}

func (a *App) MapClicked(pos domain.Coords) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.touch()

	if a.state != StateMapReady && a.state != StateFormOpen {
		return ErrMapNotReady
	}

	a.pending = &pos
	a.state = StateFormOpen
	a.view.ShowForm()
	return nil
}

// ToggleType flips the form between running and cycling fields.
func (a *App) ToggleType() domain.Kind {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.touch()

	a.kind = a.kind.Other()
	a.view.ToggleFields(a.kind)
	return a.kind
}

// Submit handles the workout form. An empty input kind uses the kind the
// form currently shows. On invalid input the form stays open and the
// captured coordinates are kept.
func (a *App) Submit(in domain.Input) (*domain.Workout, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.touch()

	if a.state != StateFormOpen || a.pending == nil {
		return nil, ErrFormClosed
	}
	if in.Kind == "" {
		in.Kind = a.kind
	}

	w, err := in.Build(*a.pending, a.now())
	if err != nil {
		a.view.Alert("Inputs have to be positive numbers")
		return nil, err
	}

	w.Describe()
	a.workouts = append(a.workouts, w)

	if a.journal != nil {
		if err := a.journal.Record(w); err != nil {
			log.Printf("failed to record workout %s: %v", w.ID, err)
		}
	}

	a.render(w)
	a.hideForm()

	copy := *w
	return &copy, nil
}

func (a *App) hideForm() {
	a.pending = nil
	a.state = StateMapReady
	a.view.HideForm()

	view := a.view
	time.AfterFunc(a.formDelay, view.RestoreFormLayout)
}

func (a *App) render(w *domain.Workout) {
	a.view.RenderMarker(*w)
	a.view.RenderWorkout(*w)
}

// ListClicked moves the map to the clicked workout. An empty id means the
// click landed outside any workout entry and is ignored.
func (a *App) ListClicked(id string) (*domain.Workout, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.touch()

	if id == "" {
		return nil, nil
	}
	if a.state != StateMapReady && a.state != StateFormOpen {
		return nil, ErrMapNotReady
	}

	w := a.find(id)
	if w == nil {
		return nil, ErrWorkoutNotFound
	}

	a.view.PanTo(w.Coords, a.zoom)
	w.Click()

	if a.journal != nil {
		if err := a.journal.Clicked(w.ID); err != nil {
			log.Printf("failed to record click on %s: %v", w.ID, err)
		}
	}

	copy := *w
	return &copy, nil
}

func (a *App) find(id string) *domain.Workout {
	for _, w := range a.workouts {
		if w.ID == id {
			return w
		}
	}
	return nil
}

func (a *App) Workout(id string) (*domain.Workout, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	w := a.find(id)
	if w == nil {
		return nil, false
	}
	copy := *w
	return &copy, true
}

// Workouts returns a snapshot in insertion order.
func (a *App) Workouts() []domain.Workout {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]domain.Workout, len(a.workouts))
	for i, w := range a.workouts {
		out[i] = *w
	}
	return out
}

func (a *App) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

func (a *App) Kind() domain.Kind {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.kind
}

func (a *App) touch() {
	a.lastSeen = a.now()
}

func (a *App) idleSince() time.Time {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastSeen
}

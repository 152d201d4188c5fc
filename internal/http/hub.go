package httpapi

import (
	"strconv"
	"sync"

	"github.com/hperssn/mapty/internal/domain"
)

type EventType string

const (
	EventMapLoaded    EventType = "map"
	EventMarker       EventType = "marker"
	EventWorkout      EventType = "workout"
	EventFormShown    EventType = "form:show"
	EventFormHidden   EventType = "form:hide"
	EventFormLayout   EventType = "form:layout"
	EventFieldsToggle EventType = "fields"
	EventPan          EventType = "pan"
	EventAlert        EventType = "alert"
)

type Event struct {
	Type    EventType `json:"type"`
	Payload any       `json:"payload,omitempty"`
}

type MapPayload struct {
	Center domain.Coords `json:"center"`
	Zoom   int           `json:"zoom"`
	Label  string        `json:"label"`
}

type PopupOptions struct {
	MaxWidth     int    `json:"maxWidth"`
	MinWidth     int    `json:"minWidth"`
	AutoClose    bool   `json:"autoClose"`
	CloseOnClick bool   `json:"closeOnClick"`
	ClassName    string `json:"className"`
}

type MarkerPayload struct {
	ID      string        `json:"id"`
	Coords  domain.Coords `json:"coords"`
	Content string        `json:"content"`
	Popup   PopupOptions  `json:"popup"`
}

type WorkoutPayload struct {
	domain.Workout
	Icon    string `json:"icon"`
	Metric  string `json:"metric"`
	Unit    string `json:"unit"`
	Summary string `json:"summary"`
}

type FieldsPayload struct {
	Kind             domain.Kind `json:"kind"`
	CadenceVisible   bool        `json:"cadenceVisible"`
	ElevationVisible bool        `json:"elevationVisible"`
}

type PanPayload struct {
	Center   domain.Coords `json:"center"`
	Zoom     int           `json:"zoom"`
	Animate  bool          `json:"animate"`
	Duration float64       `json:"duration"` // seconds
}

// Hub is an app.View that fans events out to every connected browser tab
// of one user. Slow subscribers drop events rather than block the app.
type Hub struct {
	mu   sync.Mutex
	subs map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[chan Event]struct{})}
}

func (h *Hub) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 32)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.subs[ch]; ok {
			delete(h.subs, ch)
			close(ch)
		}
	}
	return ch, cancel
}

func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func (h *Hub) publish(e Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

func (h *Hub) LoadMap(center domain.Coords, zoom int, label string) {
	h.publish(Event{Type: EventMapLoaded, Payload: MapPayload{Center: center, Zoom: zoom, Label: label}})
}

func (h *Hub) RenderMarker(w domain.Workout) {
	h.publish(Event{Type: EventMarker, Payload: MarkerPayload{
		ID:      w.ID,
		Coords:  w.Coords,
		Content: w.PopupContent,
		Popup: PopupOptions{
			MaxWidth:  250,
			MinWidth:  50,
			ClassName: string(w.Kind) + "-popup",
		},
	}})
}

func (h *Hub) RenderWorkout(w domain.Workout) {
	value, unit := w.Metric()
	h.publish(Event{Type: EventWorkout, Payload: WorkoutPayload{
		Workout: w,
		Icon:    w.Kind.Icon(),
		Metric:  strconv.FormatFloat(value, 'f', 1, 64),
		Unit:    unit,
		Summary: w.Summary(),
	}})
}

func (h *Hub) ShowForm() {
	h.publish(Event{Type: EventFormShown})
}

func (h *Hub) HideForm() {
	h.publish(Event{Type: EventFormHidden})
}

func (h *Hub) RestoreFormLayout() {
	h.publish(Event{Type: EventFormLayout})
}

func (h *Hub) ToggleFields(kind domain.Kind) {
	h.publish(Event{Type: EventFieldsToggle, Payload: FieldsPayload{
		Kind:             kind,
		CadenceVisible:   kind == domain.KindRunning,
		ElevationVisible: kind == domain.KindCycling,
	}})
}

func (h *Hub) PanTo(center domain.Coords, zoom int) {
	h.publish(Event{Type: EventPan, Payload: PanPayload{Center: center, Zoom: zoom, Animate: true, Duration: 1}})
}

func (h *Hub) Alert(message string) {
	h.publish(Event{Type: EventAlert, Payload: map[string]string{"message": message}})
}

package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindRunning Kind = "running"
	KindCycling Kind = "cycling"
)

func (k Kind) Valid() bool {
	return k == KindRunning || k == KindCycling
}

// Other returns the kind the form toggles to.
func (k Kind) Other() Kind {
	if k == KindRunning {
		return KindCycling
	}
	return KindRunning
}

func (k Kind) Icon() string {
	if k == KindRunning {
		return "🏃‍♂️"
	}
	return "🚴‍♀️"
}

type Coords struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Workout is a single recorded session. Running workouts carry Cadence and
// Pace, cycling workouts carry Elevation and Speed.
type Workout struct {
	ID           string    `json:"id"`
	Kind         Kind      `json:"type"`
	Date         time.Time `json:"date"`
	Coords       Coords    `json:"coords"`
	Distance     float64   `json:"distance"` // km
	Duration     float64   `json:"duration"` // min
	Cadence      float64   `json:"cadence,omitempty"`
	Elevation    float64   `json:"elevation,omitempty"`
	Pace         float64   `json:"pace,omitempty"`
	Speed        float64   `json:"speed,omitempty"`
	Clicks       int       `json:"clicks"`
	PopupContent string    `json:"popupContent"`
}

func newWorkout(kind Kind, coords Coords, distance, duration float64, now time.Time) *Workout {
	return &Workout{
		ID:       uuid.New().String(),
		Kind:     kind,
		Date:     now,
		Coords:   coords,
		Distance: distance,
		Duration: duration,
	}
}

func NewRunning(coords Coords, distance, duration, cadence float64) *Workout {
	return newRunningAt(coords, distance, duration, cadence, time.Now())
}

func NewCycling(coords Coords, distance, duration, elevation float64) *Workout {
	return newCyclingAt(coords, distance, duration, elevation, time.Now())
}

func newRunningAt(coords Coords, distance, duration, cadence float64, now time.Time) *Workout {
	w := newWorkout(KindRunning, coords, distance, duration, now)
	w.Cadence = cadence
	w.calcPace()
	return w
}

func newCyclingAt(coords Coords, distance, duration, elevation float64, now time.Time) *Workout {
	w := newWorkout(KindCycling, coords, distance, duration, now)
	w.Elevation = elevation
	w.calcSpeed()
	return w
}

// min/km
func (w *Workout) calcPace() float64 {
	w.Pace = w.Duration / w.Distance
	return w.Pace
}

// km/h
func (w *Workout) calcSpeed() float64 {
	w.Speed = w.Distance / (w.Duration / 60)
	return w.Speed
}

func (w *Workout) Click() {
	w.Clicks++
}

// Describe sets PopupContent. It is a no-op once the label has been set.
func (w *Workout) Describe() string {
	if w.PopupContent == "" {
		w.PopupContent = Description(w.Kind, w.Date)
	}
	return w.PopupContent
}

// Description builds the marker label, e.g. "🏃‍♂️ Running on April 14".
func Description(kind Kind, date time.Time) string {
	name := string(kind)
	if name != "" {
		name = strings.ToUpper(name[:1]) + name[1:]
	}
	return fmt.Sprintf("%s %s on %s %d", kind.Icon(), name, date.Month(), date.Day())
}

// Metric is the kind specific rate shown next to distance and duration.
func (w *Workout) Metric() (value float64, unit string) {
	if w.Kind == KindRunning {
		return w.Pace, "min/km"
	}
	return w.Speed, "km/h"
}

// Summary is a one line rendering of the list entry values.
func (w *Workout) Summary() string {
	value, unit := w.Metric()
	if w.Kind == KindRunning {
		return fmt.Sprintf("%g km, %g min, %.1f %s, %g spm", w.Distance, w.Duration, value, unit, w.Cadence)
	}
	return fmt.Sprintf("%g km, %g min, %.1f %s, %g m", w.Distance, w.Duration, value, unit, w.Elevation)
}

package domain

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var ErrInvalidInput = errors.New("inputs have to be positive numbers")

// Input is the submitted workout form. Cadence is read for running
// workouts and Elevation for cycling workouts.
type Input struct {
	Kind      Kind    `json:"type"`
	Distance  float64 `json:"distance"`
	Duration  float64 `json:"duration"`
	Cadence   float64 `json:"cadence"`
	Elevation float64 `json:"elevation"`
}

type field struct {
	name  string
	value float64
}

func allFinite(fields ...field) error {
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return fmt.Errorf("%w: %s is not a finite number", ErrInvalidInput, f.name)
		}
	}
	return nil
}

func allPositive(fields ...field) error {
	for _, f := range fields {
		if !(f.value > 0) {
			return fmt.Errorf("%w: %s must be positive", ErrInvalidInput, f.name)
		}
	}
	return nil
}

// Validate checks the form. Every field must be finite; distance and
// duration must be positive, and so must cadence for running. Elevation
// may be zero or negative.
func (in Input) Validate() error {
	distance := field{"distance", in.Distance}
	duration := field{"duration", in.Duration}

	switch in.Kind {
	case KindRunning:
		cadence := field{"cadence", in.Cadence}
		if err := allFinite(distance, duration, cadence); err != nil {
			return err
		}
		return allPositive(distance, duration, cadence)
	case KindCycling:
		elevation := field{"elevation", in.Elevation}
		if err := allFinite(distance, duration, elevation); err != nil {
			return err
		}
		return allPositive(distance, duration)
	default:
		return fmt.Errorf("%w: unknown workout type %q", ErrInvalidInput, in.Kind)
	}
}

// Build validates the input and constructs the matching workout variant.
func (in Input) Build(coords Coords, now time.Time) (*Workout, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if in.Kind == KindRunning {
		return newRunningAt(coords, in.Distance, in.Duration, in.Cadence, now), nil
	}
	return newCyclingAt(coords, in.Distance, in.Duration, in.Elevation, now), nil
}

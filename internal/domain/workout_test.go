package domain

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"
)

func TestNewRunningPace(t *testing.T) {
	tests := []struct {
		name               string
		distance, duration float64
	}{
		{name: "5k", distance: 5, duration: 25},
		{name: "fractional", distance: 3.7, duration: 19.3},
		{name: "marathon", distance: 42.195, duration: 210},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewRunning(Coords{Lat: 1, Lng: 2}, tt.distance, tt.duration, 170)

			if want := tt.duration / tt.distance; w.Pace != want {
				t.Fatalf("pace = %v want %v", w.Pace, want)
			}
			if w.Kind != KindRunning {
				t.Fatalf("kind = %s want running", w.Kind)
			}
			if w.Cadence != 170 {
				t.Fatalf("cadence = %v want 170", w.Cadence)
			}
		})
	}
}

func TestNewCyclingSpeed(t *testing.T) {
	tests := []struct {
		name               string
		distance, duration float64
		elevation          float64
	}{
		{name: "hour ride", distance: 30, duration: 60, elevation: 200},
		{name: "descent", distance: 12.5, duration: 17, elevation: -340},
		{name: "flat", distance: 8, duration: 45, elevation: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewCycling(Coords{}, tt.distance, tt.duration, tt.elevation)

			if want := tt.distance / (tt.duration / 60); w.Speed != want {
				t.Fatalf("speed = %v want %v", w.Speed, want)
			}
			if w.Elevation != tt.elevation {
				t.Fatalf("elevation = %v want %v", w.Elevation, tt.elevation)
			}
		})
	}
}

func TestWorkoutIDsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		w := NewRunning(Coords{}, 1, 1, 1)
		if seen[w.ID] {
			t.Fatalf("duplicate id %s after %d workouts", w.ID, i)
		}
		seen[w.ID] = true
	}
}

func TestWorkoutClick(t *testing.T) {
	w := NewCycling(Coords{}, 10, 30, 5)
	w.Click()
	w.Click()

	if w.Clicks != 2 {
		t.Fatalf("clicks = %d want 2", w.Clicks)
	}
}

func TestDescription(t *testing.T) {
	date := time.Date(2024, time.April, 14, 9, 0, 0, 0, time.UTC)

	if got := Description(KindRunning, date); got != "🏃‍♂️ Running on April 14" {
		t.Fatalf("running description = %q", got)
	}
	if got := Description(KindCycling, date); got != "🚴‍♀️ Cycling on April 14" {
		t.Fatalf("cycling description = %q", got)
	}
}

func TestDescribeSetsOnce(t *testing.T) {
	w := NewRunning(Coords{}, 5, 25, 170)
	first := w.Describe()
	w.Date = w.Date.AddDate(0, 1, 0)

	if second := w.Describe(); second != first {
		t.Fatalf("popup content changed from %q to %q", first, second)
	}
}

func TestSummary(t *testing.T) {
	run := NewRunning(Coords{}, 5, 25, 170)
	if got := run.Summary(); !strings.Contains(got, "5.0 min/km") {
		t.Fatalf("running summary = %q", got)
	}

	ride := NewCycling(Coords{}, 30, 60, 200)
	if got := ride.Summary(); !strings.Contains(got, "30.0 km/h") || !strings.Contains(got, "200 m") {
		t.Fatalf("cycling summary = %q", got)
	}
}

func TestInputValidate(t *testing.T) {
	nan := math.NaN()
	inf := math.Inf(1)

	tests := []struct {
		name    string
		in      Input
		wantErr bool
	}{
		{"valid running", Input{Kind: KindRunning, Distance: 5, Duration: 25, Cadence: 170}, false},
		{"running zero cadence", Input{Kind: KindRunning, Distance: 5, Duration: 25}, true},
		{"running negative distance", Input{Kind: KindRunning, Distance: -5, Duration: 25, Cadence: 170}, true},
		{"running NaN duration", Input{Kind: KindRunning, Distance: 5, Duration: nan, Cadence: 170}, true},
		{"running zero distance", Input{Kind: KindRunning, Duration: 25, Cadence: 170}, true},
		{"valid cycling", Input{Kind: KindCycling, Distance: 30, Duration: 60, Elevation: 200}, false},
		{"cycling negative elevation", Input{Kind: KindCycling, Distance: 30, Duration: 60, Elevation: -50}, false},
		{"cycling zero elevation", Input{Kind: KindCycling, Distance: 30, Duration: 60}, false},
		{"cycling infinite elevation", Input{Kind: KindCycling, Distance: 30, Duration: 60, Elevation: inf}, true},
		{"cycling zero duration", Input{Kind: KindCycling, Distance: 30, Elevation: 10}, true},
		{"unknown kind", Input{Kind: "swimming", Distance: 1, Duration: 1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidInput) {
					t.Fatalf("Validate() = %v want ErrInvalidInput", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate() unexpected error: %v", err)
			}
		})
	}
}

func TestInputBuild(t *testing.T) {
	now := time.Date(2024, time.May, 2, 0, 0, 0, 0, time.UTC)
	coords := Coords{Lat: 51.5, Lng: -0.12}

	w, err := Input{Kind: KindCycling, Distance: 20, Duration: 40, Elevation: 15}.Build(coords, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Coords != coords || !w.Date.Equal(now) {
		t.Fatalf("workout = %+v", w)
	}
	if w.Speed != 30 {
		t.Fatalf("speed = %v want 30", w.Speed)
	}

	if _, err := (Input{Kind: KindRunning}).Build(coords, now); err == nil {
		t.Fatalf("expected error for empty running input")
	}
}

func TestKindOther(t *testing.T) {
	if KindRunning.Other() != KindCycling || KindCycling.Other() != KindRunning {
		t.Fatalf("Other() does not flip kinds")
	}
}

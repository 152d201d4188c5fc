package storage

import (
	"time"

	"github.com/hperssn/mapty/internal/domain"
)

type WorkoutRecord struct {
	ID           string
	UserID       string
	Kind         domain.Kind
	Date         time.Time
	Lat          float64
	Lng          float64
	Distance     float64
	Duration     float64
	Cadence      float64
	Elevation    float64
	Clicks       int
	PopupContent string
}

// FromDomainWorkout converts a domain.Workout to a WorkoutRecord
func FromDomainWorkout(userID string, w *domain.Workout) *WorkoutRecord {
	return &WorkoutRecord{
		ID:           w.ID,
		UserID:       userID,
		Kind:         w.Kind,
		Date:         w.Date,
		Lat:          w.Coords.Lat,
		Lng:          w.Coords.Lng,
		Distance:     w.Distance,
		Duration:     w.Duration,
		Cadence:      w.Cadence,
		Elevation:    w.Elevation,
		Clicks:       w.Clicks,
		PopupContent: w.PopupContent,
	}
}

// ToDomain rebuilds the workout, recomputing the derived metric.
func (r *WorkoutRecord) ToDomain() *domain.Workout {
	w := &domain.Workout{
		ID:           r.ID,
		Kind:         r.Kind,
		Date:         r.Date,
		Coords:       domain.Coords{Lat: r.Lat, Lng: r.Lng},
		Distance:     r.Distance,
		Duration:     r.Duration,
		Clicks:       r.Clicks,
		PopupContent: r.PopupContent,
	}
	if r.Kind == domain.KindRunning {
		w.Cadence = r.Cadence
		w.Pace = r.Duration / r.Distance
	} else {
		w.Elevation = r.Elevation
		w.Speed = r.Distance / (r.Duration / 60)
	}
	return w
}

func statsFromRecords(records []WorkoutRecord) *WorkoutStats {
	var stats WorkoutStats
	for _, r := range records {
		stats.TotalWorkouts++
		switch r.Kind {
		case domain.KindRunning:
			stats.RunningCount++
		case domain.KindCycling:
			stats.CyclingCount++
		}
		stats.TotalDistance += r.Distance
		stats.TotalDuration += r.Duration
	}
	return &stats
}

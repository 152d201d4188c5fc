package storage

import "errors"

var ErrWorkoutNotFound = errors.New("workout not found")

// Repository persists workouts per user. Workouts are append-only; only the
// click counter changes after a save.
type Repository interface {
	SaveWorkout(record *WorkoutRecord) error

	IncrementClicks(userID, workoutID string) error

	GetWorkoutsByUser(userID string) ([]WorkoutRecord, error)

	GetWorkoutStats(userID string) (*WorkoutStats, error)

	Close() error
}

type WorkoutStats struct {
	TotalWorkouts int     `json:"totalWorkouts"`
	RunningCount  int     `json:"runningCount"`
	CyclingCount  int     `json:"cyclingCount"`
	TotalDistance float64 `json:"totalDistance"`
	TotalDuration float64 `json:"totalDuration"`
}

package storage

import (
	"sort"
	"sync"
)

// MemoryRepository keeps workouts for the lifetime of the process.
type MemoryRepository struct {
	mu       sync.Mutex
	workouts map[string][]WorkoutRecord
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		workouts: make(map[string][]WorkoutRecord),
	}
}

func (r *MemoryRepository) SaveWorkout(record *WorkoutRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.workouts[record.UserID] = append(r.workouts[record.UserID], *record)
	return nil
}

func (r *MemoryRepository) IncrementClicks(userID, workoutID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	records := r.workouts[userID]
	for i := range records {
		if records[i].ID == workoutID {
			records[i].Clicks++
			return nil
		}
	}
	return ErrWorkoutNotFound
}

func (r *MemoryRepository) GetWorkoutsByUser(userID string) ([]WorkoutRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records := make([]WorkoutRecord, len(r.workouts[userID]))
	copy(records, r.workouts[userID])
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})
	return records, nil
}

func (r *MemoryRepository) GetWorkoutStats(userID string) (*WorkoutStats, error) {
	records, err := r.GetWorkoutsByUser(userID)
	if err != nil {
		return nil, err
	}
	return statsFromRecords(records), nil
}

func (r *MemoryRepository) Close() error {
	return nil
}

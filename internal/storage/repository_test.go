package storage_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hperssn/mapty/internal/domain"
	"github.com/hperssn/mapty/internal/storage"
)

func repositories(t *testing.T) map[string]storage.Repository {
	t.Helper()

	sqlite, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "mapty.db"))
	require.NoError(t, err)

	repos := map[string]storage.Repository{
		"memory": storage.NewMemoryRepository(),
		"sqlite": sqlite,
	}
	t.Cleanup(func() {
		for _, r := range repos {
			r.Close()
		}
	})
	return repos
}

func TestRepository_SaveAndList(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			base := time.Date(2024, time.June, 1, 8, 0, 0, 0, time.UTC)

			run := domain.NewRunning(domain.Coords{Lat: 40.4, Lng: -3.7}, 5, 25, 170)
			run.Date = base
			run.Describe()
			ride := domain.NewCycling(domain.Coords{Lat: 40.5, Lng: -3.6}, 30, 60, -120)
			ride.Date = base.Add(time.Hour)
			ride.Describe()

			require.NoError(t, repo.SaveWorkout(storage.FromDomainWorkout("alice", ride)))
			require.NoError(t, repo.SaveWorkout(storage.FromDomainWorkout("alice", run)))
			require.NoError(t, repo.SaveWorkout(storage.FromDomainWorkout("bob", domain.NewRunning(domain.Coords{}, 1, 1, 1))))

			records, err := repo.GetWorkoutsByUser("alice")
			require.NoError(t, err)
			require.Len(t, records, 2)

			first := records[0].ToDomain()
			assert.Equal(t, run.ID, first.ID)
			assert.Equal(t, run.Pace, first.Pace)
			assert.Equal(t, run.Coords, first.Coords)
			assert.Equal(t, run.PopupContent, first.PopupContent)

			second := records[1].ToDomain()
			assert.Equal(t, ride.ID, second.ID)
			assert.Equal(t, ride.Speed, second.Speed)
			assert.Equal(t, -120.0, second.Elevation)
		})
	}
}

func TestRepository_IncrementClicks(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			w := domain.NewRunning(domain.Coords{}, 5, 25, 170)
			w.Describe()
			require.NoError(t, repo.SaveWorkout(storage.FromDomainWorkout("alice", w)))

			require.NoError(t, repo.IncrementClicks("alice", w.ID))
			require.NoError(t, repo.IncrementClicks("alice", w.ID))

			records, err := repo.GetWorkoutsByUser("alice")
			require.NoError(t, err)
			require.Len(t, records, 1)
			assert.Equal(t, 2, records[0].Clicks)

			assert.ErrorIs(t, repo.IncrementClicks("bob", w.ID), storage.ErrWorkoutNotFound)
			assert.ErrorIs(t, repo.IncrementClicks("alice", "missing"), storage.ErrWorkoutNotFound)
		})
	}
}

func TestRepository_Stats(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			empty, err := repo.GetWorkoutStats("nobody")
			require.NoError(t, err)
			assert.Equal(t, 0, empty.TotalWorkouts)

			require.NoError(t, repo.SaveWorkout(storage.FromDomainWorkout("alice", domain.NewRunning(domain.Coords{}, 5, 25, 170))))
			require.NoError(t, repo.SaveWorkout(storage.FromDomainWorkout("alice", domain.NewRunning(domain.Coords{}, 10, 55, 165))))
			require.NoError(t, repo.SaveWorkout(storage.FromDomainWorkout("alice", domain.NewCycling(domain.Coords{}, 30, 60, 200))))

			stats, err := repo.GetWorkoutStats("alice")
			require.NoError(t, err)
			assert.Equal(t, 3, stats.TotalWorkouts)
			assert.Equal(t, 2, stats.RunningCount)
			assert.Equal(t, 1, stats.CyclingCount)
			assert.InDelta(t, 45.0, stats.TotalDistance, 1e-9)
			assert.InDelta(t, 140.0, stats.TotalDuration, 1e-9)
		})
	}
}

func TestOpen(t *testing.T) {
	repo, err := storage.Open("memory", "")
	require.NoError(t, err)
	assert.IsType(t, &storage.MemoryRepository{}, repo)

	_, err = storage.Open("mongo", "")
	assert.Error(t, err)
}

package app

import (
	"log"
	"sync"
	"time"

	"github.com/hperssn/mapty/internal/domain"
	"github.com/hperssn/mapty/internal/storage"
)

// ViewFactory builds the view for a newly created user app.
type ViewFactory func(userID string) View

// Registry holds one App per user and evicts apps that have been idle for
// longer than the configured TTL.
type Registry struct {
	mu   sync.Mutex
	apps map[string]*entry

	newView ViewFactory
	repo    storage.Repository
	opts    Options
	idleTTL time.Duration

	done chan struct{}
	once sync.Once
}

type entry struct {
	app  *App
	view View
}

// subscribed views are kept alive while someone is listening to them.
type subscribed interface {
	Subscribers() int
}

// repoJournal writes a user's workouts through to the repository.
type repoJournal struct {
	userID string
	repo   storage.Repository
}

func (j repoJournal) Record(w *domain.Workout) error {
	return j.repo.SaveWorkout(storage.FromDomainWorkout(j.userID, w))
}

func (j repoJournal) Clicked(id string) error {
	return j.repo.IncrementClicks(j.userID, id)
}

func NewRegistry(newView ViewFactory, repo storage.Repository, opts Options, idleTTL time.Duration) *Registry {
	r := &Registry{
		apps:    make(map[string]*entry),
		newView: newView,
		repo:    repo,
		opts:    opts,
		idleTTL: idleTTL,
		done:    make(chan struct{}),
	}

	if idleTTL > 0 {
		go r.cleanupLoop()
	}

	return r
}

func (r *Registry) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.cleanupIdle(time.Now())
		case <-r.done:
			return
		}
	}
}

func (r *Registry) cleanupIdle(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := now.Add(-r.idleTTL)
	removed := 0

	for userID, e := range r.apps {
		if s, ok := e.view.(subscribed); ok && s.Subscribers() > 0 {
			continue
		}
		if e.app.idleSince().Before(cutoff) {
			delete(r.apps, userID)
			removed++
		}
	}
	return removed
}

// Get returns the user's app, creating it and restoring saved workouts on
// first use.
func (r *Registry) Get(userID string) (*App, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.apps[userID]; ok {
		return e.app, nil
	}

	view := r.newView(userID)
	opts := r.opts
	if r.repo != nil {
		opts.Journal = repoJournal{userID: userID, repo: r.repo}
	}
	a := New(view, opts)

	if r.repo != nil {
		records, err := r.repo.GetWorkoutsByUser(userID)
		if err != nil {
			return nil, err
		}
		restored := make([]*domain.Workout, len(records))
		for i := range records {
			restored[i] = records[i].ToDomain()
		}
		a.Restore(restored)
		if len(restored) > 0 {
			log.Printf("restored %d workouts for %s", len(restored), userID)
		}
	}

	r.apps[userID] = &entry{app: a, view: view}
	return a, nil
}

// View returns the view of an existing user app.
func (r *Registry) View(userID string) (View, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.apps[userID]
	if !ok {
		return nil, false
	}
	return e.view, true
}

func (r *Registry) Remove(userID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.apps[userID]; !ok {
		return false
	}
	delete(r.apps, userID)
	return true
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.apps)
}

func (r *Registry) Close() {
	r.once.Do(func() { close(r.done) })
}

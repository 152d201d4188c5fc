package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"math"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/hperssn/mapty/internal/app"
	"github.com/hperssn/mapty/internal/config"
	"github.com/hperssn/mapty/internal/domain"
	"github.com/hperssn/mapty/internal/export"
	"github.com/hperssn/mapty/internal/http"
	"github.com/hperssn/mapty/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	repo, err := storage.Open(cfg.Storage, cfg.DSN)
	if err != nil {
		log.Fatalf("failed to open %s storage: %v", cfg.Storage, err)
	}
	defer repo.Close()

	registry := app.NewRegistry(
		func(string) app.View { return httpapi.NewHub() },
		repo,
		app.Options{Zoom: cfg.Zoom, FormDelay: cfg.FormDelay},
		cfg.IdleTTL,
	)
	defer registry.Close()

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: newRouter(registry, repo, cfg),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf("listening on %s (storage: %s)", cfg.Addr, cfg.Storage)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

func newRouter(registry *app.Registry, repo storage.Repository, cfg *config.Config) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
	})

	r.Group(func(r chi.Router) {
		r.Use(ExtractUserMiddleware(cfg.DevUser))

		r.Get("/state", getState(registry))
		r.Post("/location", resolveLocation(registry))
		r.Post("/location/error", failLocation(registry))
		r.Post("/map/click", clickMap(registry))
		r.Post("/form/toggle", toggleType(registry))

		r.Post("/workouts", submitWorkout(registry))
		r.Get("/workouts", listWorkouts(registry))
		r.Get("/workouts.gpx", exportWorkouts(registry))
		r.Get("/workouts/stats", workoutStats(repo))
		r.Get("/workouts/{id}", getWorkout(registry))
		r.Post("/workouts/{id}/focus", focusWorkout(registry))

		r.Get("/events", httpapi.StreamEvents(hubFor(registry)))
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, cfg.StaticDir+"/index.html")
	})
	fs := http.FileServer(http.Dir(cfg.StaticDir))
	r.Handle("/static/*", http.StripPrefix("/static/", fs))

	return r
}

func userApp(registry *app.Registry, w http.ResponseWriter, r *http.Request) (*app.App, bool) {
	a, err := registry.Get(GetUserId(r))
	if err != nil {
		log.Printf("failed to load app for %s: %v", GetUserId(r), err)
		respondError(w, "failed to load workouts", http.StatusInternalServerError)
		return nil, false
	}
	return a, true
}

func hubFor(registry *app.Registry) func(r *http.Request) (*httpapi.Hub, error) {
	return func(r *http.Request) (*httpapi.Hub, error) {
		userID := GetUserId(r)
		if _, err := registry.Get(userID); err != nil {
			return nil, err
		}
		view, ok := registry.View(userID)
		if !ok {
			return nil, app.ErrMapNotReady
		}
		hub, ok := view.(*httpapi.Hub)
		if !ok {
			return nil, errors.New("view does not stream events")
		}
		return hub, nil
	}
}

type stateResponse struct {
	State app.State   `json:"state"`
	Type  domain.Kind `json:"type"`
}

func currentState(a *app.App) stateResponse {
	return stateResponse{State: a.State(), Type: a.Kind()}
}

func getState(registry *app.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, ok := userApp(registry, w, r)
		if !ok {
			return
		}
		respondJSON(w, currentState(a), http.StatusOK)
	}
}

func resolveLocation(registry *app.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pos, ok := decodeCoords(w, r)
		if !ok {
			return
		}
		a, ok := userApp(registry, w, r)
		if !ok {
			return
		}

		if err := a.LocationResolved(pos); err != nil {
			respondAppError(w, err)
			return
		}
		respondJSON(w, currentState(a), http.StatusOK)
	}
}

func failLocation(registry *app.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		a, ok := userApp(registry, w, r)
		if !ok {
			return
		}

		if err := a.LocationFailed(req.Message); err != nil && !errors.Is(err, app.ErrLocationFailed) {
			respondAppError(w, err)
			return
		}
		respondJSON(w, currentState(a), http.StatusOK)
	}
}

func clickMap(registry *app.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pos, ok := decodeCoords(w, r)
		if !ok {
			return
		}
		a, ok := userApp(registry, w, r)
		if !ok {
			return
		}

		if err := a.MapClicked(pos); err != nil {
			respondAppError(w, err)
			return
		}
		respondJSON(w, currentState(a), http.StatusOK)
	}
}

func toggleType(registry *app.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, ok := userApp(registry, w, r)
		if !ok {
			return
		}
		a.ToggleType()
		respondJSON(w, currentState(a), http.StatusOK)
	}
}

// formNumber accepts a JSON number or the raw string value of a form
// input. Empty strings read as 0 and unparsable ones as NaN, so both fail
// validation the same way.
type formNumber float64

func (n *formNumber) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return err
		}
		*n = formNumber(f)
		return nil
	}

	if s == "" {
		*n = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		f = math.NaN()
	}
	*n = formNumber(f)
	return nil
}

type workoutRequest struct {
	Type      domain.Kind `json:"type"`
	Distance  formNumber  `json:"distance"`
	Duration  formNumber  `json:"duration"`
	Cadence   formNumber  `json:"cadence"`
	Elevation formNumber  `json:"elevation"`
}

func submitWorkout(registry *app.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req workoutRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		a, ok := userApp(registry, w, r)
		if !ok {
			return
		}

		workout, err := a.Submit(domain.Input{
			Kind:      req.Type,
			Distance:  float64(req.Distance),
			Duration:  float64(req.Duration),
			Cadence:   float64(req.Cadence),
			Elevation: float64(req.Elevation),
		})
		if err != nil {
			respondAppError(w, err)
			return
		}
		respondJSON(w, workout, http.StatusCreated)
	}
}

func listWorkouts(registry *app.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, ok := userApp(registry, w, r)
		if !ok {
			return
		}
		respondJSON(w, a.Workouts(), http.StatusOK)
	}
}

func getWorkout(registry *app.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, ok := userApp(registry, w, r)
		if !ok {
			return
		}

		workout, found := a.Workout(chi.URLParam(r, "id"))
		if !found {
			respondError(w, "workout not found", http.StatusNotFound)
			return
		}
		respondJSON(w, workout, http.StatusOK)
	}
}

func focusWorkout(registry *app.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, ok := userApp(registry, w, r)
		if !ok {
			return
		}

		workout, err := a.ListClicked(chi.URLParam(r, "id"))
		if err != nil {
			respondAppError(w, err)
			return
		}
		respondJSON(w, workout, http.StatusOK)
	}
}

func exportWorkouts(registry *app.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, ok := userApp(registry, w, r)
		if !ok {
			return
		}

		data, err := export.GPX(a.Workouts())
		if err != nil {
			log.Printf("failed to export workouts: %v", err)
			respondError(w, "export failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/gpx+xml")
		w.Header().Set("Content-Disposition", `attachment; filename="workouts.gpx"`)
		w.WriteHeader(http.StatusOK)
		w.Write(data)
	}
}

func workoutStats(repo storage.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := repo.GetWorkoutStats(GetUserId(r))
		if err != nil {
			log.Printf("failed to load stats: %v", err)
			respondError(w, "failed to load stats", http.StatusInternalServerError)
			return
		}
		respondJSON(w, stats, http.StatusOK)
	}
}

func decodeCoords(w http.ResponseWriter, r *http.Request) (domain.Coords, bool) {
	var pos domain.Coords
	if err := json.NewDecoder(r.Body).Decode(&pos); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return pos, false
	}
	if pos.Lat < -90 || pos.Lat > 90 || pos.Lng < -180 || pos.Lng > 180 {
		respondError(w, "coordinates out of range", http.StatusBadRequest)
		return pos, false
	}
	return pos, true
}

func respondAppError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		respondError(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, app.ErrWorkoutNotFound):
		respondError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, app.ErrMapNotReady),
		errors.Is(err, app.ErrFormClosed),
		errors.Is(err, app.ErrLocationHandled):
		respondError(w, err.Error(), http.StatusConflict)
	default:
		log.Printf("unexpected error: %v", err)
		respondError(w, "internal error", http.StatusInternalServerError)
	}
}

func respondJSON(w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

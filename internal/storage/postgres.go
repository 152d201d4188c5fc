package storage

import (
	"database/sql"

	_ "github.com/lib/pq"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(connStr string) (*PostgresRepository, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	repo := &PostgresRepository{db: db}
	if err := repo.createTables(); err != nil {
		db.Close()
		return nil, err
	}

	return repo, nil
}

func (r *PostgresRepository) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS workouts (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		date TIMESTAMPTZ NOT NULL,
		lat DOUBLE PRECISION NOT NULL,
		lng DOUBLE PRECISION NOT NULL,
		distance DOUBLE PRECISION NOT NULL,
		duration DOUBLE PRECISION NOT NULL,
		cadence DOUBLE PRECISION NOT NULL DEFAULT 0,
		elevation DOUBLE PRECISION NOT NULL DEFAULT 0,
		clicks INTEGER NOT NULL DEFAULT 0,
		popup_content TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_workouts_user_id ON workouts(user_id);
	`

	_, err := r.db.Exec(schema)
	return err
}

func (r *PostgresRepository) SaveWorkout(record *WorkoutRecord) error {
	query := `
		INSERT INTO workouts (id, user_id, kind, date, lat, lng, distance, duration, cadence, elevation, clicks, popup_content)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.Exec(
		query,
		record.ID,
		record.UserID,
		record.Kind,
		record.Date,
		record.Lat,
		record.Lng,
		record.Distance,
		record.Duration,
		record.Cadence,
		record.Elevation,
		record.Clicks,
		record.PopupContent,
	)

	return err
}

func (r *PostgresRepository) IncrementClicks(userID, workoutID string) error {
	res, err := r.db.Exec(
		`UPDATE workouts SET clicks = clicks + 1 WHERE user_id = $1 AND id = $2`,
		userID, workoutID,
	)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *PostgresRepository) GetWorkoutsByUser(userID string) ([]WorkoutRecord, error) {
	query := `
		SELECT id, user_id, kind, date, lat, lng, distance, duration, cadence, elevation, clicks, popup_content
		FROM workouts
		WHERE user_id = $1
		ORDER BY date ASC
	`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanWorkouts(rows)
}

func (r *PostgresRepository) GetWorkoutStats(userID string) (*WorkoutStats, error) {
	query := `
		SELECT
			COUNT(*) as total,
			SUM(CASE WHEN kind = 'running' THEN 1 ELSE 0 END) as running,
			SUM(CASE WHEN kind = 'cycling' THEN 1 ELSE 0 END) as cycling,
			SUM(distance) as total_distance,
			SUM(duration) as total_duration
		FROM workouts
		WHERE user_id = $1
	`

	return scanStats(r.db.QueryRow(query, userID))
}

func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

package storage

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	repo := &SQLiteRepository{db: db}
	if err := repo.createTables(); err != nil {
		db.Close()
		return nil, err
	}

	return repo, nil
}

func (r *SQLiteRepository) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS workouts (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		date DATETIME NOT NULL,
		lat REAL NOT NULL,
		lng REAL NOT NULL,
		distance REAL NOT NULL,
		duration REAL NOT NULL,
		cadence REAL NOT NULL DEFAULT 0,
		elevation REAL NOT NULL DEFAULT 0,
		clicks INTEGER NOT NULL DEFAULT 0,
		popup_content TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_workouts_user_id ON workouts(user_id);
	`

	_, err := r.db.Exec(schema)
	return err
}

func (r *SQLiteRepository) SaveWorkout(record *WorkoutRecord) error {
	query := `
		INSERT INTO workouts (id, user_id, kind, date, lat, lng, distance, duration, cadence, elevation, clicks, popup_content)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
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

func (r *SQLiteRepository) IncrementClicks(userID, workoutID string) error {
	res, err := r.db.Exec(
		`UPDATE workouts SET clicks = clicks + 1 WHERE user_id = ? AND id = ?`,
		userID, workoutID,
	)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *SQLiteRepository) GetWorkoutsByUser(userID string) ([]WorkoutRecord, error) {
	query := `
		SELECT id, user_id, kind, date, lat, lng, distance, duration, cadence, elevation, clicks, popup_content
		FROM workouts
		WHERE user_id = ?
		ORDER BY date ASC
	`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanWorkouts(rows)
}

func (r *SQLiteRepository) GetWorkoutStats(userID string) (*WorkoutStats, error) {
	query := `
		SELECT
			COUNT(*) as total,
			SUM(CASE WHEN kind = 'running' THEN 1 ELSE 0 END) as running,
			SUM(CASE WHEN kind = 'cycling' THEN 1 ELSE 0 END) as cycling,
			SUM(distance) as total_distance,
			SUM(duration) as total_duration
		FROM workouts
		WHERE user_id = ?
	`

	return scanStats(r.db.QueryRow(query, userID))
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

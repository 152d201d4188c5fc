package storage

import "database/sql"

func scanWorkouts(rows *sql.Rows) ([]WorkoutRecord, error) {
	var records []WorkoutRecord

	for rows.Next() {
		var record WorkoutRecord

		err := rows.Scan(
			&record.ID,
			&record.UserID,
			&record.Kind,
			&record.Date,
			&record.Lat,
			&record.Lng,
			&record.Distance,
			&record.Duration,
			&record.Cadence,
			&record.Elevation,
			&record.Clicks,
			&record.PopupContent,
		)
		if err != nil {
			return nil, err
		}

		records = append(records, record)
	}

	return records, rows.Err()
}

func scanStats(row *sql.Row) (*WorkoutStats, error) {
	var stats WorkoutStats
	var running, cycling sql.NullInt64
	var totalDistance, totalDuration sql.NullFloat64

	err := row.Scan(
		&stats.TotalWorkouts,
		&running,
		&cycling,
		&totalDistance,
		&totalDuration,
	)
	if err != nil {
		return nil, err
	}

	if running.Valid {
		stats.RunningCount = int(running.Int64)
	}
	if cycling.Valid {
		stats.CyclingCount = int(cycling.Int64)
	}
	if totalDistance.Valid {
		stats.TotalDistance = totalDistance.Float64
	}
	if totalDuration.Valid {
		stats.TotalDuration = totalDuration.Float64
	}

	return &stats, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrWorkoutNotFound
	}
	return nil
}

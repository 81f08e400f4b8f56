package storage

import (
	"context"
	"fmt"
	"time"
)

// DataStats holds aggregate counts over everything stored for a user.
type DataStats struct {
	TotalWorkouts   int64       `json:"total_workouts"`
	TotalExercises  int64       `json:"total_exercises"`
	TotalSets       int64       `json:"total_sets"`
	TotalBiomarkers int64       `json:"total_biomarkers"`
	EarliestData    *time.Time  `json:"earliest_data"`
	LatestData      *time.Time  `json:"latest_data"`
	WorkoutsBySport []SportStat `json:"workouts_by_sport"`
}

// SportStat counts workouts logged under one sport.
type SportStat struct {
	Sport    string  `json:"sport"`
	Count    int64   `json:"count"`
	VolumeKg float64 `json:"volume_kg"`
}

// GetDataStats returns aggregate statistics for a user's stored data.
func (db *DB) GetDataStats(ctx context.Context, userID string) (*DataStats, error) {
	stats := &DataStats{WorkoutsBySport: []SportStat{}}

	err := db.Pool.QueryRow(ctx,
		`SELECT
		   (SELECT COUNT(*) FROM workouts WHERE user_id = $1),
		   (SELECT COUNT(*) FROM exercise_sessions es JOIN workouts w ON w.id = es.workout_id WHERE w.user_id = $1),
		   (SELECT COUNT(*) FROM sets s
		      JOIN exercise_sessions es ON es.id = s.session_id
		      JOIN workouts w ON w.id = es.workout_id
		    WHERE w.user_id = $1),
		   (SELECT COUNT(*) FROM biomarkers WHERE user_id = $1)`, userID,
	).Scan(&stats.TotalWorkouts, &stats.TotalExercises, &stats.TotalSets, &stats.TotalBiomarkers)
	if err != nil {
		return nil, fmt.Errorf("counting rows: %w", err)
	}

	// Date range across workouts and biomarkers
	err = db.Pool.QueryRow(ctx,
		`SELECT MIN(d)::timestamptz, MAX(d)::timestamptz FROM (
			SELECT date AS d FROM workouts WHERE user_id = $1
			UNION ALL
			SELECT date FROM biomarkers WHERE user_id = $1
		) sub`, userID,
	).Scan(&stats.EarliestData, &stats.LatestData)
	if err != nil {
		return nil, fmt.Errorf("querying date range: %w", err)
	}

	rows, err := db.Pool.Query(ctx,
		`SELECT w.sport, COUNT(DISTINCT w.id), COALESCE(SUM(s.weight_kg * s.reps), 0)
		 FROM workouts w
		 LEFT JOIN exercise_sessions es ON es.workout_id = w.id
		 LEFT JOIN sets s ON s.session_id = es.id
		 WHERE w.user_id = $1
		 GROUP BY w.sport
		 ORDER BY COUNT(DISTINCT w.id) DESC, w.sport`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying workouts by sport: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s SportStat
		if err := rows.Scan(&s.Sport, &s.Count, &s.VolumeKg); err != nil {
			return nil, fmt.Errorf("scanning sport stat: %w", err)
		}
		stats.WorkoutsBySport = append(stats.WorkoutsBySport, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}

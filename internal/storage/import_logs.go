package storage

import (
	"context"
	"fmt"
	"time"
)

// Import log statuses.
const (
	ImportRunning = "running"
	ImportSuccess = "success"
	ImportError   = "error"
)

// ImportLog records the outcome of one bulk import into the store.
type ImportLog struct {
	ID               int64     `json:"id"`
	UserID           string    `json:"user_id"`
	CreatedAt        time.Time `json:"created_at"`
	Source           string    `json:"source"`
	Status           string    `json:"status"`
	WorkoutsReceived int       `json:"workouts_received"`
	WorkoutsInserted int       `json:"workouts_inserted"`
	SetsInserted     int64     `json:"sets_inserted"`
	DurationMs       *int      `json:"duration_ms"`
	ErrorMessage     *string   `json:"error_message"`
}

// InsertImportLog creates a new import log entry and returns its ID.
func (db *DB) InsertImportLog(ctx context.Context, log ImportLog) (int64, error) {
	var id int64
	err := db.Pool.QueryRow(ctx,
		`INSERT INTO import_logs (user_id, source, status, workouts_received, workouts_inserted,
		 sets_inserted, duration_ms, error_message)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		 RETURNING id`,
		log.UserID, log.Source, log.Status, log.WorkoutsReceived, log.WorkoutsInserted,
		log.SetsInserted, log.DurationMs, log.ErrorMessage,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting import log: %w", err)
	}
	return id, nil
}

// UpdateImportLog moves an import log entry out of "running".
func (db *DB) UpdateImportLog(ctx context.Context, id int64, log ImportLog) error {
	_, err := db.Pool.Exec(ctx,
		`UPDATE import_logs SET
		 status = $2, workouts_received = $3, workouts_inserted = $4,
		 sets_inserted = $5, duration_ms = $6, error_message = $7
		 WHERE id = $1`,
		id, log.Status, log.WorkoutsReceived, log.WorkoutsInserted,
		log.SetsInserted, log.DurationMs, log.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("updating import log %d: %w", id, err)
	}
	return nil
}

// QueryImportLogs returns the most recent import logs for a user.
func (db *DB) QueryImportLogs(ctx context.Context, userID string, limit int) ([]ImportLog, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.Pool.Query(ctx,
		`SELECT id, user_id::text, created_at, source, status,
		 workouts_received, workouts_inserted, sets_inserted, duration_ms, error_message
		 FROM import_logs
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying import logs: %w", err)
	}
	defer rows.Close()

	result := []ImportLog{}
	for rows.Next() {
		var l ImportLog
		if err := rows.Scan(&l.ID, &l.UserID, &l.CreatedAt, &l.Source, &l.Status,
			&l.WorkoutsReceived, &l.WorkoutsInserted, &l.SetsInserted, &l.DurationMs, &l.ErrorMessage); err != nil {
			return nil, fmt.Errorf("scanning import log: %w", err)
		}
		result = append(result, l)
	}
	return result, rows.Err()
}

package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/meltforce/athletelog/internal/models"
)

// ListBiomarkers returns the user's biomarker entries, newest first.
func (db *DB) ListBiomarkers(ctx context.Context, userID string) ([]models.BiomarkerEntry, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, user_id::text, date, name, value, unit, category
		 FROM biomarkers
		 WHERE user_id = $1
		 ORDER BY date DESC, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying biomarkers: %w", err)
	}
	defer rows.Close()

	result := []models.BiomarkerEntry{}
	for rows.Next() {
		var r models.BiomarkerRow
		if err := rows.Scan(&r.ID, &r.UserID, &r.Date, &r.Name, &r.Value, &r.Unit, &r.Category); err != nil {
			return nil, fmt.Errorf("scanning biomarker: %w", err)
		}
		result = append(result, r.ToEntry())
	}
	return result, rows.Err()
}

// UpsertBiomarker inserts or replaces an entry by id.
func (db *DB) UpsertBiomarker(ctx context.Context, userID string, b models.BiomarkerEntry) error {
	var id string
	err := db.Pool.QueryRow(ctx,
		`INSERT INTO biomarkers (id, user_id, date, name, value, unit, category)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)
		 ON CONFLICT (id) DO UPDATE SET
		   date = EXCLUDED.date, name = EXCLUDED.name, value = EXCLUDED.value,
		   unit = EXCLUDED.unit, category = EXCLUDED.category
		 WHERE biomarkers.user_id = EXCLUDED.user_id
		 RETURNING id`,
		b.ID, userID, b.Date.Time(), b.Name, b.Value, b.Unit, b.Category,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("biomarker %s: %w", b.ID, ErrNotOwner)
	}
	if err != nil {
		return fmt.Errorf("upserting biomarker %s: %w", b.ID, err)
	}
	return nil
}

// DeleteBiomarker removes an entry. Deleting a missing entry is not an error.
func (db *DB) DeleteBiomarker(ctx context.Context, userID, id string) error {
	_, err := db.Pool.Exec(ctx,
		`DELETE FROM biomarkers WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting biomarker %s: %w", id, err)
	}
	return nil
}

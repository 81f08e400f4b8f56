package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/meltforce/athletelog/internal/models"
)

// GetProfile returns the user's profile, or nil if none was saved yet.
func (db *DB) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	var p models.Profile
	err := db.Pool.QueryRow(ctx,
		`SELECT name, sport, goal, experience, age, weight_kg, height_cm
		 FROM profiles WHERE user_id = $1`, userID,
	).Scan(&p.Name, &p.Sport, &p.Goal, &p.Experience, &p.Age, &p.WeightKg, &p.HeightCm)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying profile: %w", err)
	}
	return &p, nil
}

// UpsertProfile overwrites the user's profile.
func (db *DB) UpsertProfile(ctx context.Context, userID string, p models.Profile) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO profiles (user_id, name, sport, goal, experience, age, weight_kg, height_cm, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,NOW())
		 ON CONFLICT (user_id) DO UPDATE SET
		   name = EXCLUDED.name, sport = EXCLUDED.sport, goal = EXCLUDED.goal,
		   experience = EXCLUDED.experience, age = EXCLUDED.age,
		   weight_kg = EXCLUDED.weight_kg, height_cm = EXCLUDED.height_cm,
		   updated_at = NOW()`,
		userID, p.Name, p.Sport, p.Goal, p.Experience, p.Age, p.WeightKg, p.HeightCm)
	if err != nil {
		return fmt.Errorf("upserting profile: %w", err)
	}
	return nil
}

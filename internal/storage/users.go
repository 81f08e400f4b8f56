package storage

import "context"

// GetOrCreateUser finds or creates a user by login name and returns the
// user's id. last_seen and display_name are refreshed on each call.
func (db *DB) GetOrCreateUser(ctx context.Context, login, displayName string) (string, error) {
	var id string
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO users (login, display_name)
		VALUES ($1, $2)
		ON CONFLICT (login) DO UPDATE
			SET last_seen = NOW(), display_name = COALESCE(NULLIF($2, ''), users.display_name)
		RETURNING id::text
	`, login, displayName).Scan(&id)
	return id, err
}

package database

import (
	"database/sql"
	"time"
)

func (s *sqliteDB) GetUser(userID int64) (*User, error) {
	user := &User{}
	var lastInteraction sql.NullTime
	err := s.db.QueryRow(`
		SELECT id, first_name, last_name, username, is_owner, is_admin, last_interaction, created_at, updated_at
		FROM users WHERE id = ?`, userID).Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Username,
		&user.IsOwner,
		&user.IsAdmin,
		&lastInteraction,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return user, err
	}
	if lastInteraction.Valid {
		user.LastInteraction = lastInteraction.Time
	}

	return user, nil
}

// SaveUser upserts the profile and bumps last_interaction.
func (s *sqliteDB) SaveUser(user User) error {
	if user.LastInteraction.IsZero() {
		user.LastInteraction = time.Now().UTC()
	}

	_, err := s.db.Exec(`
		INSERT INTO users (id, first_name, last_name, username, is_owner, is_admin, last_interaction)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			username = excluded.username,
			is_owner = excluded.is_owner,
			is_admin = excluded.is_admin,
			last_interaction = excluded.last_interaction,
			updated_at = CURRENT_TIMESTAMP
	`, user.ID, user.FirstName, user.LastName, user.Username, user.IsOwner, user.IsAdmin, user.LastInteraction)
	return err
}

func (s *sqliteDB) CountUsers() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count)
	return count, err
}

package store

import (
	"database/sql"

	"github.com/shekhar-gif/weather-dashboard/internal/models"
)

func (s *Store) CreateUser(username, email, passwordHash string) error {
	_, err := s.db.Exec(`
		INSERT INTO users (username, email, password_hash)
		VALUES (?, ?, ?)
	`, username, email, passwordHash)
	return err
}

// GetUserByUsername returns nil, nil when no such user exists.
func (s *Store) GetUserByUsername(username string) (*models.User, error) {
	row := s.db.QueryRow(`
		SELECT id, username, email, password_hash
		FROM users
		WHERE username = ?
	`, username)

	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UserExists reports whether the username or email is already taken,
// checked separately so registration can be refused before hashing.
func (s *Store) UserExists(username, email string) (usernameTaken, emailTaken bool, err error) {
	err = s.db.QueryRow(`
		SELECT
			EXISTS(SELECT 1 FROM users WHERE username = ?),
			EXISTS(SELECT 1 FROM users WHERE email = ?)
	`, username, email).Scan(&usernameTaken, &emailTaken)
	return usernameTaken, emailTaken, err
}

func (s *Store) ListUsers() ([]models.User, error) {
	rows, err := s.db.Query(`SELECT id, username, email FROM users ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

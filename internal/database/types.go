package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/muratoffalex/tgchecker/internal/probe"
)

type Database interface {
	GetDB() *sql.DB

	Exec(query string, args ...any) (sql.Result, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
	Close() error
	ExecWithRetry(ctx context.Context, query string, args ...any) (sql.Result, error)

	GetUser(userID int64) (*User, error)
	SaveUser(user User) error
	CountUsers() (int, error)

	PurgeOldTasks(retentionDays int) error

	// Probe log, requester state and gateway sessions
	probe.Store
	probe.SessionStore
}

type User struct {
	ID              int64     `json:"id"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	Username        string    `json:"username"`
	IsOwner         bool      `json:"is_owner"`
	IsAdmin         bool      `json:"is_admin"`
	LastInteraction time.Time `json:"last_interaction"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (u User) Equal(user User) bool {
	return u.FirstName == user.FirstName &&
		u.LastName == user.LastName &&
		u.Username == user.Username &&
		u.IsOwner == user.IsOwner &&
		u.IsAdmin == user.IsAdmin
}

// Role is a printable privilege level.
func (u User) Role() string {
	switch {
	case u.IsOwner:
		return "owner"
	case u.IsAdmin:
		return "admin"
	default:
		return "user"
	}
}

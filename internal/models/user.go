package models

import (
	"database/sql"
)

// User is the users table row.
type User struct {
	UserID       string         `db:"user_id"`
	Name         string         `db:"name"`
	Email        string         `db:"email"`
	PasswordHash sql.NullString `db:"password_hash"` // Null for Google-only accounts
	GoogleID     sql.NullString `db:"google_id"`
	ResetToken   sql.NullString `db:"reset_token"`
	ResetExpiry  sql.NullTime   `db:"reset_token_expiry"`
	AuditFields
}

package pgsql

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finbook/finbook_backend/internal/apperrors"
	"github.com/finbook/finbook_backend/internal/core/domain"
	portsrepo "github.com/finbook/finbook_backend/internal/core/ports/repositories"
	"github.com/finbook/finbook_backend/internal/models"
)

type PgxUserRepository struct {
	BaseRepository
}

// newPgxUserRepository creates a new repository for user data.
func newPgxUserRepository(pool *pgxpool.Pool) portsrepo.UserRepositoryFacade {
	return &PgxUserRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

const userColumns = `user_id, name, email, password_hash, google_id, reset_token, reset_token_expiry, created_at, updated_at`

func toModelUser(d domain.User) models.User {
	m := models.User{
		UserID: d.UserID,
		Name:   d.Name,
		Email:  d.Email,
		AuditFields: models.AuditFields{
			CreatedAt: d.CreatedAt,
			UpdatedAt: d.UpdatedAt,
		},
	}
	if d.PasswordHash != "" {
		m.PasswordHash = sql.NullString{String: d.PasswordHash, Valid: true}
	}
	if d.GoogleID != "" {
		m.GoogleID = sql.NullString{String: d.GoogleID, Valid: true}
	}
	if d.ResetToken != "" {
		m.ResetToken = sql.NullString{String: d.ResetToken, Valid: true}
	}
	if d.ResetTokenExpiry != nil {
		m.ResetExpiry = sql.NullTime{Time: *d.ResetTokenExpiry, Valid: true}
	}
	return m
}

func toDomainUser(m models.User) domain.User {
	d := domain.User{
		UserID:       m.UserID,
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash.String,
		GoogleID:     m.GoogleID.String,
		ResetToken:   m.ResetToken.String,
		AuditFields: domain.AuditFields{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
	}
	if m.ResetExpiry.Valid {
		expiry := m.ResetExpiry.Time
		d.ResetTokenExpiry = &expiry
	}
	return d
}

func scanUser(row interface{ Scan(dest ...any) error }) (models.User, error) {
	var m models.User
	err := row.Scan(
		&m.UserID,
		&m.Name,
		&m.Email,
		&m.PasswordHash,
		&m.GoogleID,
		&m.ResetToken,
		&m.ResetExpiry,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	return m, err
}

// SaveUser inserts a new user.
func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	m := toModelUser(user)

	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.UserID, m.Name, m.Email, m.PasswordHash, m.GoogleID, m.ResetToken, m.ResetExpiry, m.CreatedAt, m.UpdatedAt,
	)
	return translateError(err, "save user")
}

// UpdateUser persists all mutable user fields.
func (r *PgxUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	m := toModelUser(user)

	query := `
		UPDATE users
		SET name = $2, email = $3, password_hash = $4, google_id = $5, reset_token = $6, reset_token_expiry = $7, updated_at = $8
		WHERE user_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.UserID, m.Name, m.Email, m.PasswordHash, m.GoogleID, m.ResetToken, m.ResetExpiry, m.UpdatedAt,
	)
	if err != nil {
		return translateError(err, "update user")
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return r.findUserBy(ctx, "user_id = $1", userID)
}

func (r *PgxUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findUserBy(ctx, "lower(email) = lower($1)", email)
}

func (r *PgxUserRepository) FindUserByGoogleID(ctx context.Context, googleID string) (*domain.User, error) {
	return r.findUserBy(ctx, "google_id = $1", googleID)
}

func (r *PgxUserRepository) FindUserByResetToken(ctx context.Context, resetToken string) (*domain.User, error) {
	return r.findUserBy(ctx, "reset_token = $1", resetToken)
}

func (r *PgxUserRepository) findUserBy(ctx context.Context, where string, arg any) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where + `;`

	m, err := scanUser(r.Pool.QueryRow(ctx, query, arg))
	if err != nil {
		return nil, translateError(err, "find user")
	}
	d := toDomainUser(m)
	return &d, nil
}

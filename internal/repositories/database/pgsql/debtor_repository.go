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

type PgxDebtorRepository struct {
	BaseRepository
}

// newPgxDebtorRepository creates a new repository for debtor data.
func newPgxDebtorRepository(pool *pgxpool.Pool) portsrepo.DebtorRepositoryFacade {
	return &PgxDebtorRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.DebtorRepositoryFacade = (*PgxDebtorRepository)(nil)

const debtorColumns = `debtor_id, user_id, name, email, phone, created_at, updated_at`

func toModelDebtor(d domain.Debtor) models.Debtor {
	m := models.Debtor{
		DebtorID: d.DebtorID,
		UserID:   d.UserID,
		Name:     d.Name,
		AuditFields: models.AuditFields{
			CreatedAt: d.CreatedAt,
			UpdatedAt: d.UpdatedAt,
		},
	}
	if d.Email != "" {
		m.Email = sql.NullString{String: d.Email, Valid: true}
	}
	if d.Phone != "" {
		m.Phone = sql.NullString{String: d.Phone, Valid: true}
	}
	return m
}

func toDomainDebtor(m models.Debtor) domain.Debtor {
	return domain.Debtor{
		DebtorID: m.DebtorID,
		UserID:   m.UserID,
		Name:     m.Name,
		Email:    m.Email.String,
		Phone:    m.Phone.String,
		AuditFields: domain.AuditFields{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
	}
}

func scanDebtor(row interface{ Scan(dest ...any) error }) (models.Debtor, error) {
	var m models.Debtor
	err := row.Scan(&m.DebtorID, &m.UserID, &m.Name, &m.Email, &m.Phone, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

func (r *PgxDebtorRepository) SaveDebtor(ctx context.Context, debtor domain.Debtor) error {
	m := toModelDebtor(debtor)

	query := `
		INSERT INTO debtors (` + debtorColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.Pool.Exec(ctx, query, m.DebtorID, m.UserID, m.Name, m.Email, m.Phone, m.CreatedAt, m.UpdatedAt)
	return translateError(err, "save debtor")
}

func (r *PgxDebtorRepository) FindDebtorByID(ctx context.Context, userID string, debtorID string) (*domain.Debtor, error) {
	query := `SELECT ` + debtorColumns + ` FROM debtors WHERE debtor_id = $1 AND user_id = $2;`

	m, err := scanDebtor(r.Pool.QueryRow(ctx, query, debtorID, userID))
	if err != nil {
		return nil, translateError(err, "find debtor")
	}
	d := toDomainDebtor(m)
	return &d, nil
}

func (r *PgxDebtorRepository) ListDebtors(ctx context.Context, userID string) ([]domain.Debtor, error) {
	query := `SELECT ` + debtorColumns + ` FROM debtors WHERE user_id = $1 ORDER BY name;`

	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, translateError(err, "list debtors")
	}
	defer rows.Close()

	debtors := []domain.Debtor{}
	for rows.Next() {
		m, err := scanDebtor(rows)
		if err != nil {
			return nil, translateError(err, "scan debtor row")
		}
		debtors = append(debtors, toDomainDebtor(m))
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "iterate debtor rows")
	}
	return debtors, nil
}

func (r *PgxDebtorRepository) UpdateDebtor(ctx context.Context, debtor domain.Debtor) error {
	m := toModelDebtor(debtor)

	query := `
		UPDATE debtors
		SET name = $3, email = $4, phone = $5, updated_at = $6
		WHERE debtor_id = $1 AND user_id = $2;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, m.DebtorID, m.UserID, m.Name, m.Email, m.Phone, m.UpdatedAt)
	if err != nil {
		return translateError(err, "update debtor")
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteDebtor removes a debtor together with their debts and payments
// (ON DELETE CASCADE).
func (r *PgxDebtorRepository) DeleteDebtor(ctx context.Context, userID string, debtorID string) error {
	query := `DELETE FROM debtors WHERE debtor_id = $1 AND user_id = $2;`

	cmdTag, err := r.Pool.Exec(ctx, query, debtorID, userID)
	if err != nil {
		return translateError(err, "delete debtor")
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

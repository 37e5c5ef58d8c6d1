package pgsql

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finbook/finbook_backend/internal/apperrors"
	"github.com/finbook/finbook_backend/internal/core/domain"
	portsrepo "github.com/finbook/finbook_backend/internal/core/ports/repositories"
	"github.com/finbook/finbook_backend/internal/models"
)

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

const accountColumns = `account_id, user_id, name, type, balance, created_at, updated_at`

func toModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID: d.AccountID,
		UserID:    d.UserID,
		Name:      d.Name,
		Type:      d.Type,
		Balance:   d.Balance,
		AuditFields: models.AuditFields{
			CreatedAt: d.CreatedAt,
			UpdatedAt: d.UpdatedAt,
		},
	}
}

func toDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID: m.AccountID,
		UserID:    m.UserID,
		Name:      m.Name,
		Type:      m.Type,
		Balance:   m.Balance,
		AuditFields: domain.AuditFields{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
	}
}

func scanAccount(row interface{ Scan(dest ...any) error }) (models.Account, error) {
	var m models.Account
	err := row.Scan(&m.AccountID, &m.UserID, &m.Name, &m.Type, &m.Balance, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

// SaveAccount inserts a new account. A unique index on (user_id,
// lower(name)) turns duplicate names into ErrDuplicate.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := toModelAccount(account)

	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.Pool.Exec(ctx, query, m.AccountID, m.UserID, m.Name, m.Type, m.Balance, m.CreatedAt, m.UpdatedAt)
	return translateError(err, "save account")
}

func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, userID string, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1 AND user_id = $2;`

	m, err := scanAccount(r.Pool.QueryRow(ctx, query, accountID, userID))
	if err != nil {
		return nil, translateError(err, "find account")
	}
	d := toDomainAccount(m)
	return &d, nil
}

func (r *PgxAccountRepository) FindAccountByName(ctx context.Context, userID string, name string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1 AND lower(name) = lower($2);`

	m, err := scanAccount(r.Pool.QueryRow(ctx, query, userID, name))
	if err != nil {
		return nil, translateError(err, "find account by name")
	}
	d := toDomainAccount(m)
	return &d, nil
}

func (r *PgxAccountRepository) ListAccounts(ctx context.Context, userID string) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE user_id = $1 ORDER BY name;`

	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, translateError(err, "list accounts")
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, translateError(err, "scan account row")
		}
		accounts = append(accounts, toDomainAccount(m))
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "iterate account rows")
	}
	return accounts, nil
}

func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	m := toModelAccount(account)

	query := `
		UPDATE accounts
		SET name = $3, type = $4, balance = $5, updated_at = $6
		WHERE account_id = $1 AND user_id = $2;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, m.AccountID, m.UserID, m.Name, m.Type, m.Balance, m.UpdatedAt)
	if err != nil {
		return translateError(err, "update account")
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteAccount removes an account. Transactions referencing it keep
// existing with a NULL account reference (ON DELETE SET NULL).
func (r *PgxAccountRepository) DeleteAccount(ctx context.Context, userID string, accountID string) error {
	query := `DELETE FROM accounts WHERE account_id = $1 AND user_id = $2;`

	cmdTag, err := r.Pool.Exec(ctx, query, accountID, userID)
	if err != nil {
		return translateError(err, "delete account")
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

package pgsql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/finbook/finbook_backend/internal/apperrors"
	"github.com/finbook/finbook_backend/internal/core/domain"
	portsrepo "github.com/finbook/finbook_backend/internal/core/ports/repositories"
	"github.com/finbook/finbook_backend/internal/models"
)

type PgxDebtRepository struct {
	BaseRepository
}

// newPgxDebtRepository creates a new repository for debt and payment data.
func newPgxDebtRepository(pool *pgxpool.Pool) portsrepo.DebtRepositoryFacade {
	return &PgxDebtRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.DebtRepositoryFacade = (*PgxDebtRepository)(nil)

const debtColumns = `d.debt_id, d.debtor_id, d.description, d.total_amount, d.due_date, d.status, d.category_id, d.account_id, d.created_at, d.updated_at`

const paymentColumns = `p.payment_id, p.debt_id, p.amount, p.payment_date, p.notes, p.created_at, p.updated_at`

func toModelDebt(d domain.Debt) models.Debt {
	return models.Debt{
		DebtID:      d.DebtID,
		DebtorID:    d.DebtorID,
		Description: d.Description,
		TotalAmount: d.TotalAmount,
		DueDate:     nullTime(d.DueDate),
		Status:      string(d.Status),
		CategoryID:  nullString(d.CategoryID),
		AccountID:   nullString(d.AccountID),
		AuditFields: models.AuditFields{
			CreatedAt: d.CreatedAt,
			UpdatedAt: d.UpdatedAt,
		},
	}
}

func toDomainDebt(m models.Debt) domain.Debt {
	return domain.Debt{
		DebtID:      m.DebtID,
		DebtorID:    m.DebtorID,
		Description: m.Description,
		TotalAmount: m.TotalAmount,
		DueDate:     fromNullTime(m.DueDate),
		Status:      domain.DebtStatus(m.Status),
		CategoryID:  fromNullString(m.CategoryID),
		AccountID:   fromNullString(m.AccountID),
		AuditFields: domain.AuditFields{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
	}
}

func toModelPayment(d domain.Payment) models.Payment {
	m := models.Payment{
		PaymentID:   d.PaymentID,
		DebtID:      d.DebtID,
		Amount:      d.Amount,
		PaymentDate: d.PaymentDate,
		AuditFields: models.AuditFields{
			CreatedAt: d.CreatedAt,
			UpdatedAt: d.UpdatedAt,
		},
	}
	if d.Notes != "" {
		m.Notes = sql.NullString{String: d.Notes, Valid: true}
	}
	return m
}

func toDomainPayment(m models.Payment) domain.Payment {
	return domain.Payment{
		PaymentID:   m.PaymentID,
		DebtID:      m.DebtID,
		Amount:      m.Amount,
		PaymentDate: m.PaymentDate,
		Notes:       m.Notes.String,
		AuditFields: domain.AuditFields{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
	}
}

func scanDebt(row interface{ Scan(dest ...any) error }) (models.Debt, error) {
	var m models.Debt
	err := row.Scan(
		&m.DebtID, &m.DebtorID, &m.Description, &m.TotalAmount, &m.DueDate, &m.Status,
		&m.CategoryID, &m.AccountID, &m.CreatedAt, &m.UpdatedAt,
	)
	return m, err
}

func scanPayment(row interface{ Scan(dest ...any) error }) (models.Payment, error) {
	var m models.Payment
	err := row.Scan(&m.PaymentID, &m.DebtID, &m.Amount, &m.PaymentDate, &m.Notes, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

func (r *PgxDebtRepository) SaveDebt(ctx context.Context, debt domain.Debt) error {
	m := toModelDebt(debt)

	query := `
		INSERT INTO debts (debt_id, debtor_id, description, total_amount, due_date, status, category_id, account_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.DebtID, m.DebtorID, m.Description, m.TotalAmount, m.DueDate, m.Status,
		m.CategoryID, m.AccountID, m.CreatedAt, m.UpdatedAt,
	)
	return translateError(err, "save debt")
}

func (r *PgxDebtRepository) FindDebtByID(ctx context.Context, userID string, debtID string) (*domain.Debt, error) {
	query := `
		SELECT ` + debtColumns + `
		FROM debts d
		JOIN debtors db ON db.debtor_id = d.debtor_id
		WHERE d.debt_id = $1 AND db.user_id = $2;
	`
	m, err := scanDebt(r.Pool.QueryRow(ctx, query, debtID, userID))
	if err != nil {
		return nil, translateError(err, "find debt")
	}
	d := toDomainDebt(m)

	payments, err := r.listPaymentsForDebts(ctx, []string{d.DebtID})
	if err != nil {
		return nil, err
	}
	d.Payments = payments[d.DebtID]
	return &d, nil
}

func (r *PgxDebtRepository) ListDebts(ctx context.Context, userID string) ([]domain.Debt, error) {
	query := `
		SELECT ` + debtColumns + `
		FROM debts d
		JOIN debtors db ON db.debtor_id = d.debtor_id
		WHERE db.user_id = $1
		ORDER BY d.created_at DESC;
	`
	return r.listDebts(ctx, query, userID)
}

func (r *PgxDebtRepository) ListDebtsByDebtor(ctx context.Context, userID string, debtorID string) ([]domain.Debt, error) {
	query := `
		SELECT ` + debtColumns + `
		FROM debts d
		JOIN debtors db ON db.debtor_id = d.debtor_id
		WHERE db.user_id = $1 AND d.debtor_id = $2
		ORDER BY d.created_at DESC;
	`
	return r.listDebts(ctx, query, userID, debtorID)
}

func (r *PgxDebtRepository) listDebts(ctx context.Context, query string, args ...any) ([]domain.Debt, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, translateError(err, "list debts")
	}
	defer rows.Close()

	debts := []domain.Debt{}
	debtIDs := []string{}
	for rows.Next() {
		m, err := scanDebt(rows)
		if err != nil {
			return nil, translateError(err, "scan debt row")
		}
		d := toDomainDebt(m)
		debts = append(debts, d)
		debtIDs = append(debtIDs, d.DebtID)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "iterate debt rows")
	}

	if len(debtIDs) > 0 {
		paymentsByDebt, err := r.listPaymentsForDebts(ctx, debtIDs)
		if err != nil {
			return nil, err
		}
		for i := range debts {
			debts[i].Payments = paymentsByDebt[debts[i].DebtID]
		}
	}
	return debts, nil
}

func (r *PgxDebtRepository) listPaymentsForDebts(ctx context.Context, debtIDs []string) (map[string][]domain.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments p
		WHERE p.debt_id = ANY($1)
		ORDER BY p.payment_date, p.created_at;
	`
	rows, err := r.Pool.Query(ctx, query, debtIDs)
	if err != nil {
		return nil, translateError(err, "list payments")
	}
	defer rows.Close()

	byDebt := make(map[string][]domain.Payment)
	for rows.Next() {
		m, err := scanPayment(rows)
		if err != nil {
			return nil, translateError(err, "scan payment row")
		}
		d := toDomainPayment(m)
		byDebt[d.DebtID] = append(byDebt[d.DebtID], d)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "iterate payment rows")
	}
	return byDebt, nil
}

func (r *PgxDebtRepository) FindPaymentByID(ctx context.Context, userID string, paymentID string) (*domain.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments p
		JOIN debts d ON d.debt_id = p.debt_id
		JOIN debtors db ON db.debtor_id = d.debtor_id
		WHERE p.payment_id = $1 AND db.user_id = $2;
	`
	m, err := scanPayment(r.Pool.QueryRow(ctx, query, paymentID, userID))
	if err != nil {
		return nil, translateError(err, "find payment")
	}
	d := toDomainPayment(m)
	return &d, nil
}

func (r *PgxDebtRepository) ListPaymentsByDebt(ctx context.Context, userID string, debtID string) ([]domain.Payment, error) {
	// Ownership check rides on the debt lookup.
	if _, err := r.FindDebtByID(ctx, userID, debtID); err != nil {
		return nil, err
	}
	byDebt, err := r.listPaymentsForDebts(ctx, []string{debtID})
	if err != nil {
		return nil, err
	}
	payments := byDebt[debtID]
	if payments == nil {
		payments = []domain.Payment{}
	}
	return payments, nil
}

func (r *PgxDebtRepository) UpdateDebt(ctx context.Context, debt domain.Debt) error {
	m := toModelDebt(debt)

	query := `
		UPDATE debts d
		SET description = $2, total_amount = $3, due_date = $4, status = $5, category_id = $6, account_id = $7, updated_at = $8
		WHERE d.debt_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.DebtID, m.Description, m.TotalAmount, m.DueDate, m.Status, m.CategoryID, m.AccountID, m.UpdatedAt,
	)
	if err != nil {
		return translateError(err, "update debt")
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxDebtRepository) DeleteDebt(ctx context.Context, userID string, debtID string) error {
	query := `
		DELETE FROM debts d
		USING debtors db
		WHERE db.debtor_id = d.debtor_id AND d.debt_id = $1 AND db.user_id = $2;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, debtID, userID)
	if err != nil {
		return translateError(err, "delete debt")
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeletePayment removes a payment. The debt's stored status is left
// untouched: settlement never reverts.
func (r *PgxDebtRepository) DeletePayment(ctx context.Context, userID string, paymentID string) error {
	query := `
		DELETE FROM payments p
		USING debts d, debtors db
		WHERE d.debt_id = p.debt_id AND db.debtor_id = d.debtor_id AND p.payment_id = $1 AND db.user_id = $2;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, paymentID, userID)
	if err != nil {
		return translateError(err, "delete payment")
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// RecordPayment inserts a payment and, when the payment total reaches the
// debt amount while the debt is still PENDING, settles the debt and records
// the income transaction, all under a row lock on the debt.
func (r *PgxDebtRepository) RecordPayment(ctx context.Context, userID string, payment domain.Payment, income domain.Transaction) (bool, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer r.Rollback(ctx, tx)

	lockQuery := `
		SELECT ` + debtColumns + `
		FROM debts d
		JOIN debtors db ON db.debtor_id = d.debtor_id
		WHERE d.debt_id = $1 AND db.user_id = $2
		FOR UPDATE OF d;
	`
	debt, err := scanDebt(tx.QueryRow(ctx, lockQuery, payment.DebtID, userID))
	if err != nil {
		return false, translateError(err, "lock debt")
	}

	mp := toModelPayment(payment)
	insertQuery := `
		INSERT INTO payments (payment_id, debt_id, amount, payment_date, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	if _, err := tx.Exec(ctx, insertQuery,
		mp.PaymentID, mp.DebtID, mp.Amount, mp.PaymentDate, mp.Notes, mp.CreatedAt, mp.UpdatedAt,
	); err != nil {
		return false, translateError(err, "insert payment")
	}

	var paidTotal decimal.Decimal
	sumQuery := `SELECT COALESCE(SUM(amount), 0) FROM payments WHERE debt_id = $1;`
	if err := tx.QueryRow(ctx, sumQuery, payment.DebtID).Scan(&paidTotal); err != nil {
		return false, translateError(err, "sum payments")
	}

	settled := false
	if debt.Status != string(domain.DebtPaid) && paidTotal.GreaterThanOrEqual(debt.TotalAmount) {
		if err := r.settleLockedDebt(ctx, tx, payment.DebtID, income, payment.PaymentDate); err != nil {
			return false, err
		}
		settled = true
	}

	if err := r.Commit(ctx, tx); err != nil {
		return false, err
	}
	return settled, nil
}

// SettleDebt force-settles a debt under a row lock and records the income
// transaction atomically. An already settled debt yields ErrConflict.
func (r *PgxDebtRepository) SettleDebt(ctx context.Context, userID string, debtID string, income domain.Transaction) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	lockQuery := `
		SELECT ` + debtColumns + `
		FROM debts d
		JOIN debtors db ON db.debtor_id = d.debtor_id
		WHERE d.debt_id = $1 AND db.user_id = $2
		FOR UPDATE OF d;
	`
	debt, err := scanDebt(tx.QueryRow(ctx, lockQuery, debtID, userID))
	if err != nil {
		return translateError(err, "lock debt")
	}

	if debt.Status == string(domain.DebtPaid) {
		return fmt.Errorf("%w: debt is already settled", apperrors.ErrConflict)
	}

	if err := r.settleLockedDebt(ctx, tx, debtID, income, time.Now()); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// settleLockedDebt flips a locked debt to PAID and inserts its income
// transaction. Callers hold the row lock.
func (r *PgxDebtRepository) settleLockedDebt(ctx context.Context, tx pgx.Tx, debtID string, income domain.Transaction, settledAt time.Time) error {
	updateQuery := `UPDATE debts SET status = 'PAID', updated_at = $2 WHERE debt_id = $1;`
	if _, err := tx.Exec(ctx, updateQuery, debtID, settledAt); err != nil {
		return translateError(err, "settle debt")
	}
	return insertTransactionTx(ctx, tx, income)
}

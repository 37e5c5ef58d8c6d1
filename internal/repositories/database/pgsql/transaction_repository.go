package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/finbook/finbook_backend/internal/apperrors"
	"github.com/finbook/finbook_backend/internal/core/domain"
	portsrepo "github.com/finbook/finbook_backend/internal/core/ports/repositories"
	"github.com/finbook/finbook_backend/internal/models"
)

type PgxTransactionRepository struct {
	BaseRepository
}

// newPgxTransactionRepository creates a new repository for transaction data.
func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

const transactionColumns = `transaction_id, user_id, description, amount, date, type, category_id, account_id,
	is_recurring, subscription_id, is_installment_plan, installment_count, installment_frequency,
	installment_amount, first_installment_date, created_at, updated_at`

const installmentColumns = `installment_id, transaction_id, installment_number, amount, due_date, status, paid_date, created_at, updated_at`

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func fromNullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func fromNullTime(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}

func toModelTransaction(d domain.Transaction) models.Transaction {
	m := models.Transaction{
		TransactionID:        d.TransactionID,
		UserID:               d.UserID,
		Description:          d.Description,
		Amount:               d.Amount,
		Date:                 d.Date,
		Type:                 string(d.Type),
		CategoryID:           nullString(d.CategoryID),
		AccountID:            nullString(d.AccountID),
		IsRecurring:          d.IsRecurring,
		SubscriptionID:       nullString(d.SubscriptionID),
		IsInstallmentPlan:    d.IsInstallmentPlan,
		FirstInstallmentDate: nullTime(d.FirstInstallmentDate),
		AuditFields: models.AuditFields{
			CreatedAt: d.CreatedAt,
			UpdatedAt: d.UpdatedAt,
		},
	}
	if d.IsInstallmentPlan {
		m.InstallmentCount = sql.NullInt32{Int32: int32(d.InstallmentCount), Valid: true}
		m.InstallmentFrequency = sql.NullString{String: string(d.InstallmentFrequency), Valid: true}
		m.InstallmentAmount = decimal.NullDecimal{Decimal: d.InstallmentAmount, Valid: true}
	}
	return m
}

func toDomainTransaction(m models.Transaction) domain.Transaction {
	d := domain.Transaction{
		TransactionID:        m.TransactionID,
		UserID:               m.UserID,
		Description:          m.Description,
		Amount:               m.Amount,
		Date:                 m.Date,
		Type:                 domain.TransactionType(m.Type),
		CategoryID:           fromNullString(m.CategoryID),
		AccountID:            fromNullString(m.AccountID),
		IsRecurring:          m.IsRecurring,
		SubscriptionID:       fromNullString(m.SubscriptionID),
		IsInstallmentPlan:    m.IsInstallmentPlan,
		FirstInstallmentDate: fromNullTime(m.FirstInstallmentDate),
		AuditFields: domain.AuditFields{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
	}
	if m.InstallmentCount.Valid {
		d.InstallmentCount = int(m.InstallmentCount.Int32)
	}
	if m.InstallmentFrequency.Valid {
		d.InstallmentFrequency = domain.InstallmentFrequency(m.InstallmentFrequency.String)
	}
	if m.InstallmentAmount.Valid {
		d.InstallmentAmount = m.InstallmentAmount.Decimal
	}
	return d
}

func toModelInstallment(d domain.Installment) models.Installment {
	return models.Installment{
		InstallmentID:     d.InstallmentID,
		TransactionID:     d.TransactionID,
		InstallmentNumber: d.InstallmentNumber,
		Amount:            d.Amount,
		DueDate:           d.DueDate,
		Status:            string(d.Status),
		PaidDate:          nullTime(d.PaidDate),
		AuditFields: models.AuditFields{
			CreatedAt: d.CreatedAt,
			UpdatedAt: d.UpdatedAt,
		},
	}
}

func toDomainInstallment(m models.Installment) domain.Installment {
	return domain.Installment{
		InstallmentID:     m.InstallmentID,
		TransactionID:     m.TransactionID,
		InstallmentNumber: m.InstallmentNumber,
		Amount:            m.Amount,
		DueDate:           m.DueDate,
		Status:            domain.InstallmentStatus(m.Status),
		PaidDate:          fromNullTime(m.PaidDate),
		AuditFields: domain.AuditFields{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
	}
}

func scanTransaction(row interface{ Scan(dest ...any) error }) (models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID, &m.UserID, &m.Description, &m.Amount, &m.Date, &m.Type, &m.CategoryID, &m.AccountID,
		&m.IsRecurring, &m.SubscriptionID, &m.IsInstallmentPlan, &m.InstallmentCount, &m.InstallmentFrequency,
		&m.InstallmentAmount, &m.FirstInstallmentDate, &m.CreatedAt, &m.UpdatedAt,
	)
	return m, err
}

func scanInstallment(row interface{ Scan(dest ...any) error }) (models.Installment, error) {
	var m models.Installment
	err := row.Scan(
		&m.InstallmentID, &m.TransactionID, &m.InstallmentNumber, &m.Amount, &m.DueDate, &m.Status,
		&m.PaidDate, &m.CreatedAt, &m.UpdatedAt,
	)
	return m, err
}

// insertTransactionTx inserts a transaction row inside an existing store
// transaction. Shared with the debt and subscription repositories, which
// record transactions atomically with their own writes.
func insertTransactionTx(ctx context.Context, tx pgx.Tx, d domain.Transaction) error {
	m := toModelTransaction(d)

	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err := tx.Exec(ctx, query,
		m.TransactionID, m.UserID, m.Description, m.Amount, m.Date, m.Type, m.CategoryID, m.AccountID,
		m.IsRecurring, m.SubscriptionID, m.IsInstallmentPlan, m.InstallmentCount, m.InstallmentFrequency,
		m.InstallmentAmount, m.FirstInstallmentDate, m.CreatedAt, m.UpdatedAt,
	)
	return translateError(err, "insert transaction")
}

// SaveTransaction persists a transaction and its installments, if any, in one
// store transaction.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, transaction domain.Transaction) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := insertTransactionTx(ctx, tx, transaction); err != nil {
		return err
	}

	if len(transaction.Installments) > 0 {
		batch := &pgx.Batch{}
		query := `
			INSERT INTO installments (` + installmentColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
		`
		for _, inst := range transaction.Installments {
			mi := toModelInstallment(inst)
			batch.Queue(query,
				mi.InstallmentID, mi.TransactionID, mi.InstallmentNumber, mi.Amount, mi.DueDate,
				mi.Status, mi.PaidDate, mi.CreatedAt, mi.UpdatedAt,
			)
		}
		br := tx.SendBatch(ctx, batch)
		for range transaction.Installments {
			if _, err := br.Exec(); err != nil {
				br.Close()
				return translateError(err, "insert installment")
			}
		}
		if err := br.Close(); err != nil {
			return translateError(err, "close installment batch")
		}
	}

	return r.Commit(ctx, tx)
}

func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, userID string, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1 AND user_id = $2;`

	m, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID, userID))
	if err != nil {
		return nil, translateError(err, "find transaction")
	}
	d := toDomainTransaction(m)

	if d.IsInstallmentPlan {
		installments, err := r.listInstallments(ctx, []string{d.TransactionID})
		if err != nil {
			return nil, err
		}
		d.Installments = installments[d.TransactionID]
	}
	return &d, nil
}

func (r *PgxTransactionRepository) FindInstallmentByID(ctx context.Context, userID string, installmentID string) (*domain.Installment, error) {
	query := `
		SELECT i.installment_id, i.transaction_id, i.installment_number, i.amount, i.due_date, i.status, i.paid_date, i.created_at, i.updated_at
		FROM installments i
		JOIN transactions t ON t.transaction_id = i.transaction_id
		WHERE i.installment_id = $1 AND t.user_id = $2;
	`
	m, err := scanInstallment(r.Pool.QueryRow(ctx, query, installmentID, userID))
	if err != nil {
		return nil, translateError(err, "find installment")
	}
	d := toDomainInstallment(m)
	return &d, nil
}

func (r *PgxTransactionRepository) ListTransactions(ctx context.Context, userID string, filter domain.TransactionFilter) ([]domain.Transaction, error) {
	conditions := []string{"user_id = $1"}
	args := []any{userID}

	if filter.Year != nil {
		args = append(args, *filter.Year)
		conditions = append(conditions, fmt.Sprintf("EXTRACT(YEAR FROM date) = $%d", len(args)))
	}
	if filter.Month != nil {
		args = append(args, *filter.Month)
		conditions = append(conditions, fmt.Sprintf("EXTRACT(MONTH FROM date) = $%d", len(args)))
	}
	if filter.AccountID != nil {
		args = append(args, *filter.AccountID)
		conditions = append(conditions, fmt.Sprintf("account_id = $%d", len(args)))
	}
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		conditions = append(conditions, fmt.Sprintf("category_id = $%d", len(args)))
	}
	if filter.Type != nil {
		args = append(args, string(*filter.Type))
		conditions = append(conditions, fmt.Sprintf("type = $%d", len(args)))
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE ` +
		strings.Join(conditions, " AND ") + ` ORDER BY date DESC, created_at DESC;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, translateError(err, "list transactions")
	}
	defer rows.Close()

	transactions := []domain.Transaction{}
	planIDs := []string{}
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, translateError(err, "scan transaction row")
		}
		d := toDomainTransaction(m)
		if d.IsInstallmentPlan {
			planIDs = append(planIDs, d.TransactionID)
		}
		transactions = append(transactions, d)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "iterate transaction rows")
	}

	if len(planIDs) > 0 {
		installmentsByTxn, err := r.listInstallments(ctx, planIDs)
		if err != nil {
			return nil, err
		}
		for i := range transactions {
			if transactions[i].IsInstallmentPlan {
				transactions[i].Installments = installmentsByTxn[transactions[i].TransactionID]
			}
		}
	}

	return transactions, nil
}

// listInstallments bulk-loads installments for the given plan transactions,
// keyed by transaction id and ordered by installment number.
func (r *PgxTransactionRepository) listInstallments(ctx context.Context, transactionIDs []string) (map[string][]domain.Installment, error) {
	query := `
		SELECT ` + installmentColumns + `
		FROM installments
		WHERE transaction_id = ANY($1)
		ORDER BY transaction_id, installment_number;
	`
	rows, err := r.Pool.Query(ctx, query, transactionIDs)
	if err != nil {
		return nil, translateError(err, "list installments")
	}
	defer rows.Close()

	byTxn := make(map[string][]domain.Installment)
	for rows.Next() {
		m, err := scanInstallment(rows)
		if err != nil {
			return nil, translateError(err, "scan installment row")
		}
		d := toDomainInstallment(m)
		byTxn[d.TransactionID] = append(byTxn[d.TransactionID], d)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "iterate installment rows")
	}
	return byTxn, nil
}

// UpdateTransaction persists the mutable base fields. Plan structure and
// recurrence links are immutable after creation.
func (r *PgxTransactionRepository) UpdateTransaction(ctx context.Context, transaction domain.Transaction) error {
	m := toModelTransaction(transaction)

	query := `
		UPDATE transactions
		SET description = $3, amount = $4, date = $5, type = $6, category_id = $7, account_id = $8, updated_at = $9
		WHERE transaction_id = $1 AND user_id = $2;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.TransactionID, m.UserID, m.Description, m.Amount, m.Date, m.Type, m.CategoryID, m.AccountID, m.UpdatedAt,
	)
	if err != nil {
		return translateError(err, "update transaction")
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteTransaction removes a transaction; its installments go with it
// (ON DELETE CASCADE).
func (r *PgxTransactionRepository) DeleteTransaction(ctx context.Context, userID string, transactionID string) error {
	query := `DELETE FROM transactions WHERE transaction_id = $1 AND user_id = $2;`

	cmdTag, err := r.Pool.Exec(ctx, query, transactionID, userID)
	if err != nil {
		return translateError(err, "delete transaction")
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// MarkTransactionPaid flips a transaction's type to PAID. The conditional
// update keeps the flip one-way under concurrent calls.
func (r *PgxTransactionRepository) MarkTransactionPaid(ctx context.Context, userID string, transactionID string) error {
	query := `
		UPDATE transactions
		SET type = 'PAID', updated_at = now()
		WHERE transaction_id = $1 AND user_id = $2 AND type <> 'PAID';
	`
	cmdTag, err := r.Pool.Exec(ctx, query, transactionID, userID)
	if err != nil {
		return translateError(err, "mark transaction paid")
	}
	if cmdTag.RowsAffected() == 0 {
		if _, findErr := r.FindTransactionByID(ctx, userID, transactionID); findErr != nil {
			if errors.Is(findErr, apperrors.ErrNotFound) {
				return apperrors.ErrNotFound
			}
			return findErr
		}
		return apperrors.ErrConflict
	}
	return nil
}

// MarkInstallmentsPaid settles the given installments in one store
// transaction. Every id must belong to the user and still be PENDING;
// otherwise nothing is changed.
func (r *PgxTransactionRepository) MarkInstallmentsPaid(ctx context.Context, userID string, installmentIDs []string, paidAt time.Time) error {
	if len(installmentIDs) == 0 {
		return nil
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		UPDATE installments i
		SET status = 'PAID', paid_date = $3, updated_at = $4
		FROM transactions t
		WHERE t.transaction_id = i.transaction_id
		  AND t.user_id = $2
		  AND i.installment_id = ANY($1)
		  AND i.status = 'PENDING';
	`
	cmdTag, err := tx.Exec(ctx, query, installmentIDs, userID, paidAt, paidAt)
	if err != nil {
		return translateError(err, "mark installments paid")
	}
	if cmdTag.RowsAffected() != int64(len(installmentIDs)) {
		return fmt.Errorf("%w: one or more installments are missing or already paid", apperrors.ErrConflict)
	}

	return r.Commit(ctx, tx)
}

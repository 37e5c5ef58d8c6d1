package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/finbook/finbook_backend/internal/core/ports/repositories"
)

// NewRepositoryProvider wires every pgx-backed repository over one pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		UserRepository:         newPgxUserRepository(dbPool),
		AccountRepository:      newPgxAccountRepository(dbPool),
		CategoryRepository:     newPgxCategoryRepository(dbPool),
		DebtorRepository:       newPgxDebtorRepository(dbPool),
		DebtRepository:         newPgxDebtRepository(dbPool),
		TransactionRepository:  newPgxTransactionRepository(dbPool),
		SubscriptionRepository: newPgxSubscriptionRepository(dbPool),
	}
}

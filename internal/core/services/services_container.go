package services

import (
	portsrepo "github.com/finbook/finbook_backend/internal/core/ports/repositories"
	portssvc "github.com/finbook/finbook_backend/internal/core/ports/services"
	"github.com/finbook/finbook_backend/internal/events"
	"github.com/finbook/finbook_backend/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, publisher *events.Publisher) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.UserService = NewUserService(repos.UserRepository)
	container.TokenService = NewTokenService(cfg)
	container.GoogleOAuthService = NewGoogleOAuthService(cfg)

	container.AccountService = NewAccountService(repos.AccountRepository)
	container.CategoryService = NewCategoryService(repos.CategoryRepository)
	container.DebtorService = NewDebtorService(repos.DebtorRepository)

	// DebtService comes before TransactionService: income transactions
	// carrying a debt reference are routed through it as debt payments.
	container.DebtService = NewDebtService(repos.DebtRepository, repos.DebtorRepository, publisher)
	container.TransactionService = NewTransactionService(
		repos.TransactionRepository,
		repos.SubscriptionRepository,
		repos.CategoryRepository,
		repos.AccountRepository,
		container.DebtService,
	)
	container.SubscriptionService = NewSubscriptionService(repos.SubscriptionRepository, publisher)

	return container
}

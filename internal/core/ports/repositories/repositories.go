package repositories

// RepositoryProvider holds all repository facades required by the
// service layer.
type RepositoryProvider struct {
	UserRepository         UserRepositoryFacade
	AccountRepository      AccountRepositoryFacade
	CategoryRepository     CategoryRepositoryFacade
	DebtorRepository       DebtorRepositoryFacade
	DebtRepository         DebtRepositoryFacade
	TransactionRepository  TransactionRepositoryFacade
	SubscriptionRepository SubscriptionRepositoryFacade
}

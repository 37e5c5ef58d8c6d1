package services

// ServiceContainer holds all service facades wired at startup.
type ServiceContainer struct {
	UserService         UserSvcFacade
	TokenService        TokenSvcFacade
	GoogleOAuthService  GoogleOAuthSvcFacade
	AccountService      AccountSvcFacade
	CategoryService     CategorySvcFacade
	DebtorService       DebtorSvcFacade
	DebtService         DebtSvcFacade
	TransactionService  TransactionSvcFacade
	SubscriptionService SubscriptionSvcFacade
}

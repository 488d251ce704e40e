package repositories

// RepositoryProvider holds instances of all the application repositories.
// It is built once at startup and handed to the service layer.
type RepositoryProvider struct {
	UserRepo    UserRepository
	GroupRepo   GroupRepository
	ExpenseRepo ExpenseRepository
}

package services

import (
	portsrepo "github.com/hisaab-app/hisaab_backend/internal/core/ports/repositories"
	portssvc "github.com/hisaab-app/hisaab_backend/internal/core/ports/services"
)

// NewServiceContainer creates the service container with properly initialized
// dependencies. The balance service shares the expense repository with the
// expense service so both always see the same records.
func NewServiceContainer(repos *portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		User:    NewUserService(repos.UserRepo),
		Group:   NewGroupService(repos.GroupRepo, repos.UserRepo),
		Expense: NewExpenseService(repos.ExpenseRepo),
		Balance: NewBalanceService(repos.ExpenseRepo, repos.GroupRepo),
	}
}

package pgsql

import (
	portsrepo "github.com/hisaab-app/hisaab_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		UserRepo:    newPgxUserRepository(dbPool),
		GroupRepo:   newPgxGroupRepository(dbPool),
		ExpenseRepo: newPgxExpenseRepository(dbPool),
	}
}

package services

import (
	"upkeep/config"
	"upkeep/internal/database"
	"upkeep/internal/repositories"
)

type Service struct {
	Transaction *TransactionService
	Scheduler   *SchedulerService
	Catalog     *CatalogService
	Records     *RecordsService
	Completions *CompletionsService
	Tenancy     *TenancyService
}

func New(db database.DB, config config.Config, repos repositories.Repository) (Service, error) {
	transactionService := NewTransactionService(db)
	schedulerService := NewSchedulerService()
	catalogService := NewCatalogService(repos, db, transactionService)
	recordsService := NewRecordsService(repos)
	completionsService := NewCompletionsService(repos)
	tenancyService := NewTenancyService(repos, transactionService)

	return Service{
		Transaction: transactionService,
		Scheduler:   schedulerService,
		Catalog:     catalogService,
		Records:     recordsService,
		Completions: completionsService,
		Tenancy:     tenancyService,
	}, nil
}

package app

import (
	"context"
	"upkeep/config"
	"upkeep/internal/database"
	"upkeep/internal/handlers/middleware"
	"upkeep/internal/jobs"
	"upkeep/internal/repositories"
	"upkeep/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

type App struct {
	Database   database.DB
	Middleware middleware.Middleware
	Config     config.Config

	Services     services.Service
	Repositories repositories.Repository
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.New()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	repos := repositories.New(db)

	service, err := services.New(db, config, repos)
	if err != nil {
		return &App{}, log.Err("failed to create services", err)
	}

	middleware := middleware.New(db, config)

	if config.SchedulerEnabled {
		if err := jobs.RegisterAllJobs(service.Scheduler, config, service, repos, db); err != nil {
			return &App{}, log.Err("failed to register jobs", err)
		}
		if err := service.Scheduler.Start(context.Background()); err != nil {
			return &App{}, log.Err("failed to start scheduler", err)
		}
	}

	app := &App{
		Database:     db,
		Config:       config,
		Middleware:   middleware,
		Services:     service,
		Repositories: repos,
	}

	if err := app.validate(); err != nil {
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")

	if a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	nilChecks := []any{
		a.Services.Transaction,
		a.Services.Scheduler,
		a.Services.Catalog,
		a.Services.Records,
		a.Services.Completions,
		a.Services.Tenancy,
		a.Repositories.Business,
		a.Repositories.Client,
		a.Repositories.Site,
		a.Repositories.EquipmentType,
		a.Repositories.EquipmentRecord,
		a.Repositories.Completion,
	}

	for _, check := range nilChecks {
		if check == nil {
			return log.ErrMsg("nil check failed")
		}
	}

	return nil
}

func (a *App) Close() (err error) {
	if a.Services.Scheduler != nil {
		if closeErr := a.Services.Scheduler.Stop(context.Background()); closeErr != nil {
			err = closeErr
		}
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}

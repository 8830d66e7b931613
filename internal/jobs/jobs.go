package jobs

import (
	"upkeep/config"
	"upkeep/internal/database"
	"upkeep/internal/repositories"
	"upkeep/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

func RegisterAllJobs(
	schedulerService *services.SchedulerService,
	config config.Config,
	service services.Service,
	repos repositories.Repository,
	db database.DB,
) error {
	log := logger.New("jobs").Function("RegisterAllJobs")
	log.Info("Registering jobs")

	dueReportJob := NewDueReportJob(service.Records, repos, db, services.Daily)
	if err := schedulerService.AddJob(dueReportJob); err != nil {
		return log.Err("failed to register due report job", err)
	}
	log.Info("Registered due report job", "schedule", "daily")

	return nil
}

package jobs

import (
	"context"
	"fmt"
	"time"
	"upkeep/internal/database"
	"upkeep/internal/models"
	"upkeep/internal/repositories"
	"upkeep/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

const dueReportCacheTTL = 26 * time.Hour

// DueReport is the cached per-business schedule snapshot.
type DueReport struct {
	BusinessID   int       `json:"businessId"`
	Overdue      int       `json:"overdue"`
	DueThisMonth int       `json:"dueThisMonth"`
	Upcoming     int       `json:"upcoming"`
	GeneratedAt  time.Time `json:"generatedAt"`
}

func DueReportCacheKey(businessID int) string {
	return fmt.Sprintf("duereport:business:%d", businessID)
}

// DueReportJob precomputes overdue/due-this-month/upcoming counts for every
// business once a day. Read-only over the schedule: it caches counts, it
// never advances anything.
type DueReportJob struct {
	records  *services.RecordsService
	repos    repositories.Repository
	db       database.DB
	schedule services.Schedule
	log      logger.Logger
}

func NewDueReportJob(
	records *services.RecordsService,
	repos repositories.Repository,
	db database.DB,
	schedule services.Schedule,
) *DueReportJob {
	return &DueReportJob{
		records:  records,
		repos:    repos,
		db:       db,
		schedule: schedule,
		log:      logger.New("dueReportJob"),
	}
}

func (j *DueReportJob) Name() string {
	return "due-report"
}

func (j *DueReportJob) Schedule() services.Schedule {
	return j.schedule
}

func (j *DueReportJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	businesses, err := j.repos.Business.List(ctx)
	if err != nil {
		return log.Err("failed to list businesses for due report", err)
	}

	for _, business := range businesses {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := j.reportForBusiness(ctx, business.ID); err != nil {
			_ = log.Err("failed to build due report", err, "businessID", business.ID)
			continue
		}
	}

	log.Info("due reports generated", "businesses", len(businesses))
	return nil
}

func (j *DueReportJob) reportForBusiness(ctx context.Context, businessID int) error {
	caller := models.SystemCaller(businessID)

	overdue, err := j.records.Overdue(ctx, caller)
	if err != nil {
		return err
	}
	dueThisMonth, err := j.records.DueThisMonth(ctx, caller)
	if err != nil {
		return err
	}
	upcoming, _, err := j.records.Upcoming(ctx, caller, services.UpcomingQuery{})
	if err != nil {
		return err
	}

	report := DueReport{
		BusinessID:   businessID,
		Overdue:      len(overdue),
		DueThisMonth: len(dueThisMonth),
		Upcoming:     len(upcoming),
		GeneratedAt:  time.Now().UTC(),
	}

	return database.SetJSON(j.db.Cache.Reports, DueReportCacheKey(businessID), report, dueReportCacheTTL)
}

package services

import (
	"context"
	"time"
	"upkeep/internal/recurrence"
	"upkeep/internal/repositories"
	. "upkeep/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/datatypes"
)

// EquipmentRecordRequest carries the writable fields of a record.
type EquipmentRecordRequest struct {
	ClientID        int            `json:"clientId"        validate:"required"`
	SiteID          int            `json:"siteId"          validate:"required"`
	EquipmentTypeID int            `json:"equipmentTypeId" validate:"required"`
	Name            string         `json:"name"            validate:"required"`
	Make            *string        `json:"make,omitempty"`
	Model           *string        `json:"model,omitempty"`
	SerialNumber    *string        `json:"serialNumber,omitempty"`
	AnchorDate      time.Time      `json:"anchorDate"      validate:"required"`
	DueDate         *time.Time     `json:"dueDate,omitempty"`
	IntervalWeeks   int            `json:"intervalWeeks"`
	LeadWeeks       *int           `json:"leadWeeks,omitempty"`
	Active          *bool          `json:"active,omitempty"`
	Notes           *string        `json:"notes,omitempty"`
	Metadata        datatypes.JSON `json:"metadata,omitempty"`
}

// UpcomingQuery is the caller's window input: either explicit bounds, a week
// count, or nothing for the default lookahead.
type UpcomingQuery struct {
	Start *time.Time
	End   *time.Time
	Weeks *int
}

// RecordsService owns equipment records and their schedule queries.
type RecordsService struct {
	repos repositories.Repository
	log   logger.Logger
}

func NewRecordsService(repos repositories.Repository) *RecordsService {
	return &RecordsService{
		repos: repos,
		log:   logger.New("recordsService"),
	}
}

func (s *RecordsService) Get(ctx context.Context, caller Caller, id int) (*EquipmentRecord, error) {
	return s.repos.EquipmentRecord.GetByID(ctx, caller, id)
}

func (s *RecordsService) List(
	ctx context.Context,
	caller Caller,
	filter repositories.RecordFilter,
) ([]EquipmentRecord, error) {
	return s.repos.EquipmentRecord.List(ctx, caller, filter)
}

// Create validates the record's references before writing: the site must
// belong to the client, and the equipment type must be visible to the
// client's business.
func (s *RecordsService) Create(
	ctx context.Context,
	caller Caller,
	req EquipmentRecordRequest,
) (*EquipmentRecord, error) {
	log := s.log.Function("Create")

	if err := s.validateReferences(ctx, caller, req); err != nil {
		return nil, err
	}

	record := &EquipmentRecord{
		ClientID:        req.ClientID,
		SiteID:          req.SiteID,
		EquipmentTypeID: req.EquipmentTypeID,
		Name:            req.Name,
		Make:            req.Make,
		Model:           req.Model,
		SerialNumber:    req.SerialNumber,
		AnchorDate:      recurrence.DateOnly(req.AnchorDate),
		IntervalWeeks:   req.IntervalWeeks,
		LeadWeeks:       req.LeadWeeks,
		Active:          true,
		Notes:           req.Notes,
		Metadata:        req.Metadata,
	}
	if req.Active != nil {
		record.Active = *req.Active
	}
	if req.DueDate != nil {
		due := recurrence.DateOnly(*req.DueDate)
		record.DueDate = &due
	}

	created, err := s.repos.EquipmentRecord.Create(ctx, record)
	if err != nil {
		return nil, err
	}

	log.Info("created equipment record", "id", created.ID, "name", created.Name)
	return created, nil
}

// Update rewrites the record's fields. This is the only path that moves
// DueDate; logging a completion never touches it.
func (s *RecordsService) Update(
	ctx context.Context,
	caller Caller,
	id int,
	req EquipmentRecordRequest,
) (*EquipmentRecord, error) {
	record, err := s.repos.EquipmentRecord.GetByID(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	if err := s.validateReferences(ctx, caller, req); err != nil {
		return nil, err
	}

	record.ClientID = req.ClientID
	record.SiteID = req.SiteID
	record.EquipmentTypeID = req.EquipmentTypeID
	record.Name = req.Name
	record.Make = req.Make
	record.Model = req.Model
	record.SerialNumber = req.SerialNumber
	record.AnchorDate = recurrence.DateOnly(req.AnchorDate)
	record.IntervalWeeks = req.IntervalWeeks
	record.LeadWeeks = req.LeadWeeks
	record.Notes = req.Notes
	if req.Metadata != nil {
		record.Metadata = req.Metadata
	}
	if req.Active != nil {
		record.Active = *req.Active
	}
	record.DueDate = nil
	if req.DueDate != nil {
		due := recurrence.DateOnly(*req.DueDate)
		record.DueDate = &due
	}

	if err := s.repos.EquipmentRecord.Update(ctx, record); err != nil {
		return nil, err
	}

	return record, nil
}

func (s *RecordsService) Delete(ctx context.Context, caller Caller, id int) error {
	if _, err := s.repos.EquipmentRecord.GetByID(ctx, caller, id); err != nil {
		return err
	}
	return s.repos.EquipmentRecord.Tombstone(ctx, id, caller.Subject, time.Now().UTC())
}

func (s *RecordsService) Restore(ctx context.Context, caller Caller, id int) error {
	log := s.log.Function("Restore")

	if !caller.IsPrivileged {
		return log.Err("restore requires privilege", ErrNotFound, "id", id)
	}
	return s.repos.EquipmentRecord.Restore(ctx, id)
}

// Overdue returns active records whose due date has passed.
func (s *RecordsService) Overdue(ctx context.Context, caller Caller) ([]EquipmentRecord, error) {
	records, err := s.repos.EquipmentRecord.List(ctx, caller, repositories.RecordFilter{ActiveOnly: true})
	if err != nil {
		return nil, err
	}
	return recurrence.Overdue(records, time.Now().UTC()), nil
}

// DueThisMonth returns active records due within the current calendar month.
func (s *RecordsService) DueThisMonth(ctx context.Context, caller Caller) ([]EquipmentRecord, error) {
	records, err := s.repos.EquipmentRecord.List(ctx, caller, repositories.RecordFilter{ActiveOnly: true})
	if err != nil {
		return nil, err
	}
	return recurrence.DueThisMonth(records, time.Now().UTC()), nil
}

// Upcoming returns active records due inside the resolved window.
func (s *RecordsService) Upcoming(
	ctx context.Context,
	caller Caller,
	query UpcomingQuery,
) ([]EquipmentRecord, recurrence.Window, error) {
	records, err := s.repos.EquipmentRecord.List(ctx, caller, repositories.RecordFilter{ActiveOnly: true})
	if err != nil {
		return nil, recurrence.Window{}, err
	}

	window := recurrence.UpcomingWindow(time.Now().UTC(), query.Start, query.End, query.Weeks)
	return recurrence.InWindow(records, window), window, nil
}

// NextOccurrence computes the next due date strictly after the reference from
// the record's anchor and interval. Read-only; the stored DueDate is not
// touched.
func (s *RecordsService) NextOccurrence(
	ctx context.Context,
	caller Caller,
	id int,
	reference time.Time,
) (time.Time, error) {
	record, err := s.repos.EquipmentRecord.GetByID(ctx, caller, id)
	if err != nil {
		return time.Time{}, err
	}
	return recurrence.NextDue(record.AnchorDate, record.IntervalWeeks, reference)
}

// validateReferences enforces the record's cross-entity invariants. Failures
// surface as cross-scope errors, not generic not-found, so a caller wiring a
// site to the wrong client gets a diagnosable answer.
func (s *RecordsService) validateReferences(
	ctx context.Context,
	caller Caller,
	req EquipmentRecordRequest,
) error {
	log := s.log.Function("validateReferences")

	client, err := s.repos.Client.GetByID(ctx, caller, req.ClientID)
	if err != nil {
		return err
	}

	site, err := s.repos.Site.GetByID(ctx, caller, req.SiteID)
	if err != nil {
		return err
	}
	if site.ClientID != client.ID {
		return log.Err("site does not belong to client", ErrCrossScope,
			"siteID", site.ID, "clientID", client.ID)
	}

	equipmentType, err := s.repos.EquipmentType.GetByID(ctx, caller, req.EquipmentTypeID)
	if err != nil {
		return err
	}
	if !equipmentType.VisibleToBusiness(client.BusinessID) {
		return log.Err("equipment type not visible to record's business", ErrCrossScope,
			"equipmentTypeID", equipmentType.ID, "businessID", client.BusinessID)
	}

	return nil
}

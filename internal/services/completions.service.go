package services

import (
	"context"
	"time"
	"upkeep/internal/recurrence"
	"upkeep/internal/repositories"
	. "upkeep/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/shopspring/decimal"
)

// CompletionRequest logs one satisfied obligation against a record.
type CompletionRequest struct {
	SatisfiedDueDate time.Time        `json:"satisfiedDueDate" validate:"required"`
	CompletedAt      *time.Time       `json:"completedAt,omitempty"`
	IntervalWeeks    *int             `json:"intervalWeeks,omitempty"`
	Cost             *decimal.Decimal `json:"cost,omitempty"`
	Notes            *string          `json:"notes,omitempty"`
}

// CompletionsService is the append-only completion ledger. Logging a
// completion never advances the record's schedule; that is a separate,
// explicit record update.
type CompletionsService struct {
	repos repositories.Repository
	log   logger.Logger
}

func NewCompletionsService(repos repositories.Repository) *CompletionsService {
	return &CompletionsService{
		repos: repos,
		log:   logger.New("completionsService"),
	}
}

// Record appends a ledger row for a record the caller can see.
func (s *CompletionsService) Record(
	ctx context.Context,
	caller Caller,
	recordID int,
	req CompletionRequest,
) (*EquipmentCompletion, error) {
	log := s.log.Function("Record")

	record, err := s.repos.EquipmentRecord.GetByID(ctx, caller, recordID)
	if err != nil {
		return nil, err
	}

	completion := &EquipmentCompletion{
		EquipmentRecordID: record.ID,
		SatisfiedDueDate:  recurrence.DateOnly(req.SatisfiedDueDate),
		IntervalWeeks:     req.IntervalWeeks,
		CompletedBy:       caller.Subject,
		Cost:              req.Cost,
		Notes:             req.Notes,
	}
	if req.CompletedAt != nil {
		completion.CompletedAt = req.CompletedAt.UTC()
	}
	if completion.IntervalWeeks == nil {
		intervalWeeks := record.IntervalWeeks
		completion.IntervalWeeks = &intervalWeeks
	}

	created, err := s.repos.Completion.Create(ctx, completion)
	if err != nil {
		return nil, err
	}

	log.Info("recorded completion", "recordID", record.ID, "satisfiedDueDate", completion.SatisfiedDueDate)
	return created, nil
}

// History lists the ledger for one record, newest first.
func (s *CompletionsService) History(
	ctx context.Context,
	caller Caller,
	recordID int,
) ([]EquipmentCompletion, error) {
	if _, err := s.repos.EquipmentRecord.GetByID(ctx, caller, recordID); err != nil {
		return nil, err
	}
	return s.repos.Completion.ListByRecord(ctx, recordID)
}

// ListForBusiness lists the full ledger across one business, newest first.
func (s *CompletionsService) ListForBusiness(
	ctx context.Context,
	caller Caller,
	businessID int,
) ([]EquipmentCompletion, error) {
	log := s.log.Function("ListForBusiness")

	if !caller.AllBusinesses() {
		if caller.BusinessID == nil || *caller.BusinessID != businessID {
			return nil, log.Err("business ledger is out of scope", ErrNotFound, "businessID", businessID)
		}
	}
	return s.repos.Completion.ListByBusiness(ctx, businessID)
}

// Delete hard-deletes a ledger row. Administrative correction only; there is
// no soft delete on the ledger.
func (s *CompletionsService) Delete(ctx context.Context, caller Caller, id int) error {
	log := s.log.Function("Delete")

	if !caller.IsPrivileged {
		return log.Err("completion delete requires privilege", ErrNotFound, "id", id)
	}

	completion, err := s.repos.Completion.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !caller.AllBusinesses() {
		// A privileged caller pinned to one business may still only touch its
		// own ledger.
		if _, err := s.repos.EquipmentRecord.GetByID(ctx, caller, completion.EquipmentRecordID); err != nil {
			return err
		}
	}

	return s.repos.Completion.HardDelete(ctx, id)
}

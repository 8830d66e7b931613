package services

import (
	"context"
	"fmt"
	"time"
	"upkeep/internal/database"
	"upkeep/internal/recurrence"
	"upkeep/internal/repositories"
	. "upkeep/internal/models"

	logger "github.com/Bparsons0904/goLogger"
)

const catalogCacheTTL = 15 * time.Minute

// DeleteMode selects how far a type delete reaches.
type DeleteMode string

const (
	// DeleteSpecific tombstones only the addressed row.
	DeleteSpecific DeleteMode = "specific"
	// DeleteFromBusiness removes the type for one business. On a global row
	// this triggers consolidation so every other business keeps access.
	DeleteFromBusiness DeleteMode = "from_business"
	// DeleteFromAll tombstones every live row sharing the name.
	DeleteFromAll DeleteMode = "from_all"
)

// EquipmentTypeRequest carries the writable fields of a type. Scope decides
// ownership: global or one business.
type EquipmentTypeRequest struct {
	Name             string `json:"name"             validate:"required"`
	IntervalWeeks    int    `json:"intervalWeeks"    validate:"required,gt=0"`
	Pattern          string `json:"pattern"`
	DefaultLeadWeeks int    `json:"defaultLeadWeeks"`
	Global           bool   `json:"global"`
}

// TypeNameGroup is the read-side aggregation over one name: which scopes
// currently own a live row. More than one owner is a legitimate transient
// state, never collapsed on the write side.
type TypeNameGroup struct {
	Name   string          `json:"name"`
	Owners []Scope         `json:"owners"`
	Types  []EquipmentType `json:"types"`
}

// CatalogService owns equipment-type definitions and the per-business
// effective-catalog resolution.
type CatalogService struct {
	repos       repositories.Repository
	db          database.DB
	transaction Transactor
	log         logger.Logger
}

func NewCatalogService(
	repos repositories.Repository,
	db database.DB,
	transaction Transactor,
) *CatalogService {
	return &CatalogService{
		repos:       repos,
		db:          db,
		transaction: transaction,
		log:         logger.New("catalogService"),
	}
}

// ownerFor decides the owning scope of a new type. Only privileged callers
// may write global rows; everyone else writes into their own business.
func (s *CatalogService) ownerFor(caller Caller, global bool) (*int, error) {
	log := s.log.Function("ownerFor")

	if global {
		if !caller.IsPrivileged {
			return nil, log.Err("global types are privileged-only", ErrCrossScope)
		}
		return nil, nil
	}
	if caller.BusinessID == nil {
		return nil, log.Err("tenant-owned type needs a business", ErrCrossScope)
	}
	businessID := *caller.BusinessID
	return &businessID, nil
}

func catalogCacheKey(businessID int) string {
	return fmt.Sprintf("catalog:business:%d", businessID)
}

// Resolve returns the effective catalog for a business: every live global
// type except those shadowed by a same-name override owned by the business.
// The result has exactly one entry per distinct visible name.
func (s *CatalogService) Resolve(ctx context.Context, businessID int) ([]EquipmentType, error) {
	log := s.log.Function("Resolve")

	var cached []EquipmentType
	if found, err := database.GetJSON(s.db.Cache.Catalog, catalogCacheKey(businessID), &cached); err == nil && found {
		return cached, nil
	}

	rows, err := s.repos.EquipmentType.ListForBusiness(ctx, businessID, false)
	if err != nil {
		return nil, log.Err("failed to load catalog rows", err, "businessID", businessID)
	}

	resolved := resolveShadowing(rows, businessID)

	if err := database.SetJSON(s.db.Cache.Catalog, catalogCacheKey(businessID), resolved, catalogCacheTTL); err != nil {
		log.Warn("failed to cache resolved catalog", "businessID", businessID, "error", err)
	}

	return resolved, nil
}

// resolveShadowing keeps, per name, the business's own override when one
// exists, otherwise the global row.
func resolveShadowing(rows []EquipmentType, businessID int) []EquipmentType {
	overridden := make(map[string]bool)
	for _, row := range rows {
		if row.BusinessID != nil && *row.BusinessID == businessID {
			overridden[row.Name] = true
		}
	}

	resolved := make([]EquipmentType, 0, len(rows))
	for _, row := range rows {
		if row.BusinessID == nil && overridden[row.Name] {
			continue
		}
		resolved = append(resolved, row)
	}
	return resolved
}

// GroupedByName reports every live row grouped by name with its owner set.
// Privileged view only; this is where transient multi-owner states after a
// partial consolidation become visible instead of being guessed away.
func (s *CatalogService) GroupedByName(ctx context.Context, caller Caller) ([]TypeNameGroup, error) {
	log := s.log.Function("GroupedByName")

	if !caller.IsPrivileged {
		return nil, log.Err("grouped catalog view requires privilege", ErrNotFound)
	}

	rows, err := s.repos.EquipmentType.ListAll(ctx, Caller{
		Subject:      caller.Subject,
		IsPrivileged: true,
	})
	if err != nil {
		return nil, log.Err("failed to list equipment types", err)
	}

	byName := make(map[string]*TypeNameGroup)
	order := make([]string, 0)
	for _, row := range rows {
		group, ok := byName[row.Name]
		if !ok {
			group = &TypeNameGroup{Name: row.Name}
			byName[row.Name] = group
			order = append(order, row.Name)
		}
		group.Owners = append(group.Owners, row.Scope())
		group.Types = append(group.Types, row)
	}

	groups := make([]TypeNameGroup, 0, len(order))
	for _, name := range order {
		groups = append(groups, *byName[name])
	}

	return groups, nil
}

func (s *CatalogService) GetType(ctx context.Context, caller Caller, id int) (*EquipmentType, error) {
	return s.repos.EquipmentType.GetByID(ctx, caller, id)
}

// CreateType creates a global or tenant-owned type. Name uniqueness is per
// scope; the same name existing globally and in another business is fine.
func (s *CatalogService) CreateType(
	ctx context.Context,
	caller Caller,
	req EquipmentTypeRequest,
) (*EquipmentType, error) {
	log := s.log.Function("CreateType")

	businessID, err := s.ownerFor(caller, req.Global)
	if err != nil {
		return nil, err
	}

	pattern := req.Pattern
	if pattern == "" {
		pattern = recurrence.PatternFor(req.IntervalWeeks)
	}
	if _, err := recurrence.ParsePattern(pattern); err != nil {
		return nil, log.Err("rejecting malformed recurrence pattern", err, "pattern", pattern)
	}

	equipmentType := &EquipmentType{
		BusinessID:       businessID,
		Name:             req.Name,
		IntervalWeeks:    req.IntervalWeeks,
		Pattern:          pattern,
		DefaultLeadWeeks: req.DefaultLeadWeeks,
		Active:           true,
	}

	created, err := s.repos.EquipmentType.Create(ctx, equipmentType)
	if err != nil {
		return nil, err
	}

	s.invalidateCatalog()
	return created, nil
}

func (s *CatalogService) UpdateType(
	ctx context.Context,
	caller Caller,
	id int,
	req EquipmentTypeRequest,
) (*EquipmentType, error) {
	log := s.log.Function("UpdateType")

	equipmentType, err := s.repos.EquipmentType.GetByID(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if equipmentType.BusinessID == nil && !caller.IsPrivileged {
		return nil, log.Err("global types are privileged-only", ErrNotFound, "id", id)
	}

	pattern := req.Pattern
	if pattern == "" {
		pattern = recurrence.PatternFor(req.IntervalWeeks)
	}
	if _, err := recurrence.ParsePattern(pattern); err != nil {
		return nil, log.Err("rejecting malformed recurrence pattern", err, "pattern", pattern)
	}

	equipmentType.Name = req.Name
	equipmentType.IntervalWeeks = req.IntervalWeeks
	equipmentType.Pattern = pattern
	equipmentType.DefaultLeadWeeks = req.DefaultLeadWeeks

	if err := s.repos.EquipmentType.Update(ctx, equipmentType); err != nil {
		return nil, err
	}

	s.invalidateCatalog()
	return equipmentType, nil
}

// DeleteType tombstones a type under one of three modes. The from_business
// consolidation on a global row runs in one transaction: every other business
// that has no override of the name gets a materialized copy first, then the
// global row is tombstoned. A partial failure rolls the whole thing back.
func (s *CatalogService) DeleteType(
	ctx context.Context,
	caller Caller,
	id int,
	mode DeleteMode,
) error {
	log := s.log.Function("DeleteType")

	equipmentType, err := s.repos.EquipmentType.GetByID(ctx, caller, id)
	if err != nil {
		return err
	}

	now := time.Now().UTC()

	switch mode {
	case DeleteSpecific:
		if equipmentType.BusinessID == nil && !caller.IsPrivileged {
			return log.Err("global types are privileged-only", ErrNotFound, "id", id)
		}
		err = s.repos.EquipmentType.Tombstone(ctx, id, caller.Subject, now)

	case DeleteFromBusiness:
		if caller.BusinessID == nil {
			return log.Err("from_business delete needs a business", ErrCrossScope, "id", id)
		}
		if equipmentType.BusinessID != nil {
			// Tenant-owned row: removing it for its own business is just a
			// plain tombstone.
			err = s.repos.EquipmentType.Tombstone(ctx, id, caller.Subject, now)
			break
		}
		err = s.consolidateGlobalDelete(ctx, caller, equipmentType, *caller.BusinessID, now)

	case DeleteFromAll:
		if !caller.IsPrivileged {
			return log.Err("from_all delete requires privilege", ErrNotFound, "id", id)
		}
		err = s.transaction.Execute(ctx, func(txCtx context.Context) error {
			rows, listErr := s.repos.EquipmentType.ListByName(txCtx, equipmentType.Name)
			if listErr != nil {
				return listErr
			}
			for _, row := range rows {
				if tombErr := s.repos.EquipmentType.Tombstone(txCtx, row.ID, caller.Subject, now); tombErr != nil {
					return tombErr
				}
			}
			return nil
		})

	default:
		return log.Err("unknown delete mode", fmt.Errorf("delete mode %q", mode))
	}

	if err != nil {
		return err
	}

	s.invalidateCatalog()
	return nil
}

// consolidateGlobalDelete removes a global type for one business without
// silently removing it for everyone else: businesses that relied on the
// global row get their own copy before the global row goes away.
func (s *CatalogService) consolidateGlobalDelete(
	ctx context.Context,
	caller Caller,
	global *EquipmentType,
	excludedBusinessID int,
	now time.Time,
) error {
	log := s.log.Function("consolidateGlobalDelete")

	return s.transaction.Execute(ctx, func(txCtx context.Context) error {
		businesses, err := s.repos.Business.List(txCtx)
		if err != nil {
			return err
		}

		sameName, err := s.repos.EquipmentType.ListByName(txCtx, global.Name)
		if err != nil {
			return err
		}
		hasOverride := make(map[int]bool)
		for _, row := range sameName {
			if row.BusinessID != nil {
				hasOverride[*row.BusinessID] = true
			}
		}

		for _, business := range businesses {
			if business.ID == excludedBusinessID || hasOverride[business.ID] {
				continue
			}
			businessID := business.ID
			override := &EquipmentType{
				BusinessID:       &businessID,
				Name:             global.Name,
				IntervalWeeks:    global.IntervalWeeks,
				Pattern:          global.Pattern,
				DefaultLeadWeeks: global.DefaultLeadWeeks,
				Active:           global.Active,
			}
			if _, err := s.repos.EquipmentType.Create(txCtx, override); err != nil {
				return log.Err("failed to materialize override during consolidation", err,
					"name", global.Name, "businessID", business.ID)
			}
		}

		return s.repos.EquipmentType.Tombstone(txCtx, global.ID, caller.Subject, now)
	})
}

// RestoreType clears a tombstone. If a live row took the name in the same
// scope while this one was deleted, the partial unique index rejects the
// restore and the caller gets a duplicate-name error.
func (s *CatalogService) RestoreType(ctx context.Context, caller Caller, id int) error {
	log := s.log.Function("RestoreType")

	if !caller.IsPrivileged {
		return log.Err("restore requires privilege", ErrNotFound, "id", id)
	}

	if err := s.repos.EquipmentType.Restore(ctx, id); err != nil {
		return err
	}

	s.invalidateCatalog()
	return nil
}

// invalidateCatalog drops every cached per-business resolution. Mutations are
// rare relative to reads, so flushing the whole index beats tracking which
// businesses a global change touches.
func (s *CatalogService) invalidateCatalog() {
	if err := database.FlushIndex(s.db.Cache.Catalog); err != nil {
		s.log.Function("invalidateCatalog").Warn("failed to flush catalog cache", "error", err)
	}
}

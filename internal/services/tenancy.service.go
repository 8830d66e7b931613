package services

import (
	"context"
	"time"
	"upkeep/internal/repositories"
	. "upkeep/internal/models"

	logger "github.com/Bparsons0904/goLogger"
)

// ClientRequest carries the writable fields of a client.
type ClientRequest struct {
	Name  string  `json:"name" validate:"required"`
	Notes *string `json:"notes,omitempty"`
}

// SiteRequest carries the writable fields of a site.
type SiteRequest struct {
	ClientID int     `json:"clientId" validate:"required"`
	Name     string  `json:"name"     validate:"required"`
	Address  *string `json:"address,omitempty"`
	Timezone string  `json:"timezone,omitempty"`
}

// TenancyService owns the business/client/site hierarchy. Deleting a node
// cascades tombstones down the tree in one transaction; restores never
// cascade back up or down.
type TenancyService struct {
	repos       repositories.Repository
	transaction Transactor
	log         logger.Logger
}

func NewTenancyService(repos repositories.Repository, transaction Transactor) *TenancyService {
	return &TenancyService{
		repos:       repos,
		transaction: transaction,
		log:         logger.New("tenancyService"),
	}
}

func (s *TenancyService) GetBusiness(ctx context.Context, id int) (*Business, error) {
	return s.repos.Business.GetByID(ctx, id)
}

func (s *TenancyService) ListBusinesses(ctx context.Context, caller Caller) ([]Business, error) {
	log := s.log.Function("ListBusinesses")

	if !caller.IsPrivileged {
		return nil, log.Err("listing businesses requires privilege", ErrNotFound)
	}
	return s.repos.Business.List(ctx)
}

func (s *TenancyService) CreateBusiness(ctx context.Context, caller Caller, name string) (*Business, error) {
	log := s.log.Function("CreateBusiness")

	if !caller.IsPrivileged {
		return nil, log.Err("creating a business requires privilege", ErrNotFound)
	}
	return s.repos.Business.Create(ctx, &Business{Name: name})
}

func (s *TenancyService) UpdateBusiness(
	ctx context.Context,
	caller Caller,
	id int,
	name string,
) (*Business, error) {
	log := s.log.Function("UpdateBusiness")

	if !caller.IsPrivileged {
		return nil, log.Err("updating a business requires privilege", ErrNotFound)
	}

	business, err := s.repos.Business.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	business.Name = name
	if err := s.repos.Business.Update(ctx, business); err != nil {
		return nil, err
	}
	return business, nil
}

func (s *TenancyService) GetClient(ctx context.Context, caller Caller, id int) (*Client, error) {
	return s.repos.Client.GetByID(ctx, caller, id)
}

func (s *TenancyService) ListClients(ctx context.Context, caller Caller) ([]Client, error) {
	return s.repos.Client.List(ctx, caller)
}

func (s *TenancyService) CreateClient(
	ctx context.Context,
	caller Caller,
	req ClientRequest,
) (*Client, error) {
	log := s.log.Function("CreateClient")

	if caller.BusinessID == nil {
		return nil, log.Err("client creation needs a business", ErrCrossScope)
	}

	client := &Client{
		BusinessID: *caller.BusinessID,
		Name:       req.Name,
		Notes:      req.Notes,
	}
	return s.repos.Client.Create(ctx, client)
}

func (s *TenancyService) UpdateClient(
	ctx context.Context,
	caller Caller,
	id int,
	req ClientRequest,
) (*Client, error) {
	client, err := s.repos.Client.GetByID(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	client.Name = req.Name
	client.Notes = req.Notes

	if err := s.repos.Client.Update(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

// DeleteClient tombstones the client and everything under it: its sites and
// its equipment records. One transaction; a half-cascaded tree never
// survives a failure.
func (s *TenancyService) DeleteClient(ctx context.Context, caller Caller, id int) error {
	if _, err := s.repos.Client.GetByID(ctx, caller, id); err != nil {
		return err
	}

	now := time.Now().UTC()
	return s.transaction.Execute(ctx, func(txCtx context.Context) error {
		if err := s.repos.Client.Tombstone(txCtx, id, caller.Subject, now); err != nil {
			return err
		}
		if err := s.repos.Site.TombstoneByClient(txCtx, id, caller.Subject, now); err != nil {
			return err
		}
		return s.repos.EquipmentRecord.TombstoneByClient(txCtx, id, caller.Subject, now)
	})
}

// RestoreClient clears the client's own tombstone only. Children tombstoned
// by the cascade stay deleted until restored individually.
func (s *TenancyService) RestoreClient(ctx context.Context, caller Caller, id int) error {
	log := s.log.Function("RestoreClient")

	if !caller.IsPrivileged {
		return log.Err("restore requires privilege", ErrNotFound, "id", id)
	}
	return s.repos.Client.Restore(ctx, id)
}

func (s *TenancyService) GetSite(ctx context.Context, caller Caller, id int) (*Site, error) {
	return s.repos.Site.GetByID(ctx, caller, id)
}

func (s *TenancyService) ListSites(ctx context.Context, caller Caller, clientID int) ([]Site, error) {
	if _, err := s.repos.Client.GetByID(ctx, caller, clientID); err != nil {
		return nil, err
	}
	return s.repos.Site.ListByClient(ctx, caller, clientID)
}

func (s *TenancyService) CreateSite(
	ctx context.Context,
	caller Caller,
	req SiteRequest,
) (*Site, error) {
	// The client lookup doubles as the scope check.
	client, err := s.repos.Client.GetByID(ctx, caller, req.ClientID)
	if err != nil {
		return nil, err
	}

	site := &Site{
		ClientID: client.ID,
		Name:     req.Name,
		Address:  req.Address,
	}
	if req.Timezone != "" {
		site.Timezone = req.Timezone
	}
	return s.repos.Site.Create(ctx, site)
}

func (s *TenancyService) UpdateSite(
	ctx context.Context,
	caller Caller,
	id int,
	req SiteRequest,
) (*Site, error) {
	log := s.log.Function("UpdateSite")

	site, err := s.repos.Site.GetByID(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if req.ClientID != site.ClientID {
		return nil, log.Err("sites cannot move between clients", ErrCrossScope,
			"siteID", site.ID, "clientID", req.ClientID)
	}

	site.Name = req.Name
	site.Address = req.Address
	if req.Timezone != "" {
		site.Timezone = req.Timezone
	}

	if err := s.repos.Site.Update(ctx, site); err != nil {
		return nil, err
	}
	return site, nil
}

// DeleteSite tombstones the site and its equipment records in one
// transaction.
func (s *TenancyService) DeleteSite(ctx context.Context, caller Caller, id int) error {
	if _, err := s.repos.Site.GetByID(ctx, caller, id); err != nil {
		return err
	}

	now := time.Now().UTC()
	return s.transaction.Execute(ctx, func(txCtx context.Context) error {
		if err := s.repos.Site.Tombstone(txCtx, id, caller.Subject, now); err != nil {
			return err
		}
		return s.repos.EquipmentRecord.TombstoneBySite(txCtx, id, caller.Subject, now)
	})
}

func (s *TenancyService) RestoreSite(ctx context.Context, caller Caller, id int) error {
	log := s.log.Function("RestoreSite")

	if !caller.IsPrivileged {
		return log.Err("restore requires privilege", ErrNotFound, "id", id)
	}
	return s.repos.Site.Restore(ctx, id)
}

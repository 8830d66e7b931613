package services

import (
	"context"
	"time"
	"upkeep/internal/repositories"
	. "upkeep/internal/models"
)

// passthroughTransactor runs the function directly; the in-memory fakes have
// no transactions to coordinate.
type passthroughTransactor struct{}

func (passthroughTransactor) Execute(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

type fakeBusinessRepo struct {
	businesses map[int]Business
	nextID     int
}

func newFakeBusinessRepo() *fakeBusinessRepo {
	return &fakeBusinessRepo{businesses: map[int]Business{}, nextID: 1}
}

func (r *fakeBusinessRepo) GetByID(ctx context.Context, id int) (*Business, error) {
	business, ok := r.businesses[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &business, nil
}

func (r *fakeBusinessRepo) List(ctx context.Context) ([]Business, error) {
	businesses := make([]Business, 0, len(r.businesses))
	for id := 1; id < r.nextID; id++ {
		if business, ok := r.businesses[id]; ok {
			businesses = append(businesses, business)
		}
	}
	return businesses, nil
}

func (r *fakeBusinessRepo) Create(ctx context.Context, business *Business) (*Business, error) {
	business.ID = r.nextID
	r.nextID++
	r.businesses[business.ID] = *business
	return business, nil
}

func (r *fakeBusinessRepo) Update(ctx context.Context, business *Business) error {
	if _, ok := r.businesses[business.ID]; !ok {
		return ErrNotFound
	}
	r.businesses[business.ID] = *business
	return nil
}

type fakeTypeRepo struct {
	types  map[int]EquipmentType
	nextID int
}

func newFakeTypeRepo() *fakeTypeRepo {
	return &fakeTypeRepo{types: map[int]EquipmentType{}, nextID: 1}
}

func (r *fakeTypeRepo) ordered() []EquipmentType {
	rows := make([]EquipmentType, 0, len(r.types))
	for id := 1; id < r.nextID; id++ {
		if row, ok := r.types[id]; ok {
			rows = append(rows, row)
		}
	}
	return rows
}

func (r *fakeTypeRepo) GetByID(ctx context.Context, caller Caller, id int) (*EquipmentType, error) {
	row, ok := r.types[id]
	if !ok || !Accessible(caller, &row, row.BusinessID) {
		return nil, ErrNotFound
	}
	return &row, nil
}

func (r *fakeTypeRepo) ListForBusiness(ctx context.Context, businessID int, includeDeleted bool) ([]EquipmentType, error) {
	var rows []EquipmentType
	for _, row := range r.ordered() {
		if !row.VisibleToBusiness(businessID) {
			continue
		}
		if !includeDeleted && row.IsDeleted() {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (r *fakeTypeRepo) ListByName(ctx context.Context, name string) ([]EquipmentType, error) {
	var rows []EquipmentType
	for _, row := range r.ordered() {
		if row.Name == name && !row.IsDeleted() {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func (r *fakeTypeRepo) ListAll(ctx context.Context, caller Caller) ([]EquipmentType, error) {
	var rows []EquipmentType
	for _, row := range r.ordered() {
		if !caller.WantsDeleted() && row.IsDeleted() {
			continue
		}
		if !caller.AllBusinesses() && caller.BusinessID != nil && !row.VisibleToBusiness(*caller.BusinessID) {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (r *fakeTypeRepo) sameScopeNameLive(candidate *EquipmentType) bool {
	for _, row := range r.types {
		if row.ID == candidate.ID || row.IsDeleted() || row.Name != candidate.Name {
			continue
		}
		if ScopeOf(row.BusinessID).Equal(ScopeOf(candidate.BusinessID)) {
			return true
		}
	}
	return false
}

func (r *fakeTypeRepo) Create(ctx context.Context, equipmentType *EquipmentType) (*EquipmentType, error) {
	if r.sameScopeNameLive(equipmentType) {
		return nil, ErrDuplicateName
	}
	equipmentType.ID = r.nextID
	r.nextID++
	r.types[equipmentType.ID] = *equipmentType
	return equipmentType, nil
}

func (r *fakeTypeRepo) Update(ctx context.Context, equipmentType *EquipmentType) error {
	if _, ok := r.types[equipmentType.ID]; !ok {
		return ErrNotFound
	}
	if r.sameScopeNameLive(equipmentType) {
		return ErrDuplicateName
	}
	r.types[equipmentType.ID] = *equipmentType
	return nil
}

func (r *fakeTypeRepo) Tombstone(ctx context.Context, id int, by string, at time.Time) error {
	row, ok := r.types[id]
	if !ok || row.IsDeleted() {
		return ErrNotFound
	}
	row.MarkDeleted(by, at)
	r.types[id] = row
	return nil
}

func (r *fakeTypeRepo) Restore(ctx context.Context, id int) error {
	row, ok := r.types[id]
	if !ok {
		return ErrNotFound
	}
	if !row.IsDeleted() {
		return ErrNotDeleted
	}
	restored := row
	restored.Tombstone = Tombstone{}
	if r.sameScopeNameLive(&restored) {
		return ErrDuplicateName
	}
	r.types[id] = restored
	return nil
}

type fakeClientRepo struct {
	clients map[int]Client
	nextID  int
}

func newFakeClientRepo() *fakeClientRepo {
	return &fakeClientRepo{clients: map[int]Client{}, nextID: 1}
}

func (r *fakeClientRepo) inScope(caller Caller, client Client) bool {
	if !caller.WantsDeleted() && client.IsDeleted() {
		return false
	}
	if caller.AllBusinesses() {
		return true
	}
	return caller.BusinessID != nil && client.BusinessID == *caller.BusinessID
}

func (r *fakeClientRepo) GetByID(ctx context.Context, caller Caller, id int) (*Client, error) {
	client, ok := r.clients[id]
	if !ok || !r.inScope(caller, client) {
		return nil, ErrNotFound
	}
	return &client, nil
}

func (r *fakeClientRepo) List(ctx context.Context, caller Caller) ([]Client, error) {
	var clients []Client
	for id := 1; id < r.nextID; id++ {
		if client, ok := r.clients[id]; ok && r.inScope(caller, client) {
			clients = append(clients, client)
		}
	}
	return clients, nil
}

func (r *fakeClientRepo) Create(ctx context.Context, client *Client) (*Client, error) {
	client.ID = r.nextID
	r.nextID++
	r.clients[client.ID] = *client
	return client, nil
}

func (r *fakeClientRepo) Update(ctx context.Context, client *Client) error {
	if _, ok := r.clients[client.ID]; !ok {
		return ErrNotFound
	}
	r.clients[client.ID] = *client
	return nil
}

func (r *fakeClientRepo) Tombstone(ctx context.Context, id int, by string, at time.Time) error {
	client, ok := r.clients[id]
	if !ok || client.IsDeleted() {
		return ErrNotFound
	}
	client.MarkDeleted(by, at)
	r.clients[id] = client
	return nil
}

func (r *fakeClientRepo) Restore(ctx context.Context, id int) error {
	client, ok := r.clients[id]
	if !ok {
		return ErrNotFound
	}
	if !client.IsDeleted() {
		return ErrNotDeleted
	}
	client.Tombstone = Tombstone{}
	r.clients[id] = client
	return nil
}

type fakeSiteRepo struct {
	sites   map[int]Site
	clients *fakeClientRepo
	nextID  int
}

func newFakeSiteRepo(clients *fakeClientRepo) *fakeSiteRepo {
	return &fakeSiteRepo{sites: map[int]Site{}, clients: clients, nextID: 1}
}

func (r *fakeSiteRepo) inScope(caller Caller, site Site) bool {
	if !caller.WantsDeleted() && site.IsDeleted() {
		return false
	}
	if caller.AllBusinesses() {
		return true
	}
	client, ok := r.clients.clients[site.ClientID]
	return ok && caller.BusinessID != nil && client.BusinessID == *caller.BusinessID
}

func (r *fakeSiteRepo) GetByID(ctx context.Context, caller Caller, id int) (*Site, error) {
	site, ok := r.sites[id]
	if !ok || !r.inScope(caller, site) {
		return nil, ErrNotFound
	}
	return &site, nil
}

func (r *fakeSiteRepo) ListByClient(ctx context.Context, caller Caller, clientID int) ([]Site, error) {
	var sites []Site
	for id := 1; id < r.nextID; id++ {
		if site, ok := r.sites[id]; ok && site.ClientID == clientID && r.inScope(caller, site) {
			sites = append(sites, site)
		}
	}
	return sites, nil
}

func (r *fakeSiteRepo) Create(ctx context.Context, site *Site) (*Site, error) {
	site.ID = r.nextID
	r.nextID++
	r.sites[site.ID] = *site
	return site, nil
}

func (r *fakeSiteRepo) Update(ctx context.Context, site *Site) error {
	if _, ok := r.sites[site.ID]; !ok {
		return ErrNotFound
	}
	r.sites[site.ID] = *site
	return nil
}

func (r *fakeSiteRepo) Tombstone(ctx context.Context, id int, by string, at time.Time) error {
	site, ok := r.sites[id]
	if !ok || site.IsDeleted() {
		return ErrNotFound
	}
	site.MarkDeleted(by, at)
	r.sites[id] = site
	return nil
}

func (r *fakeSiteRepo) TombstoneByClient(ctx context.Context, clientID int, by string, at time.Time) error {
	for id, site := range r.sites {
		if site.ClientID == clientID && !site.IsDeleted() {
			site.MarkDeleted(by, at)
			r.sites[id] = site
		}
	}
	return nil
}

func (r *fakeSiteRepo) Restore(ctx context.Context, id int) error {
	site, ok := r.sites[id]
	if !ok {
		return ErrNotFound
	}
	if !site.IsDeleted() {
		return ErrNotDeleted
	}
	site.Tombstone = Tombstone{}
	r.sites[id] = site
	return nil
}

type fakeRecordRepo struct {
	records map[int]EquipmentRecord
	clients *fakeClientRepo
	nextID  int
}

func newFakeRecordRepo(clients *fakeClientRepo) *fakeRecordRepo {
	return &fakeRecordRepo{records: map[int]EquipmentRecord{}, clients: clients, nextID: 1}
}

func (r *fakeRecordRepo) inScope(caller Caller, record EquipmentRecord) bool {
	if !caller.WantsDeleted() && record.IsDeleted() {
		return false
	}
	if caller.AllBusinesses() {
		return true
	}
	client, ok := r.clients.clients[record.ClientID]
	return ok && caller.BusinessID != nil && client.BusinessID == *caller.BusinessID
}

func (r *fakeRecordRepo) GetByID(ctx context.Context, caller Caller, id int) (*EquipmentRecord, error) {
	record, ok := r.records[id]
	if !ok || !r.inScope(caller, record) {
		return nil, ErrNotFound
	}
	return &record, nil
}

func (r *fakeRecordRepo) List(ctx context.Context, caller Caller, filter repositories.RecordFilter) ([]EquipmentRecord, error) {
	var records []EquipmentRecord
	for id := 1; id < r.nextID; id++ {
		record, ok := r.records[id]
		if !ok || !r.inScope(caller, record) {
			continue
		}
		if filter.ClientID != nil && record.ClientID != *filter.ClientID {
			continue
		}
		if filter.SiteID != nil && record.SiteID != *filter.SiteID {
			continue
		}
		if filter.ActiveOnly && !record.Active {
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

func (r *fakeRecordRepo) Create(ctx context.Context, record *EquipmentRecord) (*EquipmentRecord, error) {
	record.ID = r.nextID
	r.nextID++
	r.records[record.ID] = *record
	return record, nil
}

func (r *fakeRecordRepo) Update(ctx context.Context, record *EquipmentRecord) error {
	if _, ok := r.records[record.ID]; !ok {
		return ErrNotFound
	}
	r.records[record.ID] = *record
	return nil
}

func (r *fakeRecordRepo) Tombstone(ctx context.Context, id int, by string, at time.Time) error {
	record, ok := r.records[id]
	if !ok || record.IsDeleted() {
		return ErrNotFound
	}
	record.MarkDeleted(by, at)
	r.records[id] = record
	return nil
}

func (r *fakeRecordRepo) TombstoneBySite(ctx context.Context, siteID int, by string, at time.Time) error {
	for id, record := range r.records {
		if record.SiteID == siteID && !record.IsDeleted() {
			record.MarkDeleted(by, at)
			r.records[id] = record
		}
	}
	return nil
}

func (r *fakeRecordRepo) TombstoneByClient(ctx context.Context, clientID int, by string, at time.Time) error {
	for id, record := range r.records {
		if record.ClientID == clientID && !record.IsDeleted() {
			record.MarkDeleted(by, at)
			r.records[id] = record
		}
	}
	return nil
}

func (r *fakeRecordRepo) Restore(ctx context.Context, id int) error {
	record, ok := r.records[id]
	if !ok {
		return ErrNotFound
	}
	if !record.IsDeleted() {
		return ErrNotDeleted
	}
	record.Tombstone = Tombstone{}
	r.records[id] = record
	return nil
}

type fakeCompletionRepo struct {
	completions map[int]EquipmentCompletion
	records     *fakeRecordRepo
	nextID      int
}

func newFakeCompletionRepo(records *fakeRecordRepo) *fakeCompletionRepo {
	return &fakeCompletionRepo{
		completions: map[int]EquipmentCompletion{},
		records:     records,
		nextID:      1,
	}
}

func (r *fakeCompletionRepo) GetByID(ctx context.Context, id int) (*EquipmentCompletion, error) {
	completion, ok := r.completions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &completion, nil
}

func (r *fakeCompletionRepo) ListByRecord(ctx context.Context, recordID int) ([]EquipmentCompletion, error) {
	var completions []EquipmentCompletion
	for id := 1; id < r.nextID; id++ {
		if completion, ok := r.completions[id]; ok && completion.EquipmentRecordID == recordID {
			completions = append(completions, completion)
		}
	}
	return completions, nil
}

func (r *fakeCompletionRepo) ListByBusiness(ctx context.Context, businessID int) ([]EquipmentCompletion, error) {
	var completions []EquipmentCompletion
	for id := 1; id < r.nextID; id++ {
		completion, ok := r.completions[id]
		if !ok {
			continue
		}
		record, ok := r.records.records[completion.EquipmentRecordID]
		if !ok {
			continue
		}
		client, ok := r.records.clients.clients[record.ClientID]
		if ok && client.BusinessID == businessID {
			completions = append(completions, completion)
		}
	}
	return completions, nil
}

func (r *fakeCompletionRepo) Create(ctx context.Context, completion *EquipmentCompletion) (*EquipmentCompletion, error) {
	if completion.CompletedAt.IsZero() {
		completion.CompletedAt = time.Now().UTC()
	}
	completion.ID = r.nextID
	r.nextID++
	r.completions[completion.ID] = *completion
	return completion, nil
}

func (r *fakeCompletionRepo) HardDelete(ctx context.Context, id int) error {
	if _, ok := r.completions[id]; !ok {
		return ErrNotFound
	}
	delete(r.completions, id)
	return nil
}

// testEnv wires every fake into one Repository plus the services under test.
type testEnv struct {
	businesses  *fakeBusinessRepo
	clients     *fakeClientRepo
	sites       *fakeSiteRepo
	records     *fakeRecordRepo
	completions *fakeCompletionRepo
	types       *fakeTypeRepo
	repos       repositories.Repository
}

func newTestEnv() *testEnv {
	businesses := newFakeBusinessRepo()
	clients := newFakeClientRepo()
	sites := newFakeSiteRepo(clients)
	records := newFakeRecordRepo(clients)
	completions := newFakeCompletionRepo(records)
	types := newFakeTypeRepo()

	return &testEnv{
		businesses:  businesses,
		clients:     clients,
		sites:       sites,
		records:     records,
		completions: completions,
		types:       types,
		repos: repositories.Repository{
			Business:        businesses,
			Client:          clients,
			Site:            sites,
			EquipmentType:   types,
			EquipmentRecord: records,
			Completion:      completions,
		},
	}
}

func intPtr(i int) *int { return &i }

func tenantCaller(businessID int) Caller {
	return Caller{Subject: "tester@example.com", BusinessID: &businessID}
}

func adminCaller() Caller {
	return Caller{Subject: "admin@example.com", IsPrivileged: true}
}

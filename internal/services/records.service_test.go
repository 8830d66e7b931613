package services

import (
	"context"
	"testing"
	"time"
	. "upkeep/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordsFixture struct {
	env      *testEnv
	records  *RecordsService
	business Business
	client   Client
	site     Site
	ctType   EquipmentType
}

func newRecordsFixture(t *testing.T) *recordsFixture {
	t.Helper()
	ctx := context.Background()
	env := newTestEnv()

	business, err := env.businesses.Create(ctx, &Business{Name: "alpha"})
	require.NoError(t, err)
	client, err := env.clients.Create(ctx, &Client{BusinessID: business.ID, Name: "Mercy General"})
	require.NoError(t, err)
	site, err := env.sites.Create(ctx, &Site{ClientID: client.ID, Name: "Main Campus"})
	require.NoError(t, err)
	ctType := seedType(t, env, nil, "CT", 52)

	return &recordsFixture{
		env:      env,
		records:  NewRecordsService(env.repos),
		business: *business,
		client:   *client,
		site:     *site,
		ctType:   ctType,
	}
}

func (f *recordsFixture) caller() Caller {
	return tenantCaller(f.business.ID)
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestRecordCreateValidatesReferences(t *testing.T) {
	f := newRecordsFixture(t)
	ctx := context.Background()

	base := EquipmentRecordRequest{
		ClientID:        f.client.ID,
		SiteID:          f.site.ID,
		EquipmentTypeID: f.ctType.ID,
		Name:            "CT Scanner 1",
		AnchorDate:      date(2024, time.January, 1),
		IntervalWeeks:   52,
	}

	t.Run("valid record", func(t *testing.T) {
		created, err := f.records.Create(ctx, f.caller(), base)
		require.NoError(t, err)
		assert.True(t, created.Active)
		assert.Equal(t, date(2024, time.January, 1), created.AnchorDate)
	})

	t.Run("site of another client is cross-scope", func(t *testing.T) {
		otherClient, err := f.env.clients.Create(ctx, &Client{BusinessID: f.business.ID, Name: "Other Clinic"})
		require.NoError(t, err)

		req := base
		req.ClientID = otherClient.ID
		_, err = f.records.Create(ctx, f.caller(), req)
		assert.ErrorIs(t, err, ErrCrossScope)
	})

	t.Run("type owned by another business is cross-scope", func(t *testing.T) {
		otherBusiness, err := f.env.businesses.Create(ctx, &Business{Name: "beta"})
		require.NoError(t, err)
		foreignType := seedType(t, f.env, intPtr(otherBusiness.ID), "MRI", 52)

		req := base
		req.EquipmentTypeID = foreignType.ID
		_, err = f.records.Create(ctx, f.caller(), req)
		// The foreign type is invisible to this caller, so the lookup itself
		// reports absence.
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("client of another business is invisible", func(t *testing.T) {
		otherBusiness, err := f.env.businesses.Create(ctx, &Business{Name: "gamma"})
		require.NoError(t, err)
		foreignClient, err := f.env.clients.Create(ctx, &Client{BusinessID: otherBusiness.ID, Name: "Foreign"})
		require.NoError(t, err)

		req := base
		req.ClientID = foreignClient.ID
		_, err = f.records.Create(ctx, f.caller(), req)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestRecordUpdateMovesDueDate(t *testing.T) {
	f := newRecordsFixture(t)
	ctx := context.Background()

	due := date(2025, time.March, 1)
	created, err := f.records.Create(ctx, f.caller(), EquipmentRecordRequest{
		ClientID:        f.client.ID,
		SiteID:          f.site.ID,
		EquipmentTypeID: f.ctType.ID,
		Name:            "CT Scanner 1",
		AnchorDate:      date(2024, time.January, 1),
		DueDate:         &due,
		IntervalWeeks:   52,
	})
	require.NoError(t, err)
	require.NotNil(t, created.DueDate)

	newDue := date(2026, time.March, 1)
	updated, err := f.records.Update(ctx, f.caller(), created.ID, EquipmentRecordRequest{
		ClientID:        f.client.ID,
		SiteID:          f.site.ID,
		EquipmentTypeID: f.ctType.ID,
		Name:            "CT Scanner 1",
		AnchorDate:      date(2024, time.January, 1),
		DueDate:         &newDue,
		IntervalWeeks:   52,
	})
	require.NoError(t, err)
	require.NotNil(t, updated.DueDate)
	assert.Equal(t, newDue, *updated.DueDate)
}

func TestRecordNextOccurrence(t *testing.T) {
	f := newRecordsFixture(t)
	ctx := context.Background()

	created, err := f.records.Create(ctx, f.caller(), EquipmentRecordRequest{
		ClientID:        f.client.ID,
		SiteID:          f.site.ID,
		EquipmentTypeID: f.ctType.ID,
		Name:            "Audit Schedule",
		AnchorDate:      date(2024, time.January, 1),
		IntervalWeeks:   13,
	})
	require.NoError(t, err)

	next, err := f.records.NextOccurrence(ctx, f.caller(), created.ID, date(2024, time.June, 1))
	require.NoError(t, err)
	assert.Equal(t, date(2024, time.July, 1), next)
}

func TestRecordWindows(t *testing.T) {
	f := newRecordsFixture(t)
	ctx := context.Background()
	today := time.Now().UTC()

	mkRecord := func(name string, due *time.Time, active bool) {
		t.Helper()
		activeFlag := active
		_, err := f.records.Create(ctx, f.caller(), EquipmentRecordRequest{
			ClientID:        f.client.ID,
			SiteID:          f.site.ID,
			EquipmentTypeID: f.ctType.ID,
			Name:            name,
			AnchorDate:      date(2024, time.January, 1),
			DueDate:         due,
			IntervalWeeks:   52,
			Active:          &activeFlag,
		})
		require.NoError(t, err)
	}

	overdueDate := today.AddDate(0, 0, -10)
	soonDate := today.AddDate(0, 0, 7)
	farDate := today.AddDate(0, 6, 0)

	mkRecord("overdue", &overdueDate, true)
	mkRecord("soon", &soonDate, true)
	mkRecord("far", &farDate, true)
	mkRecord("inactive", &overdueDate, false)
	mkRecord("no due date", nil, true)

	overdue, err := f.records.Overdue(ctx, f.caller())
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, "overdue", overdue[0].Name)

	upcoming, window, err := f.records.Upcoming(ctx, f.caller(), UpcomingQuery{})
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, "soon", upcoming[0].Name)
	assert.Equal(t, 14, int(window.End.Sub(window.Start).Hours()/24))
}

func TestRecordDeleteRestore(t *testing.T) {
	f := newRecordsFixture(t)
	ctx := context.Background()

	created, err := f.records.Create(ctx, f.caller(), EquipmentRecordRequest{
		ClientID:        f.client.ID,
		SiteID:          f.site.ID,
		EquipmentTypeID: f.ctType.ID,
		Name:            "CT Scanner 1",
		AnchorDate:      date(2024, time.January, 1),
		IntervalWeeks:   52,
	})
	require.NoError(t, err)

	require.NoError(t, f.records.Delete(ctx, f.caller(), created.ID))

	_, err = f.records.Get(ctx, f.caller(), created.ID)
	assert.ErrorIs(t, err, ErrNotFound, "tombstoned record reads as absent")

	t.Run("restore requires privilege", func(t *testing.T) {
		assert.ErrorIs(t, f.records.Restore(ctx, f.caller(), created.ID), ErrNotFound)
	})

	t.Run("privileged restore brings it back", func(t *testing.T) {
		require.NoError(t, f.records.Restore(ctx, adminCaller(), created.ID))
		record, err := f.records.Get(ctx, f.caller(), created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, record.ID)
	})

	t.Run("restoring a live record fails", func(t *testing.T) {
		assert.ErrorIs(t, f.records.Restore(ctx, adminCaller(), created.ID), ErrNotDeleted)
	})
}

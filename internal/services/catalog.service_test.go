package services

import (
	"context"
	"testing"
	"upkeep/internal/database"
	. "upkeep/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalogEnv(t *testing.T) (*testEnv, *CatalogService) {
	t.Helper()
	env := newTestEnv()
	catalog := NewCatalogService(env.repos, database.DB{}, passthroughTransactor{})
	return env, catalog
}

func seedBusinesses(t *testing.T, env *testEnv, names ...string) []Business {
	t.Helper()
	businesses := make([]Business, 0, len(names))
	for _, name := range names {
		business, err := env.businesses.Create(context.Background(), &Business{Name: name})
		require.NoError(t, err)
		businesses = append(businesses, *business)
	}
	return businesses
}

func seedType(t *testing.T, env *testEnv, businessID *int, name string, intervalWeeks int) EquipmentType {
	t.Helper()
	created, err := env.types.Create(context.Background(), &EquipmentType{
		BusinessID:    businessID,
		Name:          name,
		IntervalWeeks: intervalWeeks,
		Pattern:       "FREQ=WEEKLY;INTERVAL=52",
		Active:        true,
	})
	require.NoError(t, err)
	return *created
}

func TestResolveShadowing(t *testing.T) {
	env, catalog := newCatalogEnv(t)
	businesses := seedBusinesses(t, env, "alpha", "beta")

	seedType(t, env, nil, "X-ray/CT physics testing", 52)
	seedType(t, env, nil, "NM Audit", 13)
	override := seedType(t, env, intPtr(businesses[0].ID), "NM Audit", 26)

	resolved, err := catalog.Resolve(context.Background(), businesses[0].ID)
	require.NoError(t, err)

	names := map[string]EquipmentType{}
	for _, row := range resolved {
		_, seen := names[row.Name]
		assert.False(t, seen, "name %q resolved more than once", row.Name)
		names[row.Name] = row
	}

	require.Len(t, resolved, 2)
	assert.Equal(t, override.ID, names["NM Audit"].ID, "tenant override should shadow the global row")
	assert.Nil(t, names["X-ray/CT physics testing"].BusinessID)

	// The other business still resolves the global NM Audit.
	resolvedOther, err := catalog.Resolve(context.Background(), businesses[1].ID)
	require.NoError(t, err)
	require.Len(t, resolvedOther, 2)
	for _, row := range resolvedOther {
		assert.Nil(t, row.BusinessID)
	}
}

func TestCreateTypeScopeRules(t *testing.T) {
	env, catalog := newCatalogEnv(t)
	businesses := seedBusinesses(t, env, "alpha")
	ctx := context.Background()

	t.Run("tenant caller creates into own business", func(t *testing.T) {
		created, err := catalog.CreateType(ctx, tenantCaller(businesses[0].ID), EquipmentTypeRequest{
			Name:          "Mammography",
			IntervalWeeks: 52,
		})
		require.NoError(t, err)
		require.NotNil(t, created.BusinessID)
		assert.Equal(t, businesses[0].ID, *created.BusinessID)
		assert.Equal(t, "FREQ=WEEKLY;INTERVAL=52", created.Pattern)
	})

	t.Run("global creation requires privilege", func(t *testing.T) {
		_, err := catalog.CreateType(ctx, tenantCaller(businesses[0].ID), EquipmentTypeRequest{
			Name:          "CT",
			IntervalWeeks: 52,
			Global:        true,
		})
		assert.ErrorIs(t, err, ErrCrossScope)

		created, err := catalog.CreateType(ctx, adminCaller(), EquipmentTypeRequest{
			Name:          "CT",
			IntervalWeeks: 52,
			Global:        true,
		})
		require.NoError(t, err)
		assert.Nil(t, created.BusinessID)
	})

	t.Run("duplicate name in same scope is rejected", func(t *testing.T) {
		_, err := catalog.CreateType(ctx, tenantCaller(businesses[0].ID), EquipmentTypeRequest{
			Name:          "Mammography",
			IntervalWeeks: 26,
		})
		assert.ErrorIs(t, err, ErrDuplicateName)
	})

	t.Run("same name in a different scope is allowed", func(t *testing.T) {
		created, err := catalog.CreateType(ctx, adminCaller(), EquipmentTypeRequest{
			Name:          "Mammography",
			IntervalWeeks: 52,
			Global:        true,
		})
		require.NoError(t, err)
		assert.Nil(t, created.BusinessID)
	})

	t.Run("malformed pattern is rejected", func(t *testing.T) {
		_, err := catalog.CreateType(ctx, tenantCaller(businesses[0].ID), EquipmentTypeRequest{
			Name:          "Fluoroscopy",
			IntervalWeeks: 52,
			Pattern:       "FREQ=MONTHLY;INTERVAL=1",
		})
		assert.ErrorIs(t, err, ErrRecurrencePattern)
	})
}

func TestDeleteTypeConsolidation(t *testing.T) {
	env, catalog := newCatalogEnv(t)
	businesses := seedBusinesses(t, env, "alpha", "beta", "gamma")
	ctx := context.Background()

	global := seedType(t, env, nil, "NM Audit", 13)
	// beta already carries its own override.
	betaOverride := seedType(t, env, intPtr(businesses[1].ID), "NM Audit", 26)

	deleter := Caller{
		Subject:      "admin@example.com",
		BusinessID:   intPtr(businesses[0].ID),
		IsPrivileged: true,
	}
	require.NoError(t, catalog.DeleteType(ctx, deleter, global.ID, DeleteFromBusiness))

	// alpha no longer sees the name at all.
	resolved, err := catalog.Resolve(ctx, businesses[0].ID)
	require.NoError(t, err)
	for _, row := range resolved {
		assert.NotEqual(t, "NM Audit", row.Name)
	}

	// beta keeps its own override untouched.
	resolved, err = catalog.Resolve(ctx, businesses[1].ID)
	require.NoError(t, err)
	require.Len(t, resolved, 1)
	assert.Equal(t, betaOverride.ID, resolved[0].ID)
	assert.Equal(t, 26, resolved[0].IntervalWeeks)

	// gamma relied on the global row and got a materialized copy.
	resolved, err = catalog.Resolve(ctx, businesses[2].ID)
	require.NoError(t, err)
	require.Len(t, resolved, 1)
	require.NotNil(t, resolved[0].BusinessID)
	assert.Equal(t, businesses[2].ID, *resolved[0].BusinessID)
	assert.Equal(t, global.IntervalWeeks, resolved[0].IntervalWeeks)
	assert.Equal(t, global.Pattern, resolved[0].Pattern)
}

func TestDeleteTypeFromAll(t *testing.T) {
	env, catalog := newCatalogEnv(t)
	businesses := seedBusinesses(t, env, "alpha", "beta")
	ctx := context.Background()

	global := seedType(t, env, nil, "CT", 52)
	seedType(t, env, intPtr(businesses[0].ID), "CT", 26)

	t.Run("requires privilege", func(t *testing.T) {
		err := catalog.DeleteType(ctx, tenantCaller(businesses[0].ID), global.ID, DeleteFromAll)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("tombstones every scope sharing the name", func(t *testing.T) {
		require.NoError(t, catalog.DeleteType(ctx, adminCaller(), global.ID, DeleteFromAll))

		for _, business := range businesses {
			resolved, err := catalog.Resolve(ctx, business.ID)
			require.NoError(t, err)
			assert.Empty(t, resolved)
		}
	})
}

func TestRestoreType(t *testing.T) {
	env, catalog := newCatalogEnv(t)
	businesses := seedBusinesses(t, env, "alpha")
	ctx := context.Background()
	admin := adminCaller()

	created := seedType(t, env, intPtr(businesses[0].ID), "Ultrasound", 52)

	t.Run("restore of a live row fails", func(t *testing.T) {
		assert.ErrorIs(t, catalog.RestoreType(ctx, admin, created.ID), ErrNotDeleted)
	})

	t.Run("round trip", func(t *testing.T) {
		require.NoError(t, catalog.DeleteType(ctx, admin, created.ID, DeleteSpecific))

		resolved, err := catalog.Resolve(ctx, businesses[0].ID)
		require.NoError(t, err)
		assert.Empty(t, resolved)

		require.NoError(t, catalog.RestoreType(ctx, admin, created.ID))

		resolved, err = catalog.Resolve(ctx, businesses[0].ID)
		require.NoError(t, err)
		require.Len(t, resolved, 1)
		assert.Equal(t, created.ID, resolved[0].ID)
	})

	t.Run("restore requires privilege", func(t *testing.T) {
		require.NoError(t, catalog.DeleteType(ctx, admin, created.ID, DeleteSpecific))
		err := catalog.RestoreType(ctx, tenantCaller(businesses[0].ID), created.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("restore into a taken name fails", func(t *testing.T) {
		seedType(t, env, intPtr(businesses[0].ID), "Ultrasound", 26)
		err := catalog.RestoreType(ctx, admin, created.ID)
		assert.ErrorIs(t, err, ErrDuplicateName)
	})
}

func TestGroupedByName(t *testing.T) {
	env, catalog := newCatalogEnv(t)
	businesses := seedBusinesses(t, env, "alpha", "beta")
	ctx := context.Background()

	seedType(t, env, nil, "NM Audit", 13)
	seedType(t, env, intPtr(businesses[0].ID), "NM Audit", 26)
	seedType(t, env, intPtr(businesses[1].ID), "NM Audit", 52)
	seedType(t, env, nil, "CT", 52)

	_, err := catalog.GroupedByName(ctx, tenantCaller(businesses[0].ID))
	assert.ErrorIs(t, err, ErrNotFound, "grouped view is privileged-only")

	groups, err := catalog.GroupedByName(ctx, adminCaller())
	require.NoError(t, err)
	require.Len(t, groups, 2)

	byName := map[string]TypeNameGroup{}
	for _, group := range groups {
		byName[group.Name] = group
	}

	// The transient multi-owner state is reported, not collapsed.
	audit := byName["NM Audit"]
	require.Len(t, audit.Owners, 3)
	assert.True(t, audit.Owners[0].IsGlobal() || audit.Owners[1].IsGlobal() || audit.Owners[2].IsGlobal())

	ct := byName["CT"]
	require.Len(t, ct.Owners, 1)
	assert.True(t, ct.Owners[0].IsGlobal())
}

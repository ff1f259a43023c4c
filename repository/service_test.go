package repository_test

import (
	"context"
	"testing"

	"github.com/BerniceZTT/case_end/models"
	"github.com/BerniceZTT/case_end/repository"
	"github.com/BerniceZTT/case_end/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceRepoListAndUpdate(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := repository.NewServiceRepository(db)

	food := testutil.SeedService(t, db, "Food Pantry")
	testutil.SeedService(t, db, "Counseling")

	inactive := &models.Service{Name: "Legacy Program", IsActive: false}
	require.NoError(t, repo.Create(ctx, inactive))

	stored, err := repo.GetByID(ctx, inactive.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)

	active, err := repo.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "Counseling", active[0].Name)

	all, err := repo.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	require.NoError(t, repo.Update(ctx, food.ID, map[string]interface{}{"is_active": false}))
	got, err := repo.GetByID(ctx, food.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	err = repo.Update(ctx, 999, map[string]interface{}{"name": "x"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestServiceRepoMissingIDs(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := repository.NewServiceRepository(db)

	a := testutil.SeedService(t, db, "A")
	b := testutil.SeedService(t, db, "B")

	missing, err := repo.MissingIDs(ctx, []int64{a.ID, b.ID})
	require.NoError(t, err)
	assert.Empty(t, missing)

	missing, err = repo.MissingIDs(ctx, []int64{a.ID, 77, b.ID, 78})
	require.NoError(t, err)
	assert.Equal(t, []int64{77, 78}, missing)

	missing, err = repo.MissingIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestServiceRepoInactiveIDs(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := repository.NewServiceRepository(db)

	a := testutil.SeedService(t, db, "A")
	b := testutil.SeedService(t, db, "B")
	require.NoError(t, repo.Update(ctx, b.ID, map[string]interface{}{"is_active": false}))

	inactive, err := repo.InactiveIDs(ctx, []int64{a.ID, b.ID, 77})
	require.NoError(t, err)
	assert.Equal(t, []int64{b.ID}, inactive)

	inactive, err = repo.InactiveIDs(ctx, []int64{a.ID})
	require.NoError(t, err)
	assert.Empty(t, inactive)
}

func TestGetDatabaseStatus(t *testing.T) {
	db := testutil.DB(t)
	testutil.SeedService(t, db, "A")

	status := repository.GetDatabaseStatus(context.Background(), db)
	require.Contains(t, status, "services")
	assert.Equal(t, map[string]interface{}{"count": int64(1)}, status["services"])
	assert.Equal(t, map[string]interface{}{"count": int64(0)}, status["follow_ups"])
}

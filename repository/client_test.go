package repository_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/BerniceZTT/case_end/models"
	"github.com/BerniceZTT/case_end/repository"
	"github.com/BerniceZTT/case_end/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientRepoSearch(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	user := testutil.SeedUser(t, db, "Ada", "Lovelace", models.UserRoleCASE_WORKER)
	testutil.SeedClient(t, db, user.ID, "Grace", "Hopper", "10001", "555-0100")
	testutil.SeedClient(t, db, user.ID, "Alan", "Turing", "20002", "555-0199")
	testutil.SeedClient(t, db, user.ID, "Barbara", "Liskov", "10010", "444-1234")

	repo := repository.NewClientRepository(db)

	cases := []struct {
		name   string
		search models.ClientSearch
		want   []string
	}{
		{name: "no filter", search: models.ClientSearch{}, want: []string{"Barbara", "Alan", "Grace"}},
		{name: "full name case insensitive", search: models.ClientSearch{Name: "grace HOP"}, want: []string{"Grace"}},
		{name: "zip prefix", search: models.ClientSearch{Zip: "100"}, want: []string{"Barbara", "Grace"}},
		{name: "phone substring", search: models.ClientSearch{Phone: "0199"}, want: []string{"Alan"}},
		{name: "wildcards stripped", search: models.ClientSearch{Name: "%"}, want: []string{"Barbara", "Alan", "Grace"}},
		{name: "combined", search: models.ClientSearch{Name: "a", Zip: "2"}, want: []string{"Alan"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			total, err := repo.Count(ctx, tc.search)
			require.NoError(t, err)
			assert.Equal(t, int64(len(tc.want)), total)

			clients, err := repo.List(ctx, tc.search, 0, 10)
			require.NoError(t, err)
			var names []string
			for _, c := range clients {
				names = append(names, c.FirstName)
			}
			assert.Equal(t, tc.want, names)
		})
	}
}

func TestClientRepoPaging(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	user := testutil.SeedUser(t, db, "Ada", "Lovelace", models.UserRoleCASE_WORKER)
	for i := 0; i < 5; i++ {
		testutil.SeedClient(t, db, user.ID, fmt.Sprintf("Client%d", i), "Test", "", "")
	}

	repo := repository.NewClientRepository(db)
	page, err := repo.List(ctx, models.ClientSearch{}, 4, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "Client0", page[0].FirstName)
	assert.Equal(t, "Ada Lovelace", page[0].Creator.FullName())
}

func TestClientRepoGetByID(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	user := testutil.SeedUser(t, db, "Ada", "Lovelace", models.UserRoleCASE_WORKER)
	seeded := testutil.SeedClient(t, db, user.ID, "Grace", "Hopper", "10001", "")

	repo := repository.NewClientRepository(db)

	got, err := repo.GetByID(ctx, seeded.ID)
	require.NoError(t, err)
	view := got.View()
	assert.Equal(t, "Grace Hopper", view.FullName)
	assert.Equal(t, models.ClientCreator{UserID: user.ID, FullName: "Ada Lovelace"}, view.CreatedBy)

	exists, err := repo.Exists(ctx, seeded.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.Exists(ctx, seeded.ID+100)
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = repo.GetByID(ctx, seeded.ID+100)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

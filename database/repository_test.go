package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type user struct {
	ID   uint   `gorm:"primarykey"`
	Name string `gorm:"size:64"`
}

func newUserRepo(t *testing.T) *Repository[user] {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&user{}))
	return NewRepository[user](db)
}

func TestRepositoryCRUD(t *testing.T) {
	repo := newUserRepo(t)
	ctx := context.Background()

	u := &user{Name: "alice"}
	require.NoError(t, repo.Create(ctx, u))
	require.NotZero(t, u.ID)

	got, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Name)

	got.Name = "bob"
	require.NoError(t, repo.Update(ctx, got))

	again, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob", again.Name)

	exists, err := repo.Exists(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, repo.Delete(ctx, u.ID))
	_, err = repo.FindByID(ctx, u.ID)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestRepositoryFindAllAndCount(t *testing.T) {
	repo := newUserRepo(t)
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, repo.Create(ctx, &user{Name: name}))
	}

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
}

func TestRepositoryPaginate(t *testing.T) {
	repo := newUserRepo(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Create(ctx, &user{Name: "u"}))
	}

	page, total, err := repo.Paginate(ctx, 2, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	assert.Len(t, page, 2)

	// Out-of-range pages return an empty slice, not an error.
	page, _, err = repo.Paginate(ctx, 10, 2)
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestRepositoryTransactionRollback(t *testing.T) {
	repo := newUserRepo(t)
	ctx := context.Background()

	err := repo.Transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(&user{Name: "tmp"}).Error; err != nil {
			return err
		}
		return assert.AnError
	})
	require.Error(t, err)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

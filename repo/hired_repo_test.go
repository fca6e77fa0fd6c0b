package repo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skryldev/hiring-api/db"
	"github.com/Skryldev/hiring-api/models"
	"github.com/Skryldev/hiring-api/repo"
)

func TestHiredRepo_Insert_NullColumns(t *testing.T) {
	r := repo.NewHiredRepo(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, r.Insert(ctx, models.CreateHiredParams{
		ID:           1,
		Name:         strp("Ada"),
		Datetime:     strp("2021-07-27T16:02:08Z"),
		DepartmentID: i64p(3),
	}))

	h, err := r.GetByID(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, h.Name)
	assert.Equal(t, "Ada", *h.Name)
	require.NotNil(t, h.DepartmentID)
	assert.Equal(t, int64(3), *h.DepartmentID)
	assert.Nil(t, h.JobID, "absent job_id must be stored as NULL")
}

func TestHiredRepo_Insert_OrphanReferences(t *testing.T) {
	database := newTestDB(t)
	r := repo.NewHiredRepo(database)
	ctx := context.Background()

	// No department 42 or job 99 exists.
	require.NoError(t, r.Insert(ctx, hire(1, "2021-01-01T00:00:00Z", i64p(42), i64p(99))))

	n, err := r.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestHiredRepo_Insert_DuplicateID(t *testing.T) {
	r := repo.NewHiredRepo(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, r.Insert(ctx, hire(1, "2021-01-01T00:00:00Z", nil, nil)))
	err := r.Insert(ctx, hire(1, "2021-02-01T00:00:00Z", nil, nil))
	assert.True(t, db.IsDuplicateKey(err), "expected ErrDuplicateKey, got %v", err)
}

func TestHiredRepo_GetByID_NotFound(t *testing.T) {
	r := repo.NewHiredRepo(newTestDB(t))
	_, err := r.GetByID(context.Background(), 1)
	assert.True(t, db.IsNotFound(err))
}

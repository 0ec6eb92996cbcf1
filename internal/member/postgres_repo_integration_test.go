//go:build integration

package member

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"libraryapi/internal/testutil"
	"libraryapi/internal/user"
)

func TestPostgresRepo_Lifecycle(t *testing.T) {
	pool := testutil.StartPostgres(t)
	ctx := context.Background()
	repo := NewPostgresRepo(pool, 5*time.Second)
	users := user.NewPostgresRepo(pool, 5*time.Second)
	svc := NewService(repo)

	m, u, err := svc.Register(ctx, Registration{Username: "ann", Password: "Str0ng!Pass", FullName: "Ann", Email: "ann@example.com"})
	require.NoError(t, err)
	assert.NotZero(t, m.ID)

	_, _, err = svc.Register(ctx, Registration{Username: "ann", Password: "Str0ng!Pass", FullName: "Ann 2", Email: "ann2@example.com"})
	assert.ErrorIs(t, err, user.ErrDuplicateEntry)

	_, _, err = svc.Register(ctx, Registration{Username: "bob", Password: "Str0ng!Pass", FullName: "Bob", Email: "ann@example.com"})
	assert.ErrorIs(t, err, ErrDuplicateEntry)
	_, err = users.GetByUsername(ctx, "bob")
	assert.ErrorIs(t, err, user.ErrNotFound, "failed registration must not leave an account behind")

	got, err := svc.GetByUserID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "ann", got.Username)

	updated, err := svc.Update(ctx, m.ID, Update{FullName: "Ann Leckie"})
	require.NoError(t, err)
	assert.Equal(t, "Ann Leckie", updated.FullName)
	assert.Equal(t, "ann@example.com", updated.Email)

	var bookID int64
	require.NoError(t, pool.QueryRow(ctx,
		`INSERT INTO books (title, author, genre, total_copies, available_copies) VALUES ('Ancillary Justice', 'Ann Leckie', 'Science Fiction', 1, 0) RETURNING id`).Scan(&bookID))
	var loanID int64
	require.NoError(t, pool.QueryRow(ctx,
		`INSERT INTO borrowings (member_id, book_id, borrow_date, due_date) VALUES ($1, $2, CURRENT_DATE, CURRENT_DATE + 14) RETURNING id`,
		m.ID, bookID).Scan(&loanID))

	assert.ErrorIs(t, svc.Delete(ctx, m.ID), ErrHasActiveBorrowings)

	_, err = pool.Exec(ctx, `UPDATE borrowings SET return_date = CURRENT_DATE WHERE id = $1`, loanID)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, m.ID))
	_, err = svc.Get(ctx, m.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = users.GetByID(ctx, u.ID)
	assert.ErrorIs(t, err, user.ErrNotFound)
}

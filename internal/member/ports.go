package member

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=member

import (
	"context"

	"libraryapi/internal/user"
)

type Repository interface {
	List(ctx context.Context) ([]Member, error)
	GetByID(ctx context.Context, id int64) (Member, error)
	GetByUserID(ctx context.Context, userID string) (Member, error)
	// CreateWithUser inserts the account and the member in one transaction and fills in their ids.
	CreateWithUser(ctx context.Context, u *user.User, m *Member) error
	Update(ctx context.Context, id int64, upd Update) (Member, error)
	// Delete removes the member and its non-admin account. It fails with
	// ErrHasActiveBorrowings while any loan is unreturned.
	Delete(ctx context.Context, id int64) error
}

package user

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"libraryapi/internal/platform/database"
)

const userColumns = `id, username, password_hash, role, created_at, updated_at`

// ScanUser reads one row selected with userColumns.
func ScanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

// Querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Insert creates u through q so callers can include it in a wider transaction.
func Insert(ctx context.Context, q Querier, u *User) error {
	const query = `
	INSERT INTO users (username, password_hash, role)
	VALUES ($1, $2, COALESCE(NULLIF($3, ''), 'USER'))
	RETURNING id, role, created_at, updated_at
	`
	err := q.QueryRow(ctx, query, u.Username, u.PasswordHash, u.Role).Scan(&u.ID, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if database.IsUniqueViolation(err) {
		return ErrDuplicateEntry
	}
	return database.Wrap("create user", err)
}

func (r *PostgresRepo) Create(ctx context.Context, u *User) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return Insert(timeoutCtx, r.db, u)
}

func (r *PostgresRepo) get(ctx context.Context, where string, arg any) (User, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	u, err := ScanUser(r.db.QueryRow(timeoutCtx, "SELECT "+userColumns+" FROM users WHERE "+where+" LIMIT 1", arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, database.Wrap("get user", err)
	}
	return u, nil
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (User, error) {
	return r.get(ctx, "id::text = $1", id)
}

func (r *PostgresRepo) GetByUsername(ctx context.Context, username string) (User, error) {
	return r.get(ctx, "username = $1", username)
}

func (r *PostgresRepo) List(ctx context.Context) ([]User, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, "SELECT "+userColumns+" FROM users ORDER BY created_at, username")
	if err != nil {
		return nil, database.Wrap("list users", err)
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		u, err := ScanUser(rows)
		if err != nil {
			return nil, database.Wrap("scan user", err)
		}
		users = append(users, u)
	}
	return users, database.Wrap("list users", rows.Err())
}

func (r *PostgresRepo) UpdateRole(ctx context.Context, id, role string) (User, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	u, err := ScanUser(r.db.QueryRow(timeoutCtx,
		`UPDATE users SET role = $2, updated_at = now() WHERE id::text = $1 RETURNING `+userColumns, id, role))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, database.Wrap("update role", err)
	}
	return u, nil
}

func (r *PostgresRepo) CountByRole(ctx context.Context, role string) (int, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	var n int
	err := r.db.QueryRow(timeoutCtx, `SELECT COUNT(*) FROM users WHERE role = $1`, role).Scan(&n)
	return n, database.Wrap("count users", err)
}

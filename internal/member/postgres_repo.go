package member

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"libraryapi/internal/platform/database"
	"libraryapi/internal/user"
)

const selectMember = `
SELECT m.id, m.user_id, u.username, m.full_name, m.email, m.created_at, m.updated_at
FROM members m
JOIN users u ON u.id = m.user_id
`

func scanMember(row pgx.Row) (Member, error) {
	var m Member
	err := row.Scan(&m.ID, &m.UserID, &m.Username, &m.FullName, &m.Email, &m.CreatedAt, &m.UpdatedAt)
	return m, err
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

func (r *PostgresRepo) List(ctx context.Context) ([]Member, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Query(timeoutCtx, selectMember+" ORDER BY m.id")
	if err != nil {
		return nil, database.Wrap("list members", err)
	}
	defer rows.Close()

	members := []Member{}
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, database.Wrap("scan member", err)
		}
		members = append(members, m)
	}
	return members, database.Wrap("list members", rows.Err())
}

func (r *PostgresRepo) getOne(ctx context.Context, where string, arg any) (Member, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	m, err := scanMember(r.db.QueryRow(timeoutCtx, selectMember+" WHERE "+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Member{}, ErrNotFound
		}
		return Member{}, database.Wrap("get member", err)
	}
	return m, nil
}

func (r *PostgresRepo) GetByID(ctx context.Context, id int64) (Member, error) {
	return r.getOne(ctx, "m.id = $1", id)
}

func (r *PostgresRepo) GetByUserID(ctx context.Context, userID string) (Member, error) {
	return r.getOne(ctx, "m.user_id::text = $1", userID)
}

func (r *PostgresRepo) CreateWithUser(ctx context.Context, u *user.User, m *Member) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	return database.WithTx(timeoutCtx, r.db, func(tx pgx.Tx) error {
		if err := user.Insert(timeoutCtx, tx, u); err != nil {
			return err
		}
		err := tx.QueryRow(timeoutCtx, `
		INSERT INTO members (user_id, full_name, email)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
		`, u.ID, m.FullName, m.Email).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
		if database.IsUniqueViolation(err) {
			return ErrDuplicateEntry
		}
		if err != nil {
			return database.Wrap("insert member", err)
		}
		m.UserID = u.ID
		m.Username = u.Username
		return nil
	})
}

func (r *PostgresRepo) Update(ctx context.Context, id int64, upd Update) (Member, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tag, err := r.db.Exec(timeoutCtx, `
	UPDATE members
	SET full_name = COALESCE(NULLIF($2, ''), full_name),
	    email = COALESCE(NULLIF($3, ''), email),
	    updated_at = now()
	WHERE id = $1
	`, id, upd.FullName, upd.Email)
	if database.IsUniqueViolation(err) {
		return Member{}, ErrDuplicateEntry
	}
	if err != nil {
		return Member{}, database.Wrap("update member", err)
	}
	if tag.RowsAffected() == 0 {
		return Member{}, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *PostgresRepo) Delete(ctx context.Context, id int64) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	return database.WithTx(timeoutCtx, r.db, func(tx pgx.Tx) error {
		var userID string
		err := tx.QueryRow(timeoutCtx, `SELECT user_id::text FROM members WHERE id = $1 FOR UPDATE`, id).Scan(&userID)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return database.Wrap("lock member", err)
		}

		var active int
		if err := tx.QueryRow(timeoutCtx,
			`SELECT COUNT(*) FROM borrowings WHERE member_id = $1 AND return_date IS NULL`, id).Scan(&active); err != nil {
			return database.Wrap("count active borrowings", err)
		}
		if active > 0 {
			return ErrHasActiveBorrowings
		}

		if _, err := tx.Exec(timeoutCtx, `DELETE FROM members WHERE id = $1`, id); err != nil {
			return database.Wrap("delete member", err)
		}
		// Admin accounts survive the loss of their member profile.
		if _, err := tx.Exec(timeoutCtx, `DELETE FROM users WHERE id::text = $1 AND role <> 'ADMIN'`, userID); err != nil {
			return database.Wrap("delete user", err)
		}
		return nil
	})
}

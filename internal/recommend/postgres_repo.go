package recommend

import (
	"context"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/jackc/pgx/v5/pgxpool"

	"libraryapi/internal/platform/database"
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

// BuildHistoryQuery selects the distinct books a member has ever borrowed with their genre.
func BuildHistoryQuery(memberID int64) (string, []any, error) {
	return goqu.Dialect("postgres").
		From(goqu.T("borrowings").As("br")).
		Join(goqu.T("books").As("b"), goqu.On(goqu.I("b.id").Eq(goqu.I("br.book_id")))).
		Select(goqu.I("b.id"), goqu.I("b.genre")).
		Distinct().
		Where(goqu.I("br.member_id").Eq(memberID)).
		Order(goqu.I("b.id").Asc()).
		Prepared(true).
		ToSQL()
}

func (r *PostgresRepo) MemberHistory(ctx context.Context, memberID int64) (History, error) {
	query, args, err := BuildHistoryQuery(memberID)
	if err != nil {
		return History{}, database.Wrap("build history query", err)
	}
	timeoutCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.db.Query(timeoutCtx, query, args...)
	if err != nil {
		return History{}, database.Wrap("member history", err)
	}
	defer rows.Close()

	var h History
	seenGenre := map[string]bool{}
	for rows.Next() {
		var (
			id    int64
			genre string
		)
		if err := rows.Scan(&id, &genre); err != nil {
			return History{}, database.Wrap("scan history", err)
		}
		h.BookIDs = append(h.BookIDs, id)
		if genre != "" && !seenGenre[genre] {
			seenGenre[genre] = true
			h.Genres = append(h.Genres, genre)
		}
	}
	return h, database.Wrap("member history", rows.Err())
}

package session

import (
	"context"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"libraryapi/internal/platform/database"
)

const (
	tableBlacklist   = "token_blacklist"
	tableRevocations = "user_token_revocations"
)

var pg = goqu.Dialect("postgres")

func insertQuery(jti string, expiresAt time.Time) (string, []any, error) {
	return pg.Insert(tableBlacklist).
		Rows(goqu.Record{"jti": jti, "expires_at": expiresAt}).
		OnConflict(goqu.DoNothing()).
		Prepared(true).
		ToSQL()
}

// liveQuery selects a row only while the revocation is still in force.
func liveQuery(jti string) (string, []any, error) {
	return pg.From(tableBlacklist).
		Select(goqu.L("1")).
		Where(goqu.C("jti").Eq(jti), goqu.C("expires_at").Gt(goqu.L("now()"))).
		Limit(1).
		Prepared(true).
		ToSQL()
}

func revokeUserQuery(userID string, revokedAt, expiresAt time.Time) (string, []any, error) {
	return pg.Insert(tableRevocations).
		Rows(goqu.Record{"user_id": userID, "revoked_at": revokedAt, "expires_at": expiresAt}).
		OnConflict(goqu.DoUpdate("user_id", goqu.Record{
			"revoked_at": goqu.L("EXCLUDED.revoked_at"),
			"expires_at": goqu.L("EXCLUDED.expires_at"),
		})).
		Prepared(true).
		ToSQL()
}

func userRevokedQuery(userID string, issuedAt time.Time) (string, []any, error) {
	return pg.From(tableRevocations).
		Select(goqu.L("1")).
		Where(
			goqu.C("user_id").Eq(userID),
			goqu.C("revoked_at").Gte(issuedAt),
			goqu.C("expires_at").Gt(goqu.L("now()")),
		).
		Limit(1).
		Prepared(true).
		ToSQL()
}

func purgeQuery(table string) (string, []any, error) {
	return pg.Delete(table).
		Where(goqu.C("expires_at").Lte(goqu.L("now()"))).
		Prepared(true).
		ToSQL()
}

// BlacklistPostgresRepo stores revoked token ids until their natural expiry.
type BlacklistPostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewBlacklistPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *BlacklistPostgresRepo {
	return &BlacklistPostgresRepo{db: db, timeout: timeout}
}

func (r *BlacklistPostgresRepo) AddToken(ctx context.Context, jti string, expiresAt time.Time) error {
	query, args, err := insertQuery(jti, expiresAt)
	if err != nil {
		return database.Wrap("build blacklist insert", err)
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	_, err = r.db.Exec(ctx, query, args...)
	return database.Wrap("blacklist token", err)
}

func (r *BlacklistPostgresRepo) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	query, args, err := liveQuery(jti)
	if err != nil {
		return false, database.Wrap("build blacklist lookup", err)
	}
	return r.exists(ctx, "check blacklist", query, args)
}

func (r *BlacklistPostgresRepo) RevokeUser(ctx context.Context, userID string, revokedAt, expiresAt time.Time) error {
	query, args, err := revokeUserQuery(userID, revokedAt, expiresAt)
	if err != nil {
		return database.Wrap("build user revocation", err)
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	_, err = r.db.Exec(ctx, query, args...)
	return database.Wrap("revoke user tokens", err)
}

func (r *BlacklistPostgresRepo) IsUserRevoked(ctx context.Context, userID string, issuedAt time.Time) (bool, error) {
	query, args, err := userRevokedQuery(userID, issuedAt)
	if err != nil {
		return false, database.Wrap("build user revocation lookup", err)
	}
	return r.exists(ctx, "check user revocation", query, args)
}

func (r *BlacklistPostgresRepo) exists(ctx context.Context, op, query string, args []any) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var one int
	switch err := r.db.QueryRow(ctx, query, args...).Scan(&one); {
	case errors.Is(err, pgx.ErrNoRows):
		return false, nil
	case err != nil:
		return false, database.Wrap(op, err)
	}
	return true, nil
}

// CleanupExpired purges lapsed token and user revocations.
func (r *BlacklistPostgresRepo) CleanupExpired(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var purged int64
	for _, table := range []string{tableBlacklist, tableRevocations} {
		query, args, err := purgeQuery(table)
		if err != nil {
			return purged, database.Wrap("build cleanup of "+table, err)
		}
		tag, err := r.db.Exec(ctx, query, args...)
		if err != nil {
			return purged, database.Wrap("cleanup "+table, err)
		}
		purged += tag.RowsAffected()
	}
	return purged, nil
}

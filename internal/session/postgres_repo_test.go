package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlacklistQueries(t *testing.T) {
	exp := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	query, args, err := insertQuery("jti-1", exp)
	require.NoError(t, err)
	assert.Contains(t, query, `INSERT INTO "token_blacklist"`)
	assert.Contains(t, query, "ON CONFLICT DO NOTHING")
	assert.ElementsMatch(t, []any{"jti-1", exp}, args)

	query, args, err = liveQuery("jti-1")
	require.NoError(t, err)
	assert.Contains(t, query, `"expires_at" > now()`)
	assert.Contains(t, query, "LIMIT")
	require.NotEmpty(t, args)
	assert.Equal(t, "jti-1", args[0])

	query, args, err = purgeQuery(tableBlacklist)
	require.NoError(t, err)
	assert.Equal(t, `DELETE FROM "token_blacklist" WHERE ("expires_at" <= now())`, query)
	assert.Empty(t, args)
}

func TestUserRevocationQueries(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	query, args, err := revokeUserQuery("u-1", at, at.Add(time.Hour))
	require.NoError(t, err)
	assert.Contains(t, query, `INSERT INTO "user_token_revocations"`)
	assert.Contains(t, query, `ON CONFLICT (user_id) DO UPDATE SET`)
	assert.Contains(t, query, "EXCLUDED.revoked_at")
	assert.ElementsMatch(t, []any{"u-1", at, at.Add(time.Hour)}, args)

	query, args, err = userRevokedQuery("u-1", at)
	require.NoError(t, err)
	assert.Contains(t, query, `"revoked_at" >= $2`)
	assert.Contains(t, query, `"expires_at" > now()`)
	require.GreaterOrEqual(t, len(args), 2)
	assert.Equal(t, []any{"u-1", at}, args[:2])

	query, _, err = purgeQuery(tableRevocations)
	require.NoError(t, err)
	assert.Contains(t, query, `DELETE FROM "user_token_revocations"`)
}

package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/mari/awards-voting/internal/domain"
	repoPostgres "github.com/mari/awards-voting/internal/repository/postgres"
	"github.com/mari/awards-voting/internal/service"
	"github.com/mari/awards-voting/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionService(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testDB := testutil.NewTestDB(t)
	repos := repoPostgres.NewRepositories(testDB.DB)
	cfg := testutil.TestConfig()
	sessions := service.NewSessionService(repos.Session, cfg)
	ctx := context.Background()

	t.Run("create and validate", func(t *testing.T) {
		testDB.Truncate(t)
		user := testutil.SeedUser(t, testDB.DB, "voter@x.com", false)

		token, created, err := sessions.Create(ctx, user, "10.0.0.1")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.NotContains(t, created.TokenHash, token, "raw token must not be stored")

		session, err := sessions.Validate(ctx, token, "10.0.0.1")
		require.NoError(t, err)
		assert.Equal(t, user.ID, session.UserID)
		assert.Equal(t, user.Email, session.Email)
	})

	t.Run("unknown token", func(t *testing.T) {
		testDB.Truncate(t)

		_, err := sessions.Validate(ctx, "bogus-token", "10.0.0.1")
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("absolute expiry", func(t *testing.T) {
		testDB.Truncate(t)
		user := testutil.SeedUser(t, testDB.DB, "voter@x.com", false)

		token, created, err := sessions.Create(ctx, user, "10.0.0.1")
		require.NoError(t, err)

		err = testDB.DB.Model(&domain.Session{}).
			Where("id = ?", created.ID).
			Update("expires_at", time.Now().Add(-time.Minute)).Error
		require.NoError(t, err)

		_, err = sessions.Validate(ctx, token, "10.0.0.1")
		assert.ErrorIs(t, err, domain.ErrSessionExpired)

		// The dead session was removed; a retry is indistinguishable from a
		// token that never existed.
		_, err = sessions.Validate(ctx, token, "10.0.0.1")
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("idle timeout", func(t *testing.T) {
		testDB.Truncate(t)
		user := testutil.SeedUser(t, testDB.DB, "voter@x.com", false)

		token, created, err := sessions.Create(ctx, user, "10.0.0.1")
		require.NoError(t, err)

		err = testDB.DB.Model(&domain.Session{}).
			Where("id = ?", created.ID).
			Update("last_activity_at", time.Now().Add(-3*time.Hour)).Error
		require.NoError(t, err)

		_, err = sessions.Validate(ctx, token, "10.0.0.1")
		assert.ErrorIs(t, err, domain.ErrSessionIdle)
	})

	t.Run("ip mismatch is advisory", func(t *testing.T) {
		testDB.Truncate(t)
		user := testutil.SeedUser(t, testDB.DB, "voter@x.com", false)

		token, _, err := sessions.Create(ctx, user, "10.0.0.1")
		require.NoError(t, err)

		session, err := sessions.Validate(ctx, token, "192.168.1.50")
		require.NoError(t, err, "a changed network address must not break the session")
		assert.Equal(t, user.ID, session.UserID)
	})

	t.Run("destroy is idempotent", func(t *testing.T) {
		testDB.Truncate(t)
		user := testutil.SeedUser(t, testDB.DB, "voter@x.com", false)

		token, _, err := sessions.Create(ctx, user, "10.0.0.1")
		require.NoError(t, err)

		require.NoError(t, sessions.Destroy(ctx, token))
		require.NoError(t, sessions.Destroy(ctx, token))

		_, err = sessions.Validate(ctx, token, "10.0.0.1")
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("rotate invalidates the old token", func(t *testing.T) {
		testDB.Truncate(t)
		user := testutil.SeedUser(t, testDB.DB, "voter@x.com", false)

		oldToken, _, err := sessions.Create(ctx, user, "10.0.0.1")
		require.NoError(t, err)

		newToken, _, err := sessions.Rotate(ctx, oldToken, user, "10.0.0.1")
		require.NoError(t, err)
		assert.NotEqual(t, oldToken, newToken)

		_, err = sessions.Validate(ctx, oldToken, "10.0.0.1")
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)

		_, err = sessions.Validate(ctx, newToken, "10.0.0.1")
		assert.NoError(t, err)
	})
}

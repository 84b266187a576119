package store_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"protofolio/backend/internal/model"
	"protofolio/backend/internal/store/storetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func TestUserLookupsReturnNilWhenAbsent(t *testing.T) {
	s := storetest.New(t)
	ctx := context.Background()

	u, err := s.UserByEmail(ctx, "ghost@x.com")
	require.NoError(t, err)
	assert.Nil(t, u)

	u, err = s.UserByID(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestCreateUserWithCart(t *testing.T) {
	s := storetest.New(t)
	ctx := context.Background()

	u := &model.User{Email: "a@x.com", Provider: model.ProviderLocal, Role: model.RoleUser}
	require.NoError(t, s.CreateUserWithCart(ctx, u))
	assert.Len(t, u.ID, 21)

	got, err := s.UserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", got.Email)

	var cart model.Cart
	require.NoError(t, s.DB().Where("user_id = ?", u.ID).First(&cart).Error)
	assert.Len(t, cart.ID, 36)

	// Duplicate email leaves no orphaned cart behind
	err = s.CreateUserWithCart(ctx, &model.User{Email: "a@x.com", Provider: model.ProviderLocal, Role: model.RoleUser})
	require.Error(t, err)

	var carts int64
	require.NoError(t, s.DB().Model(&model.Cart{}).Count(&carts).Error)
	assert.EqualValues(t, 1, carts)
}

func TestUpdateUserWritesNull(t *testing.T) {
	s := storetest.New(t)
	ctx := context.Background()

	digest := "abc"
	u := &model.User{Email: "a@x.com", Provider: model.ProviderLocal, Role: model.RoleUser, RefreshTokenHash: &digest}
	require.NoError(t, s.CreateUserWithCart(ctx, u))

	require.NoError(t, s.UpdateUser(ctx, "a@x.com", map[string]any{"refresh_token_hash": nil, "verified": true}))

	got, err := s.UserByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Nil(t, got.RefreshTokenHash)
	assert.True(t, got.Verified)

	require.NoError(t, s.UpdateUserByID(ctx, u.ID, map[string]any{"role": model.RoleAdmin}))

	got, err = s.UserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, got.Role)
}

func TestUpsertVerification(t *testing.T) {
	s := storetest.New(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertVerification(ctx, &model.VerificationRecord{Email: "a@x.com", Code: "111111", ExpiresAt: base}))
	require.NoError(t, s.UpsertVerification(ctx, &model.VerificationRecord{Email: "a@x.com", Code: "222222", ExpiresAt: base.Add(time.Minute)}))

	rec, err := s.VerificationByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "222222", rec.Code)
	assert.WithinDuration(t, base.Add(time.Minute), rec.ExpiresAt, time.Millisecond)

	var n int64
	require.NoError(t, s.DB().Model(&model.VerificationRecord{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)

	require.NoError(t, s.DeleteVerification(ctx, "a@x.com"))

	rec, err = s.VerificationByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestFailedAttemptLifecycle(t *testing.T) {
	s := storetest.New(t)
	ctx := context.Background()

	for want := 1; want <= 3; want++ {
		n, err := s.IncrementFailedAttempt(ctx, "a@x.com", "1.1.1.1", model.AttemptLogin, base)
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}

	// Keys are independent per type and IP
	n, err := s.IncrementFailedAttempt(ctx, "a@x.com", "1.1.1.1", model.AttemptVerification, base)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = s.IncrementFailedAttempt(ctx, "a@x.com", "2.2.2.2", model.AttemptLogin, base)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	until := base.Add(30 * time.Minute)
	require.NoError(t, s.LockFailedAttempt(ctx, "a@x.com", "1.1.1.1", model.AttemptLogin, until))

	rec, err := s.FailedAttempt(ctx, "a@x.com", "1.1.1.1", model.AttemptLogin)
	require.NoError(t, err)
	assert.Equal(t, 3, rec.Attempts)
	require.NotNil(t, rec.LockedUntil)
	assert.WithinDuration(t, until, *rec.LockedUntil, time.Millisecond)

	require.NoError(t, s.ClearFailedAttempts(ctx, "a@x.com", "1.1.1.1", model.AttemptLogin, base))

	rec, err = s.FailedAttempt(ctx, "a@x.com", "1.1.1.1", model.AttemptLogin)
	require.NoError(t, err)
	assert.Equal(t, 0, rec.Attempts)
	assert.Nil(t, rec.LockedUntil)

	rec, err = s.FailedAttempt(ctx, "b@x.com", "1.1.1.1", model.AttemptLogin)
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestIncrementFailedAttemptConcurrently(t *testing.T) {
	s := storetest.New(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.IncrementFailedAttempt(ctx, "a@x.com", "1.1.1.1", model.AttemptLogin, base)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	rec, err := s.FailedAttempt(ctx, "a@x.com", "1.1.1.1", model.AttemptLogin)
	require.NoError(t, err)
	assert.Equal(t, 10, rec.Attempts)
}

func TestPasswordResets(t *testing.T) {
	s := storetest.New(t)
	ctx := context.Background()

	require.NoError(t, s.CreatePasswordReset(ctx, &model.PasswordReset{Email: "a@x.com", Token: "t1", ExpiresAt: base}))

	rec, err := s.PasswordReset(ctx, "a@x.com", "t2")
	require.NoError(t, err)
	assert.Nil(t, rec)

	rec, err = s.PasswordReset(ctx, "b@x.com", "t1")
	require.NoError(t, err)
	assert.Nil(t, rec)

	require.NoError(t, s.MarkPasswordResetUsed(ctx, "a@x.com", "t1"))

	rec, err = s.PasswordReset(ctx, "a@x.com", "t1")
	require.NoError(t, err)
	assert.True(t, rec.Used)

	require.NoError(t, s.DeletePasswordResets(ctx, "a@x.com"))

	rec, err = s.PasswordReset(ctx, "a@x.com", "t1")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestBlacklistIsIdempotent(t *testing.T) {
	s := storetest.New(t)
	ctx := context.Background()

	listed, err := s.IsBlacklisted(ctx, "tok")
	require.NoError(t, err)
	assert.False(t, listed)

	require.NoError(t, s.BlacklistToken(ctx, &model.BlacklistEntry{Token: "tok", ExpiresAt: base}))
	require.NoError(t, s.BlacklistToken(ctx, &model.BlacklistEntry{Token: "tok", ExpiresAt: base}))

	listed, err = s.IsBlacklisted(ctx, "tok")
	require.NoError(t, err)
	assert.True(t, listed)

	var n int64
	require.NoError(t, s.DB().Model(&model.BlacklistEntry{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestPruneExpired(t *testing.T) {
	s := storetest.New(t)
	ctx := context.Background()
	now := base

	require.NoError(t, s.UpsertVerification(ctx, &model.VerificationRecord{Email: "old@x.com", Code: "111111", ExpiresAt: now.Add(-time.Hour)}))
	require.NoError(t, s.UpsertVerification(ctx, &model.VerificationRecord{Email: "new@x.com", Code: "222222", ExpiresAt: now.Add(time.Hour)}))

	require.NoError(t, s.CreatePasswordReset(ctx, &model.PasswordReset{Email: "a@x.com", Token: "expired", ExpiresAt: now.Add(-time.Hour)}))
	require.NoError(t, s.CreatePasswordReset(ctx, &model.PasswordReset{Email: "b@x.com", Token: "used", ExpiresAt: now.Add(time.Hour), Used: true}))
	require.NoError(t, s.CreatePasswordReset(ctx, &model.PasswordReset{Email: "c@x.com", Token: "live", ExpiresAt: now.Add(time.Hour)}))

	require.NoError(t, s.BlacklistToken(ctx, &model.BlacklistEntry{Token: "gone", ExpiresAt: now.Add(-time.Hour)}))
	require.NoError(t, s.BlacklistToken(ctx, &model.BlacklistEntry{Token: "kept", ExpiresAt: now.Add(time.Hour)}))

	_, err := s.IncrementFailedAttempt(ctx, "idle@x.com", "1.1.1.1", model.AttemptLogin, now.Add(-48*time.Hour))
	require.NoError(t, err)
	_, err = s.IncrementFailedAttempt(ctx, "locked@x.com", "1.1.1.1", model.AttemptLogin, now.Add(-48*time.Hour))
	require.NoError(t, err)
	require.NoError(t, s.LockFailedAttempt(ctx, "locked@x.com", "1.1.1.1", model.AttemptLogin, now.Add(time.Hour)))
	_, err = s.IncrementFailedAttempt(ctx, "recent@x.com", "1.1.1.1", model.AttemptLogin, now.Add(-time.Hour))
	require.NoError(t, err)

	n, err := s.PruneExpired(ctx, now)
	require.NoError(t, err)
	assert.EqualValues(t, 5, n)

	rec, err := s.VerificationByEmail(ctx, "new@x.com")
	require.NoError(t, err)
	assert.NotNil(t, rec)

	reset, err := s.PasswordReset(ctx, "c@x.com", "live")
	require.NoError(t, err)
	assert.NotNil(t, reset)

	listed, err := s.IsBlacklisted(ctx, "kept")
	require.NoError(t, err)
	assert.True(t, listed)

	listed, err = s.IsBlacklisted(ctx, "gone")
	require.NoError(t, err)
	assert.False(t, listed)

	for email, want := range map[string]bool{"idle@x.com": false, "locked@x.com": true, "recent@x.com": true} {
		fa, err := s.FailedAttempt(ctx, email, "1.1.1.1", model.AttemptLogin)
		require.NoError(t, err)
		assert.Equal(t, want, fa != nil, email)
	}
}

func TestDeleteStaleAccounts(t *testing.T) {
	s := storetest.New(t)
	ctx := context.Background()
	hash := "$2a$04$hash"

	users := []*model.User{
		{Email: "stale@x.com", Provider: model.ProviderLocal, Role: model.RoleUser, CreatedAt: base.Add(-40 * 24 * time.Hour)},
		{Email: "fresh@x.com", Provider: model.ProviderLocal, Role: model.RoleUser, CreatedAt: base.Add(-time.Hour)},
		{Email: "done@x.com", Provider: model.ProviderLocal, Role: model.RoleUser, Verified: true, PasswordHash: &hash, CreatedAt: base.Add(-40 * 24 * time.Hour)},
		{Email: "google@x.com", Provider: model.ProviderGoogle, Role: model.RoleUser, Verified: true, CreatedAt: base.Add(-40 * 24 * time.Hour)},
	}
	for _, u := range users {
		require.NoError(t, s.CreateUserWithCart(ctx, u))
	}

	n, err := s.DeleteStaleAccounts(ctx, base.Add(-30*24*time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	for email, want := range map[string]bool{"stale@x.com": false, "fresh@x.com": true, "done@x.com": true, "google@x.com": true} {
		u, err := s.UserByEmail(ctx, email)
		require.NoError(t, err)
		assert.Equal(t, want, u != nil, email)
	}

	var carts int64
	require.NoError(t, s.DB().Model(&model.Cart{}).Count(&carts).Error)
	assert.EqualValues(t, 3, carts)
}

func TestUsersPaging(t *testing.T) {
	s := storetest.New(t)
	ctx := context.Background()

	for i, email := range []string{"a@x.com", "b@x.com", "c@x.com"} {
		u := &model.User{Email: email, Provider: model.ProviderLocal, Role: model.RoleUser, CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		require.NoError(t, s.CreateUserWithCart(ctx, u))
	}

	page, err := s.Users(ctx, 2, 1)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "b@x.com", page[0].Email)
	assert.Equal(t, "c@x.com", page[1].Email)

	page, err = s.Users(ctx, 10, 5)
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestDeleteUser(t *testing.T) {
	s := storetest.New(t)
	ctx := context.Background()

	u := &model.User{Email: "a@x.com", Provider: model.ProviderLocal, Role: model.RoleUser}
	require.NoError(t, s.CreateUserWithCart(ctx, u))

	deleted, err := s.DeleteUser(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	got, err := s.UserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	var carts int64
	require.NoError(t, s.DB().Model(&model.Cart{}).Count(&carts).Error)
	assert.Zero(t, carts)

	deleted, err = s.DeleteUser(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestPing(t *testing.T) {
	s := storetest.New(t)

	require.NoError(t, s.Ping(context.Background()))

	sqlDB, err := s.DB().DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	assert.Error(t, s.Ping(context.Background()))
}

func TestLogsNewestFirst(t *testing.T) {
	s := storetest.New(t)
	ctx := context.Background()

	for i, msg := range []string{"first", "second", "third"} {
		require.NoError(t, s.WriteLog(ctx, &model.LogEntry{
			Level:     model.LogError,
			Message:   msg,
			Timestamp: base.Add(time.Duration(i) * time.Second),
		}))
	}

	out, err := s.Logs(ctx, 2, 0)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "third", out[0].Message)
	assert.Equal(t, "second", out[1].Message)

	out, err = s.Logs(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "first", out[0].Message)
}

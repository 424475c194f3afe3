package store_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MagnunAVF/clicklink/internal"
	"github.com/MagnunAVF/clicklink/internal/store"
	"github.com/MagnunAVF/clicklink/internal/store/storetest"
)

func newUser(email, username string) internal.User {
	return internal.User{ID: uuid.New(), Email: email, Username: username, Password: "hash"}
}

func TestCreateURL_AssignsMonotonicIDs(t *testing.T) {
	s := storetest.New(t)
	ctx := context.Background()

	id1, err := s.CreateURL(ctx, internal.URL{LongURL: "https://one.example/"})
	require.NoError(t, err)
	id2, err := s.CreateURL(ctx, internal.URL{LongURL: "https://two.example/"})
	require.NoError(t, err)

	assert.Equal(t, int64(1), id1)
	assert.Greater(t, id2, id1)

	u, err := s.URLByID(ctx, id1)
	require.NoError(t, err)
	assert.Nil(t, u.ShortCode)
	assert.Nil(t, u.UserID)
	assert.Zero(t, u.Clicks)
	assert.False(t, u.CreatedAt.IsZero())
}

func TestSetShortCode_And_Lookup(t *testing.T) {
	s := storetest.New(t)
	ctx := context.Background()

	id, err := s.CreateURL(ctx, internal.URL{LongURL: "https://example.com/"})
	require.NoError(t, err)
	require.NoError(t, s.SetShortCode(ctx, id, internal.EncodeID(uint64(id))))

	u, err := s.URLByShortCode(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)
	assert.Equal(t, "https://example.com/", u.LongURL)
	assert.Equal(t, "1", u.Code())

	_, err = s.URLByShortCode(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)

	assert.ErrorIs(t, s.SetShortCode(ctx, 999, "zz"), store.ErrNotFound)
}

func TestSetShortCode_Duplicate(t *testing.T) {
	s := storetest.New(t)
	ctx := context.Background()

	id1, err := s.CreateURL(ctx, internal.URL{LongURL: "https://a.example/"})
	require.NoError(t, err)
	id2, err := s.CreateURL(ctx, internal.URL{LongURL: "https://b.example/"})
	require.NoError(t, err)

	require.NoError(t, s.SetShortCode(ctx, id1, "same"))
	err = s.SetShortCode(ctx, id2, "same")

	constraint, ok := store.DuplicateConstraint(err)
	require.True(t, ok, "got %v", err)
	assert.Equal(t, internal.IndexURLShortCode, constraint)
}

func TestURLsByOwner(t *testing.T) {
	s := storetest.New(t)
	ctx := context.Background()
	owner := uuid.New()
	other := uuid.New()

	for _, u := range []internal.URL{
		{LongURL: "https://a.example/", UserID: &owner},
		{LongURL: "https://b.example/", UserID: &other},
		{LongURL: "https://c.example/", UserID: &owner},
		{LongURL: "https://anon.example/"},
	} {
		_, err := s.CreateURL(ctx, u)
		require.NoError(t, err)
	}

	urls, err := s.URLsByOwner(ctx, owner)
	require.NoError(t, err)
	require.Len(t, urls, 2)
	assert.Equal(t, "https://a.example/", urls[0].LongURL)
	assert.Equal(t, "https://c.example/", urls[1].LongURL)
	assert.Equal(t, owner, *urls[0].UserID)

	urls, err = s.URLsByOwner(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, urls)
}

func TestSetClicks(t *testing.T) {
	s := storetest.New(t)
	ctx := context.Background()

	id, err := s.CreateURL(ctx, internal.URL{LongURL: "https://example.com/"})
	require.NoError(t, err)
	require.NoError(t, s.SetShortCode(ctx, id, "1"))

	require.NoError(t, s.SetClicks(ctx, "1", 17))
	u, err := s.URLByShortCode(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, int64(17), u.Clicks)

	assert.ErrorIs(t, s.SetClicks(ctx, "nope", 1), store.ErrNotFound)
}

func TestTransaction_RollsBackOnError(t *testing.T) {
	s := storetest.New(t)
	ctx := context.Background()
	boom := assert.AnError

	err := s.Transaction(ctx, func(tx store.Repository) error {
		id, err := tx.CreateURL(ctx, internal.URL{LongURL: "https://example.com/"})
		require.NoError(t, err)
		require.NoError(t, tx.SetShortCode(ctx, id, "1"))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = s.URLByShortCode(ctx, "1")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUsers_Uniqueness(t *testing.T) {
	s := storetest.New(t)
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, newUser("a@example.com", "alice")))

	tests := []struct {
		name           string
		user           internal.User
		wantConstraint string
	}{
		{"same email", newUser("a@example.com", "other"), internal.IndexUserEmail},
		{"same username", newUser("b@example.com", "alice"), internal.IndexUserUsername},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.CreateUser(ctx, tt.user)
			constraint, ok := store.DuplicateConstraint(err)
			require.True(t, ok, "got %v", err)
			assert.Equal(t, tt.wantConstraint, constraint)
		})
	}

	assert.NoError(t, s.CreateUser(ctx, newUser("b@example.com", "bob")))
}

func TestUsers_LookupAndUpdate(t *testing.T) {
	s := storetest.New(t)
	ctx := context.Background()

	alice := newUser("a@example.com", "alice")
	bob := newUser("b@example.com", "bob")
	require.NoError(t, s.CreateUser(ctx, alice))
	require.NoError(t, s.CreateUser(ctx, bob))

	got, err := s.UserByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)

	_, err = s.UserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.UpdatePassword(ctx, alice.ID, "new-hash"))
	require.NoError(t, s.UpdateUsername(ctx, alice.ID, "alice2"))

	got, err = s.UserByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", got.Password)
	assert.Equal(t, "alice2", got.Username)

	err = s.UpdateUsername(ctx, alice.ID, "bob")
	constraint, ok := store.DuplicateConstraint(err)
	require.True(t, ok)
	assert.Equal(t, internal.IndexUserUsername, constraint)

	assert.ErrorIs(t, s.UpdatePassword(ctx, uuid.New(), "x"), store.ErrNotFound)
	_, err = s.UserByID(ctx, uuid.New())
	assert.ErrorIs(t, err, store.ErrNotFound)
}

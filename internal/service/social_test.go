package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exlibrismoi/exlibris-server/internal/errors"
	"github.com/exlibrismoi/exlibris-server/internal/service"
	"github.com/exlibrismoi/exlibris-server/internal/store"
)

func newSocialService(s *store.Store) *service.SocialService {
	return service.NewSocialService(s, testLogger())
}

func TestAddFriendMutatesOnlyInitiator(t *testing.T) {
	s := setupTestStore(t)
	authSvc := newAuthService(t, s)
	svc := newSocialService(s)
	ctx := context.Background()

	alice := signupUser(t, authSvc, "alice")
	bob := signupUser(t, authSvc, "bob")

	require.NoError(t, svc.AddFriend(ctx, alice, bob.ID))

	storedAlice, err := s.Users.Get(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{bob.ID}, storedAlice.FriendIDs)

	// The relation is one-directional: bob's document is untouched.
	storedBob, err := s.Users.Get(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, storedBob.FriendIDs)
}

func TestAddFriendRejectsDuplicateAndSelf(t *testing.T) {
	s := setupTestStore(t)
	authSvc := newAuthService(t, s)
	svc := newSocialService(s)
	ctx := context.Background()

	alice := signupUser(t, authSvc, "alice")
	bob := signupUser(t, authSvc, "bob")

	require.NoError(t, svc.AddFriend(ctx, alice, bob.ID))
	assert.ErrorIs(t, svc.AddFriend(ctx, alice, bob.ID), errors.ErrAlreadyExists)
	assert.ErrorIs(t, svc.AddFriend(ctx, alice, alice.ID), errors.ErrValidation)
	assert.ErrorIs(t, svc.AddFriend(ctx, alice, "user-missing"), errors.ErrNotFound)
}

func TestListFriendsResolvesUsers(t *testing.T) {
	s := setupTestStore(t)
	authSvc := newAuthService(t, s)
	svc := newSocialService(s)
	ctx := context.Background()

	alice := signupUser(t, authSvc, "alice")
	bob := signupUser(t, authSvc, "bob")
	carol := signupUser(t, authSvc, "carol")

	require.NoError(t, svc.AddFriend(ctx, alice, bob.ID))
	require.NoError(t, svc.AddFriend(ctx, alice, carol.ID))

	friends, err := svc.ListFriends(ctx, alice)
	require.NoError(t, err)
	require.Len(t, friends, 2)
	for _, f := range friends {
		assert.Empty(t, f.PasswordHash, "password hashes never leave the service layer")
	}
}

func TestSearchUsersByPrefix(t *testing.T) {
	s := setupTestStore(t)
	authSvc := newAuthService(t, s)
	svc := newSocialService(s)
	ctx := context.Background()

	signupUser(t, authSvc, "bookworm")
	signupUser(t, authSvc, "BookBinder")
	signupUser(t, authSvc, "reader")

	found, err := svc.SearchUsers(ctx, "book")
	require.NoError(t, err)
	assert.Len(t, found, 2, "prefix match is case-insensitive")

	found, err = svc.SearchUsers(ctx, "BOOKW")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "bookworm", found[0].Username)

	_, err = svc.SearchUsers(ctx, "   ")
	assert.ErrorIs(t, err, errors.ErrValidation)
}

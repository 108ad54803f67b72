package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/exlibrismoi/exlibris-server/internal/domain"
	domainerrors "github.com/exlibrismoi/exlibris-server/internal/errors"
	"github.com/exlibrismoi/exlibris-server/internal/store"
)

// searchLimit caps username prefix search results.
const searchLimit = 20

// SocialService manages the friends graph and user search.
type SocialService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewSocialService creates a new social graph service.
func NewSocialService(store *store.Store, logger *slog.Logger) *SocialService {
	return &SocialService{
		store:  store,
		logger: logger,
	}
}

// AddFriend appends the target to the initiator's friend list. Only the
// initiator's document changes; the target's list is untouched, so the
// relation is one-directional even though the product treats it as
// mutual.
func (s *SocialService) AddFriend(ctx context.Context, initiator *domain.User, targetID string) error {
	if targetID == initiator.ID {
		return domainerrors.Validation("cannot add yourself as a friend")
	}

	if _, err := s.store.Users.Get(ctx, targetID); err != nil {
		if store.IsNotFound(err) {
			return domainerrors.NotFound("user not found")
		}
		return fmt.Errorf("lookup user: %w", err)
	}

	if !initiator.AddFriend(targetID) {
		return domainerrors.AlreadyExists("already friends")
	}

	initiator.Touch()
	if err := s.store.Users.Update(ctx, initiator.ID, initiator); err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Friend added", "user_id", initiator.ID, "friend_id", targetID)
	}
	return nil
}

// ListFriends resolves the user's friend list to user documents.
// Friends deleted since being added are silently skipped.
func (s *SocialService) ListFriends(ctx context.Context, user *domain.User) ([]*domain.User, error) {
	friends, err := s.store.GetUsersByIDs(ctx, user.FriendIDs)
	if err != nil {
		return nil, fmt.Errorf("resolve friends: %w", err)
	}
	for _, f := range friends {
		f.PasswordHash = ""
	}
	return friends, nil
}

// SearchUsers finds users by case-insensitive username prefix.
func (s *SocialService) SearchUsers(ctx context.Context, query string) ([]*domain.User, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domainerrors.Validation("search query is required")
	}

	users, err := s.store.SearchUsersByUsernamePrefix(ctx, query, searchLimit)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	for _, u := range users {
		u.PasswordHash = ""
	}
	return users, nil
}

// GetUser returns a user's public profile.
func (s *SocialService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.store.Users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

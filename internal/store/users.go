package store

import (
	"context"

	"github.com/exlibrismoi/exlibris-server/internal/domain"
)

// SearchUsersByUsernamePrefix returns up to limit users whose username
// starts with the given prefix, case-insensitively. This is the range
// scan behind the friend-search box.
func (s *Store) SearchUsersByUsernamePrefix(ctx context.Context, prefix string, limit int) ([]*domain.User, error) {
	if prefix == "" {
		return nil, nil
	}
	return s.Users.ScanIndexPrefix(ctx, "username", prefix, limit)
}

// GetUsersByIDs resolves a list of user ids, skipping any that no
// longer exist. Used to expand a friend list.
func (s *Store) GetUsersByIDs(ctx context.Context, ids []string) ([]*domain.User, error) {
	users := make([]*domain.User, 0, len(ids))
	for _, id := range ids {
		user, err := s.Users.Get(ctx, id)
		if err != nil {
			if IsNotFound(err) {
				continue
			}
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

// DeleteSessionsForUser removes every session belonging to a user.
func (s *Store) DeleteSessionsForUser(ctx context.Context, userID string) error {
	sessions, err := s.Sessions.ListByIndex(ctx, "user", userID)
	if err != nil {
		return err
	}
	for _, sess := range sessions {
		if err := s.Sessions.Delete(ctx, sess.ID); err != nil {
			return err
		}
	}
	return nil
}

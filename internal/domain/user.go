package domain

import (
	"slices"
	"strings"
	"time"
)

// User represents a registered account.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"` // Unique, case-insensitive
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash,omitempty"` // Stored hashed, filter from API responses
	FirstName    string    `json:"first_name,omitempty"`
	LastName     string    `json:"last_name,omitempty"`
	PhotoURL     string    `json:"photo_url,omitempty"`
	// AvatarColor is a deterministic fallback color shown until a
	// profile photo is uploaded.
	AvatarColor string `json:"avatar_color,omitempty"`
	// FriendIDs is stored on the initiating user only. Adding a friend
	// does not update the target's list, so the relation is
	// one-directional even though the product treats it as mutual.
	FriendIDs []string  `json:"friend_ids,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Touch updates the UpdatedAt timestamp to the current time.
func (u *User) Touch() {
	u.UpdatedAt = time.Now()
}

// NormalizedUsername returns the username lowered for uniqueness checks
// and prefix search.
func (u *User) NormalizedUsername() string {
	return NormalizeUsername(u.Username)
}

// NormalizeUsername lowercases and trims a username for case-insensitive
// comparison.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// HasFriend reports whether the given user id is in this user's friend list.
func (u *User) HasFriend(userID string) bool {
	return slices.Contains(u.FriendIDs, userID)
}

// AddFriend appends userID to the friend list if not already present.
// Returns false if the id was already there.
func (u *User) AddFriend(userID string) bool {
	if u.HasFriend(userID) {
		return false
	}
	u.FriendIDs = append(u.FriendIDs, userID)
	return true
}

// DisplayName returns the user's full name, falling back to the username.
func (u *User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

// Session represents a refresh-token session for a user.
type Session struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	RefreshTokenHash string    `json:"refresh_token_hash"`
	ExpiresAt        time.Time `json:"expires_at"`
	CreatedAt        time.Time `json:"created_at"`
	LastSeenAt       time.Time `json:"last_seen_at"`
}

// IsExpired reports whether the session's refresh token can no longer
// be used.
func (s *Session) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

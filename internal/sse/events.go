// Package sse implements Server-Sent Events for real-time library updates and event broadcasting.
package sse

import (
	"time"

	"github.com/exlibrismoi/exlibris-server/internal/domain"
)

// EventType represents the type of SSE event.
type EventType string

const (
	// EventLibraryChanged signals that a user's catalog changed and
	// interested views should refetch. Carries no payload beyond the
	// affected user.
	EventLibraryChanged EventType = "library.changed"

	// EventBookCreated represents a book creation event.
	EventBookCreated EventType = "book.created"
	// EventBookUpdated represents a book update event.
	EventBookUpdated EventType = "book.updated"
	// EventBookDeleted represents a book deletion event.
	EventBookDeleted EventType = "book.deleted"

	// EventLoanCreated represents a new loan.
	EventLoanCreated EventType = "loan.created"
	// EventLoanReturned represents a loan being returned and removed.
	EventLoanReturned EventType = "loan.returned"

	// EventHeartbeat represents a connection keepalive event.
	EventHeartbeat EventType = "heartbeat"
)

// Event represents an SSE event to be sent to clients.
// The Data field contains the event payload as a JSON object for direct
// deserialization.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
	Type      EventType `json:"type"`

	// UserIDs filters delivery to the listed users. Empty means
	// broadcast to all connected clients.
	UserIDs []string `json:"-"`
}

// forUser reports whether the event should be delivered to userID.
func (e Event) forUser(userID string) bool {
	if len(e.UserIDs) == 0 {
		return true
	}
	for _, id := range e.UserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// LibraryChangedEventData is the data payload for library change events.
type LibraryChangedEventData struct {
	ChangedAt time.Time `json:"changed_at"`
	UserID    string    `json:"user_id"`
}

// BookEventData is the data payload for book created/updated events.
type BookEventData struct {
	Book *domain.Book `json:"book"`
}

// BookDeletedEventData is the data payload for book delete events.
type BookDeletedEventData struct {
	DeletedAt time.Time `json:"deleted_at"`
	BookID    string    `json:"book_id"`
}

// LoanEventData is the data payload for loan events.
type LoanEventData struct {
	Loan *domain.Loan `json:"loan"`
}

// HeartbeatEventData is the data payload for heartbeat events.
type HeartbeatEventData struct {
	ServerTime time.Time `json:"server_time"`
}

// NewLibraryChangedEvent creates a library change event scoped to a user.
func NewLibraryChangedEvent(userID string) Event {
	now := time.Now()
	return Event{
		Type:      EventLibraryChanged,
		Timestamp: now,
		Data:      LibraryChangedEventData{ChangedAt: now, UserID: userID},
		UserIDs:   []string{userID},
	}
}

// NewBookCreatedEvent creates a book creation event for the owner.
func NewBookCreatedEvent(book *domain.Book) Event {
	return Event{
		Type:      EventBookCreated,
		Timestamp: time.Now(),
		Data:      BookEventData{Book: book},
		UserIDs:   []string{book.OwnerID},
	}
}

// NewBookUpdatedEvent creates a book update event for the owner.
func NewBookUpdatedEvent(book *domain.Book) Event {
	return Event{
		Type:      EventBookUpdated,
		Timestamp: time.Now(),
		Data:      BookEventData{Book: book},
		UserIDs:   []string{book.OwnerID},
	}
}

// NewBookDeletedEvent creates a book deletion event for the owner.
func NewBookDeletedEvent(ownerID, bookID string) Event {
	return Event{
		Type:      EventBookDeleted,
		Timestamp: time.Now(),
		Data:      BookDeletedEventData{DeletedAt: time.Now(), BookID: bookID},
		UserIDs:   []string{ownerID},
	}
}

// NewLoanCreatedEvent creates a loan event delivered to both sides of
// the loan.
func NewLoanCreatedEvent(loan *domain.Loan) Event {
	return Event{
		Type:      EventLoanCreated,
		Timestamp: time.Now(),
		Data:      LoanEventData{Loan: loan},
		UserIDs:   []string{loan.LenderID, loan.BorrowerID},
	}
}

// NewLoanReturnedEvent creates a loan return event delivered to both
// sides of the loan.
func NewLoanReturnedEvent(loan *domain.Loan) Event {
	return Event{
		Type:      EventLoanReturned,
		Timestamp: time.Now(),
		Data:      LoanEventData{Loan: loan},
		UserIDs:   []string{loan.LenderID, loan.BorrowerID},
	}
}

// NewHeartbeatEvent creates a keepalive event.
func NewHeartbeatEvent() Event {
	return Event{
		Type:      EventHeartbeat,
		Timestamp: time.Now(),
		Data:      HeartbeatEventData{ServerTime: time.Now()},
	}
}

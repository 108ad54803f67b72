package sse

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/exlibrismoi/exlibris-server/internal/domain"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	return NewManager(slog.New(slog.DiscardHandler))
}

func TestManager_ConnectDisconnect(t *testing.T) {
	m := newTestManager(t)

	client, err := m.Connect("user-a")
	require.NoError(t, err)
	require.Equal(t, 1, m.ClientCount())

	m.Disconnect(client.ID)
	require.Equal(t, 0, m.ClientCount())

	// Disconnecting twice is harmless.
	m.Disconnect(client.ID)
}

func TestManager_BroadcastFiltersByUser(t *testing.T) {
	m := newTestManager(t)

	owner, err := m.Connect("user-owner")
	require.NoError(t, err)
	other, err := m.Connect("user-other")
	require.NoError(t, err)

	m.broadcast(NewLibraryChangedEvent("user-owner"))

	select {
	case evt := <-owner.EventChan:
		require.Equal(t, EventLibraryChanged, evt.Type)
	default:
		t.Fatal("owner should have received the event")
	}

	select {
	case <-other.EventChan:
		t.Fatal("other user should not have received the event")
	default:
	}
}

func TestManager_LoanEventReachesBothSides(t *testing.T) {
	m := newTestManager(t)

	lender, err := m.Connect("user-lender")
	require.NoError(t, err)
	borrower, err := m.Connect("user-borrower")
	require.NoError(t, err)
	bystander, err := m.Connect("user-bystander")
	require.NoError(t, err)

	loan := &domain.Loan{ID: "loan-1", LenderID: "user-lender", BorrowerID: "user-borrower"}
	m.broadcast(NewLoanCreatedEvent(loan))

	require.Len(t, lender.EventChan, 1)
	require.Len(t, borrower.EventChan, 1)
	require.Len(t, bystander.EventChan, 0)
}

func TestManager_HeartbeatBroadcastToAll(t *testing.T) {
	m := newTestManager(t)

	c1, err := m.Connect("user-a")
	require.NoError(t, err)
	c2, err := m.Connect("user-b")
	require.NoError(t, err)

	m.broadcast(NewHeartbeatEvent())

	require.Len(t, c1.EventChan, 1)
	require.Len(t, c2.EventChan, 1)
}

func TestManager_EmitThroughStartLoop(t *testing.T) {
	m := newTestManager(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go m.Start(ctx)

	client, err := m.Connect("user-a")
	require.NoError(t, err)

	m.Emit(NewLibraryChangedEvent("user-a"))

	select {
	case evt := <-client.EventChan:
		require.Equal(t, EventLibraryChanged, evt.Type)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestManager_EmitAfterShutdownIsDropped(t *testing.T) {
	m := newTestManager(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, m.Shutdown(ctx))

	// Must not panic on the closed channel.
	m.Emit(NewLibraryChangedEvent("user-a"))
}

func TestManager_EmitIgnoresNonEvents(t *testing.T) {
	m := newTestManager(t)
	m.Emit("not an event")
}

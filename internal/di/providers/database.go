package providers

import (
	"context"
	"log/slog"

	"github.com/samber/do/v2"

	"github.com/exlibrismoi/exlibris-server/internal/config"
	"github.com/exlibrismoi/exlibris-server/internal/logger"
	"github.com/exlibrismoi/exlibris-server/internal/sse"
	"github.com/exlibrismoi/exlibris-server/internal/store"
)

// SSEManagerHandle wraps the SSE manager with its context for lifecycle management.
type SSEManagerHandle struct {
	*sse.Manager
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *SSEManagerHandle) Shutdown() error {
	h.cancel()
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Manager.Shutdown(ctx)
}

// ProvideSSEManager provides the server-sent events manager.
func ProvideSSEManager(i do.Injector) (*SSEManagerHandle, error) {
	log := do.MustInvoke[*logger.Logger](i)

	manager := sse.NewManager(log.Logger)

	// Start in background
	ctx, cancel := context.WithCancel(context.Background())
	go manager.Start(ctx)

	log.Info("SSE manager started")

	return &SSEManagerHandle{
		Manager: manager,
		cancel:  cancel,
	}, nil
}

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*store.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the database store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)

	dbPath := cfg.DatabasePath()
	db, err := store.New(dbPath, log.Logger, sseHandle.Manager)
	if err != nil {
		return nil, err
	}

	log.Info("Database initialized", "path", dbPath)

	return &StoreHandle{Store: db}, nil
}

// ProvideSlogLogger provides access to the underlying slog.Logger for packages that need it.
func ProvideSlogLogger(i do.Injector) (*slog.Logger, error) {
	log := do.MustInvoke[*logger.Logger](i)
	return log.Logger, nil
}

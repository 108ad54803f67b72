package providers

import (
	"context"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/exlibrismoi/exlibris-server/internal/api"
	"github.com/exlibrismoi/exlibris-server/internal/config"
	"github.com/exlibrismoi/exlibris-server/internal/logger"
	"github.com/exlibrismoi/exlibris-server/internal/media/images"
	"github.com/exlibrismoi/exlibris-server/internal/service"
	"github.com/exlibrismoi/exlibris-server/internal/sse"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
	handler *api.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := h.Server.Shutdown(ctx)
	h.handler.Close()
	return err
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	log := do.MustInvoke[*logger.Logger](i)
	storage := do.MustInvoke[*images.Storage](i)

	authService := do.MustInvoke[*service.AuthService](i)
	bookService := do.MustInvoke[*service.BookService](i)
	loanService := do.MustInvoke[*service.LoanService](i)
	scanService := do.MustInvoke[*service.ScanService](i)
	socialService := do.MustInvoke[*service.SocialService](i)
	profileService := do.MustInvoke[*service.ProfileService](i)
	discoverService := do.MustInvoke[*service.DiscoverService](i)

	searchHandle := do.MustInvoke[*SearchIndexHandle](i)
	bookService.SetSearchIndex(searchHandle.Index)
	scanService.SetSearchIndex(searchHandle.Index)

	sseHandler := sse.NewHandler(sseHandle.Manager, log.Logger)

	handler := api.NewServer(
		authService,
		bookService,
		loanService,
		scanService,
		socialService,
		profileService,
		discoverService,
		storage,
		sseHandler,
		log.Logger,
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("Server running", "addr", srv.Addr)

	return &HTTPServerHandle{Server: srv, handler: handler}, nil
}

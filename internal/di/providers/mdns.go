package providers

import (
	"fmt"

	"github.com/samber/do/v2"

	"github.com/exlibrismoi/exlibris-server/internal/config"
	"github.com/exlibrismoi/exlibris-server/internal/logger"
	"github.com/exlibrismoi/exlibris-server/internal/mdns"
)

// MDNSServiceHandle wraps mdns.Service with Shutdownable.
type MDNSServiceHandle struct {
	*mdns.Service
	started bool
}

// Shutdown implements do.Shutdownable.
func (h *MDNSServiceHandle) Shutdown() error {
	if h.started && h.Service != nil {
		h.Stop()
	}
	return nil
}

// ProvideMDNSService provides the mDNS advertisement service.
func ProvideMDNSService(i do.Injector) (*MDNSServiceHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	// Wait for the HTTP server before advertising it.
	_ = do.MustInvoke[*HTTPServerHandle](i)

	if !cfg.Server.AdvertiseMDNS {
		log.Info("mDNS advertisement disabled by configuration")
		return &MDNSServiceHandle{Service: nil, started: false}, nil
	}

	svc := mdns.NewService(log.Logger)

	// Parse port
	port := 8080
	if _, err := fmt.Sscanf(cfg.Server.Port, "%d", &port); err != nil {
		log.Warn("Failed to parse server port for mDNS, using default", "port", cfg.Server.Port)
	}

	info := mdns.Info{
		Name:      cfg.Server.Name,
		PublicURL: cfg.Server.PublicURL,
	}
	if err := svc.Start(info, port); err != nil {
		log.Warn("mDNS advertisement unavailable", "error", err)
		// Non-fatal: server works without mDNS (e.g., Docker, cloud)
		return &MDNSServiceHandle{Service: svc, started: false}, nil
	}

	return &MDNSServiceHandle{Service: svc, started: true}, nil
}

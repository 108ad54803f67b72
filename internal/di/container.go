// Package di provides dependency injection configuration for the ExLibris server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/exlibrismoi/exlibris-server/internal/auth"
	"github.com/exlibrismoi/exlibris-server/internal/config"
	"github.com/exlibrismoi/exlibris-server/internal/di/providers"
	"github.com/exlibrismoi/exlibris-server/internal/logger"
	"github.com/exlibrismoi/exlibris-server/internal/media/covers"
	"github.com/exlibrismoi/exlibris-server/internal/media/images"
	"github.com/exlibrismoi/exlibris-server/internal/metadata"
	"github.com/exlibrismoi/exlibris-server/internal/metadata/googlebooks"
	"github.com/exlibrismoi/exlibris-server/internal/metadata/nyt"
	"github.com/exlibrismoi/exlibris-server/internal/metadata/openlibrary"
	"github.com/exlibrismoi/exlibris-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideSlogLogger)
	do.Provide(injector, providers.ProvideAuthKey)

	// Database layer
	do.Provide(injector, providers.ProvideSSEManager)
	do.Provide(injector, providers.ProvideStore)

	// Storage layer
	do.Provide(injector, providers.ProvideImageStorage)
	do.Provide(injector, providers.ProvideCoverDownloader)
	do.Provide(injector, providers.ProvideSearchIndex)

	// Metadata layer
	do.Provide(injector, providers.ProvideGoogleBooksClient)
	do.Provide(injector, providers.ProvideOpenLibraryClient)
	do.Provide(injector, providers.ProvideNYTClient)
	do.Provide(injector, providers.ProvideMetadataResolver)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)

	// Business services
	do.Provide(injector, providers.ProvideSessionService)
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvideBookService)
	do.Provide(injector, providers.ProvideLoanService)
	do.Provide(injector, providers.ProvideScanService)
	do.Provide(injector, providers.ProvideSocialService)
	do.Provide(injector, providers.ProvideProfileService)
	do.Provide(injector, providers.ProvideDiscoverService)

	// Workers
	do.Provide(injector, providers.ProvideSessionCleanupJob)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)
	do.Provide(injector, providers.ProvideMDNSService)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	// Invoke core services to trigger initialization
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[providers.AuthKey](injector)
	_ = do.MustInvoke[*providers.SSEManagerHandle](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*images.Storage](injector)
	_ = do.MustInvoke[*covers.Downloader](injector)
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)
	_ = do.MustInvoke[*googlebooks.Client](injector)
	_ = do.MustInvoke[*openlibrary.Client](injector)
	_ = do.MustInvoke[*nyt.Client](injector)
	_ = do.MustInvoke[*metadata.Resolver](injector)
	_ = do.MustInvoke[*auth.TokenService](injector)

	// Business services
	_ = do.MustInvoke[*service.SessionService](injector)
	_ = do.MustInvoke[*service.AuthService](injector)
	_ = do.MustInvoke[*service.BookService](injector)
	_ = do.MustInvoke[*service.LoanService](injector)
	_ = do.MustInvoke[*service.ScanService](injector)
	_ = do.MustInvoke[*service.SocialService](injector)
	_ = do.MustInvoke[*service.ProfileService](injector)
	_ = do.MustInvoke[*service.DiscoverService](injector)

	// Workers
	_ = do.MustInvoke[*providers.SessionCleanupJob](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)
	_ = do.MustInvoke[*providers.MDNSServiceHandle](injector)

	return nil
}

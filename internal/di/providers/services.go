package providers

import (
	"github.com/samber/do/v2"

	"github.com/exlibrismoi/exlibris-server/internal/auth"
	"github.com/exlibrismoi/exlibris-server/internal/logger"
	"github.com/exlibrismoi/exlibris-server/internal/media/covers"
	"github.com/exlibrismoi/exlibris-server/internal/media/images"
	"github.com/exlibrismoi/exlibris-server/internal/metadata"
	"github.com/exlibrismoi/exlibris-server/internal/metadata/nyt"
	"github.com/exlibrismoi/exlibris-server/internal/service"
)

// ProvideSessionService provides the session management service.
func ProvideSessionService(i do.Injector) (*service.SessionService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSessionService(storeHandle.Store, tokenService, log.Logger), nil
}

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	sessionService := do.MustInvoke[*service.SessionService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(storeHandle.Store, tokenService, sessionService, log.Logger), nil
}

// ProvideBookService provides the shelf management service.
func ProvideBookService(i do.Injector) (*service.BookService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	storage := do.MustInvoke[*images.Storage](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewBookService(storeHandle.Store, storage, log.Logger), nil
}

// ProvideLoanService provides the loan lifecycle service.
func ProvideLoanService(i do.Injector) (*service.LoanService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewLoanService(storeHandle.Store, log.Logger), nil
}

// ProvideScanService provides the barcode scan session service.
func ProvideScanService(i do.Injector) (*service.ScanService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	resolver := do.MustInvoke[*metadata.Resolver](i)
	downloader := do.MustInvoke[*covers.Downloader](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewScanService(storeHandle.Store, resolver, downloader, log.Logger), nil
}

// ProvideSocialService provides the friends and user search service.
func ProvideSocialService(i do.Injector) (*service.SocialService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSocialService(storeHandle.Store, log.Logger), nil
}

// ProvideProfileService provides the user profile service.
func ProvideProfileService(i do.Injector) (*service.ProfileService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	storage := do.MustInvoke[*images.Storage](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewProfileService(storeHandle.Store, storage, log.Logger), nil
}

// ProvideDiscoverService provides the bestseller discovery service.
func ProvideDiscoverService(i do.Injector) (*service.DiscoverService, error) {
	client := do.MustInvoke[*nyt.Client](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewDiscoverService(client, log.Logger), nil
}

package providers

import (
	"github.com/samber/do/v2"

	"github.com/exlibrismoi/exlibris-server/internal/config"
	"github.com/exlibrismoi/exlibris-server/internal/logger"
	"github.com/exlibrismoi/exlibris-server/internal/metadata"
	"github.com/exlibrismoi/exlibris-server/internal/metadata/googlebooks"
	"github.com/exlibrismoi/exlibris-server/internal/metadata/nyt"
	"github.com/exlibrismoi/exlibris-server/internal/metadata/openlibrary"
)

// ProvideGoogleBooksClient provides the Google Books API client.
func ProvideGoogleBooksClient(i do.Injector) (*googlebooks.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	return googlebooks.NewClient(cfg.Metadata.GoogleBooksAPIKey, cfg.Metadata.RequestTimeout, log.Logger), nil
}

// ProvideOpenLibraryClient provides the Open Library API client.
func ProvideOpenLibraryClient(i do.Injector) (*openlibrary.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	return openlibrary.NewClient(cfg.Metadata.RequestTimeout, log.Logger), nil
}

// ProvideNYTClient provides the New York Times bestsellers client.
func ProvideNYTClient(i do.Injector) (*nyt.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	client := nyt.NewClient(cfg.Metadata.NYTAPIKey, cfg.Metadata.RequestTimeout, log.Logger)
	if !client.Enabled() {
		log.Warn("NYT API key not configured, bestsellers endpoint disabled")
	}

	return client, nil
}

// ProvideMetadataResolver provides the ISBN resolver with the provider
// fallback chain. Google Books is consulted first, Open Library second.
func ProvideMetadataResolver(i do.Injector) (*metadata.Resolver, error) {
	log := do.MustInvoke[*logger.Logger](i)
	google := do.MustInvoke[*googlebooks.Client](i)
	openLib := do.MustInvoke[*openlibrary.Client](i)

	return metadata.NewResolver(log.Logger, google, openLib), nil
}

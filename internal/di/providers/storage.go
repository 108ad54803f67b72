package providers

import (
	"fmt"

	"github.com/samber/do/v2"

	"github.com/exlibrismoi/exlibris-server/internal/config"
	"github.com/exlibrismoi/exlibris-server/internal/logger"
	"github.com/exlibrismoi/exlibris-server/internal/media/covers"
	"github.com/exlibrismoi/exlibris-server/internal/media/images"
)

// ProvideImageStorage provides the file storage for covers and profile photos.
func ProvideImageStorage(i do.Injector) (*images.Storage, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	storage, err := images.NewStorage(cfg.FilesPath())
	if err != nil {
		return nil, fmt.Errorf("image storage: %w", err)
	}

	log.Info("Image storage initialized", "path", cfg.FilesPath())

	return storage, nil
}

// ProvideCoverDownloader provides the cover rehosting downloader.
func ProvideCoverDownloader(i do.Injector) (*covers.Downloader, error) {
	storage := do.MustInvoke[*images.Storage](i)
	log := do.MustInvoke[*logger.Logger](i)

	return covers.NewDownloader(storage, log.Logger), nil
}

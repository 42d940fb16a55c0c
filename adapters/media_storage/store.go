package media_storage

import (
	"fmt"

	"github.com/khoahotran/portfolio-api/internal/application/service"
	"github.com/khoahotran/portfolio-api/internal/config"
	"github.com/khoahotran/portfolio-api/pkg/logger"
)

// NewAssetStore picks the configured storage backend.
func NewAssetStore(cfg config.Config, log logger.Logger) (service.AssetStore, error) {
	switch cfg.Storage.Driver {
	case "s3":
		return NewS3Adapter(cfg, log)
	case "cloudinary", "":
		return NewCloudinaryAdapter(cfg, log)
	default:
		return nil, fmt.Errorf("unknown storage driver: %q", cfg.Storage.Driver)
	}
}

package media_storage

import (
	"context"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/khoahotran/portfolio-api/internal/application/service"
	"github.com/khoahotran/portfolio-api/internal/config"
	"github.com/khoahotran/portfolio-api/pkg/logger"
)

type cloudinaryAdapter struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryAdapter(cfg config.Config, log logger.Logger) (service.AssetStore, error) {

	if cfg.Cloudinary.CloudName == "" {
		return nil, fmt.Errorf("cloudinary cloud_name has not config")
	}

	cld, err := cloudinary.NewFromParams(
		cfg.Cloudinary.CloudName,
		cfg.Cloudinary.ApiKey,
		cfg.Cloudinary.ApiSecret,
	)
	if err != nil {
		return nil, fmt.Errorf("cannot init cloudinary: %w", err)
	}

	log.Info("connect Cloudinary successfully.")
	return &cloudinaryAdapter{cld: cld}, nil
}

// Store uploads the file with the full tenant-scoped path as its public id,
// so cloudinary mirrors the users/<tenant>/... layout exactly.
func (a *cloudinaryAdapter) Store(ctx context.Context, path string, file io.Reader) error {
	_, err := a.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		PublicID: path,
	})
	if err != nil {
		return fmt.Errorf("failed to upload cloudinary: %w", err)
	}
	return nil
}

func (a *cloudinaryAdapter) Delete(ctx context.Context, path string) error {
	_, err := a.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID: path,
	})
	if err != nil {
		return fmt.Errorf("failed to delete cloudinary: %w", err)
	}
	return nil
}

package services

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"travel-agency/internal/auth"
	"travel-agency/internal/status"
	"travel-agency/migrations"
	"travel-agency/models"

	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/tools/filesystem"
)

const defaultMediaFolder = "admin"

// MediaService stores admin uploads as media records and hands back the
// public file URL.
type MediaService struct {
	app       core.App
	publicURL string
}

func NewMediaService(app core.App, publicURL string) *MediaService {
	return &MediaService{app: app, publicURL: strings.TrimRight(publicURL, "/")}
}

func (s *MediaService) Upload(ctx context.Context, session auth.Session, bucket, folder string, file *filesystem.File) (models.Media, error) {
	if err := auth.RequireAdmin(session); err != nil {
		return models.Media{}, err
	}
	if !slices.Contains(models.MediaBuckets, bucket) {
		return models.Media{}, fmt.Errorf("bucket %q: %w", bucket, status.ErrUnsupportedBucket)
	}
	if file == nil {
		return models.Media{}, fmt.Errorf("%w: file is required", status.ErrValidation)
	}
	if folder = models.Slugify(folder); folder == "" {
		folder = defaultMediaFolder
	}

	collection, err := s.app.FindCachedCollectionByNameOrId(migrations.Media)
	if err != nil {
		return models.Media{}, fmt.Errorf("find media collection: %w", err)
	}

	record := core.NewRecord(collection)
	record.Set("bucket", bucket)
	record.Set("folder", folder)
	record.Set("file", file)
	if err := s.app.SaveWithContext(ctx, record); err != nil {
		return models.Media{}, fmt.Errorf("store upload: %w", err)
	}

	path := record.BaseFilesPath() + "/" + record.GetString("file")
	return models.Media{
		ID:        record.Id,
		Bucket:    bucket,
		Folder:    folder,
		Path:      path,
		PublicURL: s.publicURL + "/api/files/" + path,
	}, nil
}

package service

import (
	"bytes"
	"context"
	"log/slog"
	"path"

	"github.com/google/uuid"
	"github.com/otion-app/otion/internal/model"
	"github.com/otion-app/otion/internal/storage"
	"github.com/otion-app/otion/internal/validation"
)

// ImageService validates photo data URIs and, when object storage is configured,
// moves them out of the database into storage.
type ImageService struct {
	storage storage.Storage
}

// NewImageService accepts a nil storage, in which case images stay inline.
func NewImageService(storage storage.Storage) *ImageService {
	return &ImageService{storage: storage}
}

// Store validates a data URI and returns the reference to persist:
// the URI itself without storage, or the object URL under public/<folder>/.
func (s *ImageService) Store(ctx context.Context, folder, dataURI string) (string, error) {
	img, err := validation.ParseImageDataURI(dataURI, validation.ImageConstraints)
	if err != nil {
		return "", model.NewValidationError(err.Error())
	}

	if s.storage == nil {
		return dataURI, nil
	}

	storagePath := path.Join("public", folder, uuid.New().String()+img.Ext)
	err = s.storage.Save(ctx, storagePath, img.MimeType, bytes.NewReader(img.Data))
	if err != nil {
		return "", model.NewStoreError(err)
	}

	return s.storage.URL(storagePath), nil
}

// Delete removes a stored object by its reference. Inline images and foreign
// URLs are ignored; failures are logged, never returned.
func (s *ImageService) Delete(ctx context.Context, ref string) {
	if s.storage == nil || ref == "" {
		return
	}

	storagePath, ok := s.storage.Path(ref)
	if !ok {
		return
	}

	err := s.storage.Delete(ctx, storagePath)
	if err != nil {
		slog.Error("failed to delete image from storage", "error", err, "path", storagePath)
	}
}


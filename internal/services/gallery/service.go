package gallery

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/atharvgarg18/iet-csbs-sub000/internal/domain/model"
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("image or category not found")
	ErrConflict   = errors.New("category still has images")
)

// maxImageSize bounds a single upload at 10 MiB.
const maxImageSize = 10 << 20

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

type CategoryStore interface {
	ListCategories(ctx context.Context) ([]model.GalleryCategory, error)
	CreateCategory(ctx context.Context, category model.GalleryCategory) (model.GalleryCategory, error)
	UpdateCategory(ctx context.Context, category model.GalleryCategory) (model.GalleryCategory, error)
	DeleteCategory(ctx context.Context, id int64) error
	CategoryHasImages(ctx context.Context, id int64) (bool, error)
}

type ImageStore interface {
	ListImages(ctx context.Context, categoryID int64) ([]model.GalleryImage, error)
	GetImage(ctx context.Context, id int64) (model.GalleryImage, error)
	CreateImage(ctx context.Context, image model.GalleryImage) (model.GalleryImage, error)
	UpdateImage(ctx context.Context, image model.GalleryImage) (model.GalleryImage, error)
	DeleteImage(ctx context.Context, id int64) error
}

// Storage is the object backend images live in; the row in Postgres only
// keeps the key and the public URL.
type Storage interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	PublicURL(key string) string
}

type Service struct {
	categories CategoryStore
	images     ImageStore
	storage    Storage
	log        *zap.Logger

	newKey func() string
}

func NewService(categories CategoryStore, images ImageStore, storage Storage, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}

	return &Service{
		categories: categories,
		images:     images,
		storage:    storage,
		log:        log,
		newKey:     uuid.NewString,
	}
}

func (s *Service) ListCategories(ctx context.Context) ([]model.GalleryCategory, error) {
	list, err := s.categories.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list gallery categories: %w", err)
	}
	return list, nil
}

func (s *Service) CreateCategory(ctx context.Context, name string) (model.GalleryCategory, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.GalleryCategory{}, ErrValidation
	}

	category, err := s.categories.CreateCategory(ctx, model.GalleryCategory{Name: name})
	if err != nil {
		return model.GalleryCategory{}, fmt.Errorf("create gallery category: %w", err)
	}
	return category, nil
}

func (s *Service) UpdateCategory(ctx context.Context, id int64, name string) (model.GalleryCategory, error) {
	if id <= 0 {
		return model.GalleryCategory{}, ErrValidation
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return model.GalleryCategory{}, ErrValidation
	}

	category, err := s.categories.UpdateCategory(ctx, model.GalleryCategory{ID: id, Name: name})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return model.GalleryCategory{}, ErrNotFound
		}
		return model.GalleryCategory{}, fmt.Errorf("update gallery category: %w", err)
	}
	return category, nil
}

func (s *Service) DeleteCategory(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrValidation
	}

	inUse, err := s.categories.CategoryHasImages(ctx, id)
	if err != nil {
		return fmt.Errorf("check category images: %w", err)
	}
	if inUse {
		return ErrConflict
	}

	if err := s.categories.DeleteCategory(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete gallery category: %w", err)
	}
	return nil
}

func (s *Service) ListImages(ctx context.Context, categoryID int64) ([]model.GalleryImage, error) {
	list, err := s.images.ListImages(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list gallery images: %w", err)
	}
	return list, nil
}

// Upload streams the file into object storage first and records the row
// after; a failed insert triggers a best-effort cleanup of the object.
func (s *Service) Upload(ctx context.Context, categoryID int64, caption, contentType string, r io.Reader, size int64) (model.GalleryImage, error) {
	if categoryID <= 0 {
		return model.GalleryImage{}, ErrValidation
	}
	if size <= 0 || size > maxImageSize {
		return model.GalleryImage{}, ErrValidation
	}
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return model.GalleryImage{}, ErrValidation
	}
	if s.storage == nil {
		return model.GalleryImage{}, fmt.Errorf("object storage is not configured")
	}

	key := path.Join("gallery", s.newKey()+ext)
	if err := s.storage.Put(ctx, key, io.LimitReader(r, size), size, contentType); err != nil {
		return model.GalleryImage{}, fmt.Errorf("upload image: %w", err)
	}

	image, err := s.images.CreateImage(ctx, model.GalleryImage{
		CategoryID: categoryID,
		Caption:    strings.TrimSpace(caption),
		ObjectKey:  key,
		URL:        s.storage.PublicURL(key),
	})
	if err != nil {
		if cleanupErr := s.storage.Delete(context.WithoutCancel(ctx), key); cleanupErr != nil {
			s.log.Warn("orphaned gallery object", zap.String("key", key), zap.Error(cleanupErr))
		}
		if errors.Is(err, ErrNotFound) {
			return model.GalleryImage{}, ErrNotFound
		}
		return model.GalleryImage{}, fmt.Errorf("record image: %w", err)
	}
	return image, nil
}

// UpdateImage changes the caption or moves the image to another
// category. The stored object and its key never change.
func (s *Service) UpdateImage(ctx context.Context, id, categoryID int64, caption string) (model.GalleryImage, error) {
	if id <= 0 || categoryID <= 0 {
		return model.GalleryImage{}, ErrValidation
	}

	image, err := s.images.GetImage(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return model.GalleryImage{}, ErrNotFound
		}
		return model.GalleryImage{}, fmt.Errorf("load image: %w", err)
	}

	image.CategoryID = categoryID
	image.Caption = strings.TrimSpace(caption)

	updated, err := s.images.UpdateImage(ctx, image)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return model.GalleryImage{}, ErrNotFound
		}
		return model.GalleryImage{}, fmt.Errorf("update image: %w", err)
	}
	return updated, nil
}

// DeleteImage removes the row first so the API stops serving the URL even
// if the object delete fails; the leftover object is only logged.
func (s *Service) DeleteImage(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrValidation
	}

	image, err := s.images.GetImage(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("load image: %w", err)
	}

	if err := s.images.DeleteImage(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete image row: %w", err)
	}

	if s.storage != nil && image.ObjectKey != "" {
		if err := s.storage.Delete(context.WithoutCancel(ctx), image.ObjectKey); err != nil {
			s.log.Warn("orphaned gallery object", zap.String("key", image.ObjectKey), zap.Error(err))
		}
	}
	return nil
}

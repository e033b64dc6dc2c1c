package notices

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atharvgarg18/iet-csbs-sub000/internal/domain/model"
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("notice or category not found")
	ErrConflict   = errors.New("category still has notices")
)

type CategoryStore interface {
	ListCategories(ctx context.Context) ([]model.NoticeCategory, error)
	CreateCategory(ctx context.Context, category model.NoticeCategory) (model.NoticeCategory, error)
	UpdateCategory(ctx context.Context, category model.NoticeCategory) (model.NoticeCategory, error)
	DeleteCategory(ctx context.Context, id int64) error
	CategoryHasNotices(ctx context.Context, id int64) (bool, error)
}

type NoticeStore interface {
	ListNotices(ctx context.Context, categoryID int64, publishedOnly bool) ([]model.Notice, error)
	GetNotice(ctx context.Context, id int64) (model.Notice, error)
	CreateNotice(ctx context.Context, notice model.Notice) (model.Notice, error)
	UpdateNotice(ctx context.Context, notice model.Notice) (model.Notice, error)
	DeleteNotice(ctx context.Context, id int64) error
}

type Service struct {
	categories CategoryStore
	notices    NoticeStore

	now func() time.Time
}

func NewService(categories CategoryStore, notices NoticeStore) *Service {
	return &Service{
		categories: categories,
		notices:    notices,
		now:        time.Now,
	}
}

func (s *Service) ListCategories(ctx context.Context) ([]model.NoticeCategory, error) {
	list, err := s.categories.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list notice categories: %w", err)
	}
	return list, nil
}

func (s *Service) CreateCategory(ctx context.Context, name string) (model.NoticeCategory, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.NoticeCategory{}, ErrValidation
	}

	category, err := s.categories.CreateCategory(ctx, model.NoticeCategory{Name: name})
	if err != nil {
		return model.NoticeCategory{}, fmt.Errorf("create notice category: %w", err)
	}
	return category, nil
}

// UpdateCategory renames a category; notices keep referencing it.
func (s *Service) UpdateCategory(ctx context.Context, id int64, name string) (model.NoticeCategory, error) {
	if id <= 0 {
		return model.NoticeCategory{}, ErrValidation
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return model.NoticeCategory{}, ErrValidation
	}

	category, err := s.categories.UpdateCategory(ctx, model.NoticeCategory{ID: id, Name: name})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return model.NoticeCategory{}, ErrNotFound
		}
		return model.NoticeCategory{}, fmt.Errorf("update notice category: %w", err)
	}
	return category, nil
}

// DeleteCategory refuses while notices still reference it; reassign or
// delete the notices first.
func (s *Service) DeleteCategory(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrValidation
	}

	inUse, err := s.categories.CategoryHasNotices(ctx, id)
	if err != nil {
		return fmt.Errorf("check category notices: %w", err)
	}
	if inUse {
		return ErrConflict
	}

	if err := s.categories.DeleteCategory(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete notice category: %w", err)
	}
	return nil
}

func (s *Service) ListNotices(ctx context.Context, categoryID int64, publishedOnly bool) ([]model.Notice, error) {
	list, err := s.notices.ListNotices(ctx, categoryID, publishedOnly)
	if err != nil {
		return nil, fmt.Errorf("list notices: %w", err)
	}
	return list, nil
}

func (s *Service) GetNotice(ctx context.Context, id int64) (model.Notice, error) {
	if id <= 0 {
		return model.Notice{}, ErrValidation
	}

	notice, err := s.notices.GetNotice(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return model.Notice{}, ErrNotFound
		}
		return model.Notice{}, fmt.Errorf("get notice: %w", err)
	}
	return notice, nil
}

// CreateNotice stores a draft; publish=true stamps PublishedAt so the
// notice shows up in published-only listings immediately.
func (s *Service) CreateNotice(ctx context.Context, notice model.Notice, publish bool) (model.Notice, error) {
	if err := validateNotice(notice); err != nil {
		return model.Notice{}, err
	}
	if publish {
		at := s.now().UTC()
		notice.PublishedAt = &at
	} else {
		notice.PublishedAt = nil
	}

	created, err := s.notices.CreateNotice(ctx, notice)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return model.Notice{}, ErrNotFound
		}
		return model.Notice{}, fmt.Errorf("create notice: %w", err)
	}
	return created, nil
}

// UpdateNotice keeps an already published timestamp unless publish flips
// the state: publishing a draft stamps now, unpublishing clears it.
func (s *Service) UpdateNotice(ctx context.Context, notice model.Notice, publish bool) (model.Notice, error) {
	if notice.ID <= 0 {
		return model.Notice{}, ErrValidation
	}
	if err := validateNotice(notice); err != nil {
		return model.Notice{}, err
	}

	current, err := s.notices.GetNotice(ctx, notice.ID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return model.Notice{}, ErrNotFound
		}
		return model.Notice{}, fmt.Errorf("load notice: %w", err)
	}

	switch {
	case publish && current.PublishedAt != nil:
		notice.PublishedAt = current.PublishedAt
	case publish:
		at := s.now().UTC()
		notice.PublishedAt = &at
	default:
		notice.PublishedAt = nil
	}

	updated, err := s.notices.UpdateNotice(ctx, notice)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return model.Notice{}, ErrNotFound
		}
		return model.Notice{}, fmt.Errorf("update notice: %w", err)
	}
	return updated, nil
}

func (s *Service) DeleteNotice(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrValidation
	}

	if err := s.notices.DeleteNotice(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete notice: %w", err)
	}
	return nil
}

func validateNotice(notice model.Notice) error {
	if notice.CategoryID <= 0 {
		return ErrValidation
	}
	if strings.TrimSpace(notice.Title) == "" || strings.TrimSpace(notice.Body) == "" {
		return ErrValidation
	}
	return nil
}

package batches

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/atharvgarg18/iet-csbs-sub000/internal/domain/model"
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("batch or section not found")
	ErrConflict   = errors.New("conflicting dependent rows")
)

type BatchStore interface {
	ListBatches(ctx context.Context) ([]model.Batch, error)
	CreateBatch(ctx context.Context, batch model.Batch) (model.Batch, error)
	UpdateBatch(ctx context.Context, batch model.Batch) (model.Batch, error)
	DeleteBatch(ctx context.Context, id int64) error
	BatchHasSections(ctx context.Context, id int64) (bool, error)
}

type SectionStore interface {
	ListSections(ctx context.Context, batchID int64) ([]model.Section, error)
	CreateSection(ctx context.Context, section model.Section) (model.Section, error)
	UpdateSection(ctx context.Context, section model.Section) (model.Section, error)
	DeleteSection(ctx context.Context, id int64) error
	SectionInUse(ctx context.Context, id int64) (bool, error)
}

type Service struct {
	batches  BatchStore
	sections SectionStore
}

func NewService(batches BatchStore, sections SectionStore) *Service {
	return &Service{batches: batches, sections: sections}
}

func (s *Service) ListBatches(ctx context.Context) ([]model.Batch, error) {
	list, err := s.batches.ListBatches(ctx)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	return list, nil
}

func (s *Service) CreateBatch(ctx context.Context, name string, startYear int) (model.Batch, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Batch{}, ErrValidation
	}

	batch, err := s.batches.CreateBatch(ctx, model.Batch{Name: name, StartYear: startYear})
	if err != nil {
		return model.Batch{}, fmt.Errorf("create batch: %w", err)
	}
	return batch, nil
}

func (s *Service) UpdateBatch(ctx context.Context, id int64, name string, startYear int) (model.Batch, error) {
	name = strings.TrimSpace(name)
	if id <= 0 || name == "" {
		return model.Batch{}, ErrValidation
	}

	batch, err := s.batches.UpdateBatch(ctx, model.Batch{ID: id, Name: name, StartYear: startYear})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return model.Batch{}, ErrNotFound
		}
		return model.Batch{}, fmt.Errorf("update batch: %w", err)
	}
	return batch, nil
}

// DeleteBatch refuses while sections still reference the batch; callers
// must move or delete the sections first.
func (s *Service) DeleteBatch(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrValidation
	}

	inUse, err := s.batches.BatchHasSections(ctx, id)
	if err != nil {
		return fmt.Errorf("check batch sections: %w", err)
	}
	if inUse {
		return ErrConflict
	}

	if err := s.batches.DeleteBatch(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete batch: %w", err)
	}
	return nil
}

func (s *Service) ListSections(ctx context.Context, batchID int64) ([]model.Section, error) {
	list, err := s.sections.ListSections(ctx, batchID)
	if err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	return list, nil
}

func (s *Service) CreateSection(ctx context.Context, batchID int64, name string) (model.Section, error) {
	name = strings.TrimSpace(name)
	if batchID <= 0 || name == "" {
		return model.Section{}, ErrValidation
	}

	section, err := s.sections.CreateSection(ctx, model.Section{BatchID: batchID, Name: name})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return model.Section{}, ErrNotFound
		}
		return model.Section{}, fmt.Errorf("create section: %w", err)
	}
	return section, nil
}

func (s *Service) UpdateSection(ctx context.Context, id, batchID int64, name string) (model.Section, error) {
	name = strings.TrimSpace(name)
	if id <= 0 || batchID <= 0 || name == "" {
		return model.Section{}, ErrValidation
	}

	section, err := s.sections.UpdateSection(ctx, model.Section{ID: id, BatchID: batchID, Name: name})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return model.Section{}, ErrNotFound
		}
		return model.Section{}, fmt.Errorf("update section: %w", err)
	}
	return section, nil
}

// DeleteSection refuses while notes or papers still reference it.
func (s *Service) DeleteSection(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrValidation
	}

	inUse, err := s.sections.SectionInUse(ctx, id)
	if err != nil {
		return fmt.Errorf("check section usage: %w", err)
	}
	if inUse {
		return ErrConflict
	}

	if err := s.sections.DeleteSection(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete section: %w", err)
	}
	return nil
}

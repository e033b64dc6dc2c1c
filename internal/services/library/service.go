package library

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/atharvgarg18/iet-csbs-sub000/internal/domain/model"
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("note or paper not found")
)

type NoteStore interface {
	CountNotes(ctx context.Context, sectionID int64) (int, error)
	ListNotes(ctx context.Context, sectionID int64, limit, offset int) ([]model.Note, error)
	CreateNote(ctx context.Context, note model.Note) (model.Note, error)
	UpdateNote(ctx context.Context, note model.Note) (model.Note, error)
	DeleteNote(ctx context.Context, id int64) error
}

type PaperStore interface {
	ListPapers(ctx context.Context, sectionID int64, examYear int) ([]model.Paper, error)
	CreatePaper(ctx context.Context, paper model.Paper) (model.Paper, error)
	UpdatePaper(ctx context.Context, paper model.Paper) (model.Paper, error)
	DeletePaper(ctx context.Context, id int64) error
}

// NotesPage is one page of notes plus enough metadata for the client to
// render pagination without a second round trip.
type NotesPage struct {
	Items   []model.Note `json:"items"`
	Page    int          `json:"page"`
	Total   int          `json:"total"`
	HasMore bool         `json:"has_more"`
}

type Service struct {
	notes    NoteStore
	papers   PaperStore
	pageSize int
}

func NewService(notes NoteStore, papers PaperStore, pageSize int) *Service {
	if pageSize <= 0 {
		pageSize = 20
	}

	return &Service{
		notes:    notes,
		papers:   papers,
		pageSize: pageSize,
	}
}

// ListNotes returns the requested page, newest first. Pages are 1-based;
// anything below 1 is treated as the first page.
func (s *Service) ListNotes(ctx context.Context, sectionID int64, page int) (NotesPage, error) {
	if page < 1 {
		page = 1
	}

	total, err := s.notes.CountNotes(ctx, sectionID)
	if err != nil {
		return NotesPage{}, fmt.Errorf("count notes: %w", err)
	}

	offset := (page - 1) * s.pageSize
	items := []model.Note{}
	if offset < total {
		items, err = s.notes.ListNotes(ctx, sectionID, s.pageSize, offset)
		if err != nil {
			return NotesPage{}, fmt.Errorf("list notes: %w", err)
		}
	}

	return NotesPage{
		Items:   items,
		Page:    page,
		Total:   total,
		HasMore: offset+len(items) < total,
	}, nil
}

func (s *Service) CreateNote(ctx context.Context, note model.Note) (model.Note, error) {
	if err := validateNote(note); err != nil {
		return model.Note{}, err
	}

	created, err := s.notes.CreateNote(ctx, note)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return model.Note{}, ErrNotFound
		}
		return model.Note{}, fmt.Errorf("create note: %w", err)
	}
	return created, nil
}

func (s *Service) UpdateNote(ctx context.Context, note model.Note) (model.Note, error) {
	if note.ID <= 0 {
		return model.Note{}, ErrValidation
	}
	if err := validateNote(note); err != nil {
		return model.Note{}, err
	}

	updated, err := s.notes.UpdateNote(ctx, note)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return model.Note{}, ErrNotFound
		}
		return model.Note{}, fmt.Errorf("update note: %w", err)
	}
	return updated, nil
}

func (s *Service) DeleteNote(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrValidation
	}

	if err := s.notes.DeleteNote(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete note: %w", err)
	}
	return nil
}

// ListPapers filters by section and exam year; zero values disable the
// respective filter.
func (s *Service) ListPapers(ctx context.Context, sectionID int64, examYear int) ([]model.Paper, error) {
	list, err := s.papers.ListPapers(ctx, sectionID, examYear)
	if err != nil {
		return nil, fmt.Errorf("list papers: %w", err)
	}
	return list, nil
}

func (s *Service) CreatePaper(ctx context.Context, paper model.Paper) (model.Paper, error) {
	if err := validatePaper(paper); err != nil {
		return model.Paper{}, err
	}

	created, err := s.papers.CreatePaper(ctx, paper)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return model.Paper{}, ErrNotFound
		}
		return model.Paper{}, fmt.Errorf("create paper: %w", err)
	}
	return created, nil
}

func (s *Service) UpdatePaper(ctx context.Context, paper model.Paper) (model.Paper, error) {
	if paper.ID <= 0 {
		return model.Paper{}, ErrValidation
	}
	if err := validatePaper(paper); err != nil {
		return model.Paper{}, err
	}

	updated, err := s.papers.UpdatePaper(ctx, paper)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return model.Paper{}, ErrNotFound
		}
		return model.Paper{}, fmt.Errorf("update paper: %w", err)
	}
	return updated, nil
}

func (s *Service) DeletePaper(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrValidation
	}

	if err := s.papers.DeletePaper(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete paper: %w", err)
	}
	return nil
}

func validateNote(note model.Note) error {
	if note.SectionID <= 0 {
		return ErrValidation
	}
	if strings.TrimSpace(note.Title) == "" || strings.TrimSpace(note.Subject) == "" {
		return ErrValidation
	}
	if strings.TrimSpace(note.FileURL) == "" {
		return ErrValidation
	}
	return nil
}

func validatePaper(paper model.Paper) error {
	if paper.SectionID <= 0 {
		return ErrValidation
	}
	if strings.TrimSpace(paper.Title) == "" || strings.TrimSpace(paper.Subject) == "" {
		return ErrValidation
	}
	if strings.TrimSpace(paper.FileURL) == "" {
		return ErrValidation
	}
	if paper.ExamYear < 2000 || paper.ExamYear > 2100 {
		return ErrValidation
	}
	return nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/atharvgarg18/iet-csbs-sub000/internal/domain/model"
	librarysvc "github.com/atharvgarg18/iet-csbs-sub000/internal/services/library"
)

const noteColumns = `id, section_id, title, subject, file_url, created_by, created_at, updated_at`

type NoteRepo struct {
	pool *pgxpool.Pool
}

func NewNoteRepo(pool *pgxpool.Pool) *NoteRepo {
	return &NoteRepo{pool: pool}
}

func scanNote(row pgx.Row) (model.Note, error) {
	var n model.Note
	err := row.Scan(
		&n.ID,
		&n.SectionID,
		&n.Title,
		&n.Subject,
		&n.FileURL,
		&n.CreatedBy,
		&n.CreatedAt,
		&n.UpdatedAt,
	)
	return n, err
}

func (r *NoteRepo) CountNotes(ctx context.Context, sectionID int64) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM notes WHERE ($1 = 0 OR section_id = $1)`,
		sectionID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count notes: %w", err)
	}
	return n, nil
}

func (r *NoteRepo) ListNotes(ctx context.Context, sectionID int64, limit, offset int) ([]model.Note, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+noteColumns+`
		 FROM notes
		 WHERE ($1 = 0 OR section_id = $1)
		 ORDER BY id DESC
		 LIMIT $2 OFFSET $3`,
		sectionID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("select notes: %w", err)
	}
	defer rows.Close()

	notes := []model.Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

func (r *NoteRepo) CreateNote(ctx context.Context, note model.Note) (model.Note, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO notes (section_id, title, subject, file_url, created_by)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+noteColumns,
		note.SectionID, note.Title, note.Subject, note.FileURL, note.CreatedBy,
	)
	created, err := scanNote(row)
	if err != nil {
		if isForeignKeyViolation(err) {
			return model.Note{}, librarysvc.ErrNotFound
		}
		return model.Note{}, fmt.Errorf("insert note: %w", err)
	}
	return created, nil
}

func (r *NoteRepo) UpdateNote(ctx context.Context, note model.Note) (model.Note, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE notes
		 SET section_id = $2, title = $3, subject = $4, file_url = $5, updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+noteColumns,
		note.ID, note.SectionID, note.Title, note.Subject, note.FileURL,
	)
	updated, err := scanNote(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isForeignKeyViolation(err) {
			return model.Note{}, librarysvc.ErrNotFound
		}
		return model.Note{}, fmt.Errorf("update note: %w", err)
	}
	return updated, nil
}

func (r *NoteRepo) DeleteNote(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return librarysvc.ErrNotFound
	}
	return nil
}

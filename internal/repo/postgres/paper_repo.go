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

const paperColumns = `id, section_id, title, subject, exam_year, file_url, created_at, updated_at`

type PaperRepo struct {
	pool *pgxpool.Pool
}

func NewPaperRepo(pool *pgxpool.Pool) *PaperRepo {
	return &PaperRepo{pool: pool}
}

func scanPaper(row pgx.Row) (model.Paper, error) {
	var p model.Paper
	err := row.Scan(
		&p.ID,
		&p.SectionID,
		&p.Title,
		&p.Subject,
		&p.ExamYear,
		&p.FileURL,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}

func (r *PaperRepo) ListPapers(ctx context.Context, sectionID int64, examYear int) ([]model.Paper, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+paperColumns+`
		 FROM papers
		 WHERE ($1 = 0 OR section_id = $1)
		   AND ($2 = 0 OR exam_year = $2)
		 ORDER BY exam_year DESC, subject, id`,
		sectionID, examYear,
	)
	if err != nil {
		return nil, fmt.Errorf("select papers: %w", err)
	}
	defer rows.Close()

	papers := []model.Paper{}
	for rows.Next() {
		p, err := scanPaper(rows)
		if err != nil {
			return nil, fmt.Errorf("scan paper: %w", err)
		}
		papers = append(papers, p)
	}
	return papers, rows.Err()
}

func (r *PaperRepo) CreatePaper(ctx context.Context, paper model.Paper) (model.Paper, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO papers (section_id, title, subject, exam_year, file_url)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+paperColumns,
		paper.SectionID, paper.Title, paper.Subject, paper.ExamYear, paper.FileURL,
	)
	created, err := scanPaper(row)
	if err != nil {
		if isForeignKeyViolation(err) {
			return model.Paper{}, librarysvc.ErrNotFound
		}
		return model.Paper{}, fmt.Errorf("insert paper: %w", err)
	}
	return created, nil
}

func (r *PaperRepo) UpdatePaper(ctx context.Context, paper model.Paper) (model.Paper, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE papers
		 SET section_id = $2, title = $3, subject = $4, exam_year = $5, file_url = $6, updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+paperColumns,
		paper.ID, paper.SectionID, paper.Title, paper.Subject, paper.ExamYear, paper.FileURL,
	)
	updated, err := scanPaper(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isForeignKeyViolation(err) {
			return model.Paper{}, librarysvc.ErrNotFound
		}
		return model.Paper{}, fmt.Errorf("update paper: %w", err)
	}
	return updated, nil
}

func (r *PaperRepo) DeletePaper(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM papers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete paper: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return librarysvc.ErrNotFound
	}
	return nil
}

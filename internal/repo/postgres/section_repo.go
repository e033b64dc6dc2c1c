package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/atharvgarg18/iet-csbs-sub000/internal/domain/model"
	batchessvc "github.com/atharvgarg18/iet-csbs-sub000/internal/services/batches"
)

type SectionRepo struct {
	pool *pgxpool.Pool
}

func NewSectionRepo(pool *pgxpool.Pool) *SectionRepo {
	return &SectionRepo{pool: pool}
}

// ListSections returns sections with the owning batch name joined in;
// batchID 0 lists across all batches.
func (r *SectionRepo) ListSections(ctx context.Context, batchID int64) ([]model.Section, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT s.id, s.batch_id, b.name, s.name, s.created_at, s.updated_at
		 FROM sections s
		 JOIN batches b ON b.id = s.batch_id
		 WHERE ($1 = 0 OR s.batch_id = $1)
		 ORDER BY b.start_year DESC, s.name`,
		batchID,
	)
	if err != nil {
		return nil, fmt.Errorf("select sections: %w", err)
	}
	defer rows.Close()

	sections := []model.Section{}
	for rows.Next() {
		var s model.Section
		if err := rows.Scan(&s.ID, &s.BatchID, &s.BatchName, &s.Name, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan section: %w", err)
		}
		sections = append(sections, s)
	}
	return sections, rows.Err()
}

func (r *SectionRepo) CreateSection(ctx context.Context, section model.Section) (model.Section, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO sections (batch_id, name)
		 VALUES ($1, $2)
		 RETURNING id, batch_id, name, created_at, updated_at`,
		section.BatchID, section.Name,
	).Scan(&section.ID, &section.BatchID, &section.Name, &section.CreatedAt, &section.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return model.Section{}, batchessvc.ErrNotFound
		}
		return model.Section{}, fmt.Errorf("insert section: %w", err)
	}
	return section, nil
}

func (r *SectionRepo) UpdateSection(ctx context.Context, section model.Section) (model.Section, error) {
	err := r.pool.QueryRow(ctx,
		`UPDATE sections
		 SET batch_id = $2, name = $3, updated_at = NOW()
		 WHERE id = $1
		 RETURNING id, batch_id, name, created_at, updated_at`,
		section.ID, section.BatchID, section.Name,
	).Scan(&section.ID, &section.BatchID, &section.Name, &section.CreatedAt, &section.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Section{}, batchessvc.ErrNotFound
		}
		if isForeignKeyViolation(err) {
			return model.Section{}, batchessvc.ErrNotFound
		}
		return model.Section{}, fmt.Errorf("update section: %w", err)
	}
	return section, nil
}

func (r *SectionRepo) DeleteSection(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM sections WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return batchessvc.ErrConflict
		}
		return fmt.Errorf("delete section: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return batchessvc.ErrNotFound
	}
	return nil
}

func (r *SectionRepo) SectionInUse(ctx context.Context, id int64) (bool, error) {
	var inUse bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM notes WHERE section_id = $1)
		     OR EXISTS (SELECT 1 FROM papers WHERE section_id = $1)`,
		id,
	).Scan(&inUse)
	if err != nil {
		return false, fmt.Errorf("check section usage: %w", err)
	}
	return inUse, nil
}

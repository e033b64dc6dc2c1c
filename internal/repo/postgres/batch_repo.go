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

type BatchRepo struct {
	pool *pgxpool.Pool
}

func NewBatchRepo(pool *pgxpool.Pool) *BatchRepo {
	return &BatchRepo{pool: pool}
}

func (r *BatchRepo) ListBatches(ctx context.Context) ([]model.Batch, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, start_year, created_at, updated_at
		 FROM batches ORDER BY start_year DESC, name`,
	)
	if err != nil {
		return nil, fmt.Errorf("select batches: %w", err)
	}
	defer rows.Close()

	batches := []model.Batch{}
	for rows.Next() {
		var b model.Batch
		if err := rows.Scan(&b.ID, &b.Name, &b.StartYear, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		batches = append(batches, b)
	}
	return batches, rows.Err()
}

func (r *BatchRepo) CreateBatch(ctx context.Context, batch model.Batch) (model.Batch, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO batches (name, start_year)
		 VALUES ($1, $2)
		 RETURNING id, name, start_year, created_at, updated_at`,
		batch.Name, batch.StartYear,
	).Scan(&batch.ID, &batch.Name, &batch.StartYear, &batch.CreatedAt, &batch.UpdatedAt)
	if err != nil {
		return model.Batch{}, fmt.Errorf("insert batch: %w", err)
	}
	return batch, nil
}

func (r *BatchRepo) UpdateBatch(ctx context.Context, batch model.Batch) (model.Batch, error) {
	err := r.pool.QueryRow(ctx,
		`UPDATE batches
		 SET name = $2, start_year = $3, updated_at = NOW()
		 WHERE id = $1
		 RETURNING id, name, start_year, created_at, updated_at`,
		batch.ID, batch.Name, batch.StartYear,
	).Scan(&batch.ID, &batch.Name, &batch.StartYear, &batch.CreatedAt, &batch.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Batch{}, batchessvc.ErrNotFound
		}
		return model.Batch{}, fmt.Errorf("update batch: %w", err)
	}
	return batch, nil
}

func (r *BatchRepo) DeleteBatch(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM batches WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return batchessvc.ErrConflict
		}
		return fmt.Errorf("delete batch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return batchessvc.ErrNotFound
	}
	return nil
}

func (r *BatchRepo) BatchHasSections(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM sections WHERE batch_id = $1)`, id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check batch sections: %w", err)
	}
	return exists, nil
}

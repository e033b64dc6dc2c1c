package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/atharvgarg18/iet-csbs-sub000/internal/domain/model"
	noticessvc "github.com/atharvgarg18/iet-csbs-sub000/internal/services/notices"
)

// NoticeRepo covers both notice rows and their categories.
type NoticeRepo struct {
	pool *pgxpool.Pool
}

func NewNoticeRepo(pool *pgxpool.Pool) *NoticeRepo {
	return &NoticeRepo{pool: pool}
}

func (r *NoticeRepo) ListCategories(ctx context.Context) ([]model.NoticeCategory, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, created_at FROM notice_categories ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("select notice categories: %w", err)
	}
	defer rows.Close()

	categories := []model.NoticeCategory{}
	for rows.Next() {
		var c model.NoticeCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notice category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *NoticeRepo) CreateCategory(ctx context.Context, category model.NoticeCategory) (model.NoticeCategory, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO notice_categories (name) VALUES ($1)
		 RETURNING id, name, created_at`,
		category.Name,
	).Scan(&category.ID, &category.Name, &category.CreatedAt)
	if err != nil {
		return model.NoticeCategory{}, fmt.Errorf("insert notice category: %w", err)
	}
	return category, nil
}

func (r *NoticeRepo) UpdateCategory(ctx context.Context, category model.NoticeCategory) (model.NoticeCategory, error) {
	err := r.pool.QueryRow(ctx,
		`UPDATE notice_categories SET name = $2 WHERE id = $1
		 RETURNING id, name, created_at`,
		category.ID, category.Name,
	).Scan(&category.ID, &category.Name, &category.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.NoticeCategory{}, noticessvc.ErrNotFound
		}
		return model.NoticeCategory{}, fmt.Errorf("update notice category: %w", err)
	}
	return category, nil
}

func (r *NoticeRepo) DeleteCategory(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM notice_categories WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return noticessvc.ErrConflict
		}
		return fmt.Errorf("delete notice category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return noticessvc.ErrNotFound
	}
	return nil
}

func (r *NoticeRepo) CategoryHasNotices(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM notices WHERE category_id = $1)`, id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check category notices: %w", err)
	}
	return exists, nil
}

const noticeSelect = `
	SELECT n.id, n.category_id, c.name, n.title, n.body, n.published_at, n.created_at, n.updated_at
	FROM notices n
	JOIN notice_categories c ON c.id = n.category_id`

func scanNotice(row pgx.Row) (model.Notice, error) {
	var n model.Notice
	err := row.Scan(
		&n.ID,
		&n.CategoryID,
		&n.CategoryName,
		&n.Title,
		&n.Body,
		&n.PublishedAt,
		&n.CreatedAt,
		&n.UpdatedAt,
	)
	return n, err
}

func (r *NoticeRepo) ListNotices(ctx context.Context, categoryID int64, publishedOnly bool) ([]model.Notice, error) {
	rows, err := r.pool.Query(ctx,
		noticeSelect+`
		 WHERE ($1 = 0 OR n.category_id = $1)
		   AND (NOT $2 OR n.published_at IS NOT NULL)
		 ORDER BY COALESCE(n.published_at, n.created_at) DESC, n.id DESC`,
		categoryID, publishedOnly,
	)
	if err != nil {
		return nil, fmt.Errorf("select notices: %w", err)
	}
	defer rows.Close()

	notices := []model.Notice{}
	for rows.Next() {
		n, err := scanNotice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan notice: %w", err)
		}
		notices = append(notices, n)
	}
	return notices, rows.Err()
}

func (r *NoticeRepo) GetNotice(ctx context.Context, id int64) (model.Notice, error) {
	n, err := scanNotice(r.pool.QueryRow(ctx, noticeSelect+` WHERE n.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Notice{}, noticessvc.ErrNotFound
		}
		return model.Notice{}, fmt.Errorf("select notice: %w", err)
	}
	return n, nil
}

func (r *NoticeRepo) CreateNotice(ctx context.Context, notice model.Notice) (model.Notice, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO notices (category_id, title, body, published_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		notice.CategoryID, notice.Title, notice.Body, notice.PublishedAt,
	).Scan(&notice.ID, &notice.CreatedAt, &notice.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return model.Notice{}, noticessvc.ErrNotFound
		}
		return model.Notice{}, fmt.Errorf("insert notice: %w", err)
	}
	return r.GetNotice(ctx, notice.ID)
}

func (r *NoticeRepo) UpdateNotice(ctx context.Context, notice model.Notice) (model.Notice, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE notices
		 SET category_id = $2, title = $3, body = $4, published_at = $5, updated_at = NOW()
		 WHERE id = $1`,
		notice.ID, notice.CategoryID, notice.Title, notice.Body, notice.PublishedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return model.Notice{}, noticessvc.ErrNotFound
		}
		return model.Notice{}, fmt.Errorf("update notice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.Notice{}, noticessvc.ErrNotFound
	}
	return r.GetNotice(ctx, notice.ID)
}

func (r *NoticeRepo) DeleteNotice(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM notices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete notice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return noticessvc.ErrNotFound
	}
	return nil
}

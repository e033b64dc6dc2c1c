package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/atharvgarg18/iet-csbs-sub000/internal/domain/model"
	gallerysvc "github.com/atharvgarg18/iet-csbs-sub000/internal/services/gallery"
)

type GalleryRepo struct {
	pool *pgxpool.Pool
}

func NewGalleryRepo(pool *pgxpool.Pool) *GalleryRepo {
	return &GalleryRepo{pool: pool}
}

func (r *GalleryRepo) ListCategories(ctx context.Context) ([]model.GalleryCategory, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, created_at FROM gallery_categories ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("select gallery categories: %w", err)
	}
	defer rows.Close()

	categories := []model.GalleryCategory{}
	for rows.Next() {
		var c model.GalleryCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan gallery category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *GalleryRepo) CreateCategory(ctx context.Context, category model.GalleryCategory) (model.GalleryCategory, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO gallery_categories (name) VALUES ($1)
		 RETURNING id, name, created_at`,
		category.Name,
	).Scan(&category.ID, &category.Name, &category.CreatedAt)
	if err != nil {
		return model.GalleryCategory{}, fmt.Errorf("insert gallery category: %w", err)
	}
	return category, nil
}

func (r *GalleryRepo) UpdateCategory(ctx context.Context, category model.GalleryCategory) (model.GalleryCategory, error) {
	err := r.pool.QueryRow(ctx,
		`UPDATE gallery_categories SET name = $2 WHERE id = $1
		 RETURNING id, name, created_at`,
		category.ID, category.Name,
	).Scan(&category.ID, &category.Name, &category.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.GalleryCategory{}, gallerysvc.ErrNotFound
		}
		return model.GalleryCategory{}, fmt.Errorf("update gallery category: %w", err)
	}
	return category, nil
}

func (r *GalleryRepo) DeleteCategory(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM gallery_categories WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return gallerysvc.ErrConflict
		}
		return fmt.Errorf("delete gallery category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return gallerysvc.ErrNotFound
	}
	return nil
}

func (r *GalleryRepo) CategoryHasImages(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM gallery_images WHERE category_id = $1)`, id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check category images: %w", err)
	}
	return exists, nil
}

const imageColumns = `id, category_id, caption, object_key, url, created_at`

func scanImage(row pgx.Row) (model.GalleryImage, error) {
	var img model.GalleryImage
	err := row.Scan(
		&img.ID,
		&img.CategoryID,
		&img.Caption,
		&img.ObjectKey,
		&img.URL,
		&img.CreatedAt,
	)
	return img, err
}

func (r *GalleryRepo) ListImages(ctx context.Context, categoryID int64) ([]model.GalleryImage, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+imageColumns+`
		 FROM gallery_images
		 WHERE ($1 = 0 OR category_id = $1)
		 ORDER BY id DESC`,
		categoryID,
	)
	if err != nil {
		return nil, fmt.Errorf("select gallery images: %w", err)
	}
	defer rows.Close()

	images := []model.GalleryImage{}
	for rows.Next() {
		img, err := scanImage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan gallery image: %w", err)
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

func (r *GalleryRepo) GetImage(ctx context.Context, id int64) (model.GalleryImage, error) {
	img, err := scanImage(r.pool.QueryRow(ctx,
		`SELECT `+imageColumns+` FROM gallery_images WHERE id = $1`, id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.GalleryImage{}, gallerysvc.ErrNotFound
		}
		return model.GalleryImage{}, fmt.Errorf("select gallery image: %w", err)
	}
	return img, nil
}

func (r *GalleryRepo) CreateImage(ctx context.Context, image model.GalleryImage) (model.GalleryImage, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO gallery_images (category_id, caption, object_key, url)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		image.CategoryID, image.Caption, image.ObjectKey, image.URL,
	).Scan(&image.ID, &image.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return model.GalleryImage{}, gallerysvc.ErrNotFound
		}
		return model.GalleryImage{}, fmt.Errorf("insert gallery image: %w", err)
	}
	return image, nil
}

func (r *GalleryRepo) UpdateImage(ctx context.Context, image model.GalleryImage) (model.GalleryImage, error) {
	img, err := scanImage(r.pool.QueryRow(ctx,
		`UPDATE gallery_images SET category_id = $2, caption = $3 WHERE id = $1
		 RETURNING `+imageColumns,
		image.ID, image.CategoryID, image.Caption,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isForeignKeyViolation(err) {
			return model.GalleryImage{}, gallerysvc.ErrNotFound
		}
		return model.GalleryImage{}, fmt.Errorf("update gallery image: %w", err)
	}
	return img, nil
}

func (r *GalleryRepo) DeleteImage(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM gallery_images WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete gallery image: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return gallerysvc.ErrNotFound
	}
	return nil
}

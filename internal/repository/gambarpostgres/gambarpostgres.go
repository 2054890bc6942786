// Package gambarpostgres implements the image repository over Postgres
package gambarpostgres

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/galeriseni/gambar/internal/model"
	"github.com/wb-go/wbf/dbpg"
)

type PostgresRepo struct {
	DB *dbpg.DB
}

const imageColumns = `id, title, description, url, storage_key, file_name, width, height, uploaded_at, deleted_at`

func scanImage(row *sql.Row) (*model.Image, error) {
	var image model.Image
	err := row.Scan(&image.ID,
		&image.Title,
		&image.Description,
		&image.URL,
		&image.StorageKey,
		&image.FileName,
		&image.Width,
		&image.Height,
		&image.UploadedAt,
		&image.DeletedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, model.ErrImageNotFound
		default:
			return nil, err // 500
		}
	}
	return &image, nil
}

func (p PostgresRepo) Create(ctx context.Context, n *model.Image) error {
	query := `INSERT INTO images (title, description, url, storage_key, file_name, width, height)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING id, uploaded_at`
	return p.DB.QueryRowContext(ctx, query,
		n.Title, n.Description, n.URL, n.StorageKey, n.FileName, n.Width, n.Height,
	).Scan(&n.ID, &n.UploadedAt)
}

func (p PostgresRepo) Get(ctx context.Context, id int64) (*model.Image, error) {
	query := `SELECT ` + imageColumns + `
	FROM images
	WHERE id = $1 AND deleted_at IS NULL`

	return scanImage(p.DB.QueryRowContext(ctx, query, id))
}

func (p PostgresRepo) GetList(ctx context.Context) ([]model.Image, error) {
	query := `SELECT ` + imageColumns + `
	FROM images
	WHERE deleted_at IS NULL`

	rows, err := p.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}

	defer func() {
		if err := rows.Close(); err != nil {
			log.Printf("Error while closing *sql.Rows after scanning: %v", err)
		}
	}()

	images := make([]model.Image, 0)
	for rows.Next() {
		var image model.Image
		if err := rows.Scan(&image.ID,
			&image.Title,
			&image.Description,
			&image.URL,
			&image.StorageKey,
			&image.FileName,
			&image.Width,
			&image.Height,
			&image.UploadedAt,
			&image.DeletedAt); err != nil {
			return nil, err
		}
		images = append(images, image)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return images, nil
}

// Update touches title/description only; a nil field keeps the stored value.
// Soft-deleted rows are still updatable on purpose - only get/list hide them.
func (p PostgresRepo) Update(ctx context.Context, id int64, upd *model.ImageUpdateData) (*model.Image, error) {
	query := `UPDATE images
	SET title = COALESCE($2, title), description = COALESCE($3, description)
	WHERE id = $1
	RETURNING ` + imageColumns

	return scanImage(p.DB.QueryRowContext(ctx, query, id, upd.Title, upd.Description))
}

// SoftDelete stamps deleted_at unconditionally: re-deleting a deleted row
// refreshes the stamp and still succeeds.
func (p PostgresRepo) SoftDelete(ctx context.Context, id int64) (*model.Image, error) {
	query := `UPDATE images
	SET deleted_at = now()
	WHERE id = $1
	RETURNING ` + imageColumns

	return scanImage(p.DB.QueryRowContext(ctx, query, id))
}

func (p PostgresRepo) KeyExists(ctx context.Context, key string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM images WHERE storage_key = $1)`

	var exists bool
	if err := p.DB.QueryRowContext(ctx, query, key).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

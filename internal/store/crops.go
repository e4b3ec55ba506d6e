// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"agrocms/internal/model"
)

const cropColumns = `id, slug, name, name_ar, category, category_ar, description, description_ar,
	image_url, seo_title, seo_description, related_products, created_at, updated_at`

func scanCrop(row interface{ Scan(...any) error }) (model.Crop, error) {
	var c model.Crop
	err := row.Scan(
		&c.ID, &c.Slug, &c.Name, &c.NameAr, &c.Category, &c.CategoryAr,
		&c.Description, &c.DescriptionAr, &c.ImageURL, &c.SEOTitle,
		&c.SEODescription, &c.RelatedProducts, &c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}

// CreateCropParams holds the column values for a new crop row.
type CreateCropParams struct {
	Slug            string
	Name            string
	NameAr          sql.NullString
	Category        string
	CategoryAr      sql.NullString
	Description     sql.NullString
	DescriptionAr   sql.NullString
	ImageURL        sql.NullString
	SEOTitle        sql.NullString
	SEODescription  sql.NullString
	RelatedProducts sql.NullString
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CreateCrop inserts a crop row and returns it with its assigned id.
// A duplicate slug surfaces as a unique-constraint violation; callers
// check it with IsUniqueViolation.
func (q *Queries) CreateCrop(ctx context.Context, arg CreateCropParams) (model.Crop, error) {
	res, err := q.db.ExecContext(ctx, `
		INSERT INTO crops (slug, name, name_ar, category, category_ar, description, description_ar,
			image_url, seo_title, seo_description, related_products, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.Slug, arg.Name, arg.NameAr, arg.Category, arg.CategoryAr,
		arg.Description, arg.DescriptionAr, arg.ImageURL, arg.SEOTitle,
		arg.SEODescription, arg.RelatedProducts, arg.CreatedAt, arg.UpdatedAt,
	)
	if err != nil {
		return model.Crop{}, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return model.Crop{}, fmt.Errorf("reading crop id: %w", err)
	}

	return q.GetCropByID(ctx, id)
}

// UpdateCropParams holds the column values for an existing crop row.
type UpdateCropParams struct {
	ID              int64
	Slug            string
	Name            string
	NameAr          sql.NullString
	Category        string
	CategoryAr      sql.NullString
	Description     sql.NullString
	DescriptionAr   sql.NullString
	ImageURL        sql.NullString
	SEOTitle        sql.NullString
	SEODescription  sql.NullString
	RelatedProducts sql.NullString
	UpdatedAt       time.Time
}

// UpdateCrop rewrites all content columns of a crop row.
func (q *Queries) UpdateCrop(ctx context.Context, arg UpdateCropParams) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE crops SET slug = ?, name = ?, name_ar = ?, category = ?, category_ar = ?,
			description = ?, description_ar = ?, image_url = ?, seo_title = ?,
			seo_description = ?, related_products = ?, updated_at = ?
		WHERE id = ?`,
		arg.Slug, arg.Name, arg.NameAr, arg.Category, arg.CategoryAr,
		arg.Description, arg.DescriptionAr, arg.ImageURL, arg.SEOTitle,
		arg.SEODescription, arg.RelatedProducts, arg.UpdatedAt, arg.ID,
	)
	return err
}

// DeleteCrop removes a crop; stages cascade via the foreign key.
func (q *Queries) DeleteCrop(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM crops WHERE id = ?`, id)
	return err
}

// GetCropByID fetches a crop row by primary key.
func (q *Queries) GetCropByID(ctx context.Context, id int64) (model.Crop, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+cropColumns+` FROM crops WHERE id = ?`, id)
	return scanCrop(row)
}

// GetCropBySlug fetches a crop row by its unique slug.
func (q *Queries) GetCropBySlug(ctx context.Context, slug string) (model.Crop, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+cropColumns+` FROM crops WHERE slug = ?`, slug)
	return scanCrop(row)
}

// ListCrops returns all crops ordered by name.
func (q *Queries) ListCrops(ctx context.Context) ([]model.Crop, error) {
	rows, err := q.db.QueryContext(ctx, `SELECT `+cropColumns+` FROM crops ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var crops []model.Crop
	for rows.Next() {
		c, err := scanCrop(rows)
		if err != nil {
			return nil, err
		}
		crops = append(crops, c)
	}
	return crops, rows.Err()
}

// CropSlugExists reports whether a slug is taken by a crop other than
// excludeID. Pass 0 on create so no record is excluded.
func (q *Queries) CropSlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM crops WHERE slug = ? AND id != ?`, slug, excludeID,
	).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListCropsMissingTranslation returns crops where at least one bilingual
// pair is still one-sided, on the crop itself or on any of its stages, for
// the scheduled retranslation sweep.
func (q *Queries) ListCropsMissingTranslation(ctx context.Context) ([]model.Crop, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+cropColumns+` FROM crops
		WHERE (name != '' AND name_ar IS NULL)
		   OR (name = '' AND name_ar IS NOT NULL)
		   OR (description IS NOT NULL AND description_ar IS NULL)
		   OR (description_ar IS NOT NULL AND description IS NULL)
		   OR EXISTS (
			SELECT 1 FROM stages st
			WHERE st.crop_id = crops.id
			  AND ((st.name != '' AND st.name_ar IS NULL)
			    OR (st.name = '' AND st.name_ar IS NOT NULL)
			    OR (st.description IS NOT NULL AND st.description_ar IS NULL)
			    OR (st.description_ar IS NOT NULL AND st.description IS NULL)))
		ORDER BY updated_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var crops []model.Crop
	for rows.Next() {
		c, err := scanCrop(rows)
		if err != nil {
			return nil, err
		}
		crops = append(crops, c)
	}
	return crops, rows.Err()
}

// CreateStageParams holds the column values for one stage row.
type CreateStageParams struct {
	CropID          int64
	Position        int64
	Name            string
	NameAr          sql.NullString
	Description     sql.NullString
	DescriptionAr   sql.NullString
	Recommendations sql.NullString
}

// CreateStage inserts one stage row.
func (q *Queries) CreateStage(ctx context.Context, arg CreateStageParams) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO stages (crop_id, position, name, name_ar, description, description_ar, recommendations)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		arg.CropID, arg.Position, arg.Name, arg.NameAr,
		arg.Description, arg.DescriptionAr, arg.Recommendations,
	)
	return err
}

// DeleteStagesByCrop removes all stages of a crop. Updates replace the
// full stage list, so this always precedes recreation.
func (q *Queries) DeleteStagesByCrop(ctx context.Context, cropID int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM stages WHERE crop_id = ?`, cropID)
	return err
}

// ListStagesByCrop returns a crop's stages in position order.
func (q *Queries) ListStagesByCrop(ctx context.Context, cropID int64) ([]model.Stage, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, crop_id, position, name, name_ar, description, description_ar, recommendations
		FROM stages WHERE crop_id = ? ORDER BY position`, cropID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stages []model.Stage
	for rows.Next() {
		var s model.Stage
		if err := rows.Scan(&s.ID, &s.CropID, &s.Position, &s.Name, &s.NameAr,
			&s.Description, &s.DescriptionAr, &s.Recommendations); err != nil {
			return nil, err
		}
		stages = append(stages, s)
	}
	return stages, rows.Err()
}

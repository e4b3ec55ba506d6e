// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// Crop categories (English keys). Arabic display labels live in
// CropCategoryLabelsAr and are applied by the crop service as a fallback
// when the editor gives no explicit Arabic category label.
const (
	CropCategoryVegetables = "vegetables"
	CropCategoryFruits     = "fruits"
	CropCategoryCereals    = "cereals"
	CropCategoryLegumes    = "legumes"
	CropCategoryForage     = "forage"
)

// CropCategoryLabelsAr maps category keys to their Arabic labels.
// Read-only enumerated configuration, not ambient mutable state.
var CropCategoryLabelsAr = map[string]string{
	CropCategoryVegetables: "خضروات",
	CropCategoryFruits:     "فواكه",
	CropCategoryCereals:    "حبوب",
	CropCategoryLegumes:    "بقوليات",
	CropCategoryForage:     "أعلاف",
}

// Crop is a catalog crop with bilingual content. Every translatable
// attribute is a {field, field_ar} pair; after a create or update either
// both sides of a pair are populated or the pair is NULL/empty entirely.
type Crop struct {
	ID             int64          `json:"id"`
	Slug           string         `json:"slug"`
	Name           string         `json:"name"`
	NameAr         sql.NullString `json:"name_ar"`
	Category       string         `json:"category"`
	CategoryAr     sql.NullString `json:"category_ar"`
	Description    sql.NullString `json:"description"`    // rich HTML
	DescriptionAr  sql.NullString `json:"description_ar"` // rich HTML
	ImageURL       sql.NullString `json:"image_url"`
	SEOTitle       sql.NullString `json:"seo_title"`
	SEODescription sql.NullString `json:"seo_description"`
	// RelatedProducts is a JSON-encoded list of product reference ids,
	// carried through from the form unchanged.
	RelatedProducts sql.NullString `json:"related_products"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`

	Stages []Stage `json:"stages,omitempty"`
}

// Stage is a growth stage belonging to one crop. Stages have no identity
// across updates: every save replaces the crop's full stage list, and
// Position mirrors the stage's index in the submitted list.
type Stage struct {
	ID            int64          `json:"id"`
	CropID        int64          `json:"crop_id"`
	Position      int64          `json:"position"`
	Name          string         `json:"name"`
	NameAr        sql.NullString `json:"name_ar"`
	Description   sql.NullString `json:"description"`    // rich HTML
	DescriptionAr sql.NullString `json:"description_ar"` // rich HTML
	// Recommendations is a JSON-encoded list of product reference ids for
	// this stage, never translated or validated against the database.
	Recommendations sql.NullString `json:"recommendations"`
}

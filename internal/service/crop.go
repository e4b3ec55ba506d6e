// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service provides the business logic of AgroCMS: crop and post
// synchronization (bilingual resolution, slug uniqueness, replace-all
// children) and event logging.
package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"agrocms/internal/bilingual"
	"agrocms/internal/model"
	"agrocms/internal/store"
	"agrocms/internal/util"
)

// defaultCropName is a last-resort label when a submission carries no name
// on either side. The admin form enforces the required field; this only
// guards direct API use.
const defaultCropName = "Untitled crop"

// ViewInvalidator marks cached crop views stale after a write. Invalidation
// is fire-and-forget: the save response never waits on a cache rebuild.
type ViewInvalidator interface {
	InvalidateCropViews(ctx context.Context, id int64, slug string)
}

// StageInput is one submitted growth stage. Recommendations are opaque
// product reference ids, carried through without translation or validation.
type StageInput struct {
	Name            string
	NameAr          string
	Description     string // rich HTML
	DescriptionAr   string // rich HTML
	Recommendations []int64
}

// CropInput is a parsed crop submission from the admin form.
type CropInput struct {
	Name            string
	NameAr          string
	Slug            string // optional explicit slug
	Category        string
	CategoryAr      string
	Description     string // rich HTML
	DescriptionAr   string // rich HTML
	ImageURL        string
	SEOTitle        string
	SEODescription  string
	RelatedProducts []int64
	Stages          []StageInput
}

// CropService orchestrates crop create/update/delete: it resolves every
// bilingual pair, guarantees slug uniqueness through both the pre-check and
// the post-insert fallback, persists the crop and its full stage list in
// one transaction and invalidates cached views.
type CropService struct {
	db          *sql.DB
	queries     *store.Queries
	resolver    *bilingual.Resolver
	sanitizer   *bluemonday.Policy
	labelsAr    map[string]string
	invalidator ViewInvalidator
	events      *EventService
}

// NewCropService creates a CropService. invalidator may be nil (no caching
// layer, e.g. in tests); events may be nil to skip audit logging.
func NewCropService(db *sql.DB, resolver *bilingual.Resolver, invalidator ViewInvalidator, events *EventService) *CropService {
	return &CropService{
		db:          db,
		queries:     store.New(db),
		resolver:    resolver,
		sanitizer:   bluemonday.UGCPolicy(),
		labelsAr:    model.CropCategoryLabelsAr,
		invalidator: invalidator,
		events:      events,
	}
}

// resolvedCrop carries a submission after trimming, sanitizing and
// bilingual resolution, ready to persist under any slug candidate.
type resolvedCrop struct {
	name            string
	nameAr          string
	category        string
	categoryAr      string
	description     string
	descriptionAr   string
	imageURL        string
	seoTitle        string
	seoDescription  string
	relatedProducts sql.NullString
	stages          []store.CreateStageParams
}

// resolve normalizes the submission and fills the missing side of every
// bilingual pair. Each pair resolves independently: a stage may get its
// name translated while its description stays dual-authored.
func (s *CropService) resolve(ctx context.Context, in CropInput) (resolvedCrop, error) {
	var rc resolvedCrop

	rc.name = strings.TrimSpace(in.Name)
	rc.nameAr = strings.TrimSpace(in.NameAr)
	rc.category = strings.TrimSpace(in.Category)
	rc.categoryAr = strings.TrimSpace(in.CategoryAr)
	rc.imageURL = strings.TrimSpace(in.ImageURL)
	rc.seoTitle = strings.TrimSpace(in.SEOTitle)
	rc.seoDescription = strings.TrimSpace(in.SEODescription)

	if rc.name == "" && rc.nameAr == "" {
		rc.name = defaultCropName
	}

	// Enumerated-domain fallback: a known category key supplies its Arabic
	// label when the editor gave none.
	if rc.categoryAr == "" {
		rc.categoryAr = s.labelsAr[rc.category]
	}

	rc.name, rc.nameAr = s.resolver.ResolveText(ctx, rc.name, rc.nameAr)

	desc := s.sanitizeHTML(in.Description)
	descAr := s.sanitizeHTML(in.DescriptionAr)
	rc.description, rc.descriptionAr = s.resolver.ResolveHTML(ctx, desc, descAr)

	var err error
	rc.relatedProducts, err = encodeIDList(in.RelatedProducts)
	if err != nil {
		return rc, err
	}

	for i, st := range in.Stages {
		name, nameAr := s.resolver.ResolveText(ctx,
			strings.TrimSpace(st.Name), strings.TrimSpace(st.NameAr))
		sdesc, sdescAr := s.resolver.ResolveHTML(ctx,
			s.sanitizeHTML(st.Description), s.sanitizeHTML(st.DescriptionAr))

		recs, err := encodeIDList(st.Recommendations)
		if err != nil {
			return rc, err
		}

		rc.stages = append(rc.stages, store.CreateStageParams{
			Position:        int64(i),
			Name:            name,
			NameAr:          util.NullStringFromValue(nameAr),
			Description:     util.NullStringFromValue(sdesc),
			DescriptionAr:   util.NullStringFromValue(sdescAr),
			Recommendations: recs,
		})
	}

	return rc, nil
}

func (s *CropService) sanitizeHTML(html string) string {
	return strings.TrimSpace(s.sanitizer.Sanitize(html))
}

// slugBase picks the source string for slug derivation: the explicit slug
// when given, otherwise the English name, otherwise the Arabic name
// (transliterated by Slugify).
func (rc resolvedCrop) slugBase(explicit string) string {
	if explicit = strings.TrimSpace(explicit); explicit != "" {
		return explicit
	}
	if rc.name != "" {
		return rc.name
	}
	return rc.nameAr
}

// CreateCrop creates a crop with its stages. The slug is pre-checked for
// uniqueness; if a concurrent writer still wins the race, the resulting
// unique-constraint violation triggers a second suffix loop and the insert
// is retried. Any other persistence error propagates to the caller.
func (s *CropService) CreateCrop(ctx context.Context, in CropInput) (model.Crop, error) {
	rc, err := s.resolve(ctx, in)
	if err != nil {
		return model.Crop{}, err
	}

	slug, err := util.UniqueSlug(ctx, rc.slugBase(in.Slug), s.slugExists(0))
	if err != nil {
		return model.Crop{}, err
	}

	crop, err := s.insertWithSlugRetry(ctx, slug, func(ctx context.Context, slug string) (model.Crop, error) {
		return s.createWithSlug(ctx, rc, slug)
	})
	if err != nil {
		return model.Crop{}, err
	}

	s.invalidate(ctx, crop)
	s.logCropEvent(ctx, "crop created", crop)
	return crop, nil
}

// UpdateCrop rewrites a crop and replaces its full stage list. Existing
// stages are deleted and recreated from the submission; they keep no
// identity across updates. The slug existence check excludes the crop's
// own id so saving under the current slug is not a collision.
func (s *CropService) UpdateCrop(ctx context.Context, id int64, in CropInput) (model.Crop, error) {
	prev, err := s.queries.GetCropByID(ctx, id)
	if err != nil {
		return model.Crop{}, fmt.Errorf("loading crop %d: %w", id, err)
	}

	rc, err := s.resolve(ctx, in)
	if err != nil {
		return model.Crop{}, err
	}

	slug, err := util.UniqueSlug(ctx, rc.slugBase(in.Slug), s.slugExists(id))
	if err != nil {
		return model.Crop{}, err
	}

	crop, err := s.insertWithSlugRetry(ctx, slug, func(ctx context.Context, slug string) (model.Crop, error) {
		return s.updateWithSlug(ctx, id, rc, slug)
	})
	if err != nil {
		return model.Crop{}, err
	}

	s.invalidate(ctx, crop)
	if prev.Slug != crop.Slug && s.invalidator != nil {
		// A renamed crop leaves a stale detail view cached under the
		// old slug.
		s.invalidator.InvalidateCropViews(ctx, crop.ID, prev.Slug)
	}
	s.logCropEvent(ctx, "crop updated", crop)
	return crop, nil
}

// DeleteCrop removes a crop; its stages cascade in the database.
func (s *CropService) DeleteCrop(ctx context.Context, id int64) error {
	crop, err := s.queries.GetCropByID(ctx, id)
	if err != nil {
		return fmt.Errorf("loading crop %d: %w", id, err)
	}

	if err := s.queries.DeleteCrop(ctx, id); err != nil {
		return fmt.Errorf("deleting crop %d: %w", id, err)
	}

	s.invalidate(ctx, crop)
	s.logCropEvent(ctx, "crop deleted", crop)
	return nil
}

// GetCrop loads a crop with its stages.
func (s *CropService) GetCrop(ctx context.Context, id int64) (model.Crop, error) {
	crop, err := s.queries.GetCropByID(ctx, id)
	if err != nil {
		return model.Crop{}, err
	}
	crop.Stages, err = s.queries.ListStagesByCrop(ctx, crop.ID)
	return crop, err
}

// GetCropBySlug loads a crop with its stages by slug.
func (s *CropService) GetCropBySlug(ctx context.Context, slug string) (model.Crop, error) {
	crop, err := s.queries.GetCropBySlug(ctx, slug)
	if err != nil {
		return model.Crop{}, err
	}
	crop.Stages, err = s.queries.ListStagesByCrop(ctx, crop.ID)
	return crop, err
}

// ListCrops returns all crops without stages.
func (s *CropService) ListCrops(ctx context.Context) ([]model.Crop, error) {
	return s.queries.ListCrops(ctx)
}

// RetranslateMissing re-saves every crop that still has a one-sided
// bilingual pair, typically after the provider was down during the original
// save. Each crop goes through the normal update path, so the resolver fills
// whatever it can and the rest stays one-sided until the next sweep.
// Returns the number of crops processed.
func (s *CropService) RetranslateMissing(ctx context.Context) (int, error) {
	crops, err := s.queries.ListCropsMissingTranslation(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing crops missing translation: %w", err)
	}

	processed := 0
	for _, crop := range crops {
		stages, err := s.queries.ListStagesByCrop(ctx, crop.ID)
		if err != nil {
			return processed, fmt.Errorf("loading stages for crop %d: %w", crop.ID, err)
		}
		crop.Stages = stages

		if _, err := s.UpdateCrop(ctx, crop.ID, inputFromCrop(crop)); err != nil {
			slog.Warn("retranslation sweep skipped crop", "crop_id", crop.ID, "error", err)
			continue
		}
		processed++
	}
	return processed, nil
}

// inputFromCrop rebuilds a submission from a stored crop, keeping its slug.
func inputFromCrop(crop model.Crop) CropInput {
	in := CropInput{
		Name:            crop.Name,
		NameAr:          crop.NameAr.String,
		Slug:            crop.Slug,
		Category:        crop.Category,
		CategoryAr:      crop.CategoryAr.String,
		Description:     crop.Description.String,
		DescriptionAr:   crop.DescriptionAr.String,
		ImageURL:        crop.ImageURL.String,
		SEOTitle:        crop.SEOTitle.String,
		SEODescription:  crop.SEODescription.String,
		RelatedProducts: decodeIDList(crop.RelatedProducts),
	}
	for _, st := range crop.Stages {
		in.Stages = append(in.Stages, StageInput{
			Name:            st.Name,
			NameAr:          st.NameAr.String,
			Description:     st.Description.String,
			DescriptionAr:   st.DescriptionAr.String,
			Recommendations: decodeIDList(st.Recommendations),
		})
	}
	return in
}

// insertWithSlugRetry attempts the write with the pre-checked slug. When
// the store reports a unique-constraint violation (a concurrent writer won
// the race between check and insert), it walks -1, -2, ... suffixes with a
// fresh existence check each and retries until a candidate sticks. All
// other errors are fatal and propagate.
func (s *CropService) insertWithSlugRetry(ctx context.Context, slug string,
	attempt func(ctx context.Context, slug string) (model.Crop, error)) (model.Crop, error) {

	crop, err := attempt(ctx, slug)
	if err == nil {
		return crop, nil
	}
	if !store.IsUniqueViolation(err) {
		return model.Crop{}, err
	}

	slog.Warn("slug race lost, retrying with suffix", "slug", slug)

	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s-%d", slug, n)
		taken, checkErr := s.queries.CropSlugExists(ctx, candidate, 0)
		if checkErr != nil {
			return model.Crop{}, checkErr
		}
		if taken {
			continue
		}

		crop, err = attempt(ctx, candidate)
		if err == nil {
			return crop, nil
		}
		if !store.IsUniqueViolation(err) {
			return model.Crop{}, err
		}
	}
}

// createWithSlug persists the crop and all stages in one transaction.
func (s *CropService) createWithSlug(ctx context.Context, rc resolvedCrop, slug string) (model.Crop, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Crop{}, err
	}
	defer tx.Rollback()

	qtx := s.queries.WithTx(tx)
	now := time.Now()

	crop, err := qtx.CreateCrop(ctx, store.CreateCropParams{
		Slug:            slug,
		Name:            rc.name,
		NameAr:          util.NullStringFromValue(rc.nameAr),
		Category:        rc.category,
		CategoryAr:      util.NullStringFromValue(rc.categoryAr),
		Description:     util.NullStringFromValue(rc.description),
		DescriptionAr:   util.NullStringFromValue(rc.descriptionAr),
		ImageURL:        util.NullStringFromValue(rc.imageURL),
		SEOTitle:        util.NullStringFromValue(rc.seoTitle),
		SEODescription:  util.NullStringFromValue(rc.seoDescription),
		RelatedProducts: rc.relatedProducts,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		return model.Crop{}, err
	}

	if err := s.createStages(ctx, qtx, crop.ID, rc.stages); err != nil {
		return model.Crop{}, err
	}

	if err := tx.Commit(); err != nil {
		return model.Crop{}, err
	}

	crop.Stages, err = s.queries.ListStagesByCrop(ctx, crop.ID)
	return crop, err
}

// updateWithSlug rewrites the crop row and replaces its stages in one
// transaction: delete-all, recreate from the submission.
func (s *CropService) updateWithSlug(ctx context.Context, id int64, rc resolvedCrop, slug string) (model.Crop, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Crop{}, err
	}
	defer tx.Rollback()

	qtx := s.queries.WithTx(tx)

	err = qtx.UpdateCrop(ctx, store.UpdateCropParams{
		ID:              id,
		Slug:            slug,
		Name:            rc.name,
		NameAr:          util.NullStringFromValue(rc.nameAr),
		Category:        rc.category,
		CategoryAr:      util.NullStringFromValue(rc.categoryAr),
		Description:     util.NullStringFromValue(rc.description),
		DescriptionAr:   util.NullStringFromValue(rc.descriptionAr),
		ImageURL:        util.NullStringFromValue(rc.imageURL),
		SEOTitle:        util.NullStringFromValue(rc.seoTitle),
		SEODescription:  util.NullStringFromValue(rc.seoDescription),
		RelatedProducts: rc.relatedProducts,
		UpdatedAt:       time.Now(),
	})
	if err != nil {
		return model.Crop{}, err
	}

	if err := qtx.DeleteStagesByCrop(ctx, id); err != nil {
		return model.Crop{}, err
	}
	if err := s.createStages(ctx, qtx, id, rc.stages); err != nil {
		return model.Crop{}, err
	}

	if err := tx.Commit(); err != nil {
		return model.Crop{}, err
	}

	crop, err := s.queries.GetCropByID(ctx, id)
	if err != nil {
		return model.Crop{}, err
	}
	crop.Stages, err = s.queries.ListStagesByCrop(ctx, id)
	return crop, err
}

func (s *CropService) createStages(ctx context.Context, q *store.Queries, cropID int64, stages []store.CreateStageParams) error {
	for _, st := range stages {
		st.CropID = cropID
		if err := q.CreateStage(ctx, st); err != nil {
			return fmt.Errorf("creating stage %d: %w", st.Position, err)
		}
	}
	return nil
}

func (s *CropService) slugExists(excludeID int64) util.SlugExistsFunc {
	return func(ctx context.Context, slug string) (bool, error) {
		return s.queries.CropSlugExists(ctx, slug, excludeID)
	}
}

func (s *CropService) invalidate(ctx context.Context, crop model.Crop) {
	if s.invalidator != nil {
		s.invalidator.InvalidateCropViews(ctx, crop.ID, crop.Slug)
	}
}

func (s *CropService) logCropEvent(ctx context.Context, message string, crop model.Crop) {
	if s.events == nil {
		return
	}
	_ = s.events.LogInfo(ctx, model.EventCategoryCrop, message, map[string]any{
		"crop_id": crop.ID,
		"slug":    crop.Slug,
	})
}

// decodeIDList parses a stored JSON id list, tolerating NULL and garbage.
func decodeIDList(ns sql.NullString) []int64 {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	var ids []int64
	if err := json.Unmarshal([]byte(ns.String), &ids); err != nil {
		return nil
	}
	return ids
}

// encodeIDList serializes reference ids as JSON, or NULL for an empty list.
func encodeIDList(ids []int64) (sql.NullString, error) {
	if len(ids) == 0 {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("encoding id list: %w", err)
	}
	return util.NullStringFromValue(string(data)), nil
}

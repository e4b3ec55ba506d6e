package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"agrocms/internal/model"
	"agrocms/internal/util"
)

func newTestDB(t *testing.T) *Queries {
	t.Helper()

	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := Migrate(db); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}
	return New(db)
}

func createCrop(t *testing.T, q *Queries, slug, name string) model.Crop {
	t.Helper()
	now := time.Now()
	crop, err := q.CreateCrop(context.Background(), CreateCropParams{
		Slug:      slug,
		Name:      name,
		Category:  model.CropCategoryVegetables,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("creating crop: %v", err)
	}
	return crop
}

func TestCreateAndGetCrop(t *testing.T) {
	q := newTestDB(t)
	ctx := context.Background()

	crop := createCrop(t, q, "tomato", "Tomato")
	if crop.ID == 0 {
		t.Fatal("expected assigned id")
	}

	got, err := q.GetCropBySlug(ctx, "tomato")
	if err != nil {
		t.Fatalf("GetCropBySlug: %v", err)
	}
	if got.ID != crop.ID || got.Name != "Tomato" {
		t.Errorf("got %+v", got)
	}
	if got.NameAr.Valid {
		t.Errorf("expected NULL name_ar, got %+v", got.NameAr)
	}
}

func TestDuplicateSlugIsUniqueViolation(t *testing.T) {
	q := newTestDB(t)
	ctx := context.Background()

	createCrop(t, q, "tomato", "Tomato")

	now := time.Now()
	_, err := q.CreateCrop(ctx, CreateCropParams{
		Slug: "tomato", Name: "Tomato", CreatedAt: now, UpdatedAt: now,
	})
	if err == nil {
		t.Fatal("expected error for duplicate slug")
	}
	if !IsUniqueViolation(err) {
		t.Errorf("expected unique violation, got %v", err)
	}
}

func TestIsUniqueViolationIgnoresOtherErrors(t *testing.T) {
	if IsUniqueViolation(sql.ErrConnDone) {
		t.Error("generic error misclassified as unique violation")
	}
	if IsUniqueViolation(nil) {
		t.Error("nil misclassified as unique violation")
	}
}

func TestCropSlugExistsExcludesID(t *testing.T) {
	q := newTestDB(t)
	ctx := context.Background()

	crop := createCrop(t, q, "tomato", "Tomato")

	exists, err := q.CropSlugExists(ctx, "tomato", 0)
	if err != nil {
		t.Fatal(err)
	}
	if !exists {
		t.Error("expected slug to be reported taken")
	}

	// A record updating itself must not collide with its own slug
	exists, err = q.CropSlugExists(ctx, "tomato", crop.ID)
	if err != nil {
		t.Fatal(err)
	}
	if exists {
		t.Error("own slug reported as collision during update")
	}
}

func TestStageReplaceAndCascade(t *testing.T) {
	q := newTestDB(t)
	ctx := context.Background()

	crop := createCrop(t, q, "wheat", "Wheat")

	for i, name := range []string{"Sowing", "Tillering", "Harvest"} {
		err := q.CreateStage(ctx, CreateStageParams{
			CropID:   crop.ID,
			Position: int64(i),
			Name:     name,
		})
		if err != nil {
			t.Fatalf("creating stage: %v", err)
		}
	}

	stages, err := q.ListStagesByCrop(ctx, crop.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(stages) != 3 {
		t.Fatalf("expected 3 stages, got %d", len(stages))
	}
	for i, s := range stages {
		if s.Position != int64(i) {
			t.Errorf("stage %d has position %d", i, s.Position)
		}
	}

	if err := q.DeleteStagesByCrop(ctx, crop.ID); err != nil {
		t.Fatal(err)
	}
	stages, err = q.ListStagesByCrop(ctx, crop.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(stages) != 0 {
		t.Errorf("expected no stages after delete, got %d", len(stages))
	}

	// Deleting the crop cascades to its stages
	err = q.CreateStage(ctx, CreateStageParams{CropID: crop.ID, Position: 0, Name: "Sowing"})
	if err != nil {
		t.Fatal(err)
	}
	if err := q.DeleteCrop(ctx, crop.ID); err != nil {
		t.Fatal(err)
	}
	stages, err = q.ListStagesByCrop(ctx, crop.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(stages) != 0 {
		t.Errorf("stages survived crop deletion: %d", len(stages))
	}
}

func TestListCropsMissingTranslation(t *testing.T) {
	q := newTestDB(t)
	ctx := context.Background()

	createCrop(t, q, "tomato", "Tomato") // name_ar NULL -> one-sided

	now := time.Now()
	_, err := q.CreateCrop(ctx, CreateCropParams{
		Slug:      "wheat",
		Name:      "Wheat",
		NameAr:    util.NullStringFromValue("قمح"),
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatal(err)
	}

	crops, err := q.ListCropsMissingTranslation(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(crops) != 1 || crops[0].Slug != "tomato" {
		t.Errorf("expected only tomato pending translation, got %+v", crops)
	}
}

// A crop with complete columns of its own is still pending when one of its
// stages carries a one-sided pair.
func TestListCropsMissingTranslationChecksStages(t *testing.T) {
	q := newTestDB(t)
	ctx := context.Background()

	now := time.Now()
	crop, err := q.CreateCrop(ctx, CreateCropParams{
		Slug:      "wheat",
		Name:      "Wheat",
		NameAr:    util.NullStringFromValue("قمح"),
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatal(err)
	}

	crops, err := q.ListCropsMissingTranslation(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(crops) != 0 {
		t.Fatalf("complete crop reported pending: %+v", crops)
	}

	err = q.CreateStage(ctx, CreateStageParams{
		CropID:   crop.ID,
		Position: 0,
		Name:     "Sowing", // name_ar NULL -> one-sided
	})
	if err != nil {
		t.Fatal(err)
	}

	crops, err = q.ListCropsMissingTranslation(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(crops) != 1 || crops[0].Slug != "wheat" {
		t.Errorf("expected wheat pending via its stage, got %+v", crops)
	}
}

func TestPostLifecycle(t *testing.T) {
	q := newTestDB(t)
	ctx := context.Background()

	now := time.Now()
	post, err := q.CreatePost(ctx, CreatePostParams{
		Slug:      "field-day",
		Title:     "Field Day",
		Body:      util.NullStringFromValue("# Welcome"),
		Status:    model.PostStatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := q.GetPublishedPostBySlug(ctx, "field-day"); err != sql.ErrNoRows {
		t.Errorf("draft should not be visible as published, got %v", err)
	}

	post.Status = model.PostStatusPublished
	err = q.UpdatePost(ctx, UpdatePostParams{
		ID: post.ID, Slug: post.Slug, Title: post.Title, TitleAr: post.TitleAr,
		Body: post.Body, BodyAr: post.BodyAr, Status: post.Status, UpdatedAt: time.Now(),
	})
	if err != nil {
		t.Fatal(err)
	}

	got, err := q.GetPublishedPostBySlug(ctx, "field-day")
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "Field Day" {
		t.Errorf("got %+v", got)
	}
}

func TestCreateEvent(t *testing.T) {
	q := newTestDB(t)
	ctx := context.Background()

	err := q.CreateEvent(ctx, CreateEventParams{
		Level:     model.EventLevelInfo,
		Category:  model.EventCategoryCrop,
		Message:   "crop created",
		Metadata:  `{"slug":"tomato"}`,
		CreatedAt: time.Now(),
	})
	if err != nil {
		t.Fatal(err)
	}

	events, err := q.ListRecentEvents(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 || events[0].Message != "crop created" {
		t.Errorf("got %+v", events)
	}
}

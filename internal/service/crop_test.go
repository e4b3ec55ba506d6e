package service

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"agrocms/internal/bilingual"
	"agrocms/internal/model"
	"agrocms/internal/store"
	"agrocms/internal/translate"
)

type recordingInvalidator struct {
	ids   []int64
	slugs []string
}

func (r *recordingInvalidator) InvalidateCropViews(_ context.Context, id int64, slug string) {
	r.ids = append(r.ids, id)
	r.slugs = append(r.slugs, slug)
}

type cropFixture struct {
	db          *sql.DB
	queries     *store.Queries
	mock        *translate.MockProvider
	invalidator *recordingInvalidator
	svc         *CropService
}

func newCropFixture(t *testing.T) *cropFixture {
	t.Helper()

	db, err := store.NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := store.Migrate(db); err != nil {
		t.Fatalf("migrating: %v", err)
	}

	mock := translate.NewMockProvider()
	inv := &recordingInvalidator{}
	resolver := bilingual.NewResolver(translate.NewTranslator(mock))

	return &cropFixture{
		db:          db,
		queries:     store.New(db),
		mock:        mock,
		invalidator: inv,
		svc:         NewCropService(db, resolver, inv, NewEventService(db)),
	}
}

// Scenario: English-only name, no description, no stages.
func TestCreateCropTranslatesName(t *testing.T) {
	f := newCropFixture(t)
	f.mock.Translations["Tomato"] = "طماطم"

	crop, err := f.svc.CreateCrop(context.Background(), CropInput{Name: "Tomato"})
	if err != nil {
		t.Fatal(err)
	}

	if crop.Slug != "tomato" {
		t.Errorf("slug = %q, want %q", crop.Slug, "tomato")
	}
	if crop.Name != "Tomato" {
		t.Errorf("name = %q", crop.Name)
	}
	if !crop.NameAr.Valid || crop.NameAr.String != "طماطم" {
		t.Errorf("name_ar = %+v, want طماطم", crop.NameAr)
	}
	if crop.Description.Valid || crop.DescriptionAr.Valid {
		t.Errorf("empty description pair must persist as NULL: %+v / %+v",
			crop.Description, crop.DescriptionAr)
	}
}

// Scenario: provider down. The empty side stays NULL, the save succeeds.
func TestCreateCropProviderDown(t *testing.T) {
	f := newCropFixture(t)
	f.mock.Fail = true

	crop, err := f.svc.CreateCrop(context.Background(), CropInput{Name: "Tomato"})
	if err != nil {
		t.Fatalf("translation failure must not block the save: %v", err)
	}

	if crop.Name != "Tomato" {
		t.Errorf("filled side lost: %q", crop.Name)
	}
	if crop.NameAr.Valid {
		t.Errorf("name_ar = %+v, want NULL when provider is down", crop.NameAr)
	}
	if crop.Slug != "tomato" {
		t.Errorf("slug = %q", crop.Slug)
	}
}

// A dual-authored pair is saved byte-for-byte, no provider involvement.
func TestCreateCropDualAuthored(t *testing.T) {
	f := newCropFixture(t)

	crop, err := f.svc.CreateCrop(context.Background(), CropInput{
		Name:   "Tomato",
		NameAr: "بندورة",
	})
	if err != nil {
		t.Fatal(err)
	}

	if crop.Name != "Tomato" || crop.NameAr.String != "بندورة" {
		t.Errorf("dual-authored pair modified: %q / %q", crop.Name, crop.NameAr.String)
	}
	if len(f.mock.Calls) != 0 {
		t.Errorf("provider called %d times", len(f.mock.Calls))
	}
}

func TestCreateCropArabicOnlyName(t *testing.T) {
	f := newCropFixture(t)
	f.mock.Translations["قمح"] = "Wheat"

	crop, err := f.svc.CreateCrop(context.Background(), CropInput{NameAr: "قمح"})
	if err != nil {
		t.Fatal(err)
	}

	if crop.Name != "Wheat" {
		t.Errorf("name = %q, want translated %q", crop.Name, "Wheat")
	}
	if crop.NameAr.String != "قمح" {
		t.Errorf("name_ar changed: %q", crop.NameAr.String)
	}
	if crop.Slug != "wheat" {
		t.Errorf("slug = %q, want %q (derived from translated name)", crop.Slug, "wheat")
	}
}

func TestCreateCropCategoryLabelFallback(t *testing.T) {
	f := newCropFixture(t)

	crop, err := f.svc.CreateCrop(context.Background(), CropInput{
		Name:     "Cucumber",
		NameAr:   "خيار",
		Category: model.CropCategoryVegetables,
	})
	if err != nil {
		t.Fatal(err)
	}
	if crop.CategoryAr.String != "خضروات" {
		t.Errorf("category_ar = %q, want the mapped label", crop.CategoryAr.String)
	}

	// An explicit label wins over the map
	crop2, err := f.svc.CreateCrop(context.Background(), CropInput{
		Name:       "Apple",
		NameAr:     "تفاح",
		Category:   model.CropCategoryFruits,
		CategoryAr: "فاكهة",
	})
	if err != nil {
		t.Fatal(err)
	}
	if crop2.CategoryAr.String != "فاكهة" {
		t.Errorf("explicit category_ar overridden: %q", crop2.CategoryAr.String)
	}
}

func TestCreateCropHTMLDescription(t *testing.T) {
	f := newCropFixture(t)
	f.mock.Translations["Hello\n\nWorld"] = "مرحبا\n\nعالم"

	crop, err := f.svc.CreateCrop(context.Background(), CropInput{
		Name:        "Tomato",
		NameAr:      "طماطم",
		Description: "<p>Hello</p><p>World</p>",
	})
	if err != nil {
		t.Fatal(err)
	}

	// The provider must receive stripped plain text, not markup
	if len(f.mock.Calls) != 1 || f.mock.Calls[0] != "Hello\n\nWorld" {
		t.Fatalf("provider received %v", f.mock.Calls)
	}
	if crop.DescriptionAr.String != "<p>مرحبا<br/><br/>عالم</p>" {
		t.Errorf("description_ar = %q", crop.DescriptionAr.String)
	}
}

func TestCreateCropSanitizesMarkup(t *testing.T) {
	f := newCropFixture(t)

	crop, err := f.svc.CreateCrop(context.Background(), CropInput{
		Name:          "Tomato",
		NameAr:        "طماطم",
		Description:   `<p>Safe</p><script>alert("x")</script>`,
		DescriptionAr: "<p>آمن</p>",
	})
	if err != nil {
		t.Fatal(err)
	}
	if crop.Description.String != "<p>Safe</p>" {
		t.Errorf("description = %q, script should be stripped", crop.Description.String)
	}
}

// Repeated creates under the same base name produce pairwise distinct
// slugs, the first one unsuffixed.
func TestCreateCropSlugSequence(t *testing.T) {
	f := newCropFixture(t)
	ctx := context.Background()

	want := []string{"tomato", "tomato-2", "tomato-3", "tomato-4"}
	var got []string
	for range want {
		crop, err := f.svc.CreateCrop(ctx, CropInput{Name: "Tomato", NameAr: "طماطم"})
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, crop.Slug)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("create %d: slug = %q, want %q", i, got[i], want[i])
		}
	}
}

// Pre-check says free but the insert loses the race: the save still
// succeeds with a suffixed slug starting at -1.
func TestCreateCropSlugRaceRecovery(t *testing.T) {
	f := newCropFixture(t)
	ctx := context.Background()

	// Another writer already holds "tomato"
	if _, err := f.svc.CreateCrop(ctx, CropInput{Name: "Tomato", NameAr: "طماطم"}); err != nil {
		t.Fatal(err)
	}

	// Drive the post-insert path directly with a slug the pre-check
	// supposedly approved before the concurrent insert
	rc, err := f.svc.resolve(ctx, CropInput{Name: "Tomato", NameAr: "طماطم"})
	if err != nil {
		t.Fatal(err)
	}
	crop, err := f.svc.insertWithSlugRetry(ctx, "tomato", func(ctx context.Context, slug string) (model.Crop, error) {
		return f.svc.createWithSlug(ctx, rc, slug)
	})
	if err != nil {
		t.Fatalf("race recovery failed: %v", err)
	}
	if crop.Slug != "tomato-1" {
		t.Errorf("slug = %q, want %q", crop.Slug, "tomato-1")
	}
}

func TestCreateCropWithStages(t *testing.T) {
	f := newCropFixture(t)
	f.mock.Translations["Sowing"] = "بذر"
	f.mock.Translations["Harvest"] = "حصاد"

	crop, err := f.svc.CreateCrop(context.Background(), CropInput{
		Name:   "Wheat",
		NameAr: "قمح",
		Stages: []StageInput{
			{Name: "Sowing", Recommendations: []int64{4, 9}},
			{Name: "Harvest", NameAr: "الحصاد"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	if len(crop.Stages) != 2 {
		t.Fatalf("expected 2 stages, got %d", len(crop.Stages))
	}

	first := crop.Stages[0]
	if first.Position != 0 || first.Name != "Sowing" || first.NameAr.String != "بذر" {
		t.Errorf("first stage = %+v", first)
	}
	if first.Recommendations.String != "[4,9]" {
		t.Errorf("recommendations = %q, want pass-through JSON", first.Recommendations.String)
	}

	second := crop.Stages[1]
	if second.Position != 1 {
		t.Errorf("second stage position = %d", second.Position)
	}
	// Dual-authored stage name pair stays as submitted
	if second.Name != "Harvest" || second.NameAr.String != "الحصاد" {
		t.Errorf("second stage pair modified: %+v", second)
	}
}

// Updates replace the full stage list: 3 stages before, 1 submitted,
// exactly 1 afterward with position 0.
func TestUpdateCropReplacesStages(t *testing.T) {
	f := newCropFixture(t)
	ctx := context.Background()

	crop, err := f.svc.CreateCrop(ctx, CropInput{
		Name:   "Wheat",
		NameAr: "قمح",
		Stages: []StageInput{
			{Name: "Sowing", NameAr: "بذر"},
			{Name: "Tillering", NameAr: "تفريع"},
			{Name: "Harvest", NameAr: "حصاد"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	updated, err := f.svc.UpdateCrop(ctx, crop.ID, CropInput{
		Name:   "Wheat",
		NameAr: "قمح",
		Stages: []StageInput{
			{Name: "Full season", NameAr: "موسم كامل"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	if len(updated.Stages) != 1 {
		t.Fatalf("expected exactly 1 stage after update, got %d", len(updated.Stages))
	}
	if updated.Stages[0].Position != 0 || updated.Stages[0].Name != "Full season" {
		t.Errorf("stage = %+v", updated.Stages[0])
	}
}

// Updating a crop to keep its own slug is not a collision.
func TestUpdateCropKeepsOwnSlug(t *testing.T) {
	f := newCropFixture(t)
	ctx := context.Background()

	crop, err := f.svc.CreateCrop(ctx, CropInput{Name: "Tomato", NameAr: "طماطم"})
	if err != nil {
		t.Fatal(err)
	}

	updated, err := f.svc.UpdateCrop(ctx, crop.ID, CropInput{Name: "Tomato", NameAr: "بندورة"})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Slug != "tomato" {
		t.Errorf("slug = %q, want unchanged %q", updated.Slug, "tomato")
	}
	if updated.NameAr.String != "بندورة" {
		t.Errorf("name_ar = %q", updated.NameAr.String)
	}
}

func TestDeleteCropInvalidatesViews(t *testing.T) {
	f := newCropFixture(t)
	ctx := context.Background()

	crop, err := f.svc.CreateCrop(ctx, CropInput{Name: "Tomato", NameAr: "طماطم"})
	if err != nil {
		t.Fatal(err)
	}
	f.invalidator.ids = nil
	f.invalidator.slugs = nil

	if err := f.svc.DeleteCrop(ctx, crop.ID); err != nil {
		t.Fatal(err)
	}

	if _, err := f.queries.GetCropByID(ctx, crop.ID); err != sql.ErrNoRows {
		t.Errorf("crop still present after delete: %v", err)
	}
	if len(f.invalidator.slugs) != 1 || f.invalidator.slugs[0] != "tomato" {
		t.Errorf("expected invalidation for %q, got %v", "tomato", f.invalidator.slugs)
	}
}

func TestCreateCropDefaultsMissingName(t *testing.T) {
	f := newCropFixture(t)
	f.mock.Fail = true

	crop, err := f.svc.CreateCrop(context.Background(), CropInput{})
	if err != nil {
		t.Fatal(err)
	}
	if crop.Name != defaultCropName {
		t.Errorf("name = %q, want the safety-net default", crop.Name)
	}
	if crop.Slug != "untitled-crop" {
		t.Errorf("slug = %q", crop.Slug)
	}
}

func TestCreateCropRelatedProductsPassThrough(t *testing.T) {
	f := newCropFixture(t)

	crop, err := f.svc.CreateCrop(context.Background(), CropInput{
		Name:            "Tomato",
		NameAr:          "طماطم",
		RelatedProducts: []int64{12, 7, 12},
	})
	if err != nil {
		t.Fatal(err)
	}
	if crop.RelatedProducts.String != "[12,7,12]" {
		t.Errorf("related_products = %q, want order and duplicates preserved", crop.RelatedProducts.String)
	}

	crop2, err := f.svc.CreateCrop(context.Background(), CropInput{Name: "Okra", NameAr: "بامية"})
	if err != nil {
		t.Fatal(err)
	}
	if crop2.RelatedProducts.Valid {
		t.Errorf("empty reference list must persist as NULL, got %+v", crop2.RelatedProducts)
	}
}

func TestCreateCropInvalidatesViews(t *testing.T) {
	f := newCropFixture(t)

	crop, err := f.svc.CreateCrop(context.Background(), CropInput{Name: "Tomato", NameAr: "طماطم"})
	if err != nil {
		t.Fatal(err)
	}
	if len(f.invalidator.ids) != 1 || f.invalidator.ids[0] != crop.ID {
		t.Errorf("expected one invalidation for crop %d, got %v", crop.ID, f.invalidator.ids)
	}
}

// Clearing a previously-filled side on update re-triggers translation into
// the now-empty side: the resolver rule applies uniformly on every save.
func TestUpdateCropRetranslatesClearedSide(t *testing.T) {
	f := newCropFixture(t)
	ctx := context.Background()
	f.mock.Translations["Tomato"] = "طماطم"

	crop, err := f.svc.CreateCrop(ctx, CropInput{Name: "Tomato", NameAr: "بندورة"})
	if err != nil {
		t.Fatal(err)
	}

	updated, err := f.svc.UpdateCrop(ctx, crop.ID, CropInput{Name: "Tomato"})
	if err != nil {
		t.Fatal(err)
	}
	if updated.NameAr.String != "طماطم" {
		t.Errorf("name_ar = %q, want re-translated value", updated.NameAr.String)
	}
}

func TestGetCropBySlugLoadsStages(t *testing.T) {
	f := newCropFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateCrop(ctx, CropInput{
		Name:   "Wheat",
		NameAr: "قمح",
		Stages: []StageInput{{Name: "Sowing", NameAr: "بذر"}},
	})
	if err != nil {
		t.Fatal(err)
	}

	crop, err := f.svc.GetCropBySlug(ctx, "wheat")
	if err != nil {
		t.Fatal(err)
	}
	if len(crop.Stages) != 1 || crop.Stages[0].Name != "Sowing" {
		t.Errorf("stages = %+v", crop.Stages)
	}
}

// A slug change must drop the detail view cached under the old slug as well,
// or it keeps serving the pre-update crop until its TTL runs out.
func TestUpdateCropSlugChangeInvalidatesOldSlug(t *testing.T) {
	f := newCropFixture(t)
	ctx := context.Background()
	f.mock.Identity = true

	crop, err := f.svc.CreateCrop(ctx, CropInput{Name: "Alpha"})
	if err != nil {
		t.Fatal(err)
	}
	f.invalidator.ids = nil
	f.invalidator.slugs = nil

	updated, err := f.svc.UpdateCrop(ctx, crop.ID, CropInput{Name: "Beta"})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Slug != "beta" {
		t.Fatalf("slug = %q, want %q", updated.Slug, "beta")
	}

	got := map[string]bool{}
	for _, s := range f.invalidator.slugs {
		got[s] = true
	}
	if !got["beta"] || !got["alpha"] {
		t.Errorf("expected invalidations for both beta and alpha, got %v", f.invalidator.slugs)
	}
}

// Saving under an unchanged slug invalidates it once only.
func TestUpdateCropSameSlugInvalidatesOnce(t *testing.T) {
	f := newCropFixture(t)
	ctx := context.Background()
	f.mock.Identity = true

	crop, err := f.svc.CreateCrop(ctx, CropInput{Name: "Alpha"})
	if err != nil {
		t.Fatal(err)
	}
	f.invalidator.slugs = nil

	if _, err := f.svc.UpdateCrop(ctx, crop.ID, CropInput{Name: "Alpha"}); err != nil {
		t.Fatal(err)
	}
	if len(f.invalidator.slugs) != 1 || f.invalidator.slugs[0] != "alpha" {
		t.Errorf("expected a single invalidation for alpha, got %v", f.invalidator.slugs)
	}
}

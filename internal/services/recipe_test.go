package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/verdantstack/farmops-backend/internal/data/repos/testutil"
	types "github.com/verdantstack/farmops-backend/internal/domain"
	"github.com/verdantstack/farmops-backend/internal/platform/apierr"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func saneParams() types.RecipeParams {
	return types.RecipeParams{
		TemperatureC: 22, HumidityPct: 60, CO2PPM: 1000, PH: 6.0,
		ECMSCm: 1.8, LightHours: 16, WaterHours: 6, TrayDensity: 1,
	}
}

func TestAddVersionOverlapScenarios(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	master := testutil.SeedRecipe(t, ctx, env.tx)

	feb := date(2025, 2, 1)
	if _, err := env.recipes.AddVersion(ctx, master.ID, VersionInput{
		VersionLabel: "v1",
		ValidFrom:    date(2025, 1, 1),
		ValidTo:      &feb,
		Params:       saneParams(),
		CreatedBy:    "agronomist",
	}); err != nil {
		t.Fatalf("add v1: %v", err)
	}

	// Starts inside [v1.valid_from, v1.valid_to): rejected.
	_, err := env.recipes.AddVersion(ctx, master.ID, VersionInput{
		VersionLabel: "v2",
		ValidFrom:    date(2025, 1, 15),
		Params:       saneParams(),
	})
	if !apierr.IsKind(err, apierr.KindValidation) {
		t.Fatalf("overlapping version should be rejected, got %v", err)
	}

	// Starts exactly at v1.valid_to: the boundary is exclusive, accepted.
	v2, err := env.recipes.AddVersion(ctx, master.ID, VersionInput{
		VersionLabel: "v2",
		ValidFrom:    feb,
		Params:       saneParams(),
	})
	if err != nil {
		t.Fatalf("adjacent open-ended version should be accepted: %v", err)
	}

	// v2 is open-ended, so anything after it collides.
	_, err = env.recipes.AddVersion(ctx, master.ID, VersionInput{
		VersionLabel: "v3",
		ValidFrom:    date(2026, 1, 1),
		Params:       saneParams(),
	})
	if !apierr.IsKind(err, apierr.KindValidation) {
		t.Fatalf("open-ended v2 should block later versions, got %v", err)
	}

	// Closing v2 makes room again.
	jul := date(2025, 7, 1)
	if _, err := env.recipes.UpdateVersion(ctx, v2.ID, VersionInput{
		ValidFrom: feb,
		ValidTo:   &jul,
		Params:    saneParams(),
	}); err != nil {
		t.Fatalf("closing v2 must not collide with itself: %v", err)
	}
	if _, err := env.recipes.AddVersion(ctx, master.ID, VersionInput{
		VersionLabel: "v3",
		ValidFrom:    jul,
		Params:       saneParams(),
	}); err != nil {
		t.Fatalf("add v3 after closing v2: %v", err)
	}
}

func TestAddVersionRejectsDuplicateLabel(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	master := testutil.SeedRecipe(t, ctx, env.tx)

	feb := date(2025, 2, 1)
	testutil.SeedVersion(t, ctx, env.tx, master.ID, "v1", date(2025, 1, 1), &feb)

	_, err := env.recipes.AddVersion(ctx, master.ID, VersionInput{
		VersionLabel: "v1",
		ValidFrom:    date(2025, 3, 1),
		Params:       saneParams(),
	})
	if !apierr.IsKind(err, apierr.KindConflict) {
		t.Fatalf("duplicate label should be a conflict, got %v", err)
	}
}

func TestAddVersionValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	master := testutil.SeedRecipe(t, ctx, env.tx)

	badParams := []types.RecipeParams{}

	p := saneParams()
	p.PH = 14.5
	badParams = append(badParams, p)

	p = saneParams()
	p.HumidityPct = 101
	badParams = append(badParams, p)

	p = saneParams()
	p.CO2PPM = -1
	badParams = append(badParams, p)

	for i, params := range badParams {
		_, err := env.recipes.AddVersion(ctx, master.ID, VersionInput{
			VersionLabel: "bad",
			ValidFrom:    date(2025, 1, 1),
			Params:       params,
		})
		if !apierr.IsKind(err, apierr.KindValidation) {
			t.Fatalf("case %d: out-of-range params should be rejected, got %v", i, err)
		}
	}

	// valid_to must be strictly after valid_from.
	from := date(2025, 1, 1)
	_, err := env.recipes.AddVersion(ctx, master.ID, VersionInput{
		VersionLabel: "bad",
		ValidFrom:    from,
		ValidTo:      &from,
		Params:       saneParams(),
	})
	if !apierr.IsKind(err, apierr.KindValidation) {
		t.Fatalf("empty interval should be rejected, got %v", err)
	}

	_, err = env.recipes.AddVersion(ctx, master.ID, VersionInput{
		ValidFrom: from,
		Params:    saneParams(),
	})
	if !apierr.IsKind(err, apierr.KindValidation) {
		t.Fatalf("missing label should be rejected, got %v", err)
	}

	_, err = env.recipes.AddVersion(ctx, uuid.New(), VersionInput{
		VersionLabel: "v1",
		ValidFrom:    from,
		Params:       saneParams(),
	})
	if !apierr.IsKind(err, apierr.KindNotFound) {
		t.Fatalf("unknown recipe should be not_found, got %v", err)
	}
}

func TestActiveAndLatestVersion(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	master := testutil.SeedRecipe(t, ctx, env.tx)

	feb := date(2025, 2, 1)
	v1 := testutil.SeedVersion(t, ctx, env.tx, master.ID, "v1", date(2025, 1, 1), &feb)
	v2 := testutil.SeedVersion(t, ctx, env.tx, master.ID, "v2", feb, nil)

	active, err := env.recipes.ActiveVersion(ctx, master.ID, date(2025, 1, 20))
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	if active == nil || active.ID != v1.ID {
		t.Fatalf("active at jan 20 should be v1, got %+v", active)
	}

	// valid_from inclusive, valid_to exclusive: feb 1 belongs to v2.
	active, err = env.recipes.ActiveVersion(ctx, master.ID, feb)
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	if active == nil || active.ID != v2.ID {
		t.Fatalf("active at the boundary should be v2, got %+v", active)
	}

	active, err = env.recipes.ActiveVersion(ctx, master.ID, date(2024, 6, 1))
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	if active != nil {
		t.Fatalf("no version covers 2024, got %+v", active)
	}

	latest, err := env.recipes.LatestVersion(ctx, master.ID)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest == nil || latest.ID != v2.ID {
		t.Fatalf("latest should be v2, got %+v", latest)
	}

	versions, err := env.recipes.ListVersions(ctx, master.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(versions) != 2 || versions[0].ID != v1.ID {
		t.Fatalf("versions must come back oldest-first, got %d", len(versions))
	}
}

func TestDeleteVersionRefusesWhenReferenced(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	master := testutil.SeedRecipe(t, ctx, env.tx)
	container := testutil.SeedContainer(t, ctx, env.tx)

	applied := testutil.SeedVersion(t, ctx, env.tx, master.ID, "applied", date(2025, 1, 1), nil)
	if _, err := env.applications.Apply(ctx, container.ID, applied.ID, "agronomist"); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if err := env.recipes.DeleteVersion(ctx, applied.ID); !apierr.IsKind(err, apierr.KindBusinessLogic) {
		t.Fatalf("applied version must not be deletable, got %v", err)
	}

	master2 := testutil.SeedRecipe(t, ctx, env.tx)
	jan26 := date(2026, 1, 1)
	grown := testutil.SeedVersion(t, ctx, env.tx, master2.ID, "grown", date(2025, 1, 1), &jan26)
	tray := testutil.SeedTray(t, ctx, env.tx, container.ID, nil, nil, 10)
	crop := testutil.SeedCrop(t, ctx, env.tx, testutil.PtrUUID(tray.ID), nil, nil)
	if err := env.tx.Table("crop").Where("id = ?", crop.ID).
		Update("recipe_version_id", grown.ID).Error; err != nil {
		t.Fatalf("link crop: %v", err)
	}
	if err := env.recipes.DeleteVersion(ctx, grown.ID); !apierr.IsKind(err, apierr.KindBusinessLogic) {
		t.Fatalf("version with crops must not be deletable, got %v", err)
	}

	unused := testutil.SeedVersion(t, ctx, env.tx, master2.ID, "unused", jan26, nil)
	if err := env.recipes.DeleteVersion(ctx, unused.ID); err != nil {
		t.Fatalf("unused version should be deletable: %v", err)
	}
	if got, err := env.recipes.LatestVersion(ctx, master2.ID); err != nil || got == nil || got.ID != grown.ID {
		t.Fatalf("latest after delete = %+v (%v), want grown", got, err)
	}
}

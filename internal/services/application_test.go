package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"

	"github.com/verdantstack/farmops-backend/internal/data/repos/testutil"
	types "github.com/verdantstack/farmops-backend/internal/domain"
	"github.com/verdantstack/farmops-backend/internal/platform/apierr"
)

func TestApplyChainsPreviousVersion(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	container := testutil.SeedContainer(t, ctx, env.tx)
	master := testutil.SeedRecipe(t, ctx, env.tx)

	feb := date(2025, 2, 1)
	v1 := testutil.SeedVersion(t, ctx, env.tx, master.ID, "v1", date(2025, 1, 1), &feb)
	v2 := testutil.SeedVersion(t, ctx, env.tx, master.ID, "v2", feb, nil)

	// Nudge v2's setpoints so the diff has content.
	if err := env.tx.Table("recipe_version").Where("id = ?", v2.ID).
		Updates(map[string]interface{}{"temperature_c": 24.0, "ph": 5.8}).Error; err != nil {
		t.Fatalf("tweak v2: %v", err)
	}

	first, err := env.applications.Apply(ctx, container.ID, v1.ID, "agronomist")
	if err != nil {
		t.Fatalf("first apply: %v", err)
	}
	if first.PreviousRecipeVersionID != nil {
		t.Fatal("first application has no predecessor")
	}
	if first.ChangesSummary != nil {
		t.Fatal("first application has no diff")
	}
	if first.EnvironmentSyncStatus != types.SyncStatusPending {
		t.Fatalf("sync status = %s, want pending", first.EnvironmentSyncStatus)
	}

	second, err := env.applications.Apply(ctx, container.ID, v2.ID, "agronomist")
	if err != nil {
		t.Fatalf("second apply: %v", err)
	}
	if second.PreviousRecipeVersionID == nil || *second.PreviousRecipeVersionID != v1.ID {
		t.Fatalf("predecessor = %v, want v1", second.PreviousRecipeVersionID)
	}

	var diff map[string]struct {
		Old float64 `json:"old"`
		New float64 `json:"new"`
	}
	if err := json.Unmarshal(second.ChangesSummary, &diff); err != nil {
		t.Fatalf("decode diff: %v", err)
	}
	if len(diff) != 2 {
		t.Fatalf("diff has %d entries, want 2 (temperature_c, ph): %v", len(diff), diff)
	}
	if d := diff["temperature_c"]; d.Old == d.New {
		t.Fatalf("temperature diff not recorded: %+v", d)
	}
	if _, ok := diff["co2_ppm"]; ok {
		t.Fatal("unchanged setpoints must not appear in the diff")
	}

	ledger, err := env.applications.ListForContainer(ctx, container.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(ledger) != 2 {
		t.Fatalf("ledger has %d entries, want 2", len(ledger))
	}

	latest, err := env.applications.LatestForContainer(ctx, container.ID)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest == nil || latest.ID != second.ID {
		t.Fatalf("latest = %+v, want the second application", latest)
	}
}

func TestApplyUnknownTargets(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	container := testutil.SeedContainer(t, ctx, env.tx)
	master := testutil.SeedRecipe(t, ctx, env.tx)
	version := testutil.SeedVersion(t, ctx, env.tx, master.ID, "v1", date(2025, 1, 1), nil)

	if _, err := env.applications.Apply(ctx, uuid.New(), version.ID, ""); !apierr.IsKind(err, apierr.KindNotFound) {
		t.Fatalf("unknown container should be not_found, got %v", err)
	}
	if _, err := env.applications.Apply(ctx, container.ID, uuid.New(), ""); !apierr.IsKind(err, apierr.KindNotFound) {
		t.Fatalf("unknown version should be not_found, got %v", err)
	}
}

func TestMarkSyncTransitions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	container := testutil.SeedContainer(t, ctx, env.tx)
	master := testutil.SeedRecipe(t, ctx, env.tx)
	version := testutil.SeedVersion(t, ctx, env.tx, master.ID, "v1", date(2025, 1, 1), nil)

	application, err := env.applications.Apply(ctx, container.ID, version.ID, "agronomist")
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	if _, err := env.applications.MarkSync(ctx, application.ID, types.SyncStatusPending); !apierr.IsKind(err, apierr.KindValidation) {
		t.Fatalf("pending is not a target state, got %v", err)
	}
	if _, err := env.applications.MarkSync(ctx, application.ID, "garbage"); !apierr.IsKind(err, apierr.KindValidation) {
		t.Fatalf("unknown status should be rejected, got %v", err)
	}

	synced, err := env.applications.MarkSync(ctx, application.ID, types.SyncStatusSynced)
	if err != nil {
		t.Fatalf("mark synced: %v", err)
	}
	if synced.EnvironmentSyncStatus != types.SyncStatusSynced {
		t.Fatalf("status = %s, want synced", synced.EnvironmentSyncStatus)
	}

	// Transitions only leave pending; a resolved application is frozen.
	if _, err := env.applications.MarkSync(ctx, application.ID, types.SyncStatusFailed); !apierr.IsKind(err, apierr.KindBusinessLogic) {
		t.Fatalf("resolved application must not transition again, got %v", err)
	}

	if _, err := env.applications.MarkSync(ctx, uuid.New(), types.SyncStatusSynced); !apierr.IsKind(err, apierr.KindNotFound) {
		t.Fatalf("unknown application should be not_found, got %v", err)
	}
}

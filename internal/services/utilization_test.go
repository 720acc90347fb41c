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

func setCropCount(t *testing.T, env *testEnv, table string, id interface{}, count int) {
	t.Helper()
	if err := env.tx.Table(table).Where("id = ?", id).Update("crop_count", count).Error; err != nil {
		t.Fatalf("set crop_count: %v", err)
	}
}

func TestStationUtilizationIsCapacityWeighted(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	container := testutil.SeedContainer(t, ctx, env.tx)

	locA := shelfLoc("upper", 1)
	locB := shelfLoc("upper", 2)
	trayA := testutil.SeedTray(t, ctx, env.tx, container.ID, nil, &locA, 100)
	trayB := testutil.SeedTray(t, ctx, env.tx, container.ID, nil, &locB, 50)
	setCropCount(t, env, "tray", trayA.ID, 100)
	setCropCount(t, env, "tray", trayB.ID, 0)

	// 100/150 crops, not the 50% a per-occupant average would report.
	pct, err := env.utilization.StationUtilization(ctx, container.ID, types.OccupantKindTray)
	if err != nil {
		t.Fatalf("station utilization: %v", err)
	}
	if pct != 67 {
		t.Fatalf("utilization = %d, want 67", pct)
	}
}

func TestStationUtilizationSkipsZeroCapacity(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	container := testutil.SeedContainer(t, ctx, env.tx)

	loc := wallLoc("wall_1", 1)
	testutil.SeedPanel(t, ctx, env.tx, container.ID, nil, &loc, 0)

	pct, err := env.utilization.StationUtilization(ctx, container.ID, types.OccupantKindPanel)
	if err != nil {
		t.Fatalf("station utilization: %v", err)
	}
	if pct != 0 {
		t.Fatalf("zero-capacity-only station should report 0, got %d", pct)
	}
}

func TestSummary(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	container := testutil.SeedContainer(t, ctx, env.tx)

	locA := shelfLoc("lower", 3)
	placed := testutil.SeedTray(t, ctx, env.tx, container.ID, nil, &locA, 50)
	offShelf := testutil.SeedTray(t, ctx, env.tx, container.ID, nil, nil, 50)
	setCropCount(t, env, "tray", placed.ID, 25)
	setCropCount(t, env, "tray", offShelf.ID, 10)

	// Disposed trays are invisible to the dashboard.
	disposed := testutil.SeedTray(t, ctx, env.tx, container.ID, nil, nil, 50)
	if err := env.tx.Table("tray").Where("id = ?", disposed.ID).
		Update("status", types.OccupantStatusDisposed).Error; err != nil {
		t.Fatalf("dispose tray: %v", err)
	}

	// One overdue crop, one on schedule, one already transplanted.
	past := time.Now().UTC().AddDate(0, 0, -5)
	future := time.Now().UTC().AddDate(0, 0, 5)
	testutil.SeedCrop(t, ctx, env.tx, testutil.PtrUUID(placed.ID), nil, &past)
	testutil.SeedCrop(t, ctx, env.tx, testutil.PtrUUID(placed.ID), nil, &future)
	done := testutil.SeedCrop(t, ctx, env.tx, testutil.PtrUUID(offShelf.ID), nil, &past)
	if err := env.tx.Table("crop").Where("id = ?", done.ID).
		Updates(map[string]interface{}{"lifecycle_status": types.CropLifecycleTransplanted, "transplanted_at": time.Now().UTC()}).Error; err != nil {
		t.Fatalf("transplant crop: %v", err)
	}

	summary, err := env.utilization.Summary(ctx, container.ID, types.OccupantKindTray)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}

	if summary.TotalSlots != 16 {
		t.Fatalf("total slots = %d, want 16", summary.TotalSlots)
	}
	if summary.OccupiedSlots != 1 {
		t.Fatalf("occupied slots = %d, want 1", summary.OccupiedSlots)
	}
	if summary.TotalOccupants != 2 {
		t.Fatalf("total occupants = %d, want 2 (disposed excluded)", summary.TotalOccupants)
	}
	if summary.OffShelfCount != 1 {
		t.Fatalf("off-shelf = %d, want 1", summary.OffShelfCount)
	}
	if summary.TotalCrops != 35 {
		t.Fatalf("total crops = %d, want 35", summary.TotalCrops)
	}
	if summary.OverdueCrops != 1 {
		t.Fatalf("overdue crops = %d, want 1", summary.OverdueCrops)
	}
	if summary.UtilizationPct != 50 {
		t.Fatalf("utilization = %d, want 50 (placed trays only)", summary.UtilizationPct)
	}
}

func TestSummaryRejectsUnknownContainer(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	ghost := uuid.New()
	if _, err := env.utilization.Summary(ctx, ghost, types.OccupantKindTray); !apierr.IsKind(err, apierr.KindNotFound) {
		t.Fatalf("summary for unknown container = %v, want not_found", err)
	}
	if _, err := env.utilization.StationUtilization(ctx, ghost, types.OccupantKindPanel); !apierr.IsKind(err, apierr.KindNotFound) {
		t.Fatalf("station utilization for unknown container = %v, want not_found", err)
	}
}

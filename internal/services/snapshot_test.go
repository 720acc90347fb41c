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

func seedTraySnapshot(t *testing.T, env *testEnv, containerID, trayID uuid.UUID, capturedAt time.Time) *types.TraySnapshot {
	t.Helper()
	snap := &types.TraySnapshot{SnapshotCore: types.SnapshotCore{
		ID:          uuid.New(),
		ContainerID: containerID,
		OccupantID:  trayID,
		Status:      types.OccupantStatusAvailable,
		CapturedAt:  capturedAt,
	}}
	if err := env.tx.Create(snap).Error; err != nil {
		t.Fatalf("seed snapshot: %v", err)
	}
	return snap
}

func TestRecordTrayCopiesState(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	container := testutil.SeedContainer(t, ctx, env.tx)

	loc := shelfLoc("upper", 6)
	tray := testutil.SeedTray(t, ctx, env.tx, container.ID, testutil.PtrString("SNP100001"), &loc, 40)
	setCropCount(t, env, "tray", tray.ID, 10)

	snap, err := env.snapshots.RecordTray(ctx, tray.ID)
	if err != nil {
		t.Fatalf("record tray: %v", err)
	}
	if snap.OccupantID != tray.ID || snap.ContainerID != container.ID {
		t.Fatalf("snapshot identity mismatch: %+v", snap.SnapshotCore)
	}
	if snap.RFIDTag == nil || *snap.RFIDTag != "SNP100001" {
		t.Fatalf("tag not copied: %v", snap.RFIDTag)
	}
	if got := snap.Location(); got == nil || *got != loc {
		t.Fatalf("location = %v, want %v", got, loc)
	}
	if snap.CropCount != 10 || snap.UtilizationPct != 25 {
		t.Fatalf("crop_count/utilization = %d/%d, want 10/25", snap.CropCount, snap.UtilizationPct)
	}

	if _, err := env.snapshots.RecordTray(ctx, uuid.New()); !apierr.IsKind(err, apierr.KindNotFound) {
		t.Fatalf("unknown tray should be not_found, got %v", err)
	}
}

func TestQueryDefaultWindow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	container := testutil.SeedContainer(t, ctx, env.tx)
	tray := testutil.SeedTray(t, ctx, env.tx, container.ID, nil, nil, 10)

	now := time.Now().UTC()
	recent := seedTraySnapshot(t, env, container.ID, tray.ID, now.AddDate(0, 0, -2))
	older := seedTraySnapshot(t, env, container.ID, tray.ID, now.AddDate(0, 0, -10))
	seedTraySnapshot(t, env, container.ID, tray.ID, now.AddDate(0, 0, -30)) // outside the window

	snaps, err := env.snapshots.QueryTrays(ctx, container.ID, SnapshotWindow{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(snaps) != 2 {
		t.Fatalf("default +/- 2 week window returned %d snapshots, want 2", len(snaps))
	}
	if snaps[0].ID != recent.ID || snaps[1].ID != older.ID {
		t.Fatal("snapshots must come back newest-first")
	}
}

func TestQueryFiltersAndLimit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	container := testutil.SeedContainer(t, ctx, env.tx)
	trayA := testutil.SeedTray(t, ctx, env.tx, container.ID, nil, nil, 10)
	trayB := testutil.SeedTray(t, ctx, env.tx, container.ID, nil, nil, 10)

	now := time.Now().UTC()
	seedTraySnapshot(t, env, container.ID, trayA.ID, now.Add(-1*time.Hour))
	seedTraySnapshot(t, env, container.ID, trayA.ID, now.Add(-2*time.Hour))
	seedTraySnapshot(t, env, container.ID, trayB.ID, now.Add(-3*time.Hour))

	snaps, err := env.snapshots.QueryTrays(ctx, container.ID, SnapshotWindow{OccupantID: &trayA.ID})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(snaps) != 2 {
		t.Fatalf("occupant filter returned %d, want 2", len(snaps))
	}

	snaps, err = env.snapshots.QueryTrays(ctx, container.ID, SnapshotWindow{Limit: 1})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(snaps) != 1 {
		t.Fatalf("limit 1 returned %d", len(snaps))
	}
}

func TestRecordContainerSkipsDisposed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	container := testutil.SeedContainer(t, ctx, env.tx)

	testutil.SeedPanel(t, ctx, env.tx, container.ID, nil, nil, 10)
	testutil.SeedPanel(t, ctx, env.tx, container.ID, nil, nil, 10)
	disposed := testutil.SeedPanel(t, ctx, env.tx, container.ID, nil, nil, 10)
	if err := env.tx.Table("panel").Where("id = ?", disposed.ID).
		Update("status", types.OccupantStatusDisposed).Error; err != nil {
		t.Fatalf("dispose panel: %v", err)
	}

	count, err := env.snapshots.RecordContainer(ctx, container.ID, types.OccupantKindPanel)
	if err != nil {
		t.Fatalf("record container: %v", err)
	}
	if count != 2 {
		t.Fatalf("recorded %d snapshots, want 2", count)
	}

	snaps, err := env.snapshots.QueryPanels(ctx, container.ID, SnapshotWindow{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(snaps) != 2 {
		t.Fatalf("query returned %d, want 2", len(snaps))
	}
	for _, s := range snaps {
		if s.OccupantID == disposed.ID {
			t.Fatal("disposed panel must not be captured")
		}
	}
}

func TestSnapshotsRejectUnknownContainer(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	ghost := uuid.New()
	if _, err := env.snapshots.RecordContainer(ctx, ghost, types.OccupantKindTray); !apierr.IsKind(err, apierr.KindNotFound) {
		t.Fatalf("record for unknown container = %v, want not_found", err)
	}
	if _, err := env.snapshots.QueryTrays(ctx, ghost, SnapshotWindow{}); !apierr.IsKind(err, apierr.KindNotFound) {
		t.Fatalf("tray query for unknown container = %v, want not_found", err)
	}
	if _, err := env.snapshots.QueryPanels(ctx, ghost, SnapshotWindow{}); !apierr.IsKind(err, apierr.KindNotFound) {
		t.Fatalf("panel query for unknown container = %v, want not_found", err)
	}
}

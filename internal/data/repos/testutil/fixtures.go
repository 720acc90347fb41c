package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/verdantstack/farmops-backend/internal/domain"
)

func PtrString(s string) *string { return &s }

func PtrInt(i int) *int { return &i }

func PtrTime(t time.Time) *time.Time { return &t }

func PtrUUID(id uuid.UUID) *uuid.UUID { return &id }

func SeedContainer(tb testing.TB, ctx context.Context, tx *gorm.DB) *types.Container {
	tb.Helper()
	c := &types.Container{
		ID:       uuid.New(),
		TenantID: uuid.New(),
		Name:     "container-" + uuid.NewString()[:8],
		Type:     "physical",
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed container: %v", err)
	}
	return c
}

func SeedTray(tb testing.TB, ctx context.Context, tx *gorm.DB, containerID uuid.UUID, tag *string, loc *types.Location, capacity int) *types.Tray {
	tb.Helper()
	tray := &types.Tray{
		OccupantCore: types.OccupantCore{
			ID:            uuid.New(),
			ContainerID:   containerID,
			RFIDTag:       tag,
			Capacity:      capacity,
			Status:        types.OccupantStatusAvailable,
			ProvisionedAt: time.Now().UTC(),
		},
	}
	if loc != nil {
		tray.SlotKind, tray.SlotIdentifier, tray.SlotNumber = loc.Columns()
	}
	if err := tx.WithContext(ctx).Create(tray).Error; err != nil {
		tb.Fatalf("seed tray: %v", err)
	}
	if tag != nil {
		seedAssignment(tb, ctx, tx, *tag, types.OccupantKindTray, tray.ID, containerID)
	}
	return tray
}

func SeedPanel(tb testing.TB, ctx context.Context, tx *gorm.DB, containerID uuid.UUID, tag *string, loc *types.Location, capacity int) *types.Panel {
	tb.Helper()
	panel := &types.Panel{
		OccupantCore: types.OccupantCore{
			ID:            uuid.New(),
			ContainerID:   containerID,
			RFIDTag:       tag,
			Capacity:      capacity,
			Status:        types.OccupantStatusAvailable,
			ProvisionedAt: time.Now().UTC(),
		},
	}
	if loc != nil {
		panel.SlotKind, panel.SlotIdentifier, panel.SlotNumber = loc.Columns()
	}
	if err := tx.WithContext(ctx).Create(panel).Error; err != nil {
		tb.Fatalf("seed panel: %v", err)
	}
	if tag != nil {
		seedAssignment(tb, ctx, tx, *tag, types.OccupantKindPanel, panel.ID, containerID)
	}
	return panel
}

func seedAssignment(tb testing.TB, ctx context.Context, tx *gorm.DB, tag string, kind types.OccupantKind, occupantID, containerID uuid.UUID) {
	tb.Helper()
	a := &types.RFIDAssignment{
		Tag:          tag,
		OccupantKind: kind,
		OccupantID:   occupantID,
		ContainerID:  containerID,
		AssignedAt:   time.Now().UTC(),
	}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed rfid assignment: %v", err)
	}
}

func SeedRecipe(tb testing.TB, ctx context.Context, tx *gorm.DB) *types.RecipeMaster {
	tb.Helper()
	m := &types.RecipeMaster{
		ID:       uuid.New(),
		Name:     "recipe-" + uuid.NewString()[:8],
		CropType: "lettuce",
	}
	if err := tx.WithContext(ctx).Create(m).Error; err != nil {
		tb.Fatalf("seed recipe master: %v", err)
	}
	return m
}

func SeedVersion(tb testing.TB, ctx context.Context, tx *gorm.DB, recipeID uuid.UUID, label string, from time.Time, to *time.Time) *types.RecipeVersion {
	tb.Helper()
	v := &types.RecipeVersion{
		ID:           uuid.New(),
		RecipeID:     recipeID,
		VersionLabel: label,
		ValidFrom:    from,
		ValidTo:      to,
		Params: types.RecipeParams{
			TemperatureC: 21, HumidityPct: 65, CO2PPM: 900, PH: 6.1,
			ECMSCm: 1.6, LightHours: 16, WaterHours: 4, TrayDensity: 1,
		},
		CreatedBy: "testutil",
	}
	if err := tx.WithContext(ctx).Create(v).Error; err != nil {
		tb.Fatalf("seed recipe version: %v", err)
	}
	return v
}

func SeedCrop(tb testing.TB, ctx context.Context, tx *gorm.DB, trayID, panelID *uuid.UUID, planned *time.Time) *types.Crop {
	tb.Helper()
	c := &types.Crop{
		ID:                  uuid.New(),
		TrayID:              trayID,
		PanelID:             panelID,
		LifecycleStatus:     "seeded",
		HealthStatus:        "healthy",
		PlannedTransplantAt: planned,
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed crop: %v", err)
	}
	return c
}

package services

import (
	"context"
	"testing"

	"github.com/verdantstack/farmops-backend/internal/data/repos/testutil"
	types "github.com/verdantstack/farmops-backend/internal/domain"
)

func TestNormalizeRFIDTag(t *testing.T) {
	if got := NormalizeRFIDTag("  abc123456 "); got != "ABC123456" {
		t.Fatalf("normalize = %q, want ABC123456", got)
	}
}

func TestValidateFormat(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		tag  string
		want bool
	}{
		{"ABC123456", true},
		{"ABCD123456", true},
		{"abc123456", true}, // normalized before matching
		{"AB123456", false},
		{"ABCDE123456", false},
		{"ABC12345", false},
		{"ABC1234567", false},
		{"ABC12345X", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := env.rfid.ValidateFormat(tc.tag); got != tc.want {
			t.Fatalf("ValidateFormat(%q) = %v, want %v", tc.tag, got, tc.want)
		}
	}
}

func TestValidateReportsIndependentFlags(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	container := testutil.SeedContainer(t, ctx, env.tx)
	tray := testutil.SeedTray(t, ctx, env.tx, container.ID, testutil.PtrString("TAK900001"), nil, 10)

	result, err := env.rfid.Validate(ctx, "tak900001")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if result.IsValid || !result.FormatValid || result.IsUnique {
		t.Fatalf("taken tag: %+v", result)
	}
	if result.ErrorMessage == "" {
		t.Fatal("taken tag should carry a message")
	}

	result, err = env.rfid.Validate(ctx, "TAK900002")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !result.IsValid || !result.FormatValid || !result.IsUnique {
		t.Fatalf("fresh tag: %+v", result)
	}

	// Both flags fail; the format message wins.
	result, err = env.rfid.Validate(ctx, "bad tag")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if result.FormatValid {
		t.Fatal("malformed tag must fail the format check")
	}
	if result.ErrorMessage == "" {
		t.Fatal("malformed tag should carry a message")
	}

	usage, err := env.rfid.FindCurrentUsage(ctx, nil, "TAK900001")
	if err != nil {
		t.Fatalf("find usage: %v", err)
	}
	if usage == nil || usage.OccupantID != tray.ID || usage.ContainerID != container.ID {
		t.Fatalf("usage = %+v, want the seeded tray", usage)
	}
	if usage.Status != types.OccupantStatusAvailable {
		t.Fatalf("usage status = %q, want the live occupant status", usage.Status)
	}
}

func TestFindCurrentUsageReportsLocation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	container := testutil.SeedContainer(t, ctx, env.tx)

	loc := types.Location{Kind: types.SlotKindWall, Identifier: "wall_2", SlotNumber: 7}
	panel := testutil.SeedPanel(t, ctx, env.tx, container.ID, testutil.PtrString("PNL700001"), &loc, 40)

	usage, err := env.rfid.FindCurrentUsage(ctx, nil, "pnl700001")
	if err != nil {
		t.Fatalf("find usage: %v", err)
	}
	if usage == nil || usage.Kind != types.OccupantKindPanel || usage.OccupantID != panel.ID {
		t.Fatalf("usage = %+v, want the seeded panel", usage)
	}
	if usage.Location == nil || *usage.Location != loc {
		t.Fatalf("usage location = %+v, want %+v", usage.Location, loc)
	}
}

package services

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	types "github.com/verdantstack/farmops-backend/internal/domain"
	"github.com/verdantstack/farmops-backend/internal/platform/apierr"
)

// GridProfile describes the physical slot layout of a container: nursery
// shelves (upper/lower, 8 slots each) and cultivation walls (wall_1..wall_4,
// slot range configurable per wall).
type GridProfile struct {
	ShelfIdentifiers []string       `yaml:"shelf_identifiers"`
	ShelfSlots       int            `yaml:"shelf_slots"`
	WallIdentifiers  []string       `yaml:"wall_identifiers"`
	WallSlots        int            `yaml:"wall_slots"`
	WallSlotOverride map[string]int `yaml:"wall_slot_override"`
}

func DefaultGridProfile() GridProfile {
	return GridProfile{
		ShelfIdentifiers: []string{"upper", "lower"},
		ShelfSlots:       8,
		WallIdentifiers:  []string{"wall_1", "wall_2", "wall_3", "wall_4"},
		WallSlots:        22,
	}
}

// LoadGridProfile reads a YAML grid profile; missing fields fall back to
// the defaults so a partial profile only overrides what it names.
func LoadGridProfile(path string) (GridProfile, error) {
	profile := DefaultGridProfile()
	raw, err := os.ReadFile(path)
	if err != nil {
		return profile, fmt.Errorf("read grid profile: %w", err)
	}
	if err := yaml.Unmarshal(raw, &profile); err != nil {
		return profile, fmt.Errorf("parse grid profile: %w", err)
	}
	if profile.ShelfSlots <= 0 || profile.WallSlots <= 0 {
		return profile, fmt.Errorf("grid profile slot counts must be positive")
	}
	return profile, nil
}

func (p GridProfile) slotsForWall(identifier string) int {
	if n, ok := p.WallSlotOverride[identifier]; ok {
		return n
	}
	return p.WallSlots
}

// SlotGrid answers "is this slot addressable" and enumerates the full
// deterministic slot ordering (identifier-major, slot-number-minor).
type SlotGrid struct {
	profile GridProfile
}

func NewSlotGrid(profile GridProfile) *SlotGrid {
	return &SlotGrid{profile: profile}
}

func (g *SlotGrid) ValidSlot(loc types.Location) error {
	switch loc.Kind {
	case types.SlotKindShelf:
		if !contains(g.profile.ShelfIdentifiers, loc.Identifier) {
			return apierr.Validation("invalid_shelf", "unknown shelf %q", loc.Identifier)
		}
		if loc.SlotNumber < 1 || loc.SlotNumber > g.profile.ShelfSlots {
			return apierr.Validation("slot_out_of_range", "shelf slot %d out of range [1,%d]", loc.SlotNumber, g.profile.ShelfSlots)
		}
	case types.SlotKindWall:
		if !contains(g.profile.WallIdentifiers, loc.Identifier) {
			return apierr.Validation("invalid_wall", "unknown wall %q", loc.Identifier)
		}
		max := g.profile.slotsForWall(loc.Identifier)
		if loc.SlotNumber < 1 || loc.SlotNumber > max {
			return apierr.Validation("slot_out_of_range", "wall slot %d out of range [1,%d]", loc.SlotNumber, max)
		}
	default:
		return apierr.Validation("invalid_slot_kind", "unknown slot kind %q", loc.Kind)
	}
	return nil
}

func (g *SlotGrid) EnumerateSlots(kind types.SlotKind) []types.Location {
	var out []types.Location
	switch kind {
	case types.SlotKindShelf:
		for _, id := range g.profile.ShelfIdentifiers {
			for n := 1; n <= g.profile.ShelfSlots; n++ {
				out = append(out, types.Location{Kind: kind, Identifier: id, SlotNumber: n})
			}
		}
	case types.SlotKindWall:
		for _, id := range g.profile.WallIdentifiers {
			for n := 1; n <= g.profile.slotsForWall(id); n++ {
				out = append(out, types.Location{Kind: kind, Identifier: id, SlotNumber: n})
			}
		}
	}
	return out
}

func (g *SlotGrid) TotalSlots(kind types.SlotKind) int {
	return len(g.EnumerateSlots(kind))
}

func contains(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

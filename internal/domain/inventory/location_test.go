package inventory

import (
	"encoding/json"
	"testing"
)

func TestLocationJSONRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		loc  Location
		want string
	}{
		{"shelf", Location{Kind: SlotKindShelf, Identifier: "upper", SlotNumber: 3}, `{"shelf":"upper","slot_number":3}`},
		{"wall", Location{Kind: SlotKindWall, Identifier: "wall_2", SlotNumber: 15}, `{"slot_number":15,"wall":"wall_2"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw, err := json.Marshal(tc.loc)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if string(raw) != tc.want {
				t.Fatalf("marshal = %s, want %s", raw, tc.want)
			}
			var back Location
			if err := json.Unmarshal(raw, &back); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if back != tc.loc {
				t.Fatalf("round trip = %+v, want %+v", back, tc.loc)
			}
		})
	}
}

func TestLocationUnmarshalRejectsAmbiguous(t *testing.T) {
	var loc Location
	if err := json.Unmarshal([]byte(`{"shelf":"upper","wall":"wall_1","slot_number":1}`), &loc); err == nil {
		t.Fatal("expected error for a location naming both shelf and wall")
	}
	if err := json.Unmarshal([]byte(`{"slot_number":1}`), &loc); err == nil {
		t.Fatal("expected error for a location naming neither shelf nor wall")
	}
}

func TestLocationColumnsRoundTrip(t *testing.T) {
	loc := Location{Kind: SlotKindWall, Identifier: "wall_3", SlotNumber: 7}
	kind, id, n := loc.Columns()
	back := LocationFromColumns(kind, id, n)
	if back == nil || *back != loc {
		t.Fatalf("round trip = %+v, want %+v", back, loc)
	}

	if LocationFromColumns(nil, nil, nil) != nil {
		t.Fatal("NULL triple should map to nil (off-shelf)")
	}
	if LocationFromColumns(kind, nil, n) != nil {
		t.Fatal("partial triple should map to nil")
	}
}

func TestOccupantCoreUtilizationPct(t *testing.T) {
	core := OccupantCore{Capacity: 0, CropCount: 12}
	if got := core.UtilizationPct(); got != 0 {
		t.Fatalf("capacity 0 should report 0%%, got %d", got)
	}

	core = OccupantCore{Capacity: 200, CropCount: 73}
	if got := core.UtilizationPct(); got != 37 {
		t.Fatalf("73/200 should round to 37, got %d", got)
	}

	core = OccupantCore{Capacity: 50, CropCount: 50}
	if got := core.UtilizationPct(); got != 100 {
		t.Fatalf("full occupant should report 100, got %d", got)
	}
}

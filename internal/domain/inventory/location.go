package inventory

import (
	"encoding/json"
	"fmt"
)

type SlotKind string

const (
	SlotKindShelf SlotKind = "shelf"
	SlotKindWall  SlotKind = "wall"
)

// Location addresses one slot on a nursery shelf or cultivation wall.
// It is a value type, validated once at the API boundary; on the wire it
// keeps the legacy body shape {"shelf": "upper", "slot_number": 3} /
// {"wall": "wall_2", "slot_number": 5}.
type Location struct {
	Kind       SlotKind
	Identifier string
	SlotNumber int
}

func (l Location) String() string {
	return fmt.Sprintf("%s/%s/%d", l.Kind, l.Identifier, l.SlotNumber)
}

func (l Location) MarshalJSON() ([]byte, error) {
	out := map[string]interface{}{"slot_number": l.SlotNumber}
	switch l.Kind {
	case SlotKindShelf:
		out["shelf"] = l.Identifier
	case SlotKindWall:
		out["wall"] = l.Identifier
	default:
		return nil, fmt.Errorf("unknown slot kind %q", l.Kind)
	}
	return json.Marshal(out)
}

func (l *Location) UnmarshalJSON(data []byte) error {
	var raw struct {
		Shelf      *string `json:"shelf"`
		Wall       *string `json:"wall"`
		SlotNumber int     `json:"slot_number"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch {
	case raw.Shelf != nil && raw.Wall != nil:
		return fmt.Errorf("location must name a shelf or a wall, not both")
	case raw.Shelf != nil:
		l.Kind = SlotKindShelf
		l.Identifier = *raw.Shelf
	case raw.Wall != nil:
		l.Kind = SlotKindWall
		l.Identifier = *raw.Wall
	default:
		return fmt.Errorf("location must name a shelf or a wall")
	}
	l.SlotNumber = raw.SlotNumber
	return nil
}

// Columns flattens the location into the nullable column triple used on
// the occupant and snapshot tables.
func (l Location) Columns() (kind *string, identifier *string, number *int) {
	k := string(l.Kind)
	id := l.Identifier
	n := l.SlotNumber
	return &k, &id, &n
}

// LocationFromColumns rebuilds a Location from the column triple; returns
// nil when the triple is NULL (off-shelf).
func LocationFromColumns(kind, identifier *string, number *int) *Location {
	if kind == nil || identifier == nil || number == nil {
		return nil
	}
	return &Location{Kind: SlotKind(*kind), Identifier: *identifier, SlotNumber: *number}
}

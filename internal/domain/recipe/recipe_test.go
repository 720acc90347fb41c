package recipe

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestVersionContains(t *testing.T) {
	to := date(2025, 2, 1)
	v := &Version{ValidFrom: date(2025, 1, 1), ValidTo: &to}

	if !v.Contains(date(2025, 1, 1)) {
		t.Fatal("valid_from is inclusive")
	}
	if v.Contains(date(2025, 2, 1)) {
		t.Fatal("valid_to is exclusive")
	}
	if v.Contains(date(2024, 12, 31)) {
		t.Fatal("before the interval")
	}

	open := &Version{ValidFrom: date(2025, 2, 1)}
	if !open.Contains(date(2030, 1, 1)) {
		t.Fatal("open valid_to extends to +infinity")
	}
}

func TestVersionOverlaps(t *testing.T) {
	feb := date(2025, 2, 1)
	a := &Version{ValidFrom: date(2025, 1, 1), ValidTo: &feb}

	mid := &Version{ValidFrom: date(2025, 1, 15)}
	if !a.Overlaps(mid) || !mid.Overlaps(a) {
		t.Fatal("open interval starting inside A must overlap")
	}

	adjacent := &Version{ValidFrom: feb}
	if a.Overlaps(adjacent) || adjacent.Overlaps(a) {
		t.Fatal("interval starting exactly at A.valid_to must not overlap")
	}

	openA := &Version{ValidFrom: date(2025, 1, 1)}
	later := &Version{ValidFrom: date(2026, 6, 1)}
	if !openA.Overlaps(later) {
		t.Fatal("open-ended interval overlaps everything after its start")
	}
}

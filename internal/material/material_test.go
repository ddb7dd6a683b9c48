package material

import "testing"

func TestNewTableStartsWithVoid(t *testing.T) {
	tbl := NewTable()
	if tbl.Size() != 1 {
		t.Fatalf("expected size 1, got %d", tbl.Size())
	}
	if got := tbl.Get(VoidIndex); got != Void {
		t.Fatalf("index 0 should be Void, got %+v", got)
	}
}

func TestAddAppendsAndReturnsIndex(t *testing.T) {
	tbl := NewTable()
	ix := tbl.Add(Material{HeatCapacity: 500, ThermalConductivity: 100, DefaultMass: 1000})
	if ix != 1 {
		t.Fatalf("expected first added material at index 1, got %d", ix)
	}
	if tbl.Size() != 2 {
		t.Fatalf("expected size 2, got %d", tbl.Size())
	}

	ix2 := tbl.Add(Material{HeatCapacity: 700})
	if ix2 != 2 {
		t.Fatalf("expected second added material at index 2, got %d", ix2)
	}
	if tbl.Get(ix).HeatCapacity != 500 {
		t.Fatalf("earlier index moved after later Add")
	}
}

func TestGetPanicsOutOfRange(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for out-of-range Get")
		}
	}()
	tbl := NewTable()
	tbl.Get(5)
}

package stream

import "testing"

func TestRegistryPutOverwrites(t *testing.T) {
	reg := NewRegistry()
	s1 := NewSession(&fakeConn{}, nil, reg, nil, discardLogger())
	s2 := NewSession(&fakeConn{}, nil, reg, nil, discardLogger())

	reg.Put("R1", s1)
	reg.Put("R1", s2)

	got, ok := reg.Get("R1")
	if !ok || got != s2 {
		t.Fatal("later put did not supersede earlier entry")
	}
	if reg.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", reg.Len())
	}
}

func TestRegistryRemoveIfCurrent(t *testing.T) {
	reg := NewRegistry()
	s1 := NewSession(&fakeConn{}, nil, reg, nil, discardLogger())
	s2 := NewSession(&fakeConn{}, nil, reg, nil, discardLogger())

	reg.Put("R1", s1)
	reg.Put("R1", s2)

	if reg.RemoveIfCurrent("R1", s1) {
		t.Fatal("stale handle removed a newer entry")
	}
	if _, ok := reg.Get("R1"); !ok {
		t.Fatal("entry vanished after stale remove")
	}
	if !reg.RemoveIfCurrent("R1", s2) {
		t.Fatal("current handle could not remove its entry")
	}
	if reg.Len() != 0 {
		t.Fatalf("expected empty registry, got %d", reg.Len())
	}
}

func TestRegistryRemoveUnknownRider(t *testing.T) {
	reg := NewRegistry()
	s := NewSession(&fakeConn{}, nil, reg, nil, discardLogger())
	if reg.RemoveIfCurrent("ghost", s) {
		t.Fatal("removed an entry that never existed")
	}
}

package engine

import "testing"

func TestRegistryUpsertIgnoresDuplicates(t *testing.T) {
	r := NewRegistry()
	if !r.Upsert(Entity{ID: 1, Name: "first", Health: 100}) {
		t.Fatalf("first upsert rejected")
	}
	if r.Upsert(Entity{ID: 1, Name: "second", Health: 50}) {
		t.Fatalf("duplicate upsert accepted")
	}
	if got := r.Get(1).Name; got != "first" {
		t.Fatalf("duplicate overwrote entity: %q", got)
	}
}

func TestRegistryRemoveIdempotent(t *testing.T) {
	r := NewRegistry()
	r.Upsert(Entity{ID: 1})
	if !r.Remove(1) {
		t.Fatalf("remove of present entity reported false")
	}
	if r.Remove(1) {
		t.Fatalf("remove of absent entity reported true")
	}
	if r.Len() != 0 {
		t.Fatalf("registry not empty")
	}
}

func TestRegistryIDsSorted(t *testing.T) {
	r := NewRegistry()
	for _, id := range []int{5, 1, 3} {
		r.Upsert(Entity{ID: id})
	}
	ids := r.IDs()
	if len(ids) != 3 || ids[0] != 1 || ids[1] != 3 || ids[2] != 5 {
		t.Fatalf("ids = %v, want [1 3 5]", ids)
	}
}

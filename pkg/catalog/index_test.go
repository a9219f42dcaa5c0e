package catalog

import (
	"errors"
	"testing"
)

func vec(values ...float32) []float32 {
	return values
}

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	ix := NewIndex(3)

	items := []Item{
		{ID: "ship-a", Name: "Aurora MR", Focus: "Starter", Manufacturer: "RSI", CrewMin: 1, CrewMax: 1, PriceUSD: 25, CargoCapacity: 3, Vector: vec(1, 0, 0)},
		{ID: "ship-b", Name: "Cutlass Black", Focus: "Multi-Role", Manufacturer: "Drake", CrewMin: 1, CrewMax: 3, PriceUSD: 100, CargoCapacity: 46, Vector: vec(0.9, 0.1, 0)},
		{ID: "ship-c", Name: "Caterpillar", Focus: "Freight", Manufacturer: "Drake", CrewMin: 4, CrewMax: 5, PriceUSD: 330, CargoCapacity: 576, Vector: vec(0, 1, 0)},
		{ID: "ship-d", Name: "Gladius", Focus: "Light Fighter", Manufacturer: "Aegis", CrewMin: 1, CrewMax: 1, PriceUSD: 90, CargoCapacity: 0, Vector: vec(1, 0, 0)},
	}
	for _, item := range items {
		if err := ix.Upsert(item); err != nil {
			t.Fatalf("Upsert(%s): %v", item.ID, err)
		}
	}
	return ix
}

func TestUpsertValidation(t *testing.T) {
	ix := NewIndex(3)

	tests := []struct {
		name string
		item Item
	}{
		{name: "dimension mismatch", item: Item{ID: "x", Vector: vec(1, 0)}},
		{name: "zero magnitude", item: Item{ID: "x", Vector: vec(0, 0, 0)}},
		{name: "empty id", item: Item{Vector: vec(1, 0, 0)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ix.Upsert(tt.item)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("want ValidationError, got %v", err)
			}
			if ix.Len() != 0 {
				t.Fatalf("index mutated by rejected upsert")
			}
		})
	}
}

func TestQueryOrderingAndTieBreak(t *testing.T) {
	ix := newTestIndex(t)

	got, err := ix.Query(vec(1, 0, 0), Filters{}, 10)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}

	// ship-a and ship-d both score 1.0; tie broken by id ascending.
	wantOrder := []string{"ship-a", "ship-d", "ship-b", "ship-c"}
	if len(got) != len(wantOrder) {
		t.Fatalf("got %d candidates, want %d", len(got), len(wantOrder))
	}
	for i, want := range wantOrder {
		if got[i].Item.ID != want {
			t.Errorf("position %d: got %s, want %s", i, got[i].Item.ID, want)
		}
	}
	for i := 1; i < len(got); i++ {
		if got[i].Score > got[i-1].Score {
			t.Errorf("scores not non-increasing at %d", i)
		}
	}
}

func TestQueryLimit(t *testing.T) {
	ix := newTestIndex(t)

	got, err := ix.Query(vec(1, 0, 0), Filters{}, 2)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d candidates, want 2", len(got))
	}
}

func TestQueryPredicatePushdown(t *testing.T) {
	ix := newTestIndex(t)

	maxPrice := 150.0
	// With limit=1 and a price cap, the best filtered match must win even
	// though the unfiltered top-2 would both be under the cap here; tighten
	// with a cargo minimum that only ship-b satisfies.
	cargoMin := 40
	got, err := ix.Query(vec(1, 0, 0), Filters{PriceMaxUSD: &maxPrice, CargoMinSCU: &cargoMin}, 1)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(got) != 1 || got[0].Item.ID != "ship-b" {
		t.Fatalf("got %+v, want single ship-b", got)
	}
}

func TestQueryCrewAndCategoricalFilters(t *testing.T) {
	ix := newTestIndex(t)

	crewMax := 1
	got, err := ix.Query(vec(0, 1, 0), Filters{CrewMax: &crewMax, Manufacturer: "drake"}, 10)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(got) != 1 || got[0].Item.ID != "ship-b" {
		t.Fatalf("got %+v, want single ship-b", got)
	}
}

func TestQueryExclusions(t *testing.T) {
	ix := newTestIndex(t)

	got, err := ix.Query(vec(1, 0, 0), Filters{ExcludeIDs: []string{"ship-a", "ship-d"}}, 10)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	for _, c := range got {
		if c.Item.ID == "ship-a" || c.Item.ID == "ship-d" {
			t.Fatalf("excluded item %s returned", c.Item.ID)
		}
	}
}

func TestQueryNoMatchesReturnsEmpty(t *testing.T) {
	ix := newTestIndex(t)

	cargoMin := 10000
	got, err := ix.Query(vec(1, 0, 0), Filters{CargoMinSCU: &cargoMin}, 5)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("got %d candidates, want 0", len(got))
	}
}

func TestQueryDimensionMismatch(t *testing.T) {
	ix := newTestIndex(t)

	_, err := ix.Query(vec(1, 0), Filters{}, 5)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("want ValidationError, got %v", err)
	}
}

func TestUpsertReplacesAtomically(t *testing.T) {
	ix := newTestIndex(t)

	updated := Item{ID: "ship-a", Name: "Aurora LN", Focus: "Starter", CrewMin: 1, PriceUSD: 35, Vector: vec(0, 0, 1)}
	if err := ix.Upsert(updated); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	got, ok := ix.Get("ship-a")
	if !ok || got.Name != "Aurora LN" {
		t.Fatalf("replace not visible: %+v", got)
	}
	if ix.Len() != 4 {
		t.Fatalf("Len = %d, want 4", ix.Len())
	}
}

func TestBrowseFiltersWithoutRanking(t *testing.T) {
	ix := newTestIndex(t)

	drake := ix.Browse(Filters{Manufacturer: "Drake"}, 10)
	if len(drake) != 2 {
		t.Fatalf("Browse(Drake) returned %d items, want 2", len(drake))
	}
	if drake[0].ID != "ship-b" || drake[1].ID != "ship-c" {
		t.Fatalf("Browse order = [%s %s], want id-ascending [ship-b ship-c]", drake[0].ID, drake[1].ID)
	}

	limited := ix.Browse(Filters{}, 1)
	if len(limited) != 1 || limited[0].ID != "ship-a" {
		t.Fatalf("Browse limit 1 = %v, want [ship-a]", limited)
	}

	none := ix.Browse(Filters{Manufacturer: "Origin"}, 10)
	if len(none) != 0 {
		t.Fatalf("Browse with no matches returned %d items, want 0", len(none))
	}
}

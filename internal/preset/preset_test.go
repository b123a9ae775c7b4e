package preset

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/alextrzyna/mcp-muse/internal/algorithm"
)

func TestNewLibraryIndexesEveryCatalogEntry(t *testing.T) {
	lib := NewLibrary()
	if len(lib.List()) != len(catalog) {
		t.Fatalf("List() returned %d presets, want %d (len(catalog))", len(lib.List()), len(catalog))
	}
	for _, p := range catalog {
		if !lib.Exists(p.Name) {
			t.Fatalf("expected %q to be indexed by name", p.Name)
		}
	}
}

func TestResolveByNameFailsForUnknownPreset(t *testing.T) {
	lib := NewLibrary()
	_, _, _, _, _, err := lib.Resolve(Selector{ByName: "does-not-exist"}, rand.New(rand.NewSource(1)))
	if err == nil {
		t.Fatal("expected an error resolving an unknown preset name")
	}
}

func TestResolveByCategoryFailsWhenEmpty(t *testing.T) {
	lib := &Library{byName: map[string]*Preset{}, byCategory: map[Category][]*Preset{}, byTag: map[string][]*Preset{}}
	_, _, _, _, _, err := lib.Resolve(Selector{HasCategory: true, ByCategory: Bass}, rand.New(rand.NewSource(1)))
	if err == nil {
		t.Fatal("expected an error resolving a category with no members")
	}
}

func TestResolveByCategoryStaysWithinCategory(t *testing.T) {
	lib := NewLibrary()
	if !lib.CategoryNonEmpty(Bass) {
		t.Skip("catalog has no Bass presets to exercise this path")
	}
	bassAlgorithms := map[algorithm.Kind]bool{}
	for _, p := range lib.byCategory[Bass] {
		bassAlgorithms[p.Algorithm] = true
	}
	for i := 0; i < 20; i++ {
		alg, _, _, _, _, err := lib.Resolve(Selector{HasCategory: true, ByCategory: Bass}, rand.New(rand.NewSource(int64(i))))
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		// Resolve returns no preset name, so check the pick's algorithm
		// belongs to some Bass preset.
		if !bassAlgorithms[alg] {
			t.Fatalf("algorithm %v is not used by any Bass preset", alg)
		}
	}
}

func TestResolveUnknownVariationFallsBackToBase(t *testing.T) {
	lib := NewLibrary()
	var named *Preset
	for _, p := range lib.List() {
		named = p
		break
	}
	if named == nil {
		t.Skip("empty catalog")
	}
	_, params, _, filter, applied, err := lib.Resolve(Selector{ByName: named.Name, Variation: "definitely-not-a-real-variation"}, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if applied {
		t.Fatal("expected applied=false for an unknown variation")
	}
	if !reflect.DeepEqual(params, named.BaseParams) {
		t.Fatal("expected an unknown variation to fall back to the base params")
	}
	if filter != named.BaseFilter {
		t.Fatal("expected an unknown variation to fall back to the base filter")
	}
}

func TestResolveRandomPicksFromTheFullCatalog(t *testing.T) {
	lib := NewLibrary()
	_, _, _, _, _, err := lib.Resolve(Selector{Random: true}, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("resolve random: %v", err)
	}
}

func TestResolveMinimoogBassBrightVariationOverridesFilter(t *testing.T) {
	lib := NewLibrary()
	alg, _, _, filter, applied, err := lib.Resolve(Selector{ByName: "Minimoog Bass", Variation: "bright"}, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !applied {
		t.Fatal("expected the \"bright\" variation to be recognized")
	}
	if alg != algorithm.Sawtooth {
		t.Fatalf("algorithm = %v, want Sawtooth", alg)
	}
	if filter.Kind == FilterNone {
		t.Fatal("expected \"bright\" to override the filter")
	}
	if filter.Resonance > 0.1 {
		t.Fatalf("resonance = %v, want <= 0.1", filter.Resonance)
	}
	if filter.CutoffHz <= 0 {
		t.Fatal("expected \"bright\" to set a nonzero cutoff")
	}
}

package unionfind

import "testing"

func TestNewRegion_InitialState(t *testing.T) {
	m := New()
	id := m.NewRegion(FeatureCity, 2, true)
	if got := m.OpenSides(id); got != 2 {
		t.Errorf("OpenSides = %d, want 2", got)
	}
	if got := m.COACount(id); got != 1 {
		t.Errorf("COACount = %d, want 1", got)
	}
	if got := m.Size(id); got != 1 {
		t.Errorf("Size = %d, want 1", got)
	}
	if m.IsClosed(id) {
		t.Errorf("fresh region with open sides should not be closed")
	}
}

func TestUnite_DifferentRoots_SumsAndSubtractsTwo(t *testing.T) {
	m := New()
	a := m.NewRegion(FeatureRoad, 1, false)
	b := m.NewRegion(FeatureRoad, 1, false)
	root := m.Unite(a, b)
	if got := m.OpenSides(root); got != 0 {
		t.Errorf("OpenSides after uniting two single-open-side regions = %d, want 0", got)
	}
	if !m.IsClosed(a) || !m.IsClosed(b) {
		t.Errorf("expected both a and b to report closed through the merged root")
	}
	if got := m.Size(a); got != 2 {
		t.Errorf("Size = %d, want 2", got)
	}
}

func TestUnite_SameRoot_StillSubtractsTwo(t *testing.T) {
	m := New()
	a := m.NewRegion(FeatureRoad, 4, false)
	b := m.NewRegion(FeatureRoad, 0, false)
	m.Unite(a, b) // merge into one component, open sides = 4+0-2 = 2
	root := m.Unite(a, b) // self-union: a loop closing on itself
	if got := m.OpenSides(root); got != 0 {
		t.Errorf("OpenSides after self-union = %d, want 0", got)
	}
}

func TestUnite_CombinesCOAAndMembers(t *testing.T) {
	m := New()
	a := m.NewRegion(FeatureCity, 1, true)
	b := m.NewRegion(FeatureCity, 1, true)
	c := m.NewRegion(FeatureCity, 0, false)
	root := m.Unite(a, b)
	root = m.Unite(root, c)
	if got := m.COACount(root); got != 2 {
		t.Errorf("COACount = %d, want 2", got)
	}
	if got := m.Size(root); got != 3 {
		t.Errorf("Size = %d, want 3", got)
	}
}

func TestPlaceToken_TracksAcrossUnite(t *testing.T) {
	m := New()
	a := m.NewRegion(FeatureRoad, 1, false)
	b := m.NewRegion(FeatureRoad, 1, false)
	m.PlaceToken(a, 3)
	m.PlaceToken(b, 10)
	root := m.Unite(a, b)
	toks := m.Tokens(root)
	if len(toks) != 2 {
		t.Fatalf("Tokens = %v, want 2 entries", toks)
	}
	seen := map[int]bool{}
	for _, tk := range toks {
		seen[tk] = true
	}
	if !seen[3] || !seen[10] {
		t.Errorf("Tokens = %v, want {3,10}", toks)
	}
}

func TestFacingCities_ResolvesThroughLaterMerges(t *testing.T) {
	m := New()
	field := m.NewRegion(FeatureField, 4, false)
	cityA := m.NewRegion(FeatureCity, 1, false)
	cityB := m.NewRegion(FeatureCity, 1, false)
	m.AddFacingCity(field, cityA)
	m.AddFacingCity(field, cityB)

	// Before cityA and cityB merge, two distinct facing cities.
	if got := m.FacingCities(field); len(got) != 2 {
		t.Fatalf("FacingCities before merge = %v, want 2 entries", got)
	}

	mergedCity := m.Unite(cityA, cityB)
	_ = mergedCity

	// After cityA and cityB merge into one city, the field should see
	// only one facing city (deduplicated through Find).
	if got := m.FacingCities(field); len(got) != 1 {
		t.Errorf("FacingCities after merge = %v, want 1 entry", got)
	}
}

func TestMonasteryClosesViaReduceOpenSides(t *testing.T) {
	m := New()
	mon := m.NewRegion(FeatureMonastery, 8, false)
	if m.IsClosed(mon) {
		t.Errorf("fresh monastery should not be closed")
	}
	m.ReduceOpenSides(mon, 7)
	if m.IsClosed(mon) {
		t.Errorf("monastery with 1 open side remaining should not be closed")
	}
	m.ReduceOpenSides(mon, 1)
	if !m.IsClosed(mon) {
		t.Errorf("expected monastery to be closed once open sides reach 0")
	}
}

func TestMarkDone_TracksAcrossMerge(t *testing.T) {
	m := New()
	a := m.NewRegion(FeatureRoad, 1, false)
	b := m.NewRegion(FeatureRoad, 1, false)
	m.MarkDone(a)
	root := m.Unite(a, b)
	if !m.IsDone(root) {
		t.Errorf("expected done flag to survive merge")
	}
}

func TestFind_PathCompressionPreservesComponent(t *testing.T) {
	m := New()
	ids := make([]int, 5)
	for i := range ids {
		ids[i] = m.NewRegion(FeatureRoad, 2, false)
	}
	for i := 1; i < len(ids); i++ {
		m.Unite(ids[0], ids[i])
	}
	root := m.Find(ids[0])
	for _, id := range ids {
		if m.Find(id) != root {
			t.Errorf("Find(%d) = %d, want %d", id, m.Find(id), root)
		}
	}
}

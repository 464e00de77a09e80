// Package unionfind is the Region Merger: a weighted union-find over
// board-wide region ids, carrying the payload needed for every live
// region — open-side count, seated tokens, member tiles, coat-of-arms
// count, and the raw field/city adjacency pairs recorded at each
// contributing tile's birth.
//
// Grounded on the address-clustering engine
// (internal/heuristics/cluster_engine.go): the same weighted
// union-by-rank/path-compression shape, generalized from a string-keyed
// map to a dense, index-addressed arena.
package unionfind

// Merger holds every region ever allocated in a single game, addressed by
// region id (a dense, monotonically increasing index).
type Merger struct {
	parent []int
	rank   []int

	feature   []Feature
	openSides []int
	coaCount  []int
	members   []int // tile count contributed to this region's component
	tokens    []map[int]bool
	done      []bool

	// facingCities[id] holds raw city-region ids recorded when a field
	// region touched a city edge at tile-placement time. These are NOT
	// kept canonical as cities later merge; FacingCities resolves them
	// through Find at read time.
	facingCities [][]int
}

// Feature mirrors models.FeatureType but is declared locally so this
// package has no import-time dependency on pkg/models; the engine
// converts at the boundary.
type Feature int

const (
	FeatureRoad Feature = iota
	FeatureCity
	FeatureMonastery
	FeatureField
)

// New returns an empty Merger.
func New() *Merger {
	return &Merger{}
}

// NewRegion allocates a fresh region id with the given feature, starting
// open-side count, and coat-of-arms flag, contributed by one tile.
func (m *Merger) NewRegion(f Feature, openSides int, coa bool) int {
	id := len(m.parent)
	m.parent = append(m.parent, id)
	m.rank = append(m.rank, 0)
	m.feature = append(m.feature, f)
	m.openSides = append(m.openSides, openSides)
	coaCount := 0
	if coa {
		coaCount = 1
	}
	m.coaCount = append(m.coaCount, coaCount)
	m.members = append(m.members, 1)
	m.tokens = append(m.tokens, nil)
	m.done = append(m.done, false)
	m.facingCities = append(m.facingCities, nil)
	return id
}

// Find returns the canonical root of id's component, path-compressing
// along the way.
func (m *Merger) Find(id int) int {
	for m.parent[id] != id {
		m.parent[id] = m.parent[m.parent[id]]
		id = m.parent[id]
	}
	return id
}

// Unite merges the components containing a and b, and in every case —
// whether or not they were already the same component — reduces the
// resulting open-side count by 2: one open side on each side of the tile
// boundary being closed is now satisfied. A self-union (a loop closing
// back onto its own region, e.g. a road that meets itself around a ring
// of tiles) still consumes two open sides even though no rank merge
// happens.
func (m *Merger) Unite(a, b int) int {
	ra, rb := m.Find(a), m.Find(b)
	if ra == rb {
		m.openSides[ra] -= 2
		return ra
	}

	if m.rank[ra] < m.rank[rb] {
		ra, rb = rb, ra
	}
	m.parent[rb] = ra
	if m.rank[ra] == m.rank[rb] {
		m.rank[ra]++
	}
	m.openSides[ra] = m.openSides[ra] + m.openSides[rb] - 2
	m.coaCount[ra] += m.coaCount[rb]
	m.members[ra] += m.members[rb]
	if len(m.tokens[rb]) > 0 {
		if m.tokens[ra] == nil {
			m.tokens[ra] = map[int]bool{}
		}
		for tok := range m.tokens[rb] {
			m.tokens[ra][tok] = true
		}
		m.tokens[rb] = nil
	}
	m.facingCities[ra] = append(m.facingCities[ra], m.facingCities[rb]...)
	m.facingCities[rb] = nil
	if m.done[rb] {
		m.done[ra] = true
	}
	return ra
}

// ReduceOpenSides subtracts n from id's region's open-side count,
// without touching rank or component membership. Used for Monastery
// regions: each tile landing in the monastery's 8-ring consumes one of
// its 8 open sides.
func (m *Merger) ReduceOpenSides(id, n int) {
	root := m.Find(id)
	m.openSides[root] -= n
}

// PlaceToken records tokenID as seated on id's region.
func (m *Merger) PlaceToken(id, tokenID int) {
	root := m.Find(id)
	if m.tokens[root] == nil {
		m.tokens[root] = map[int]bool{}
	}
	m.tokens[root][tokenID] = true
}

// Tokens returns the token ids currently seated on id's region.
func (m *Merger) Tokens(id int) []int {
	root := m.Find(id)
	out := make([]int, 0, len(m.tokens[root]))
	for tok := range m.tokens[root] {
		out = append(out, tok)
	}
	return out
}

// AddFacingCity records that a field region touched a city region at
// tile-placement time. cityID is the raw id observed at that moment; it
// is resolved through Find lazily, by FacingCities.
func (m *Merger) AddFacingCity(fieldID, cityID int) {
	root := m.Find(fieldID)
	m.facingCities[root] = append(m.facingCities[root], cityID)
}

// FacingCities returns the deduplicated set of current city-region roots
// a field region's recorded adjacencies resolve to.
func (m *Merger) FacingCities(fieldID int) []int {
	root := m.Find(fieldID)
	seen := map[int]bool{}
	var out []int
	for _, raw := range m.facingCities[root] {
		r := m.Find(raw)
		if !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	return out
}

// OpenSides returns the current open-side count for id's region.
func (m *Merger) OpenSides(id int) int {
	return m.openSides[m.Find(id)]
}

// IsClosed reports whether id's region has zero (or fewer, after a
// same-root self-union) remaining open sides. Uniform across feature
// types: a Monastery's open_sides starts at 8 and is driven to 0 by
// ReduceOpenSides as its ring fills, exactly like a Road/City reaching 0
// through Unite.
func (m *Merger) IsClosed(id int) bool {
	return m.openSides[m.Find(id)] <= 0
}

// MarkDone records that id's region has been scored, so the scorer never
// double-counts it across the mid-game sweep and the end-of-game pass.
func (m *Merger) MarkDone(id int) {
	m.done[m.Find(id)] = true
}

// IsDone reports whether id's region has already been scored.
func (m *Merger) IsDone(id int) bool {
	return m.done[m.Find(id)]
}

// Size returns the number of tiles contributing to id's component.
func (m *Merger) Size(id int) int {
	return m.members[m.Find(id)]
}

// COACount returns the number of coat-of-arms tiles in id's component.
func (m *Merger) COACount(id int) int {
	return m.coaCount[m.Find(id)]
}

// FeatureOf returns the feature type of id's region.
func (m *Merger) FeatureOf(id int) Feature {
	return m.feature[m.Find(id)]
}

// NumRegions returns the count of region ids ever allocated (not the
// count of distinct live components).
func (m *Merger) NumRegions() int {
	return len(m.parent)
}

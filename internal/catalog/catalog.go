// Package catalog is the Tile Catalog: for each of the 24 playable tile
// kinds, the four edge labels, the distinct regions the tile contributes,
// and the per-edge ordered region references a neighbor must match
// against.
//
// Region layouts are not hand-tabulated per kind — that invites the kind
// of transcription error a 24-entry table is prone to. Instead each kind
// is declared compactly (edge labels plus which directions group into one
// city/road feature) and the field layer is derived once, at init, by a
// small corner-merge pass: every tile side contributes one or two "field
// pieces" depending on its label, and the four corners between adjacent
// sides union the pieces that physically touch there. Connected pieces
// become one field region. This is the same shape of problem
// cluster_engine.go solves for address clusters, here run over at most
// 8 pieces per tile.
package catalog

import "github.com/rawblock/carcassonne-engine/pkg/models"

// RegionDef describes one region a tile kind contributes.
type RegionDef struct {
	Feature   models.FeatureType
	OpenSides int
	COA       bool
}

// FieldCityAdj is a (field region index, city region index) pair recorded
// at tile-birth time.
type FieldCityAdj struct {
	FieldIdx int
	CityIdx  int
}

// TileDef is the fully-expanded, rotation-0 definition of one tile kind.
type TileDef struct {
	Kind    models.Kind
	Edges   [4]models.Label
	Regions []RegionDef

	// EdgeRegions[d] holds the ordered region-index triple (Road/City
	// edges: field, feature, field) or singleton (Field edges) visible
	// from direction d, outer-to-inner from this tile's own perspective.
	EdgeRegions [4][]int

	FieldCityAdjacency []FieldCityAdj

	HasMonastery    bool
	MonasteryRegion int // index into Regions, -1 if HasMonastery is false
}

// EdgeAt returns the edge label presented at absolute direction d when
// the tile is placed at rotation rot.
func (t TileDef) EdgeAt(rot, d int) models.Label {
	return t.Edges[(rot+d)%4]
}

// EdgeRegionsAt returns the region-index list presented at absolute
// direction d under rotation rot.
func (t TileDef) EdgeRegionsAt(rot, d int) []int {
	return t.EdgeRegions[(rot+d)%4]
}

// catalog is the package-level table, built once at init from the compact
// kindSpec declarations below.
var catalog [models.NumKinds]TileDef

// Lookup returns the rotation-0 definition for kind k.
func Lookup(k models.Kind) TileDef {
	return catalog[k]
}

// kindSpec is the compact, declarative per-kind input to the builder.
type kindSpec struct {
	kind models.Kind

	edges [4]models.Label

	// cityGroups/roadGroups partition the City/Road-labeled directions
	// into feature regions; every City direction must appear in exactly
	// one cityGroups entry (same for Road/roadGroups). A singleton
	// {d} group is an isolated feature touching one direction; grouping
	// several directions together unites them into one region (e.g. a
	// straight road, or a crossroads).
	cityGroups []featureGroup
	roadGroups []featureGroup

	monastery bool
}

type featureGroup struct {
	dirs []int
	coa  bool
}

func init() {
	for _, spec := range kindSpecs() {
		catalog[spec.kind] = build(spec)
	}
}

// build expands one kindSpec into its full TileDef via the corner-merge
// field algorithm described in the package doc.
func build(spec kindSpec) TileDef {
	def := TileDef{
		Kind:            spec.kind,
		Edges:           spec.edges,
		MonasteryRegion: -1,
	}

	// groupOf[d] = index into spec.cityGroups/roadGroups owning
	// direction d, or -1.
	cityGroupOf := [4]int{-1, -1, -1, -1}
	roadGroupOf := [4]int{-1, -1, -1, -1}
	for gi, g := range spec.cityGroups {
		for _, d := range g.dirs {
			cityGroupOf[d] = gi
		}
	}
	for gi, g := range spec.roadGroups {
		for _, d := range g.dirs {
			roadGroupOf[d] = gi
		}
	}

	// One region per declared feature group, in city-then-road order.
	cityRegionIdx := make([]int, len(spec.cityGroups))
	for gi, g := range spec.cityGroups {
		cityRegionIdx[gi] = len(def.Regions)
		def.Regions = append(def.Regions, RegionDef{
			Feature:   models.FeatureCity,
			OpenSides: len(g.dirs),
			COA:       g.coa,
		})
	}
	roadRegionIdx := make([]int, len(spec.roadGroups))
	for gi, g := range spec.roadGroups {
		roadRegionIdx[gi] = len(def.Regions)
		def.Regions = append(def.Regions, RegionDef{
			Feature:   models.FeatureRoad,
			OpenSides: len(g.dirs),
		})
	}

	if spec.monastery {
		def.HasMonastery = true
		def.MonasteryRegion = len(def.Regions)
		def.Regions = append(def.Regions, RegionDef{
			Feature:   models.FeatureMonastery,
			OpenSides: 8,
		})
	}

	// --- field-piece corner merge ---
	// Each direction contributes either one piece (Field: touches both
	// its corners) or two pieces (Road/City: one per corner, "prev" and
	// "next" in the d,d+1 corner cycle).
	type piece struct {
		dir int
	}
	var pieces []piece
	// fieldPiece / prevPiece / nextPiece index into `pieces`, or -1.
	var fieldPiece, prevPiece, nextPiece [4]int
	for d := 0; d < 4; d++ {
		fieldPiece[d], prevPiece[d], nextPiece[d] = -1, -1, -1
		if spec.edges[d] == models.LabelField {
			fieldPiece[d] = len(pieces)
			pieces = append(pieces, piece{dir: d})
		} else {
			prevPiece[d] = len(pieces)
			pieces = append(pieces, piece{dir: d})
			nextPiece[d] = len(pieces)
			pieces = append(pieces, piece{dir: d})
		}
	}

	uf := newScratchUnionFind(len(pieces))
	pieceAt := func(d int, role string) int {
		if spec.edges[d] == models.LabelField {
			return fieldPiece[d]
		}
		if role == "prev" {
			return prevPiece[d]
		}
		return nextPiece[d]
	}
	for corner := 0; corner < 4; corner++ {
		a := corner
		b := (corner + 1) % 4
		uf.union(pieceAt(a, "next"), pieceAt(b, "prev"))
	}

	// Collect connected components -> field regions.
	rootToRegion := map[int]int{}
	pieceRegion := make([]int, len(pieces))
	for i := range pieces {
		root := uf.find(i)
		ri, ok := rootToRegion[root]
		if !ok {
			ri = len(def.Regions)
			def.Regions = append(def.Regions, RegionDef{Feature: models.FeatureField})
			rootToRegion[root] = ri
		}
		pieceRegion[i] = ri
	}
	// OpenSides per field region = count of distinct directions touched.
	touched := map[int]map[int]bool{}
	for i, p := range pieces {
		ri := pieceRegion[i]
		if touched[ri] == nil {
			touched[ri] = map[int]bool{}
		}
		touched[ri][p.dir] = true
	}
	for ri, dirs := range touched {
		def.Regions[ri].OpenSides = len(dirs)
	}

	// --- edge_regions ---
	for d := 0; d < 4; d++ {
		switch spec.edges[d] {
		case models.LabelField:
			def.EdgeRegions[d] = []int{pieceRegion[fieldPiece[d]]}
		case models.LabelCity:
			def.EdgeRegions[d] = []int{
				pieceRegion[prevPiece[d]],
				cityRegionIdx[cityGroupOf[d]],
				pieceRegion[nextPiece[d]],
			}
		case models.LabelRoad:
			def.EdgeRegions[d] = []int{
				pieceRegion[prevPiece[d]],
				roadRegionIdx[roadGroupOf[d]],
				pieceRegion[nextPiece[d]],
			}
		}
	}

	// --- field/city adjacency ---
	seen := map[[2]int]bool{}
	for d := 0; d < 4; d++ {
		if spec.edges[d] != models.LabelCity {
			continue
		}
		cityIdx := cityRegionIdx[cityGroupOf[d]]
		for _, flankPiece := range []int{prevPiece[d], nextPiece[d]} {
			fieldIdx := pieceRegion[flankPiece]
			key := [2]int{fieldIdx, cityIdx}
			if !seen[key] {
				seen[key] = true
				def.FieldCityAdjacency = append(def.FieldCityAdjacency, FieldCityAdj{FieldIdx: fieldIdx, CityIdx: cityIdx})
			}
		}
	}

	return def
}

// scratchUnionFind is a tiny unweighted union-find used only during
// catalog construction (at most 8 elements); the engine's own merger
// (internal/unionfind) is the production implementation operating over
// board-wide region ids.
type scratchUnionFind struct {
	parent []int
}

func newScratchUnionFind(n int) *scratchUnionFind {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	return &scratchUnionFind{parent: p}
}

func (u *scratchUnionFind) find(x int) int {
	for u.parent[x] != x {
		u.parent[x] = u.parent[u.parent[x]]
		x = u.parent[x]
	}
	return x
}

func (u *scratchUnionFind) union(a, b int) {
	ra, rb := u.find(a), u.find(b)
	if ra != rb {
		u.parent[ra] = rb
	}
}

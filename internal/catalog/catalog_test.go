package catalog

import (
	"testing"

	"github.com/rawblock/carcassonne-engine/pkg/models"
)

func TestLookup_AllKindsPresent(t *testing.T) {
	for k := models.Kind(0); int(k) < models.NumKinds; k++ {
		def := Lookup(k)
		if def.Kind != k {
			t.Errorf("catalog[%v].Kind = %v, want %v", k, def.Kind, k)
		}
		if len(def.Regions) == 0 {
			t.Errorf("catalog[%v] has no regions", k)
		}
	}
}

func TestEdgeRegions_Shape(t *testing.T) {
	for k := models.Kind(0); int(k) < models.NumKinds; k++ {
		def := Lookup(k)
		for d := 0; d < 4; d++ {
			regions := def.EdgeRegions[d]
			switch def.Edges[d] {
			case models.LabelField:
				if len(regions) != 1 {
					t.Errorf("%v dir %d: Field edge has %d edge_regions, want 1", k, d, len(regions))
				}
			case models.LabelRoad, models.LabelCity:
				if len(regions) != 3 {
					t.Errorf("%v dir %d: Road/City edge has %d edge_regions, want 3", k, d, len(regions))
				}
			}
			for _, ri := range regions {
				if ri < 0 || ri >= len(def.Regions) {
					t.Errorf("%v dir %d: edge_regions index %d out of range [0,%d)", k, d, ri, len(def.Regions))
				}
			}
		}
	}
}

func TestEdgeRegions_MiddleMatchesEdgeLabelFeature(t *testing.T) {
	for k := models.Kind(0); int(k) < models.NumKinds; k++ {
		def := Lookup(k)
		for d := 0; d < 4; d++ {
			if def.Edges[d] == models.LabelField {
				continue
			}
			want := models.FeatureRoad
			if def.Edges[d] == models.LabelCity {
				want = models.FeatureCity
			}
			mid := def.EdgeRegions[d][1]
			if def.Regions[mid].Feature != want {
				t.Errorf("%v dir %d: middle edge_regions entry has feature %v, want %v", k, d, def.Regions[mid].Feature, want)
			}
		}
	}
}

func TestFieldRegionOpenSidesMatchesTouchedDirections(t *testing.T) {
	for k := models.Kind(0); int(k) < models.NumKinds; k++ {
		def := Lookup(k)
		touched := make([]map[int]bool, len(def.Regions))
		for d := 0; d < 4; d++ {
			for _, ri := range def.EdgeRegions[d] {
				if def.Regions[ri].Feature != models.FeatureField {
					continue
				}
				if touched[ri] == nil {
					touched[ri] = map[int]bool{}
				}
				touched[ri][d] = true
			}
		}
		for ri, dirs := range touched {
			if def.Regions[ri].Feature != models.FeatureField {
				continue
			}
			if got, want := def.Regions[ri].OpenSides, len(dirs); got != want {
				t.Errorf("%v field region %d: OpenSides=%d, want %d (touched dirs %v)", k, ri, got, want, dirs)
			}
		}
	}
}

func TestMonasteryKinds(t *testing.T) {
	for _, k := range []models.Kind{models.Monastery, models.MonasteryWithRoad} {
		def := Lookup(k)
		if def.MonasteryRegion == -1 {
			t.Errorf("%v: expected a monastery region", k)
		}
	}
	for _, k := range []models.Kind{models.StartingTile, models.Straight, models.Curve} {
		def := Lookup(k)
		if def.MonasteryRegion != -1 {
			t.Errorf("%v: unexpected monastery region", k)
		}
	}
}

func TestFieldCityAdjacencyNonEmptyWhereExpected(t *testing.T) {
	// CityCap has one city edge flanked by field on both sides: must
	// record at least one field/city adjacency pair.
	def := Lookup(models.CityCap)
	if len(def.FieldCityAdjacency) == 0 {
		t.Errorf("CityCap: expected at least one field/city adjacency pair")
	}
}

func TestBagMultiplicitySumMatchesTotal(t *testing.T) {
	total := 0
	for _, n := range models.BagMultiplicity {
		total += n
	}
	// 71 drawable tiles plus the starting tile placed at the origin.
	if total != 72 {
		t.Errorf("bag multiplicity sums to %d, want 72", total)
	}
}

func TestQuadrupleRoadHasFourDeadEndRegions(t *testing.T) {
	// Crossroads terminate roads rather than fusing them: each of the
	// four arms is its own dead-end region.
	def := Lookup(models.QuadrupleRoad)
	roadRegions := 0
	for _, r := range def.Regions {
		if r.Feature == models.FeatureRoad {
			roadRegions++
		}
	}
	if roadRegions != 4 {
		t.Errorf("QuadrupleRoad: expected 4 separate road regions, got %d", roadRegions)
	}
}

func TestTripleRoadHasThreeDeadEndRegions(t *testing.T) {
	def := Lookup(models.TripleRoad)
	roadRegions := 0
	for _, r := range def.Regions {
		if r.Feature == models.FeatureRoad {
			roadRegions++
		}
	}
	if roadRegions != 3 {
		t.Errorf("TripleRoad: expected 3 separate road regions, got %d", roadRegions)
	}
}

func TestCityCapWithCrossroadHasThreeDeadEndRoadRegions(t *testing.T) {
	def := Lookup(models.CityCapWithCrossroad)
	roadRegions := 0
	for _, r := range def.Regions {
		if r.Feature == models.FeatureRoad {
			roadRegions++
		}
	}
	if roadRegions != 3 {
		t.Errorf("CityCapWithCrossroad: expected 3 separate road regions, got %d", roadRegions)
	}
}

func TestTriangleWithRoadIsAThroughCurveNotAStub(t *testing.T) {
	for _, k := range []models.Kind{models.TriangleWithRoad, models.TriangleWithRoadWithCOA} {
		def := Lookup(k)
		roadRegions := 0
		for _, r := range def.Regions {
			if r.Feature == models.FeatureRoad {
				roadRegions++
			}
		}
		if roadRegions != 1 {
			t.Errorf("%v: expected the two road edges to unify into 1 curve region, got %d", k, roadRegions)
		}
		for d := 0; d < 4; d++ {
			if def.Edges[d] == models.LabelField {
				t.Errorf("%v: unexpected field edge at dir %d, want only city/road edges", k, d)
			}
		}
	}
}

func TestSeparatorKindsKeepCitiesApart(t *testing.T) {
	for _, k := range []models.Kind{models.Separator, models.VerticalSeparator} {
		def := Lookup(k)
		cityRegions := 0
		for _, r := range def.Regions {
			if r.Feature == models.FeatureCity {
				cityRegions++
			}
		}
		if cityRegions != 2 {
			t.Errorf("%v: expected 2 separate city regions, got %d", k, cityRegions)
		}
	}
}

func TestConnectorKindsUniteCities(t *testing.T) {
	for _, k := range []models.Kind{models.Connector, models.ConnectorWithCOA} {
		def := Lookup(k)
		cityRegions := 0
		for _, r := range def.Regions {
			if r.Feature == models.FeatureCity {
				cityRegions++
			}
		}
		if cityRegions != 1 {
			t.Errorf("%v: expected cities unified into 1 region, got %d", k, cityRegions)
		}
	}
}

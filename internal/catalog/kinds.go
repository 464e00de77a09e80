package catalog

import "github.com/rawblock/carcassonne-engine/pkg/models"

// kindSpecs declares the rotation-0 edge layout and feature grouping for
// all 24 playable kinds. Grounded on the tile definitions in
// original_source/.../game/tile.rs, matched against the bag multiplicities
// in pkg/models.BagMultiplicity.
func kindSpecs() []kindSpec {
	const (
		R = models.DirRight
		T = models.DirTop
		L = models.DirLeft
		B = models.DirBottom
	)
	field := [4]models.Label{models.LabelField, models.LabelField, models.LabelField, models.LabelField}

	edges := func(right, top, left, bottom models.Label) [4]models.Label {
		return [4]models.Label{right, top, left, bottom}
	}
	road := models.LabelRoad
	city := models.LabelCity

	return []kindSpec{
		{
			// city cap on top, a single road stub to the right: the
			// tile every game opens from.
			kind:       models.StartingTile,
			edges:      edges(road, city, models.LabelField, models.LabelField),
			cityGroups: []featureGroup{{dirs: []int{T}}},
			roadGroups: []featureGroup{{dirs: []int{R}}},
		},
		{
			kind:      models.Monastery,
			edges:     field,
			monastery: true,
		},
		{
			kind:       models.MonasteryWithRoad,
			edges:      edges(models.LabelField, models.LabelField, models.LabelField, road),
			roadGroups: []featureGroup{{dirs: []int{B}}},
			monastery:  true,
		},
		{
			// one city edge, the other three roads meeting at a
			// crossroads: each arm terminates at the junction rather
			// than fusing with the others, so it's three separate
			// dead-end regions, not one.
			kind:       models.CityCapWithCrossroad,
			edges:      edges(road, city, road, road),
			cityGroups: []featureGroup{{dirs: []int{T}}},
			roadGroups: []featureGroup{{dirs: []int{R}}, {dirs: []int{L}}, {dirs: []int{B}}},
		},
		{
			// city corner (two adjacent edges) plus a road curving
			// through the other two: a through-curve, not a stub.
			kind:       models.TriangleWithRoad,
			edges:      edges(road, city, city, road),
			cityGroups: []featureGroup{{dirs: []int{T, L}}},
			roadGroups: []featureGroup{{dirs: []int{R, B}}},
		},
		{
			kind:       models.TriangleWithRoadWithCOA,
			edges:      edges(road, city, city, road),
			cityGroups: []featureGroup{{dirs: []int{T, L}, coa: true}},
			roadGroups: []featureGroup{{dirs: []int{R, B}}},
		},
		{
			// straight road through, no city.
			kind:       models.Straight,
			edges:      edges(road, models.LabelField, road, models.LabelField),
			roadGroups: []featureGroup{{dirs: []int{R, L}}},
		},
		{
			// city cap plus a single dead-end road stub (the road ends
			// here rather than continuing).
			kind:       models.CityCap,
			edges:      edges(road, city, models.LabelField, models.LabelField),
			cityGroups: []featureGroup{{dirs: []int{T}}},
			roadGroups: []featureGroup{{dirs: []int{R}}},
		},
		{
			// two opposite city edges, kept as separate regions.
			kind:       models.Separator,
			edges:      edges(models.LabelField, city, models.LabelField, city),
			cityGroups: []featureGroup{{dirs: []int{T}}, {dirs: []int{B}}},
		},
		{
			// T-junction: three road edges meeting at a crossroads,
			// each arm its own dead-end region.
			kind:       models.TripleRoad,
			edges:      edges(road, road, road, models.LabelField),
			roadGroups: []featureGroup{{dirs: []int{R}}, {dirs: []int{T}}, {dirs: []int{L}}},
		},
		{
			// road curve: two adjacent edges, one region.
			kind:       models.Curve,
			edges:      edges(road, road, models.LabelField, models.LabelField),
			roadGroups: []featureGroup{{dirs: []int{R, T}}},
		},
		{
			// four-way crossroads, each arm its own dead-end region.
			kind:       models.QuadrupleRoad,
			edges:      edges(road, road, road, road),
			roadGroups: []featureGroup{{dirs: []int{R}}, {dirs: []int{T}}, {dirs: []int{L}}, {dirs: []int{B}}},
		},
		{
			// two opposite city edges, unified into one city region —
			// the "connector" piece joining otherwise-separate cities.
			kind:       models.Connector,
			edges:      edges(models.LabelField, city, models.LabelField, city),
			cityGroups: []featureGroup{{dirs: []int{T, B}}},
		},
		{
			kind:       models.ConnectorWithCOA,
			edges:      edges(models.LabelField, city, models.LabelField, city),
			cityGroups: []featureGroup{{dirs: []int{T, B}, coa: true}},
		},
		{
			// city cap plus a road curving away to the right.
			kind:       models.Left,
			edges:      edges(road, city, models.LabelField, road),
			cityGroups: []featureGroup{{dirs: []int{T}}},
			roadGroups: []featureGroup{{dirs: []int{R, B}}},
		},
		{
			// mirror of Left: road curves away to the left.
			kind:       models.Right,
			edges:      edges(models.LabelField, city, road, road),
			cityGroups: []featureGroup{{dirs: []int{T}}},
			roadGroups: []featureGroup{{dirs: []int{L, B}}},
		},
		{
			// three city edges unified, no road.
			kind:       models.TripleCity,
			edges:      edges(city, city, city, models.LabelField),
			cityGroups: []featureGroup{{dirs: []int{R, T, L}}},
		},
		{
			kind:       models.TripleCityWithCOA,
			edges:      edges(city, city, city, models.LabelField),
			cityGroups: []featureGroup{{dirs: []int{R, T, L}, coa: true}},
		},
		{
			// two opposite city edges, kept separate — the "vertical"
			// orientation of Separator.
			kind:       models.VerticalSeparator,
			edges:      edges(city, models.LabelField, city, models.LabelField),
			cityGroups: []featureGroup{{dirs: []int{R}}, {dirs: []int{L}}},
		},
		{
			// three city edges unified, fourth edge a road.
			kind:       models.TripleCityWithRoad,
			edges:      edges(city, city, city, road),
			cityGroups: []featureGroup{{dirs: []int{R, T, L}}},
			roadGroups: []featureGroup{{dirs: []int{B}}},
		},
		{
			kind:       models.TripleCityWithRoadWithCOA,
			edges:      edges(city, city, city, road),
			cityGroups: []featureGroup{{dirs: []int{R, T, L}, coa: true}},
			roadGroups: []featureGroup{{dirs: []int{B}}},
		},
		{
			// city corner, no road.
			kind:       models.Triangle,
			edges:      edges(city, city, models.LabelField, models.LabelField),
			cityGroups: []featureGroup{{dirs: []int{R, T}}},
		},
		{
			kind:       models.TriangleWithCOA,
			edges:      edges(city, city, models.LabelField, models.LabelField),
			cityGroups: []featureGroup{{dirs: []int{R, T}, coa: true}},
		},
		{
			// all four edges city, one region: the grand city tile.
			kind:       models.QuadrupleCityWithCOA,
			edges:      edges(city, city, city, city),
			cityGroups: []featureGroup{{dirs: []int{R, T, L, B}, coa: true}},
		},
	}
}

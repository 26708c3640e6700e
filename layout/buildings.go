package layout

import (
	"math"
	"math/rand"

	"hexworld/hexmath"
)

// placeBuildings implements spec.md section 4.7 Step D: enumerate
// passable, unoccupied hexes adjacent to at least one road hex, shuffle
// them, and place buildings in that order up to floor(densityRatio *
// len(candidates)), re-verifying road adjacency and vacancy at
// placement time (a candidate can lose its slot if an earlier building
// or road in the same pass already claimed it).
func placeBuildings(rng *rand.Rand, passableSet map[hexmath.Axial]bool, roadSet map[hexmath.Axial]bool, occupied map[hexmath.Axial]bool, densityRatio float64) []hexmath.Axial {
	var candidates []hexmath.Axial
	for h := range passableSet {
		if occupied[h] || roadSet[h] {
			continue
		}
		if adjacentToAny(h, roadSet) {
			candidates = append(candidates, h)
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	rng.Shuffle(len(candidates), func(i, j int) { candidates[i], candidates[j] = candidates[j], candidates[i] })

	target := int(math.Floor(densityRatio * float64(len(candidates))))
	buildings := make([]hexmath.Axial, 0, target)
	for _, h := range candidates {
		if len(buildings) >= target {
			break
		}
		if occupied[h] || roadSet[h] || !adjacentToAny(h, roadSet) {
			continue
		}
		occupied[h] = true
		buildings = append(buildings, h)
	}
	return buildings
}

func adjacentToAny(h hexmath.Axial, set map[hexmath.Axial]bool) bool {
	for _, n := range hexmath.Neighbors(h) {
		if set[n] {
			return true
		}
	}
	return false
}

package layout

import (
	"math"
	"math/rand"

	"hexworld/hexmath"
)

// growRoadNetwork implements spec.md section 4.7 Step C: a growing-tree
// road network. passableSet identifies hexes roads may cross; hexes
// claimed by the growing network are tracked internally so growth
// never revisits them. roadSeedRatio and
// roadDensityRatio are the fractions from spec.md section 6
// (road_seed_ratio, road_density_ratio).
//
// Returns the set of hexes claimed as road, in placement order, and the
// count of seeds that failed to connect (for GenerationTransient
// logging by the caller) — a dropped seed does not abort the run.
func growRoadNetwork(rng *rand.Rand, passableSet map[hexmath.Axial]bool, roadDensityRatio, roadSeedRatio float64) (network []hexmath.Axial, droppedSeeds int, err error) {
	passable := make([]hexmath.Axial, 0, len(passableSet))
	for h := range passableSet {
		passable = append(passable, h)
	}
	if len(passable) == 0 {
		return nil, 0, ErrNoPassableHexes
	}

	target := int(roadDensityRatio * float64(len(passable)))
	seedCount := int(math.Ceil(roadSeedRatio * float64(target)))
	if seedCount < 1 && target > 0 {
		seedCount = 1
	}
	if seedCount > len(passable) {
		seedCount = len(passable)
	}
	if seedCount == 0 {
		return nil, 0, nil
	}

	shuffled := make([]hexmath.Axial, len(passable))
	copy(shuffled, passable)
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
	seeds := shuffled[:seedCount]

	inNetwork := map[hexmath.Axial]bool{}
	network = append(network, seeds[0])
	inNetwork[seeds[0]] = true

	occupied := map[hexmath.Axial]bool{}
	isPassableForPath := func(h hexmath.Axial) bool {
		return passableSet[h] && (!occupied[h] || inNetwork[h])
	}

	for _, seed := range seeds[1:] {
		if inNetwork[seed] {
			continue
		}
		nearest, ok := nearestInSet(seed, inNetwork)
		if !ok {
			droppedSeeds++
			continue
		}
		path := hexAStar(nearest, seed, isPassableForPath)
		if path == nil {
			droppedSeeds++
			continue
		}
		for _, h := range path {
			if !inNetwork[h] {
				inNetwork[h] = true
				occupied[h] = true
				network = append(network, h)
			}
		}
	}

	for len(network) < target {
		candidate, ok := nextGrowthHex(rng, network, inNetwork, passableSet, occupied)
		if !ok {
			break
		}
		inNetwork[candidate] = true
		occupied[candidate] = true
		network = append(network, candidate)
	}

	return network, droppedSeeds, nil
}

// nearestInSet finds the member of members with the smallest axial
// distance to h.
func nearestInSet(h hexmath.Axial, members map[hexmath.Axial]bool) (hexmath.Axial, bool) {
	var best hexmath.Axial
	bestDist := -1
	found := false
	for m := range members {
		d := hexmath.Distance(h, m)
		if !found || d < bestDist {
			best, bestDist, found = m, d, true
		}
	}
	return best, found
}

// nextGrowthHex gathers passable, non-occupied hexes adjacent to the
// current network, shuffles them, and returns the first (spec.md
// section 4.7 Step C's "until |network| = N" growth loop).
func nextGrowthHex(rng *rand.Rand, network []hexmath.Axial, inNetwork, passableSet, occupied map[hexmath.Axial]bool) (hexmath.Axial, bool) {
	seen := map[hexmath.Axial]bool{}
	var candidates []hexmath.Axial
	for _, h := range network {
		for _, n := range hexmath.Neighbors(h) {
			if seen[n] || inNetwork[n] || occupied[n] || !passableSet[n] {
				continue
			}
			seen[n] = true
			candidates = append(candidates, n)
		}
	}
	if len(candidates) == 0 {
		return hexmath.Axial{}, false
	}
	rng.Shuffle(len(candidates), func(i, j int) { candidates[i], candidates[j] = candidates[j], candidates[i] })
	return candidates[0], true
}

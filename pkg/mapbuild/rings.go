package mapbuild

import "github.com/lintang-b-s/osm-featuremap/pkg/geo"

// JoinRings chains boundary way parts sharing end coordinates into closed rings. Parts that
// never close are dropped. The closing coordinate is not repeated.
func JoinRings(parts [][]geo.Coordinate) [][]geo.Coordinate {
	used := make([]bool, len(parts))
	var rings [][]geo.Coordinate

	for i := range parts {
		if used[i] || len(parts[i]) < 2 {
			continue
		}
		used[i] = true
		ring := append([]geo.Coordinate{}, parts[i]...)

		for ring[0] != ring[len(ring)-1] {
			found := false
			last := ring[len(ring)-1]
			for j := range parts {
				if used[j] || len(parts[j]) < 2 {
					continue
				}
				p := parts[j]
				switch last {
				case p[0]:
					ring = append(ring, p[1:]...)
				case p[len(p)-1]:
					for k := len(p) - 2; k >= 0; k-- {
						ring = append(ring, p[k])
					}
				default:
					continue
				}
				used[j] = true
				found = true
				break
			}
			if !found {
				break
			}
		}

		if len(ring) > 3 && ring[0] == ring[len(ring)-1] {
			rings = append(rings, ring[:len(ring)-1])
		}
	}
	return rings
}

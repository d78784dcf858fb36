/*
 * neighbors.go, part of dclust
 *
 * Copyright 2024 Raul Mera <rmera{at}usachDOTcl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package dclust

import (
	"fmt"
	"sort"
)

// Neighbors holds, for each point of a dataset, the indices and distances of
// its MaxK nearest neighbors, sorted by increasing distance. The point itself
// is not included. Idx[i][k] is the (k+1)-th nearest neighbor of point i and
// Dist[i][k] its distance.
type Neighbors struct {
	MaxK int
	Idx  [][]int
	Dist [][]float64
}

// Neighbors computes (or returns a cached copy of) the nearest-neighbor
// table for the dataset, up to maxk neighbors per point. The computation is
// brute force, O(n^2 log n): datasets of MD-trajectory size (thousands to a
// few tens of thousands of frames) are well within reach, and no spatial
// index is attempted on the periodic domain.
func (D *Dataset) Neighbors(maxk int) (*Neighbors, error) {
	n := D.Len()
	if maxk < 1 || maxk > n-1 {
		return nil, CError{fmt.Sprintf("Neighbor ceiling %d out of range for %d points", maxk, n), []string{"Neighbors"}}
	}
	if D.neigh != nil && D.neigh.MaxK >= maxk {
		return D.neigh, nil
	}
	ne := &Neighbors{
		MaxK: maxk,
		Idx:  make([][]int, n),
		Dist: make([][]float64, n),
	}
	type cand struct {
		idx  int
		dist float64
	}
	cands := make([]cand, n-1)
	for i := 0; i < n; i++ {
		pos := 0
		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			cands[pos] = cand{j, D.Distance(i, j)}
			pos++
		}
		sort.Slice(cands, func(a, b int) bool { return cands[a].dist < cands[b].dist })
		ne.Idx[i] = make([]int, maxk)
		ne.Dist[i] = make([]float64, maxk)
		for k := 0; k < maxk; k++ {
			ne.Idx[i][k] = cands[k].idx
			ne.Dist[i][k] = cands[k].dist
		}
	}
	D.neigh = ne
	return ne, nil
}

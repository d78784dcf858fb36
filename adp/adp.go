/*
 * adp.go, part of dclust
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

/*
Package adp partitions a periodic dataset with a density-peaks scheme in the
spirit of Advanced Density Peaks (d'Errico et al. 2021): point densities are
estimated with a k-nearest-neighbor estimator in the intrinsic dimension,
cluster seeds are local density maxima, every other point joins the cluster
of its nearest higher-density neighbor, and adjacent clusters whose density
peaks do not rise significantly above their common saddle, at significance Z,
are merged. Points below their cluster's highest saddle density can be marked
as unassigned ("halo") instead of keeping their cluster label.

The clusterer holds no state: it takes a dataset handle and returns a Result.
*/
package adp

import (
	"fmt"
	"math"
	"sort"

	dclust "github.com/rmera/dclust"
)

// Result is a cluster assignment for the points of a dataset.
type Result struct {
	//Centers has the point (frame) index of each cluster's density peak,
	//indexed by cluster.
	Centers []int
	//Assign has one cluster index per point, -1 for halo points.
	Assign []int
	//Pop has the number of assigned points per cluster. Halo points count
	//for no cluster.
	Pop []int
	//LogDen has the estimated log-density per point, mostly useful for
	//diagnostics.
	LogDen []float64
}

// NClusters returns the number of clusters found.
func (R *Result) NClusters() int { return len(R.Centers) }

// Cluster partitions the dataset into density-peak clusters. id is the
// intrinsic dimension used by the density estimator, z the statistical
// significance a peak must have over a saddle to survive as a separate
// cluster, and halo controls whether low-confidence points are unassigned
// (-1) rather than kept in their cluster. The optional kdens fixes the
// number of neighbors for the density estimate; the default grows as the
// square root of the number of points, clamped to [4,64].
func Cluster(d *dclust.Dataset, id int, z float64, halo bool, kdens ...int) (*Result, error) {
	n := d.Len()
	if n < 8 {
		return nil, fmt.Errorf("adp: %d points are too few to cluster", n)
	}
	if id < 1 {
		return nil, fmt.Errorf("adp: intrinsic dimension must be positive, got %d", id)
	}
	k := int(math.Sqrt(float64(n)))
	if len(kdens) > 0 && kdens[0] > 0 {
		k = kdens[0]
	}
	if k < 4 {
		k = 4
	}
	if k > 64 && len(kdens) == 0 {
		k = 64
	}
	if k > n-1 {
		k = n - 1
	}
	ne, err := d.Neighbors(k)
	if err != nil {
		return nil, err
	}
	logden := densities(d, ne, k, id)
	epsilon := 1.0 / math.Sqrt(float64(k)) //error on log-density for a kNN estimate

	//Points in order of decreasing density; ties broken by index so the
	//procedure is deterministic.
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		if logden[order[a]] != logden[order[b]] {
			return logden[order[a]] > logden[order[b]]
		}
		return order[a] < order[b]
	})
	rank := make([]int, n) //rank[i] < rank[j] means i is denser
	for pos, i := range order {
		rank[i] = pos
	}

	//Preliminary assignment: walking down the density ordering, each point
	//joins the cluster of its nearest neighbor of higher density, or seeds a
	//new cluster if no such neighbor is within its k-neighborhood.
	assign := make([]int, n)
	for i := range assign {
		assign[i] = -1
	}
	var centers []int
	for _, i := range order {
		found := -1
		for _, j := range ne.Idx[i][:k] {
			if rank[j] < rank[i] {
				found = j
				break //neighbors are sorted by distance, the first wins
			}
		}
		if found == -1 {
			assign[i] = len(centers)
			centers = append(centers, i)
			continue
		}
		assign[i] = assign[found]
	}
	nclus := len(centers)

	//Saddle densities between pairs of adjacent clusters: for neighboring
	//points i,j in different clusters, the border density is the lower of
	//the two; the saddle is the highest border density of the pair.
	saddle := make([][]float64, nclus)
	for i := range saddle {
		saddle[i] = make([]float64, nclus)
		for j := range saddle[i] {
			saddle[i][j] = math.Inf(-1)
		}
	}
	for i := 0; i < n; i++ {
		a := assign[i]
		for _, j := range ne.Idx[i][:k] {
			b := assign[j]
			if a == b {
				continue
			}
			border := math.Min(logden[i], logden[j])
			if border > saddle[a][b] {
				saddle[a][b] = border
				saddle[b][a] = border
			}
		}
	}

	//Merge pass: a cluster whose peak does not rise at least z*(2*epsilon)
	//above a saddle is not a significant peak; it is absorbed into the
	//neighbor across that saddle. Repeats until stable.
	peak := make([]float64, nclus)
	for c, ctr := range centers {
		peak[c] = logden[ctr]
	}
	alive := make([]bool, nclus)
	for i := range alive {
		alive[i] = true
	}
	merged := true
	for merged {
		merged = false
		for a := 0; a < nclus && !merged; a++ {
			if !alive[a] {
				continue
			}
			for b := a + 1; b < nclus && !merged; b++ {
				if !alive[b] || math.IsInf(saddle[a][b], -1) {
					continue
				}
				s := saddle[a][b]
				signifA := (peak[a] - s) >= z*2*epsilon
				signifB := (peak[b] - s) >= z*2*epsilon
				if signifA && signifB {
					continue
				}
				//absorb the lower peak into the higher one.
				lo, hi := a, b
				if peak[a] > peak[b] {
					lo, hi = b, a
				}
				alive[lo] = false
				for i := 0; i < n; i++ {
					if assign[i] == lo {
						assign[i] = hi
					}
				}
				for c := 0; c < nclus; c++ {
					if c == lo || c == hi {
						continue
					}
					if saddle[lo][c] > saddle[hi][c] {
						saddle[hi][c] = saddle[lo][c]
						saddle[c][hi] = saddle[lo][c]
					}
					saddle[lo][c] = math.Inf(-1)
					saddle[c][lo] = math.Inf(-1)
				}
				saddle[a][b] = math.Inf(-1)
				saddle[b][a] = math.Inf(-1)
				merged = true
			}
		}
	}

	//Compact the surviving clusters into contiguous indices, ordered by
	//decreasing peak density.
	var kept []int
	for c := range alive {
		if alive[c] {
			kept = append(kept, c)
		}
	}
	sort.Slice(kept, func(a, b int) bool { return peak[kept[a]] > peak[kept[b]] })
	remap := make(map[int]int, len(kept))
	res := &Result{LogDen: logden}
	for newc, oldc := range kept {
		remap[oldc] = newc
		res.Centers = append(res.Centers, centers[oldc])
	}
	for i := range assign {
		assign[i] = remap[assign[i]]
	}

	//Halo: points whose density falls below the highest saddle of their
	//cluster are not confidently assigned.
	if halo && len(kept) > 1 {
		maxsaddle := make([]float64, len(kept))
		for i := range maxsaddle {
			maxsaddle[i] = math.Inf(-1)
		}
		for _, oa := range kept {
			for _, ob := range kept {
				if oa == ob || math.IsInf(saddle[oa][ob], -1) {
					continue
				}
				if saddle[oa][ob] > maxsaddle[remap[oa]] {
					maxsaddle[remap[oa]] = saddle[oa][ob]
				}
			}
		}
		for i := range assign {
			if logden[i] < maxsaddle[assign[i]] {
				assign[i] = -1
			}
		}
	}
	res.Assign = assign
	res.Pop = make([]int, len(kept))
	for _, a := range assign {
		if a >= 0 {
			res.Pop[a]++
		}
	}
	return res, nil
}

//densities returns the log of the kNN density estimate for each point:
//log k - log n - log(volume of the d-ball with the k-th neighbor radius).
//Constant terms are kept so the values are comparable across runs.
func densities(d *dclust.Dataset, ne *dclust.Neighbors, k, id int) []float64 {
	n := d.Len()
	logden := make([]float64, n)
	df := float64(id)
	//log volume of the unit ball in id dimensions
	logv1, _ := math.Lgamma(df/2 + 1)
	logunit := df/2*math.Log(math.Pi) - logv1
	for i := 0; i < n; i++ {
		rk := ne.Dist[i][k-1]
		if rk <= 0 {
			rk = 1e-300 //duplicate points: push the density to a very large, finite value
		}
		logden[i] = math.Log(float64(k)) - math.Log(float64(n)) - logunit - df*math.Log(rk)
	}
	return logden
}

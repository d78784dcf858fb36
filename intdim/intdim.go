/*
 * intdim.go, part of dclust
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
Package intdim estimates the intrinsic dimension of a periodic dataset by
nearest-neighbor scaling laws. Two estimators are provided: TwoNN (Facco et
al. 2017), based on the ratio of the distances to the second and first
neighbors, and GRIDE (Denti et al. 2022), based on generalized ratios of the
2k-th and k-th neighbor distances. Both return scaling curves: the estimate
as a function of the typical neighborhood scale, obtained for TwoNN by
decimating the dataset and for GRIDE by doubling the neighbor order.

Both estimators are expected to reach a plateau as the scale grows; the
curves, not any single number, are the primary output, and AutoID only
condenses them under the assumption that the plateau was reached. That
assumption is the caller's to verify (by inspecting or plotting the curves).
*/
package intdim

import (
	"fmt"
	"math"

	dclust "github.com/rmera/dclust"
	"gonum.org/v1/gonum/stat"
)

// Curve is an intrinsic-dimension scaling curve: parallel slices with the
// dimension estimate, its error, and the neighborhood scale at which it was
// obtained, ordered by increasing scale.
type Curve struct {
	IDs    []float64
	Errs   []float64
	Scales []float64
}

// MinID returns the smallest dimension estimate in the curve.
func (c *Curve) MinID() float64 {
	min := c.IDs[0]
	for _, v := range c.IDs[1:] {
		if v < min {
			min = v
		}
	}
	return min
}

// AutoID condenses two scaling curves into a single working dimension:
// floor(max(min(a.IDs), min(b.IDs))). Taking the larger of the two minima is
// a conservative guard against underestimation; it is only meaningful if
// both curves have reached their plateau.
func AutoID(a, b *Curve) (int, error) {
	if a == nil || b == nil || len(a.IDs) == 0 || len(b.IDs) == 0 {
		return 0, fmt.Errorf("intdim: AutoID needs two non-empty scaling curves")
	}
	return int(math.Floor(math.Max(a.MinID(), b.MinID()))), nil
}

//twoNN is the maximum-likelihood TwoNN estimate over first/second neighbor
//distance pairs. Pairs with a zero first-neighbor distance (duplicated
//points) are discarded.
func twoNN(r1, r2 []float64) (id, errest float64, ok bool) {
	var sum float64
	var used int
	for i, a := range r1 {
		if a <= 0 || r2[i] <= a {
			continue
		}
		sum += math.Log(r2[i] / a)
		used++
	}
	if used < 2 || sum <= 0 {
		return 0, 0, false
	}
	id = float64(used) / sum
	return id, id / math.Sqrt(float64(used)), true
}

// TwoNN returns the plain TwoNN intrinsic-dimension estimate for the whole
// dataset, with its error, and the mean second-neighbor distance as the
// scale of the estimate.
func TwoNN(d *dclust.Dataset) (id, errest, scale float64, err error) {
	ne, err := d.Neighbors(2)
	if err != nil {
		return 0, 0, 0, err
	}
	n := d.Len()
	r1 := make([]float64, n)
	r2 := make([]float64, n)
	for i := 0; i < n; i++ {
		r1[i] = ne.Dist[i][0]
		r2[i] = ne.Dist[i][1]
	}
	id, errest, ok := twoNN(r1, r2)
	if !ok {
		return 0, 0, 0, fmt.Errorf("intdim: TwoNN is undefined for this dataset (too few distinct points)")
	}
	return id, errest, stat.Mean(r2, nil), nil
}

// TwoNNScaling returns the TwoNN scaling curve obtained by repeatedly
// decimating the dataset by factors of two: the full dataset, every second
// point, every fourth, and so on while at least minSubset points remain.
// Larger decimations probe larger neighborhood scales.
func TwoNNScaling(d *dclust.Dataset) (*Curve, error) {
	const minSubset = 16
	n := d.Len()
	if n < minSubset {
		return nil, fmt.Errorf("intdim: %d points are too few for a TwoNN scaling analysis", n)
	}
	c := &Curve{}
	for stride := 1; n/stride >= minSubset; stride *= 2 {
		sub := d.Subset(stride)
		id, errest, scale, err := TwoNN(sub)
		if err != nil {
			return nil, err
		}
		c.IDs = append(c.IDs, id)
		c.Errs = append(c.Errs, errest)
		c.Scales = append(c.Scales, scale)
	}
	return c, nil
}

//grideSolve solves the GRIDE maximum-likelihood equation for the dimension,
//by bisection, for ratios mu = r_2k/r_k of neighbor order k. The score
//function is strictly decreasing in d: it diverges to +inf as d->0 and tends
//to -k*sum(log mu) < 0 for large d.
func grideSolve(mus []float64, k int) (float64, bool) {
	var logmus []float64
	for _, m := range mus {
		if m > 1 {
			logmus = append(logmus, math.Log(m))
		}
	}
	n := len(logmus)
	if n < 2 {
		return 0, false
	}
	score := func(d float64) float64 {
		s := float64(n) / d
		var sumlog float64
		for _, lm := range logmus {
			sumlog += lm
			if k > 1 {
				t := math.Exp(d * lm) //mu^d
				frac := t / (t - 1)
				if math.IsInf(t, 1) {
					frac = 1
				}
				s += float64(k-1) * lm * frac
			}
		}
		s -= float64(2*k-1) * sumlog
		return s
	}
	lo, hi := 1e-6, 1e4
	if score(lo) < 0 || score(hi) > 0 {
		return 0, false
	}
	for i := 0; i < 200; i++ {
		mid := (lo + hi) / 2
		if score(mid) > 0 {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2, true
}

// GRIDEScaling returns the GRIDE scaling curve: the generalized-ratio
// estimate for neighbor orders k = 1, 2, 4, ... while 2k does not exceed
// rangeMax nor the number of points minus one. Each doubling of k probes a
// larger neighborhood scale (reported as the mean 2k-th neighbor distance).
func GRIDEScaling(d *dclust.Dataset, rangeMax int) (*Curve, error) {
	n := d.Len()
	if rangeMax < 2 {
		return nil, fmt.Errorf("intdim: GRIDE neighbor ceiling must be at least 2, got %d", rangeMax)
	}
	if rangeMax > n-1 {
		rangeMax = n - 1
	}
	if rangeMax < 2 {
		return nil, fmt.Errorf("intdim: %d points are too few for a GRIDE scaling analysis", n)
	}
	ne, err := d.Neighbors(rangeMax)
	if err != nil {
		return nil, err
	}
	c := &Curve{}
	mus := make([]float64, 0, n)
	r2k := make([]float64, 0, n)
	for k := 1; 2*k <= rangeMax; k *= 2 {
		mus = mus[:0]
		r2k = r2k[:0]
		for i := 0; i < n; i++ {
			rk := ne.Dist[i][k-1]
			r2 := ne.Dist[i][2*k-1]
			if rk <= 0 {
				continue
			}
			mus = append(mus, r2/rk)
			r2k = append(r2k, r2)
		}
		id, ok := grideSolve(mus, k)
		if !ok {
			return nil, fmt.Errorf("intdim: GRIDE likelihood has no solution at neighbor order %d", k)
		}
		c.IDs = append(c.IDs, id)
		c.Errs = append(c.Errs, id/math.Sqrt(float64(len(mus)*k)))
		c.Scales = append(c.Scales, stat.Mean(r2k, nil))
	}
	if len(c.IDs) == 0 {
		return nil, fmt.Errorf("intdim: no usable neighbor orders for GRIDE")
	}
	return c, nil
}

/*
 * periodic.go, part of dclust
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
	"math"

	"gonum.org/v1/gonum/mat"
)

// Period is the periodicity of a dihedral dataset in radians.
const Period = 2 * math.Pi

//Angles are clipped into this open interval, in degrees, before the
//conversion to radians. Exact 0/360 values degenerate under periodic
//distances.
const (
	clipLo = 0.001
	clipHi = 359.999
)

// Dataset is an immutable set of n points on a periodic domain, ready for
// distance computations under circular topology. It is created once from a
// TimeSeries (or a raw matrix) and then handed by reference to the
// intrinsic-dimension estimators and the clusterer, which hold no state of
// their own.
type Dataset struct {
	data   *mat.Dense
	period float64
	neigh  *Neighbors //cached, built lazily
}

// NewDataset derives a periodic dataset from a dihedral time series: every
// angle is clipped into (0.001, 359.999) degrees and converted to radians,
// and the dataset is tagged with period 2*Pi. The transform is total (it
// cannot fail on numeric input) and idempotent up to the clipping. The time
// series is not modified.
func NewDataset(ts *TimeSeries) *Dataset {
	rows, cols := ts.angles.Dims()
	x := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := clipDegrees(ts.angles.At(i, j))
			x.Set(i, j, v*math.Pi/180.0)
		}
	}
	return &Dataset{data: x, period: Period}
}

// DatasetFromMatrix wraps an arbitrary n x dims matrix as a dataset with the
// given period. A period of 0 disables the periodic wrapping and distances
// become plain Euclidean. The matrix is used as-is, without clipping or unit
// conversion; the caller must not modify it afterwards.
func DatasetFromMatrix(x *mat.Dense, period float64) *Dataset {
	return &Dataset{data: x, period: period}
}

func clipDegrees(v float64) float64 {
	if v < clipLo {
		return clipLo
	}
	if v > clipHi {
		return clipHi
	}
	return v
}

// Len returns the number of points in the dataset.
func (D *Dataset) Len() int {
	r, _ := D.data.Dims()
	return r
}

// Dim returns the dimensionality of the embedding space (the number of
// dihedrals, for a dataset built from a time series).
func (D *Dataset) Dim() int {
	_, c := D.data.Dims()
	return c
}

// Period returns the periodicity of the domain, 0 for an aperiodic dataset.
func (D *Dataset) Period() float64 { return D.period }

// Row returns the coordinates of point i. The slice is a view, not a copy.
func (D *Dataset) Row(i int) []float64 { return D.data.RawRowView(i) }

// Subset returns a new dataset with every stride-th point of D, starting
// from point 0, on the same period. The data are copied; the neighbor cache
// is not shared.
func (D *Dataset) Subset(stride int) *Dataset {
	if stride <= 1 {
		r, c := D.data.Dims()
		x := mat.NewDense(r, c, nil)
		x.Copy(D.data)
		return &Dataset{data: x, period: D.period}
	}
	rows, cols := D.data.Dims()
	kept := (rows + stride - 1) / stride
	x := mat.NewDense(kept, cols, nil)
	for i := 0; i < kept; i++ {
		for j := 0; j < cols; j++ {
			x.Set(i, j, D.data.At(i*stride, j))
		}
	}
	return &Dataset{data: x, period: D.period}
}

// Distance returns the distance between points i and j, with every
// coordinate difference wrapped into [0, period/2].
func (D *Dataset) Distance(i, j int) float64 {
	return periodicDistance(D.data.RawRowView(i), D.data.RawRowView(j), D.period)
}

func periodicDistance(a, b []float64, period float64) float64 {
	var sum float64
	for i, v := range a {
		d := math.Abs(v - b[i])
		if period > 0 {
			d = math.Mod(d, period)
			if d > period/2 {
				d = period - d
			}
		}
		sum += d * d
	}
	return math.Sqrt(sum)
}

/*
 * periodic_test.go, part of dclust
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
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestNewDataset(Te *testing.T) {
	ts := NewTimeSeries(mat.NewDense(2, 2, []float64{
		0.0, 360.0,
		180.0, 90.0,
	}))
	ds := NewDataset(ts)
	if ds.Len() != 2 || ds.Dim() != 2 || ds.Period() != Period {
		Te.Fatalf("got %d points, %d dims, period %.4f", ds.Len(), ds.Dim(), ds.Period())
	}
	//out-of-range degrees are clipped into (0.001, 359.999) before the
	//radian conversion.
	row := ds.Row(0)
	if math.Abs(row[0]-0.001*math.Pi/180) > 1e-12 || math.Abs(row[1]-359.999*math.Pi/180) > 1e-12 {
		Te.Errorf("clipping failed: got %v", row)
	}
	if math.Abs(ds.Row(1)[0]-math.Pi) > 1e-12 {
		Te.Errorf("180 degrees should be Pi radians, got %.6f", ds.Row(1)[0])
	}
}

func TestPeriodicDistance(Te *testing.T) {
	x := mat.NewDense(3, 1, []float64{0.1, 2*math.Pi - 0.1, math.Pi})
	ds := DatasetFromMatrix(x, Period)
	//0.1 and 2Pi-0.1 are 0.2 apart across the periodic boundary.
	if d := ds.Distance(0, 1); math.Abs(d-0.2) > 1e-12 {
		Te.Errorf("wrapped distance: got %.6f, want 0.2", d)
	}
	if d := ds.Distance(0, 2); math.Abs(d-(math.Pi-0.1)) > 1e-12 {
		Te.Errorf("in-range distance: got %.6f, want %.6f", d, math.Pi-0.1)
	}
	//with period 0 the same points are almost a full turn apart.
	flat := DatasetFromMatrix(x, 0)
	if d := flat.Distance(0, 1); math.Abs(d-(2*math.Pi-0.2)) > 1e-12 {
		Te.Errorf("euclidean distance: got %.6f", d)
	}
}

func TestSubset(Te *testing.T) {
	x := mat.NewDense(10, 1, nil)
	for i := 0; i < 10; i++ {
		x.Set(i, 0, float64(i))
	}
	ds := DatasetFromMatrix(x, 0)
	sub := ds.Subset(2)
	if sub.Len() != 5 {
		Te.Fatalf("got %d points, want 5", sub.Len())
	}
	if sub.Row(1)[0] != 2 || sub.Row(4)[0] != 8 {
		Te.Errorf("wrong points kept: %v %v", sub.Row(1), sub.Row(4))
	}
}

func TestNeighbors(Te *testing.T) {
	x := mat.NewDense(4, 1, []float64{0.0, 0.1, 0.3, 3.0})
	ds := DatasetFromMatrix(x, 0)
	ne, err := ds.Neighbors(3)
	if err != nil {
		Te.Fatal(err)
	}
	if ne.Idx[0][0] != 1 || ne.Idx[0][1] != 2 || ne.Idx[0][2] != 3 {
		Te.Errorf("neighbors of point 0: got %v", ne.Idx[0])
	}
	if math.Abs(ne.Dist[0][0]-0.1) > 1e-12 {
		Te.Errorf("first neighbor distance: got %.6f", ne.Dist[0][0])
	}
	//the table is cached: a smaller request reuses it.
	ne2, err := ds.Neighbors(2)
	if err != nil {
		Te.Fatal(err)
	}
	if ne2 != ne {
		Te.Error("expected the cached neighbor table")
	}
	if _, err := ds.Neighbors(4); err == nil {
		Te.Error("asking for more neighbors than points should be an error")
	}
}

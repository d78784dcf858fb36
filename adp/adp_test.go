/*
 * adp_test.go, part of dclust
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

package adp

import (
	"fmt"
	"math"
	"math/rand"
	"testing"

	dclust "github.com/rmera/dclust"
	"gonum.org/v1/gonum/mat"
)

//blobs builds a 2-dimensional periodic dataset with one gaussian blob of n
//points and spread sigma per given center.
func blobs(seed int64, n int, sigma float64, centers ...[2]float64) *dclust.Dataset {
	r := rand.New(rand.NewSource(seed))
	x := mat.NewDense(n*len(centers), 2, nil)
	for c, ctr := range centers {
		for i := 0; i < n; i++ {
			row := c*n + i
			x.Set(row, 0, math.Mod(ctr[0]+r.NormFloat64()*sigma+dclust.Period, dclust.Period))
			x.Set(row, 1, math.Mod(ctr[1]+r.NormFloat64()*sigma+dclust.Period, dclust.Period))
		}
	}
	return dclust.DatasetFromMatrix(x, dclust.Period)
}

func TestTwoBlobs(Te *testing.T) {
	ds := blobs(11, 100, 0.1, [2]float64{1, 1}, [2]float64{4, 4})
	res, err := Cluster(ds, 2, 1.0, false)
	if err != nil {
		Te.Fatal(err)
	}
	if res.NClusters() != 2 {
		Te.Fatalf("got %d clusters, want 2", res.NClusters())
	}
	total := 0
	for c, p := range res.Pop {
		fmt.Printf("cluster %d: population %d, center point %d\n", c, p, res.Centers[c])
		if p < 80 {
			Te.Errorf("cluster %d has population %d, want about 100", c, p)
		}
		total += p
	}
	if total != 200 {
		Te.Errorf("populations sum to %d, want 200", total)
	}
	//the two blobs do not mix: points of the same half must share a label.
	for i := 1; i < 100; i++ {
		if res.Assign[i] != res.Assign[0] {
			Te.Errorf("point %d of the first blob got label %d, want %d", i, res.Assign[i], res.Assign[0])
			break
		}
	}
	if res.Assign[0] == res.Assign[100] {
		Te.Error("both blobs ended in the same cluster")
	}
}

//a huge Z makes any saddle significant enough to merge across.
func TestMergeHighZ(Te *testing.T) {
	ds := blobs(5, 150, 0.25, [2]float64{3, 3}, [2]float64{4, 3})
	res, err := Cluster(ds, 2, 50.0, false)
	if err != nil {
		Te.Fatal(err)
	}
	if res.NClusters() != 1 {
		Te.Errorf("got %d clusters at Z=50, want 1", res.NClusters())
	}
	if res.Pop[0] != 300 {
		Te.Errorf("population %d, want 300", res.Pop[0])
	}
}

func TestHalo(Te *testing.T) {
	ds := blobs(23, 150, 0.3, [2]float64{3, 3}, [2]float64{4.5, 3})
	res, err := Cluster(ds, 2, 1.0, true)
	if err != nil {
		Te.Fatal(err)
	}
	unassigned := 0
	for _, a := range res.Assign {
		if a < 0 {
			unassigned++
		} else if a >= res.NClusters() {
			Te.Fatalf("label %d out of range", a)
		}
	}
	total := unassigned
	for _, p := range res.Pop {
		total += p
	}
	//halo points count for no cluster, but every point is accounted for.
	if total != 300 {
		Te.Errorf("%d assigned plus %d halo points, want 300 in all", total-unassigned, unassigned)
	}
	fmt.Printf("%d clusters, %d halo points\n", res.NClusters(), unassigned)
}

func TestClusterArgs(Te *testing.T) {
	ds := blobs(1, 50, 0.1, [2]float64{1, 1})
	if _, err := Cluster(ds, 0, 1.0, false); err == nil {
		Te.Error("a non-positive dimension should be an error")
	}
	small := blobs(1, 3, 0.1, [2]float64{1, 1})
	if _, err := Cluster(small, 2, 1.0, false); err == nil {
		Te.Error("too few points should be an error")
	}
	if len(ds.Row(0)) != 2 {
		Te.Error("unexpected dataset shape")
	}
	res, err := Cluster(ds, 2, 1.0, false, 10)
	if err != nil {
		Te.Fatal(err)
	}
	if res.NClusters() != 1 {
		Te.Errorf("a single blob should give one cluster, got %d", res.NClusters())
	}
	if len(res.LogDen) != 50 {
		Te.Errorf("expected one density per point, got %d", len(res.LogDen))
	}
}

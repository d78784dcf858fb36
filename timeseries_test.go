/*
 * timeseries_test.go, part of dclust
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
	"math"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestTableIO(Te *testing.T) {
	ts := NewTimeSeries(mat.NewDense(3, 2, []float64{
		180.5, 270.25,
		190.125, 280.0625,
		200.0001, 359.9999,
	}))
	name := filepath.Join(Te.TempDir(), "dihetraj.dat")
	if err := ts.WriteTable(name); err != nil {
		Te.Fatal(err)
	}
	back, err := ReadTable(name)
	if err != nil {
		Te.Fatal(err)
	}
	if back.NFrames() != 3 || back.NDihe() != 2 {
		Te.Fatalf("got %dx%d, want 3x2", back.NFrames(), back.NDihe())
	}
	//the table keeps 4 decimals, so the round trip is exact here.
	for i := 0; i < 3; i++ {
		for j := 0; j < 2; j++ {
			if math.Abs(back.At(i, j)-ts.At(i, j)) > 1e-9 {
				Te.Errorf("entry %d,%d: got %.6f, want %.6f", i, j, back.At(i, j), ts.At(i, j))
			}
		}
	}
	fmt.Println("table round trip done")
}

func TestReadTableFixture(Te *testing.T) {
	ts, err := ReadTable("test/dihetraj.dat")
	if err != nil {
		Te.Fatal(err)
	}
	if ts.NFrames() != 5 || ts.NDihe() != 2 {
		Te.Fatalf("got %dx%d, want 5x2", ts.NFrames(), ts.NDihe())
	}
	if math.Abs(ts.At(0, 0)-270.0) > 1e-9 || math.Abs(ts.At(4, 1)-90.4) > 1e-9 {
		Te.Errorf("unexpected values: %.4f, %.4f", ts.At(0, 0), ts.At(4, 1))
	}
}

func TestDecimate(Te *testing.T) {
	data := mat.NewDense(10, 1, nil)
	for i := 0; i < 10; i++ {
		data.Set(i, 0, float64(i))
	}
	ts := NewTimeSeries(data)
	dec, err := ts.Decimate(3)
	if err != nil {
		Te.Fatal(err)
	}
	if dec.NFrames() != 4 {
		Te.Fatalf("got %d frames, want 4", dec.NFrames())
	}
	for i, want := range []float64{0, 3, 6, 9} {
		if dec.At(i, 0) != want {
			Te.Errorf("decimated frame %d: got %.0f, want %.0f", i, dec.At(i, 0), want)
		}
	}
	if _, err := ts.Decimate(0); err == nil {
		Te.Error("a zero stride should be an error")
	}
}

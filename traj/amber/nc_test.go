/*
 * nc_test.go, part of dclust
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

package amber

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	dclust "github.com/rmera/dclust"
)

//writeClassicNC writes a minimal CDF-1 file with a single "coordinates"
//record variable of shape (frame, atom, spatial), one flat natoms*3 slice of
//float32 per frame.
func writeClassicNC(Te *testing.T, name string, natoms int, frames [][]float32) {
	var buf bytes.Buffer
	w32 := func(v int32) { binary.Write(&buf, binary.BigEndian, v) }
	wname := func(s string) {
		w32(int32(len(s)))
		buf.WriteString(s)
		for buf.Len()%4 != 0 {
			buf.WriteByte(0)
		}
	}
	buf.WriteString("CDF\x01")
	w32(int32(len(frames))) //numrecs
	w32(0x0A)               //dimensions
	w32(3)
	wname("frame")
	w32(0) //the record dimension
	wname("atom")
	w32(int32(natoms))
	wname("spatial")
	w32(3)
	w32(0) //no global attributes
	w32(0)
	w32(0x0B) //variables
	w32(1)
	wname("coordinates")
	w32(3)
	w32(0)
	w32(1)
	w32(2)
	w32(0) //no variable attributes
	w32(0)
	w32(5)                      //external type: float
	w32(int32(natoms * 3 * 4))  //vsize
	w32(int32(buf.Len()) + 4)   //begin: right after this very field
	for _, f := range frames {
		if err := binary.Write(&buf, binary.BigEndian, f); err != nil {
			Te.Fatal(err)
		}
	}
	if err := os.WriteFile(name, buf.Bytes(), 0644); err != nil {
		Te.Fatal(err)
	}
}

func TestNCRead(Te *testing.T) {
	//a 90-degree torsion, 270 in the unsigned convention.
	frame := []float32{
		0, 1, 0,
		0, 0, 0,
		1, 0, 0,
		1, 0, 1,
	}
	name := filepath.Join(Te.TempDir(), "traj.nc")
	writeClassicNC(Te, name, 4, [][]float32{frame, frame, frame})
	traj, err := New(name)
	if err != nil {
		Te.Fatal(err)
	}
	if traj.Len() != 4 || traj.NFrames() != 3 {
		Te.Fatalf("got %d atoms and %d frames, want 4 and 3", traj.Len(), traj.NFrames())
	}
	frames, err := dclust.ReadAll(traj)
	if err != nil {
		Te.Fatal(err)
	}
	if len(frames) != 3 {
		Te.Fatalf("got %d frames, want 3", len(frames))
	}
	if frames[0].At(0, 1) != 1.0 || frames[2].At(3, 2) != 1.0 {
		Te.Error("wrong coordinates read")
	}
	ts, err := dclust.Extract(frames, []dclust.Definition{{0, 1, 2, 3}})
	if err != nil {
		Te.Fatal(err)
	}
	for i := 0; i < ts.NFrames(); i++ {
		if math.Abs(ts.At(i, 0)-270.0) > 1e-5 {
			Te.Errorf("frame %d: got %.6f, want 270", i, ts.At(i, 0))
		}
	}
}

func TestNCSkip(Te *testing.T) {
	frameA := make([]float32, 12)
	frameB := make([]float32, 12)
	for i := range frameB {
		frameB[i] = float32(i)
	}
	name := filepath.Join(Te.TempDir(), "skip.nc")
	writeClassicNC(Te, name, 4, [][]float32{frameA, frameB})
	traj, err := New(name)
	if err != nil {
		Te.Fatal(err)
	}
	//a nil destination skips the frame without reading it.
	if err := traj.Next(nil); err != nil {
		Te.Fatal(err)
	}
	frames, err := dclust.ReadAll(traj)
	if err != nil {
		Te.Fatal(err)
	}
	if len(frames) != 1 || frames[0].At(2, 0) != 6.0 {
		Te.Errorf("skipping did not land on the second frame: %v", frames)
	}
}

func TestNCWrongMagic(Te *testing.T) {
	name := filepath.Join(Te.TempDir(), "bogus.nc")
	if err := os.WriteFile(name, []byte("not a netcdf file at all"), 0644); err != nil {
		Te.Fatal(err)
	}
	if _, err := New(name); err == nil {
		Te.Error("a non-NetCDF file should be an error")
	}
}

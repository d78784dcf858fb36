/*
 * timeseries.go, part of dclust
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
	"bufio"
	"fmt"
	"log"
	"math"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// TimeSeries is a frames x dihedrals matrix of dihedral angles, in degrees,
// in the unsigned [0,360) convention.
type TimeSeries struct {
	angles *mat.Dense
}

// NewTimeSeries wraps a frames x dihedrals matrix of angles in degrees.
func NewTimeSeries(angles *mat.Dense) *TimeSeries {
	return &TimeSeries{angles: angles}
}

// NFrames returns the number of frames (rows).
func (T *TimeSeries) NFrames() int {
	r, _ := T.angles.Dims()
	return r
}

// NDihe returns the number of dihedrals (columns).
func (T *TimeSeries) NDihe() int {
	_, c := T.angles.Dims()
	return c
}

// At returns the angle for frame i, dihedral j, in degrees.
func (T *TimeSeries) At(i, j int) float64 { return T.angles.At(i, j) }

// Data returns the underlying matrix. The caller should not modify it.
func (T *TimeSeries) Data() *mat.Dense { return T.angles }

// ReadAll materializes a trajectory in memory, one natoms x 3 matrix per
// frame. The whole trajectory is held at once: peak memory is
// O(frames*atoms). A LastFrameError from the reader marks a normal end.
func ReadAll(t Traj) ([]*mat.Dense, error) {
	if t == nil || !t.Readable() {
		return nil, CError{"Trajectory not readable", []string{"ReadAll"}}
	}
	var frames []*mat.Dense
	for {
		frame := mat.NewDense(t.Len(), 3, nil)
		err := t.Next(frame)
		if err != nil {
			if _, ok := err.(LastFrameError); ok {
				break
			}
			return nil, errDecorate(err, "ReadAll")
		}
		frames = append(frames, frame)
	}
	if len(frames) == 0 {
		return nil, CError{"Trajectory contains no frames", []string{"ReadAll"}}
	}
	return frames, nil
}

// Extract computes the time series for every definition in defs over an
// in-memory trajectory, filling one column per dihedral. It prints its
// progress per dihedral processed. Degenerate (collinear) geometry yields
// NaN values, which are reported with a warning per affected column but are
// not treated as fatal.
func Extract(frames []*mat.Dense, defs []Definition) (*TimeSeries, error) {
	if len(frames) == 0 || len(defs) == 0 {
		return nil, CError{ErrNilData, []string{"Extract"}}
	}
	nsteps := len(frames)
	ndihe := len(defs)
	angles := mat.NewDense(nsteps, ndihe, nil)
	for j, def := range defs {
		fmt.Printf("--> Dihedral %d (out of %d)\n", j+1, ndihe)
		trace, err := DiheTrace(frames, def)
		if err != nil {
			return nil, errDecorate(err, fmt.Sprintf("Extract: dihedral %d", j+1))
		}
		nans := 0
		for i, v := range trace {
			if math.IsNaN(v) {
				nans++
			}
			angles.Set(i, j, v)
		}
		if nans > 0 {
			log.Printf("dihedral %d %v is degenerate (collinear atoms) in %d of %d frames; NaN values kept", j+1, def, nans, nsteps)
		}
	}
	return &TimeSeries{angles: angles}, nil
}

// WriteTable writes the time series to a whitespace-separated table. The
// first column is the zero-based frame index, the remaining columns are the
// angles, in degrees, with 4 decimals.
func (T *TimeSeries) WriteTable(name string) error {
	f, err := os.Create(name)
	if err != nil {
		return CError{"Unable to create table: " + err.Error(), []string{"os.Create", "WriteTable"}}
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	defer w.Flush()
	rows, cols := T.angles.Dims()
	for i := 0; i < rows; i++ {
		fmt.Fprintf(w, "%d", i)
		for j := 0; j < cols; j++ {
			fmt.Fprintf(w, " %.4f", T.angles.At(i, j))
		}
		fmt.Fprint(w, "\n")
	}
	return nil
}

// ReadTable reads a dihedral time-series table as written by WriteTable.
// The number of dihedrals is inferred from the token count of the first
// line, minus the leading index column. Files compressed with gzip or zstd
// (.gz, .zst, .zstd) are decompressed transparently.
func ReadTable(name string) (*TimeSeries, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, CError{"Unable to open table: " + err.Error(), []string{"os.Open", "ReadTable"}}
	}
	defer f.Close()
	src, err := DecompReader(name, f)
	if err != nil {
		return nil, errDecorate(err, "ReadTable")
	}
	defer src.Close()
	scanner := bufio.NewScanner(src)
	var values []float64
	ncols := -1
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if ncols == -1 {
			ncols = len(fields) - 1
			if ncols < 1 {
				return nil, CError{fmt.Sprintf("Table %s needs an index column plus at least one dihedral column", name), []string{"ReadTable"}}
			}
		} else if len(fields)-1 != ncols {
			return nil, CError{fmt.Sprintf("Line %d of %s has %d columns, expected %d", lineno, name, len(fields), ncols+1), []string{"ReadTable"}}
		}
		//The leading frame index is discarded.
		for _, v := range fields[1:] {
			val, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, CError{fmt.Sprintf("Non-numeric entry %q in line %d of %s", v, lineno, name), []string{"ReadTable"}}
			}
			values = append(values, val)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, CError{"Failed reading table: " + err.Error(), []string{"ReadTable"}}
	}
	if ncols == -1 {
		return nil, CError{"Empty table file " + name, []string{"ReadTable"}}
	}
	return &TimeSeries{angles: mat.NewDense(len(values)/ncols, ncols, values)}, nil
}

// Decimate returns a new time series with every stride-th frame, starting
// from frame 0. A stride of 1 returns a copy with all frames. Decimation is
// never applied implicitly; callers that subsample must keep track of the
// stride to map frame indices back to the original trajectory.
func (T *TimeSeries) Decimate(stride int) (*TimeSeries, error) {
	if stride < 1 {
		return nil, CError{fmt.Sprintf("Decimation stride must be >= 1, got %d", stride), []string{"Decimate"}}
	}
	rows, cols := T.angles.Dims()
	kept := (rows + stride - 1) / stride
	out := mat.NewDense(kept, cols, nil)
	for i := 0; i < kept; i++ {
		for j := 0; j < cols; j++ {
			out.Set(i, j, T.angles.At(i*stride, j))
		}
	}
	return &TimeSeries{angles: out}, nil
}

/*
 * xyz.go, part of dclust
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

//Package xyz reads multi-frame Cartesian (XYZ) trajectory files, plain or
//compressed with gzip or zstd (by extension: .gz, .zst, .zstd).
package xyz

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	dclust "github.com/rmera/dclust"
	"gonum.org/v1/gonum/mat"
)

// XYZObj is a handle for a multi-frame XYZ trajectory open for reading.
// Each frame is an atom-count line, a comment line, and one
// "Symbol X Y Z" line per atom. Every frame must have the same atom count.
type XYZObj struct {
	f        *os.File
	src      io.ReadCloser
	h        *bufio.Reader
	natoms   int
	filename string
	pending  bool //natoms line of the current frame already consumed?
	readable bool
}

// New opens an XYZ trajectory for reading. It consumes the atom-count line
// of the first frame to learn the per-frame atom count.
func New(name string) (*XYZObj, error) {
	X := new(XYZObj)
	X.filename = name
	var err error
	X.f, err = os.Open(name)
	if err != nil {
		return nil, Error{err.Error(), name, []string{"os.Open", "New"}, true}
	}
	X.src, err = dclust.DecompReader(name, X.f)
	if err != nil {
		X.f.Close()
		return nil, errDecorate(err, "New")
	}
	X.h = bufio.NewReader(X.src)
	line, err := X.h.ReadString('\n')
	if err != nil {
		X.Close()
		return nil, Error{"Unable to read the first atom-count line: " + err.Error(), name, []string{"New"}, true}
	}
	X.natoms, err = strconv.Atoi(strings.TrimSpace(line))
	if err != nil || X.natoms <= 0 {
		X.Close()
		return nil, Error{fmt.Sprintf("Malformed atom-count line %q", strings.TrimSpace(line)), name, []string{"New"}, true}
	}
	X.pending = true
	X.readable = true
	return X, nil
}

// Readable returns true if the object is ready to be read from. It does not
// guarantee that there is something left to read.
func (X *XYZObj) Readable() bool {
	return X.readable
}

// Len returns the number of atoms per frame.
func (X *XYZObj) Len() int {
	return X.natoms
}

// Next reads the next frame into keep, a natoms x 3 matrix, or discards the
// frame if keep is nil. At the end of the trajectory it returns an error
// implementing dclust.LastFrameError and closes the file.
func (X *XYZObj) Next(keep *mat.Dense) error {
	if !X.readable {
		return Error{TrajUnIni, X.filename, []string{"Next"}, true}
	}
	if !X.pending {
		line, err := X.h.ReadString('\n')
		if err != nil {
			//a clean EOF at a frame boundary is the normal termination.
			X.Close()
			return newlastFrameError(X.filename, "Next")
		}
		nat, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil {
			return Error{fmt.Sprintf("Malformed atom-count line %q", strings.TrimSpace(line)), X.filename, []string{"Next"}, true}
		}
		if nat != X.natoms {
			return Error{fmt.Sprintf("Frame with %d atoms in a trajectory of %d atoms per frame", nat, X.natoms), X.filename, []string{"Next"}, true}
		}
	}
	X.pending = false
	if _, err := X.h.ReadString('\n'); err != nil { //comment line
		return Error{"Truncated frame: " + err.Error(), X.filename, []string{"Next"}, true}
	}
	for i := 0; i < X.natoms; i++ {
		line, err := X.h.ReadString('\n')
		if err != nil && !(err == io.EOF && i == X.natoms-1 && line != "") {
			return Error{fmt.Sprintf("Truncated frame at atom %d: %s", i, err.Error()), X.filename, []string{"Next"}, true}
		}
		fields := strings.Fields(line)
		if len(fields) < 4 {
			return Error{fmt.Sprintf("Atom line %d ill-formed: %q", i, strings.TrimSpace(line)), X.filename, []string{"Next"}, true}
		}
		//fields[0] is the element symbol, which we have no use for.
		for j := 1; j <= 3; j++ {
			coord, err := strconv.ParseFloat(fields[j], 64)
			if err != nil {
				return Error{fmt.Sprintf("Unparseable coordinate in atom line %d: %q", i, fields[j]), X.filename, []string{"Next"}, true}
			}
			if keep != nil {
				keep.Set(i, j-1, coord)
			}
		}
	}
	return nil
}

// Close closes the handle and marks it unreadable.
func (X *XYZObj) Close() {
	if X.src != nil {
		X.src.Close()
	}
	if X.f != nil {
		X.f.Close()
	}
	X.readable = false
}

//Errors

//errDecorate asserts that the error implements dclust.Error and decorates it
//with the caller's name before returning it. It panics on other error types.
func errDecorate(err error, caller string) error {
	err2 := err.(dclust.Error)
	err2.Decorate(caller)
	return err2
}

// Error is the general structure for XYZ trajectory errors. It fulfills
// dclust.Error and dclust.TrajError.
type Error struct {
	message  string
	filename string //the input file that has problems, or empty string if none.
	deco     []string
	critical bool
}

func (err Error) Error() string {
	return fmt.Sprintf("xyz trajectory file %s error: %s", err.filename, err.message)
}

// Decorate adds new information to the error.
func (E Error) Decorate(deco string) []string {
	//Even though this method does not use a pointer as a receiver, and tries to alter the receiver,
	//it should work, since E.deco is a slice, and hence a pointer itself.
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

// FileName returns the file to which the failing trajectory was associated.
func (err Error) FileName() string { return err.filename }

// Format returns the format of the file associated to the error.
func (err Error) Format() string { return "xyz" }

// Critical returns true if the error is critical, false otherwise.
func (err Error) Critical() bool { return err.critical }

const (
	TrajUnIni    = "Traj object uninitialized to read"
	UnableToOpen = "Unable to open file"
)

//lastFrameError implements dclust.LastFrameError
type lastFrameError struct {
	deco     []string
	fileName string
}

//lastFrameError does nothing
func (E lastFrameError) NormalLastFrameTermination() {}

func (E lastFrameError) FileName() string { return E.fileName }

func (E lastFrameError) Error() string { return "EOF" }

func (E lastFrameError) Critical() bool { return false }

func (E lastFrameError) Format() string { return "xyz" }

func (E lastFrameError) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

func newlastFrameError(filename string, caller string) *lastFrameError {
	e := new(lastFrameError)
	e.fileName = filename
	e.deco = []string{caller}
	return e
}

/*
 * nc.go, part of dclust
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

//Package amber reads Amber NetCDF trajectory files (the classic CDF-1/CDF-2
//container, per the AMBER NetCDF trajectory convention). Only the
//"coordinates" record variable is extracted; velocities, forces and box
//information are skipped. NetCDF-4/HDF5 containers are not supported, and
//neither are compressed files, since frames are located by seeking.
package amber

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	dclust "github.com/rmera/dclust"
	"gonum.org/v1/gonum/mat"
)

//NetCDF classic-format tags and external types. All header integers are
//big-endian.
const (
	tagDimension int32 = 0x0A
	tagVariable  int32 = 0x0B
	tagAttribute int32 = 0x0C

	ncByte   int32 = 1
	ncChar   int32 = 2
	ncShort  int32 = 3
	ncInt    int32 = 4
	ncFloat  int32 = 5
	ncDouble int32 = 6
)

// NCObj is a handle for an Amber NetCDF trajectory open for reading.
type NCObj struct {
	nc       *os.File
	filename string
	natoms   int
	nframes  int
	current  int
	begin    int64 //file offset of the first record of "coordinates"
	recsize  int64 //bytes per record, over all record variables
	dtype    int32 //ncFloat or ncDouble
	buf32    []float32
	buf64    []float64
	readable bool
}

type ncDim struct {
	name string
	size int32
}

type ncVar struct {
	name   string
	dimids []int32
	dtype  int32
	vsize  int32
	begin  int64
}

// New opens an Amber NetCDF trajectory and parses its header. The file must
// contain a "coordinates" variable of shape (frame, atom, spatial) with
// spatial size 3, of type float or double.
func New(name string) (*NCObj, error) {
	N := new(NCObj)
	N.filename = name
	var err error
	N.nc, err = os.Open(name)
	if err != nil {
		return nil, Error{err.Error(), name, []string{"os.Open", "New"}, true}
	}
	if err := N.parseHeader(); err != nil {
		N.nc.Close()
		return nil, errDecorate(err, "New")
	}
	N.readable = true
	return N, nil
}

func (N *NCObj) parseHeader() error {
	magic := make([]byte, 4)
	if _, err := io.ReadFull(N.nc, magic); err != nil {
		return Error{"Unable to read magic number: " + err.Error(), N.filename, []string{"parseHeader"}, true}
	}
	if string(magic[:3]) != "CDF" {
		return Error{WrongFormat, N.filename, []string{"parseHeader"}, true}
	}
	version := magic[3]
	if version != 1 && version != 2 {
		return Error{fmt.Sprintf("Unsupported NetCDF version byte %d (only classic CDF-1/CDF-2 files are readable)", version), N.filename, []string{"parseHeader"}, true}
	}
	numrecs, err := N.readInt32()
	if err != nil {
		return err
	}
	dims, recDim, err := N.readDimList()
	if err != nil {
		return err
	}
	if err = N.skipAttrList(); err != nil { //global attributes
		return err
	}
	vars, err := N.readVarList(version)
	if err != nil {
		return err
	}
	//Everything needed is now in hand: locate "coordinates" and compute the
	//interleaved record size over all record variables.
	var coords *ncVar
	for i, v := range vars {
		if v.name == "coordinates" {
			coords = &vars[i]
			break
		}
	}
	if coords == nil {
		return Error{"No \"coordinates\" variable in file", N.filename, []string{"parseHeader"}, true}
	}
	if coords.dtype != ncFloat && coords.dtype != ncDouble {
		return Error{fmt.Sprintf("Variable \"coordinates\" has external type %d, want float or double", coords.dtype), N.filename, []string{"parseHeader"}, true}
	}
	if len(coords.dimids) != 3 || int(coords.dimids[0]) != recDim {
		return Error{"Variable \"coordinates\" must have shape (frame, atom, spatial) with frame as the record dimension", N.filename, []string{"parseHeader"}, true}
	}
	natoms := dims[coords.dimids[1]].size
	spatial := dims[coords.dimids[2]].size
	if spatial != 3 {
		return Error{fmt.Sprintf("Spatial dimension is %d, want 3", spatial), N.filename, []string{"parseHeader"}, true}
	}
	N.natoms = int(natoms)
	N.dtype = coords.dtype
	N.begin = coords.begin
	var recsize int64
	for _, v := range vars {
		if len(v.dimids) > 0 && int(v.dimids[0]) == recDim {
			recsize += int64(v.vsize)
		}
	}
	N.recsize = recsize
	if numrecs >= 0 {
		N.nframes = int(numrecs)
	} else {
		//A streaming writer left numrecs unset; deduce it from the file size.
		info, err := N.nc.Stat()
		if err != nil {
			return Error{"Unable to stat file: " + err.Error(), N.filename, []string{"parseHeader"}, true}
		}
		N.nframes = int((info.Size() - N.begin) / N.recsize)
	}
	if N.dtype == ncFloat {
		N.buf32 = make([]float32, N.natoms*3)
	} else {
		N.buf64 = make([]float64, N.natoms*3)
	}
	return nil
}

func (N *NCObj) readInt32() (int32, error) {
	var v int32
	if err := binary.Read(N.nc, binary.BigEndian, &v); err != nil {
		return 0, Error{"Truncated header: " + err.Error(), N.filename, []string{"readInt32"}, true}
	}
	return v, nil
}

//readName reads a netCDF name: a length, the bytes, and padding up to a
//4-byte boundary.
func (N *NCObj) readName() (string, error) {
	nelems, err := N.readInt32()
	if err != nil {
		return "", err
	}
	padded := (nelems + 3) &^ 3
	buf := make([]byte, padded)
	if _, err := io.ReadFull(N.nc, buf); err != nil {
		return "", Error{"Truncated name in header: " + err.Error(), N.filename, []string{"readName"}, true}
	}
	return string(buf[:nelems]), nil
}

func typeSize(t int32) int64 {
	switch t {
	case ncByte, ncChar:
		return 1
	case ncShort:
		return 2
	case ncInt, ncFloat:
		return 4
	case ncDouble:
		return 8
	}
	return 0
}

func (N *NCObj) readDimList() ([]ncDim, int, error) {
	tag, err := N.readInt32()
	if err != nil {
		return nil, -1, err
	}
	nelems, err := N.readInt32()
	if err != nil {
		return nil, -1, err
	}
	if tag != tagDimension && !(tag == 0 && nelems == 0) {
		return nil, -1, Error{fmt.Sprintf("Bad dimension-list tag %#x", tag), N.filename, []string{"readDimList"}, true}
	}
	dims := make([]ncDim, nelems)
	recDim := -1
	for i := range dims {
		dims[i].name, err = N.readName()
		if err != nil {
			return nil, -1, err
		}
		dims[i].size, err = N.readInt32()
		if err != nil {
			return nil, -1, err
		}
		if dims[i].size == 0 {
			recDim = i
		}
	}
	return dims, recDim, nil
}

func (N *NCObj) skipAttrList() error {
	tag, err := N.readInt32()
	if err != nil {
		return err
	}
	nelems, err := N.readInt32()
	if err != nil {
		return err
	}
	if tag != tagAttribute && !(tag == 0 && nelems == 0) {
		return Error{fmt.Sprintf("Bad attribute-list tag %#x", tag), N.filename, []string{"skipAttrList"}, true}
	}
	for i := int32(0); i < nelems; i++ {
		if _, err := N.readName(); err != nil {
			return err
		}
		dtype, err := N.readInt32()
		if err != nil {
			return err
		}
		nvals, err := N.readInt32()
		if err != nil {
			return err
		}
		size := typeSize(dtype) * int64(nvals)
		if size == 0 && nvals > 0 {
			return Error{fmt.Sprintf("Attribute with unknown external type %d", dtype), N.filename, []string{"skipAttrList"}, true}
		}
		padded := (size + 3) &^ 3
		if _, err := N.nc.Seek(padded, io.SeekCurrent); err != nil {
			return Error{"Truncated attribute values: " + err.Error(), N.filename, []string{"skipAttrList"}, true}
		}
	}
	return nil
}

func (N *NCObj) readVarList(version byte) ([]ncVar, error) {
	tag, err := N.readInt32()
	if err != nil {
		return nil, err
	}
	nelems, err := N.readInt32()
	if err != nil {
		return nil, err
	}
	if tag != tagVariable && !(tag == 0 && nelems == 0) {
		return nil, Error{fmt.Sprintf("Bad variable-list tag %#x", tag), N.filename, []string{"readVarList"}, true}
	}
	vars := make([]ncVar, nelems)
	for i := range vars {
		vars[i].name, err = N.readName()
		if err != nil {
			return nil, err
		}
		ndims, err := N.readInt32()
		if err != nil {
			return nil, err
		}
		vars[i].dimids = make([]int32, ndims)
		for j := range vars[i].dimids {
			vars[i].dimids[j], err = N.readInt32()
			if err != nil {
				return nil, err
			}
		}
		if err = N.skipAttrList(); err != nil {
			return nil, err
		}
		vars[i].dtype, err = N.readInt32()
		if err != nil {
			return nil, err
		}
		vars[i].vsize, err = N.readInt32()
		if err != nil {
			return nil, err
		}
		if version == 1 {
			begin, err := N.readInt32()
			if err != nil {
				return nil, err
			}
			vars[i].begin = int64(begin)
		} else {
			var begin int64
			if err := binary.Read(N.nc, binary.BigEndian, &begin); err != nil {
				return nil, Error{"Truncated header: " + err.Error(), N.filename, []string{"readVarList"}, true}
			}
			vars[i].begin = begin
		}
	}
	return vars, nil
}

// Readable returns true if the object is ready to be read from. It does not
// guarantee that there is something left to read.
func (N *NCObj) Readable() bool {
	return N.readable
}

// Len returns the number of atoms per frame.
func (N *NCObj) Len() int {
	return N.natoms
}

// NFrames returns the number of frames declared by the file header.
func (N *NCObj) NFrames() int {
	return N.nframes
}

// Next reads the next frame into keep, a natoms x 3 matrix, or discards the
// frame if keep is nil. Past the last frame it returns an error implementing
// dclust.LastFrameError and closes the file.
func (N *NCObj) Next(keep *mat.Dense) error {
	if !N.readable {
		return Error{TrajUnIni, N.filename, []string{"Next"}, true}
	}
	if N.current >= N.nframes {
		N.Close()
		return newlastFrameError(N.filename, "Next")
	}
	offset := N.begin + int64(N.current)*N.recsize
	N.current++
	if keep == nil {
		return nil //records are located by seeking, so a skipped frame costs nothing.
	}
	if _, err := N.nc.Seek(offset, io.SeekStart); err != nil {
		return Error{"Unable to seek to frame: " + err.Error(), N.filename, []string{"Next"}, true}
	}
	if N.dtype == ncFloat {
		if err := binary.Read(N.nc, binary.BigEndian, N.buf32); err != nil {
			return Error{fmt.Sprintf("Truncated frame %d: %s", N.current-1, err.Error()), N.filename, []string{"Next"}, true}
		}
		for i := 0; i < N.natoms; i++ {
			keep.Set(i, 0, float64(N.buf32[i*3]))
			keep.Set(i, 1, float64(N.buf32[i*3+1]))
			keep.Set(i, 2, float64(N.buf32[i*3+2]))
		}
		return nil
	}
	if err := binary.Read(N.nc, binary.BigEndian, N.buf64); err != nil {
		return Error{fmt.Sprintf("Truncated frame %d: %s", N.current-1, err.Error()), N.filename, []string{"Next"}, true}
	}
	for i := 0; i < N.natoms; i++ {
		keep.Set(i, 0, N.buf64[i*3])
		keep.Set(i, 1, N.buf64[i*3+1])
		keep.Set(i, 2, N.buf64[i*3+2])
	}
	return nil
}

// Close closes the handle and marks it unreadable.
func (N *NCObj) Close() {
	if N.nc != nil {
		N.nc.Close()
	}
	N.readable = false
}

//Errors

//errDecorate asserts that the error implements dclust.Error and decorates it
//with the caller's name before returning it. It panics on other error types.
func errDecorate(err error, caller string) error {
	err2 := err.(dclust.Error)
	err2.Decorate(caller)
	return err2
}

// Error is the general structure for Amber NetCDF trajectory errors. It
// fulfills dclust.Error and dclust.TrajError.
type Error struct {
	message  string
	filename string //the input file that has problems, or empty string if none.
	deco     []string
	critical bool
}

func (err Error) Error() string {
	return fmt.Sprintf("Amber NetCDF trajectory file %s error: %s", err.filename, err.message)
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
func (err Error) Format() string { return "Amber NetCDF" }

// Critical returns true if the error is critical, false otherwise.
func (err Error) Critical() bool { return err.critical }

const (
	TrajUnIni   = "Traj object uninitialized to read"
	WrongFormat = "Not a NetCDF classic file"
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

func (E lastFrameError) Format() string { return "Amber NetCDF" }

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

/*
 * geometry.go, part of dclust
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
/***Dedicated to the long life of the Ven. Khenpo Phuntzok Tenzin Rinpoche***/

package dclust

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

func sub3(a, b []float64) [3]float64 {
	return [3]float64{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

func cross3(a, b [3]float64) [3]float64 {
	return [3]float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func dot3(a, b [3]float64) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

func norm3(a [3]float64) float64 {
	return math.Sqrt(dot3(a, a))
}

// Dihedral returns the dihedral angle, in degrees, defined by the atoms with
// (zero-based) indices i, j, k and l in frame, a natoms x 3 matrix of Cartesian
// coordinates. The angle is the unsigned angle between the normals of the
// ijk and jkl planes, shifted by +180 so the result lies in [0,360). The sign
// (handedness) of the torsion is lost; see DihedralSigned for the signed
// value. If the four atoms are collinear the normals vanish and the result
// is NaN, which is the caller's responsibility to handle.
func Dihedral(frame *mat.Dense, i, j, k, l int) float64 {
	a := frame.RawRowView(i)
	b := frame.RawRowView(j)
	c := frame.RawRowView(k)
	d := frame.RawRowView(l)
	v1 := sub3(b, a)
	v2 := sub3(c, b)
	v3 := sub3(d, c)
	n1 := cross3(v1, v2)
	n2 := cross3(v2, v3)
	arg := dot3(n1, n2) / (norm3(n1) * norm3(n2))
	//floating point overshoot would take Acos out of its domain.
	if arg > 1 {
		arg = 1
	} else if arg < -1 {
		arg = -1
	}
	return math.Acos(arg)*(180/math.Pi) + 180.0
}

// DihedralSigned returns the signed dihedral angle, in degrees in (-180,180],
// for the same four indices, following the usual atan2 formulation. It is
// not used by the time-series machinery, which keeps the unsigned convention.
func DihedralSigned(frame *mat.Dense, i, j, k, l int) float64 {
	a := frame.RawRowView(i)
	b := frame.RawRowView(j)
	c := frame.RawRowView(k)
	d := frame.RawRowView(l)
	v1 := sub3(b, a)
	v2 := sub3(c, b)
	v3 := sub3(d, c)
	n1 := cross3(v1, v2)
	n2 := cross3(v2, v3)
	scaled := [3]float64{v1[0] * norm3(v2), v1[1] * norm3(v2), v1[2] * norm3(v2)}
	first := dot3(scaled, cross3(v2, v3))
	second := dot3(n1, n2)
	return math.Atan2(first, second) * (180 / math.Pi)
}

// DiheTrace evaluates one dihedral definition across every frame of an
// in-memory trajectory, returning one angle (in degrees, unsigned convention)
// per frame. It validates the indices against the atom count of the first
// frame before touching any coordinates.
func DiheTrace(frames []*mat.Dense, def Definition) ([]float64, error) {
	if len(frames) == 0 {
		return nil, CError{ErrNilData, []string{"DiheTrace"}}
	}
	natoms, _ := frames[0].Dims()
	for _, idx := range def {
		if idx < 0 || idx >= natoms {
			return nil, CError{fmt.Sprintf("%s: index %d, %d atoms per frame", ErrIndexOutRange, idx, natoms), []string{"DiheTrace"}}
		}
	}
	trace := make([]float64, len(frames))
	for fr, frame := range frames {
		r, c := frame.Dims()
		if r != natoms || c != 3 {
			return nil, CError{fmt.Sprintf("%s: frame %d has %d atoms, expected %d", ErrRaggedFrame, fr, r, natoms), []string{"DiheTrace"}}
		}
		trace[fr] = Dihedral(frame, def[0], def[1], def[2], def[3])
	}
	return trace, nil
}

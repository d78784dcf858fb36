/*
 * interfaces.go, part of dclust
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

import "gonum.org/v1/gonum/mat"

// Traj is the interface for a trajectory read frame by frame.
// Implementations live in the traj subpackages.
type Traj interface {

	//Is the trajectory ready to be read?
	Readable() bool

	//Next reads the next frame into keep, a natoms x 3 matrix,
	//or discards the frame if keep is nil.
	Next(keep *mat.Dense) error

	//Len returns the number of atoms per frame.
	Len() int
}

//Errors

// Error is the interface for errors that all packages in this module implement. The
// Decorate method adds and retrieves information from the error, without changing its
// type or wrapping it around something else. The decoration slice should contain the
// names of the functions in the calling stack, plus, for each, any relevant
// information, in the format "FunctionName: Extra info". Decorate with an empty string
// just returns the current decoration.
type Error interface {
	Error() string
	Decorate(string) []string
}

// TrajError is the interface for errors in trajectories.
type TrajError interface {
	Error
	Critical() bool
	FileName() string
	Format() string
}

// LastFrameError has a do-nothing method to distinguish the harmless
// end-of-trajectory errors, so they can be filtered in a typeswitch that
// looks for this interface.
type LastFrameError interface {
	TrajError
	NormalLastFrameTermination()
}

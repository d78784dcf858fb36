/*
 * doc.go, part of dclust
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

/*
Package dclust extracts dihedral-angle time series from molecular dynamics
trajectories and prepares them for intrinsic-dimension estimation and
density-peak clustering.

The dihedral angle computed here is the _unsigned_ angle between the plane
defined by the first three atoms and that defined by the last three, shifted
by +180 degrees so all values fall in [0,360). The handedness (sign) of the
torsion is not recovered; two mirror-image conformations yield the same
value. Callers that need the signed torsion can use DihedralSigned, but the
time-series machinery and the table format use the unsigned convention.

A dihedral trace is a frames x dihedrals matrix of angles in degrees. It can
be computed from a trajectory (see the traj/xyz and traj/amber subpackages)
and a list of atom-index quadruplets, written to a plain-text table, and read
back later to skip the extraction. The Dataset type re-expresses a trace in
radians on a 2*Pi-periodic domain, which is what the intdim (intrinsic
dimension) and adp (density-peaks clustering) subpackages consume.
*/
package dclust

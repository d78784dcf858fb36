/*
 * pipeline.go, part of dclust
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

package main

import (
	"fmt"

	dclust "github.com/rmera/dclust"
	"github.com/rmera/dclust/adp"
	"github.com/rmera/dclust/dplot"
	"github.com/rmera/dclust/intdim"
	"github.com/rmera/dclust/traj/amber"
	"github.com/rmera/dclust/traj/xyz"
)

//run sequences the whole pipeline: load (or extract and persist) the
//dihedral time series, build the periodic dataset, settle on an intrinsic
//dimension, and, on request, cluster.
func run(conf *config) error {
	ts, err := timeSeries(conf)
	if err != nil {
		return err
	}
	if conf.stride > 1 {
		fmt.Printf("\nKeeping every %dth frame of the time series\n", conf.stride)
		ts, err = ts.Decimate(conf.stride)
		if err != nil {
			return err
		}
	}
	fmt.Printf("\nWorking with %d frames of %d dihedrals each\n", ts.NFrames(), ts.NDihe())
	ds := dclust.NewDataset(ts)
	id := conf.id
	if id == 0 {
		id, err = estimateID(conf, ds)
		if err != nil {
			return err
		}
	} else {
		fmt.Printf("\nThe intrinsic dimension (ID) was given as input:\n\n Input ID: %d\n", id)
	}
	if !conf.cluster {
		return nil
	}
	return clusterStage(conf, ds, id)
}

//timeSeries obtains the dihedral time series, either by reading a
//pre-computed table ("dihe") or by extracting it from a trajectory and
//persisting it.
func timeSeries(conf *config) (*dclust.TimeSeries, error) {
	var t dclust.Traj
	var err error
	switch conf.format {
	case "dihe":
		fmt.Println("\nDihedral time evolution will be read directly from the input file")
		fmt.Println("\nReading file...")
		return dclust.ReadTable(conf.input)
	case "xyz":
		fmt.Println("\nCoordinates will be read from the xyz file")
		fmt.Println("\nReading file...")
		t, err = xyz.New(conf.input)
	case "netcdf":
		fmt.Println("\nCoordinates will be read from the Amber NetCDF file")
		fmt.Println("\nReading file...")
		t, err = amber.New(conf.input)
	default:
		return nil, fmt.Errorf("unknown input format %q: want 'xyz', 'netcdf' or 'dihe'", conf.format)
	}
	if err != nil {
		return nil, err
	}
	if conf.dihelist == "" {
		return nil, fmt.Errorf("format %q requires a dihedral-definition file (--dihelist)", conf.format)
	}
	defs, err := dclust.ReadDefinitions(conf.dihelist)
	if err != nil {
		return nil, err
	}
	frames, err := dclust.ReadAll(t)
	if err != nil {
		return nil, err
	}
	fmt.Println("\nCalculating dihedrals temporal traces...")
	ts, err := dclust.Extract(frames, defs)
	if err != nil {
		return nil, err
	}
	fmt.Printf("\nThese results will be saved to the '%s' file...\n", conf.output)
	if err := ts.WriteTable(conf.output); err != nil {
		return nil, err
	}
	return ts, nil
}

//estimateID runs both scaling analyses, prints the curves, and condenses
//them into a working dimension.
func estimateID(conf *config, ds *dclust.Dataset) (int, error) {
	fmt.Println("\nThe scaling of the intrinsic dimension will be evaluated with the 2nn and GRIDE methods")
	fmt.Println("\nComputing ID...")
	twonn, err := intdim.TwoNNScaling(ds)
	if err != nil {
		return 0, err
	}
	rangeMax := 1024
	if rangeMax > ds.Len()-1 {
		rangeMax = ds.Len() - 1
	}
	gride, err := intdim.GRIDEScaling(ds, rangeMax)
	if err != nil {
		return 0, err
	}
	printCurve("2nn", twonn)
	printCurve("GRIDE", gride)
	if conf.visualize {
		fmt.Printf("\nWriting the scaling plot to '%s'...\n", conf.plotfile)
		if err := dplot.IDScaling(twonn, gride, conf.plotfile); err != nil {
			return 0, err
		}
	}
	fmt.Println("\n Assuming a plateau is reached.")
	fmt.Println(" Make sure this is the case by inspecting the ID scaling!")
	fmt.Println(" The ID will be approximated as the maximum between the minimum ID estimations of 2nn and GRIDE")
	id, err := intdim.AutoID(twonn, gride)
	if err != nil {
		return 0, err
	}
	if id < 1 {
		id = 1
	}
	fmt.Printf("\n Estimated ID: %d\n", id)
	return id, nil
}

func printCurve(name string, c *intdim.Curve) {
	fmt.Printf("\n %s ID scaling:\n", name)
	fmt.Printf("\n Scale  | Estimated ID  | Error on ID:\n")
	for i := range c.IDs {
		fmt.Printf(" %.3f %.3f %.3f\n", c.Scales[i], c.IDs[i], c.Errs[i])
	}
}

//clusterStage runs the density-peaks clustering and reports the partition.
func clusterStage(conf *config, ds *dclust.Dataset, id int) error {
	fmt.Printf("\nClustering with density peaks (ID %d, Z %.2f, halo %v)...\n", id, conf.zvalue, conf.halo)
	res, err := adp.Cluster(ds, id, conf.zvalue, conf.halo)
	if err != nil {
		return err
	}
	fmt.Printf("\n %d clusters found\n", res.NClusters())
	fmt.Printf("\n Cluster | Population | Center frame\n")
	for c, ctr := range res.Centers {
		if conf.stride > 1 {
			//frame indexes refer to the decimated series; the original
			//trajectory frame is recovered with the stride.
			fmt.Printf(" %7d %12d %12d (original trajectory frame %d)\n", c, res.Pop[c], ctr, ctr*conf.stride)
			continue
		}
		fmt.Printf(" %7d %12d %12d\n", c, res.Pop[c], ctr)
	}
	if conf.halo {
		unassigned := 0
		for _, a := range res.Assign {
			if a < 0 {
				unassigned++
			}
		}
		fmt.Printf("\n %d halo frames left unassigned\n", unassigned)
	}
	return nil
}

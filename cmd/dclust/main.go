/*
 * main.go, part of dclust
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

//dclust extracts dihedral-angle time series from an MD trajectory, estimates
//the intrinsic dimension of the resulting periodic dataset and, on request,
//partitions the frames with density-peaks clustering.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const banner = `
    ************************************************************
    *                                                          *
    *                     Welcome to dclust!                   *
    *                                                          *
    *   This tool extracts the temporal courses of dihedral    *
    *   angles from your trajectory file, estimates their      *
    *   intrinsic dimension and clusters the frames by         *
    *   density peaks. Just bring your .nc and that is all.    *
    *                                                          *
    ************************************************************
`

type config struct {
	input     string
	output    string
	dihelist  string
	format    string
	id        int
	stride    int
	cluster   bool
	halo      bool
	zvalue    float64
	visualize bool
	plotfile  string
}

func main() {
	conf := new(config)
	root := &cobra.Command{
		Use:   "dclust",
		Short: "dihedral time series, intrinsic dimension and density-peak clustering for MD trajectories",
		Long:  banner,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			fmt.Print(banner)
			return run(conf)
		},
	}
	f := root.Flags()
	f.StringVarP(&conf.input, "input", "i", "", "input file name (trajectory, or dihedral table for -f dihe)")
	f.StringVarP(&conf.output, "output", "o", "dihetraj.dat", "output file name for the dihedral table")
	f.StringVarP(&conf.dihelist, "dihelist", "d", "", "text file with the atom indexes of each dihedral (not needed if format is 'dihe')")
	f.StringVarP(&conf.format, "format", "f", "", "input file format: 'xyz', 'netcdf' or 'dihe'")
	f.IntVar(&conf.id, "id", 0, "intrinsic dimension; 0 estimates it from the data")
	f.IntVar(&conf.stride, "stride", 1, "keep only every Nth frame of the time series (1 = no decimation)")
	f.BoolVar(&conf.cluster, "cluster", false, "run the density-peaks clustering stage")
	f.BoolVar(&conf.halo, "halo", false, "mark low-confidence points as unassigned instead of clustering them")
	f.Float64Var(&conf.zvalue, "zvalue", 1.0, "significance a density peak needs over a saddle to remain a separate cluster")
	f.BoolVarP(&conf.visualize, "visualize", "v", false, "write the intrinsic-dimension scaling plot")
	f.StringVar(&conf.plotfile, "plot", "idscaling.png", "file name for the scaling plot")
	root.MarkFlagRequired("input")
	root.MarkFlagRequired("format")

	//With no arguments at all we only print the description, and that is
	//not an error.
	if len(os.Args) <= 1 {
		root.Help()
		return
	}
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

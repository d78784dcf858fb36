/*
 * dplot.go, part of dclust
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

//Package dplot draws the intrinsic-dimension scaling figure. The plateau of
//the curves is what justifies the automatic choice of a working dimension,
//so the plot is the tool with which a user checks that assumption.
package dplot

import (
	"fmt"
	"image/color"

	"github.com/rmera/dclust/intdim"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

//curveXY adapts an intdim.Curve to the plotter interfaces, including the
//Y error bars.
type curveXY struct {
	c *intdim.Curve
}

func (d curveXY) Len() int { return len(d.c.IDs) }

func (d curveXY) XY(i int) (float64, float64) { return d.c.Scales[i], d.c.IDs[i] }

func (d curveXY) YError(i int) (float64, float64) { return d.c.Errs[i], d.c.Errs[i] }

func addCurve(p *plot.Plot, c *intdim.Curve, label string, col color.Color) error {
	data := curveXY{c}
	line, err := plotter.NewLine(data)
	if err != nil {
		return err
	}
	line.Color = col
	scat, err := plotter.NewScatter(data)
	if err != nil {
		return err
	}
	scat.Color = col
	bars, err := plotter.NewYErrorBars(data)
	if err != nil {
		return err
	}
	bars.Color = col
	p.Add(line, scat, bars)
	p.Legend.Add(label, line, scat)
	return nil
}

// IDScaling writes a PNG with both intrinsic-dimension scaling curves
// (estimate vs. neighborhood scale, with error bars) to the given file name.
func IDScaling(twonn, gride *intdim.Curve, name string) error {
	if twonn == nil || gride == nil {
		return fmt.Errorf("dplot: nil scaling curve given")
	}
	p := plot.New()
	p.Title.Text = "Intrinsic dimension scaling"
	p.X.Label.Text = "Scale"
	p.Y.Label.Text = "Estimated ID"
	p.Add(plotter.NewGrid())
	if err := addCurve(p, twonn, "2nn decimation", color.RGBA{B: 255, A: 255}); err != nil {
		return err
	}
	if err := addCurve(p, gride, "gride", color.RGBA{R: 255, G: 140, A: 255}); err != nil {
		return err
	}
	if err := p.Save(15*vg.Centimeter, 10*vg.Centimeter, name); err != nil {
		return err
	}
	return nil
}

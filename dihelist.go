/*
 * dihelist.go, part of dclust
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
	"os"
	"strconv"
	"strings"
)

// Definition is one dihedral definition: four zero-based atom indices, in
// order A,B,C,D. The order is meaningful, as it defines the planes ABC and
// BCD.
type Definition [4]int

// ExpandChain expands a contiguous chain of atom indices of length n into the
// n-3 consecutive, overlapping dihedral definitions
// (chain[i], chain[i+1], chain[i+2], chain[i+3]), preserving order.
func ExpandChain(chain []int) ([]Definition, error) {
	if len(chain) < 4 {
		return nil, CError{fmt.Sprintf("A dihedral chain needs at least 4 atoms, got %d", len(chain)), []string{"ExpandChain"}}
	}
	defs := make([]Definition, 0, len(chain)-3)
	for i := 0; i <= len(chain)-4; i++ {
		defs = append(defs, Definition{chain[i], chain[i+1], chain[i+2], chain[i+3]})
	}
	return defs, nil
}

// ReadDefinitions reads a dihedral-definition file. Two encodings are
// accepted: whitespace-separated rows of 4 indices each (one dihedral per
// row), or a flat chain of indices (a single row, or a single column) which
// is expanded with ExpandChain. Blank lines and lines starting with '#' are
// skipped.
func ReadDefinitions(name string) ([]Definition, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, CError{"Unable to open dihedral list: " + err.Error(), []string{"os.Open", "ReadDefinitions"}}
	}
	defer f.Close()
	var rows [][]int
	scanner := bufio.NewScanner(f)
	lineno := 0
	width := -1
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		row := make([]int, len(fields))
		for i, v := range fields {
			row[i], err = strconv.Atoi(v)
			if err != nil {
				return nil, CError{fmt.Sprintf("Non-integer entry %q in line %d of %s", v, lineno, name), []string{"ReadDefinitions"}}
			}
		}
		if width == -1 {
			width = len(row)
		} else if len(row) != width {
			return nil, CError{fmt.Sprintf("Line %d of %s has %d columns, expected %d", lineno, name, len(row), width), []string{"ReadDefinitions"}}
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, CError{"Failed reading dihedral list: " + err.Error(), []string{"ReadDefinitions"}}
	}
	if len(rows) == 0 {
		return nil, CError{"Empty dihedral list file " + name, []string{"ReadDefinitions"}}
	}
	//A single row, or a single column, is a chain. Anything else must be
	//explicit 4-index rows.
	if len(rows) == 1 {
		return ExpandChain(rows[0])
	}
	if width == 1 {
		chain := make([]int, len(rows))
		for i, r := range rows {
			chain[i] = r[0]
		}
		return ExpandChain(chain)
	}
	if width != 4 {
		return nil, CError{fmt.Sprintf("Dihedral list %s has %d columns per row; want 4 (explicit dihedrals) or 1 (chain)", name, width), []string{"ReadDefinitions"}}
	}
	defs := make([]Definition, len(rows))
	for i, r := range rows {
		defs[i] = Definition{r[0], r[1], r[2], r[3]}
	}
	return defs, nil
}

/*
 * dihelist_test.go, part of dclust
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
	"os"
	"path/filepath"
	"testing"
)

func TestExpandChain(Te *testing.T) {
	defs, err := ExpandChain([]int{2, 5, 7, 9, 11, 13})
	if err != nil {
		Te.Fatal(err)
	}
	want := []Definition{{2, 5, 7, 9}, {5, 7, 9, 11}, {7, 9, 11, 13}}
	if len(defs) != len(want) {
		Te.Fatalf("got %d definitions, want %d", len(defs), len(want))
	}
	for i, d := range defs {
		if d != want[i] {
			Te.Errorf("definition %d: got %v, want %v", i, d, want[i])
		}
	}
	if _, err := ExpandChain([]int{1, 2, 3}); err == nil {
		Te.Error("a 3-atom chain should be an error")
	}
}

func TestReadDefinitions(Te *testing.T) {
	defs, err := ReadDefinitions("test/dihelist.txt")
	if err != nil {
		Te.Fatal(err)
	}
	if len(defs) != 2 || defs[0] != (Definition{0, 1, 2, 3}) || defs[1] != (Definition{1, 2, 3, 0}) {
		Te.Errorf("explicit list: got %v", defs)
	}
	defs, err = ReadDefinitions("test/chain.txt")
	if err != nil {
		Te.Fatal(err)
	}
	//a 6-atom chain makes 3 overlapping dihedrals.
	if len(defs) != 3 || defs[1] != (Definition{1, 2, 3, 4}) {
		Te.Errorf("chain list: got %v", defs)
	}
}

func TestReadDefinitionsRagged(Te *testing.T) {
	name := filepath.Join(Te.TempDir(), "ragged.txt")
	if err := os.WriteFile(name, []byte("0 1 2 3\n4 5 6\n"), 0644); err != nil {
		Te.Fatal(err)
	}
	if _, err := ReadDefinitions(name); err == nil {
		Te.Error("rows of different widths should be an error")
	}
}

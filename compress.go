/*
 * compress.go, part of dclust
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
	"compress/gzip"
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"
)

//zstd.Decoder doesn't implement io.ReadCloser, as its Close returns nothing,
//so it gets a little wrapper.
type zstdql struct {
	closeql func()
	*zstd.Decoder
}

func (s zstdql) Close() error {
	s.closeql()
	return nil
}

type nopCloser struct {
	io.Reader
}

func (n nopCloser) Close() error { return nil }

// DecompReader wraps an already-opened file in a decompressing reader,
// chosen from the file name extension: .gz (gzip) or .zst/.zstd (zstd).
// Any other extension returns a plain buffered reader. Closing the returned
// reader does not close the underlying file.
func DecompReader(name string, f io.Reader) (io.ReadCloser, error) {
	buf := bufio.NewReader(f)
	temp := strings.Split(name, ".")
	switch strings.ToLower(temp[len(temp)-1]) {
	case "gz":
		r, err := gzip.NewReader(buf)
		if err != nil {
			return nil, CError{"Unable to read gzip stream from " + name + ": " + err.Error(), []string{"gzip.NewReader", "DecompReader"}}
		}
		return r, nil
	case "zst", "zstd":
		r, err := zstd.NewReader(buf)
		if err != nil {
			return nil, CError{"Unable to read zstd stream from " + name + ": " + err.Error(), []string{"zstd.NewReader", "DecompReader"}}
		}
		return zstdql{r.Close, r}, nil
	default:
		return nopCloser{buf}, nil
	}
}

// BaseFormat strips a trailing compression extension (.gz, .zst, .zstd) from
// a file name, if present, and returns the remaining extension in lower
// case. "traj.xyz.gz" gives "xyz", "run.nc" gives "nc".
func BaseFormat(name string) string {
	temp := strings.Split(strings.ToLower(name), ".")
	last := temp[len(temp)-1]
	if last == "gz" || last == "zst" || last == "zstd" {
		if len(temp) < 2 {
			return ""
		}
		return temp[len(temp)-2]
	}
	return last
}

// Copyright ©2024 Ray Sinclair. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package annot

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
	"github.com/shenwei356/xopen"
)

// Table maps version-stripped accessions to gene names. It is built once,
// before any sample is processed, and read-only afterwards.
type Table struct {
	names map[string]string
	order []string
}

// Len returns the number of mapped accessions.
func (t *Table) Len() int { return len(t.names) }

// Translate returns the gene name recorded for the given accession. An
// accession absent from the table names itself; this fallback is silent
// and intentional.
func (t *Table) Translate(accession string) string {
	if name, ok := t.names[accession]; ok {
		return name
	}
	return accession
}

func (t *Table) set(key, name string) {
	if t.names == nil {
		t.names = make(map[string]string)
	}
	if _, ok := t.names[key]; !ok {
		t.order = append(t.order, key)
	}
	// Last write wins: an accession re-registered with a different name
	// keeps only the most recent one.
	t.names[key] = name
}

// BuildTable streams fasta headers from r and registers every header that
// yields both an accession and a gene name, under the accession as given
// and under its version-stripped form. The resulting table keys only on
// version-stripped accessions; for a fixed input the result is identical
// across runs.
func BuildTable(r io.Reader) (*Table, error) {
	var reg Table
	sc := seqio.NewScanner(fasta.NewReader(r, linear.NewSeq("", nil, alphabet.Protein)))
	for sc.Next() {
		s := sc.Seq().(*linear.Seq)
		line := s.ID
		if s.Desc != "" {
			line += " " + s.Desc
		}
		h := ParseHeader(line)
		if h.Accession == "" || h.GeneName == "" {
			continue
		}
		reg.set(h.Accession, h.GeneName)
		reg.set(StripVersion(h.Accession), h.GeneName)
	}
	if err := sc.Error(); err != nil {
		return nil, err
	}

	// Collapse the registered keys to their version-stripped forms,
	// preserving registration order so later entries win.
	var t Table
	for _, key := range reg.order {
		t.set(StripVersion(key), reg.names[key])
	}
	return &t, nil
}

// BuildTableFile builds a table from the named fasta file, which may be
// plain or gzip compressed.
func BuildTableFile(path string) (*Table, error) {
	f, err := xopen.Ropen(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return BuildTable(f)
}

// WriteTo writes the table in its persisted two-column form.
func (t *Table) WriteTo(w io.Writer) (int64, error) {
	var total int64
	n, err := fmt.Fprintln(w, "accession\tgene_name")
	total += int64(n)
	if err != nil {
		return total, err
	}
	for _, acc := range t.order {
		n, err = fmt.Fprintf(w, "%s\t%s\n", acc, t.names[acc])
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteFile persists the table to the named file.
func (t *Table) WriteFile(path string) error {
	w, err := xopen.Wopen(path)
	if err != nil {
		return err
	}
	if _, err = t.WriteTo(w); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// ReadTable reads a persisted table. The header row is required.
func ReadTable(r io.Reader) (*Table, error) {
	var t Table
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 1<<16), 1<<20)
	first := true
	for sc.Scan() {
		line := sc.Text()
		if first {
			first = false
			if line != "accession\tgene_name" {
				return nil, fmt.Errorf("annot: unexpected table header %q", line)
			}
			continue
		}
		if line == "" {
			continue
		}
		fields := strings.SplitN(line, "\t", 2)
		if len(fields) != 2 {
			return nil, fmt.Errorf("annot: malformed table row %q", line)
		}
		t.set(fields[0], fields[1])
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return &t, nil
}

// ReadTableFile reads a persisted table from the named file.
func ReadTableFile(path string) (*Table, error) {
	f, err := xopen.Ropen(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadTable(f)
}

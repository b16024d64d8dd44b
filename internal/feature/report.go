// Copyright ©2024 Ray Sinclair. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package feature

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/biogo/biogo/io/featio/gff"
	"github.com/shenwei356/xopen"

	"github.com/RaySinclair01/ARG-HMRG-Colocalization-Analyzer/internal/hits"
)

const detailsHeader = "contig_id\tprotein_id\tstart\tend\tstrand\tgene_type\tgene_name\tpident\tevalue\tbitscore"

// WriteDetails writes the detailed colocalization report.
func WriteDetails(w io.Writer, rows []Annotated) error {
	if _, err := fmt.Fprintln(w, detailsHeader); err != nil {
		return err
	}
	for _, r := range rows {
		_, err := fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ContigID, r.ProteinID, r.Start, r.End, StrandSymbol(r.Strand),
			r.GeneType, r.GeneName, r.PctIdent, r.EValue, r.BitScore,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// WriteDetailsFile writes the detailed report to the named file.
func WriteDetailsFile(path string, rows []Annotated) error {
	w, err := xopen.Wopen(path)
	if err != nil {
		return err
	}
	if err = WriteDetails(w, rows); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// ReadDetails reads a detailed report written by WriteDetails.
func ReadDetails(r io.Reader) ([]Annotated, error) {
	var rows []Annotated
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 1<<16), 1<<22)
	first := true
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if first {
			first = false
			if text != detailsHeader {
				return nil, fmt.Errorf("feature: unexpected details header %q", text)
			}
			continue
		}
		if text == "" {
			continue
		}
		fields := strings.Split(text, "\t")
		if len(fields) != 10 {
			return nil, fmt.Errorf("feature: details row %d has %d columns, want 10", line, len(fields))
		}
		start, err := strconv.Atoi(fields[2])
		if err != nil {
			return nil, fmt.Errorf("feature: details row %d has bad start %q: %v", line, fields[2], err)
		}
		end, err := strconv.Atoi(fields[3])
		if err != nil {
			return nil, fmt.Errorf("feature: details row %d has bad end %q: %v", line, fields[3], err)
		}
		rows = append(rows, Annotated{
			ContigID:  fields[0],
			ProteinID: fields[1],
			Start:     start,
			End:       end,
			Strand:    ParseStrandSymbol(fields[4]),
			GeneType:  fields[5],
			GeneName:  fields[6],
			PctIdent:  fields[7],
			EValue:    fields[8],
			BitScore:  fields[9],
		})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}

// ReadDetailsFile reads a detailed report from the named file.
func ReadDetailsFile(path string) ([]Annotated, error) {
	f, err := xopen.Ropen(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadDetails(f)
}

// WriteGFF writes the annotated rows as GFF features for genome browsers.
// "Other" rows are omitted.
func WriteGFF(w io.Writer, source string, rows []Annotated) error {
	gw := gff.NewWriter(w, 60, true)
	for _, r := range rows {
		if r.GeneType == hits.TypeOther {
			continue
		}
		attrs := gff.Attributes{{Tag: "ID", Value: r.ProteinID}}
		if r.GeneName != "" {
			attrs = append(attrs, gff.Attribute{Tag: "Gene", Value: r.GeneName})
		}
		_, err := gw.Write(&gff.Feature{
			SeqName: r.ContigID,
			Source:  source,
			Feature: "CDS",
			// The report carries 1-based coordinates; biogo starts
			// are 0-based.
			FeatStart:      r.Start - 1,
			FeatEnd:        r.End,
			FeatStrand:     r.Strand,
			FeatFrame:      gff.NoFrame,
			FeatAttributes: attrs,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

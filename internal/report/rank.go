// Copyright ©2024 Ray Sinclair. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/shenwei356/xopen"

	"github.com/RaySinclair01/ARG-HMRG-Colocalization-Analyzer/internal/feature"
	"github.com/RaySinclair01/ARG-HMRG-Colocalization-Analyzer/internal/hits"
)

// ContigScore is a contig's colocalization density: the product of its
// ARG and HMRG annotation counts.
type ContigScore struct {
	ContigID string
	ARG      int
	HMRG     int
	Score    int
}

// DensityRank scores every contig in the detail rows and returns the top
// contigs by descending score, scores of zero excluded. Ties keep
// first-seen contig order. A non-positive top returns all scored contigs.
func DensityRank(rows []feature.Annotated, top int) []ContigScore {
	byContig := make(map[string]*ContigScore)
	var order []string
	for _, r := range rows {
		s := byContig[r.ContigID]
		if s == nil {
			s = &ContigScore{ContigID: r.ContigID}
			byContig[r.ContigID] = s
			order = append(order, r.ContigID)
		}
		switch r.GeneType {
		case hits.TypeARG:
			s.ARG++
		case hits.TypeHMRG:
			s.HMRG++
		}
	}

	var scored []ContigScore
	for _, contig := range order {
		s := byContig[contig]
		s.Score = s.ARG * s.HMRG
		if s.Score > 0 {
			scored = append(scored, *s)
		}
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if top > 0 && len(scored) > top {
		scored = scored[:top]
	}
	return scored
}

// SelectContigs returns the detail rows belonging to the given contigs,
// in their original order.
func SelectContigs(rows []feature.Annotated, scores []ContigScore) []feature.Annotated {
	keep := make(map[string]bool, len(scores))
	for _, s := range scores {
		keep[s.ContigID] = true
	}
	var selected []feature.Annotated
	for _, r := range rows {
		if keep[r.ContigID] {
			selected = append(selected, r)
		}
	}
	return selected
}

// PlotRow is one row of the plot-ready feature table.
type PlotRow struct {
	ID       string
	Source   string
	Start    int
	End      int
	Strand   string
	GeneType string
	GeneName string
}

// PlotOptions control the shape of the exported table.
type PlotOptions struct {
	// Annotations includes the gene_type and gene_name columns.
	Annotations bool
	// RenameContigs replaces contig identifiers with short sequential
	// labels in first-seen order, for external plotting tools.
	RenameContigs bool
}

// PlotRows projects merged detail rows to the plot table, optionally
// renaming contigs, and removes exact-duplicate rows, keeping the first
// occurrence.
func PlotRows(rows []feature.Annotated, opt PlotOptions) []PlotRow {
	labels := make(map[string]string)
	rename := func(contig string) string {
		if !opt.RenameContigs {
			return contig
		}
		label, ok := labels[contig]
		if !ok {
			label = fmt.Sprintf("Contig_%d", len(labels)+1)
			labels[contig] = label
		}
		return label
	}

	seen := make(map[PlotRow]bool)
	var out []PlotRow
	for _, r := range rows {
		row := PlotRow{
			ID:     r.ProteinID,
			Source: rename(r.ContigID),
			Start:  r.Start,
			End:    r.End,
			Strand: feature.StrandSymbol(r.Strand),
		}
		if opt.Annotations {
			row.GeneType = r.GeneType
			row.GeneName = r.GeneName
		}
		if seen[row] {
			continue
		}
		seen[row] = true
		out = append(out, row)
	}
	return out
}

// WritePlotRows writes the plot table. The annotation columns are emitted
// only when opt.Annotations produced them.
func WritePlotRows(w io.Writer, rows []PlotRow, opt PlotOptions) error {
	header := "ID\tsource\tstart\tend\tstrand"
	if opt.Annotations {
		header += "\tgene_type\tgene_name"
	}
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}
	for _, r := range rows {
		var err error
		if opt.Annotations {
			_, err = fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\t%s\t%s\n", r.ID, r.Source, r.Start, r.End, r.Strand, r.GeneType, r.GeneName)
		} else {
			_, err = fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n", r.ID, r.Source, r.Start, r.End, r.Strand)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// WritePlotRowsFile writes the plot table to the named file.
func WritePlotRowsFile(path string, rows []PlotRow, opt PlotOptions) error {
	w, err := xopen.Wopen(path)
	if err != nil {
		return err
	}
	if err = WritePlotRows(w, rows, opt); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// ExportForPlotter reduces a plot table to the five columns the external
// plotting tool accepts, renames its contigs to sequential labels in
// first-seen order and removes exact-duplicate rows.
func ExportForPlotter(rows []PlotRow) []PlotRow {
	labels := make(map[string]string)
	seen := make(map[PlotRow]bool)
	var out []PlotRow
	for _, r := range rows {
		label, ok := labels[r.Source]
		if !ok {
			label = fmt.Sprintf("Contig_%d", len(labels)+1)
			labels[r.Source] = label
		}
		row := PlotRow{ID: r.ID, Source: label, Start: r.Start, End: r.End, Strand: r.Strand}
		if seen[row] {
			continue
		}
		seen[row] = true
		out = append(out, row)
	}
	return out
}

// ReadPlotRowsFile reads back a plot table, with or without the
// annotation columns.
func ReadPlotRowsFile(path string) ([]PlotRow, error) {
	f, err := xopen.Ropen(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var rows []PlotRow
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 1<<16), 1<<22)
	first := true
	annotated := false
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if first {
			first = false
			switch text {
			case "ID\tsource\tstart\tend\tstrand":
			case "ID\tsource\tstart\tend\tstrand\tgene_type\tgene_name":
				annotated = true
			default:
				return nil, fmt.Errorf("report: unexpected plot table header %q", text)
			}
			continue
		}
		if text == "" {
			continue
		}
		fields := strings.Split(text, "\t")
		want := 5
		if annotated {
			want = 7
		}
		if len(fields) != want {
			return nil, fmt.Errorf("report: plot table row %d has %d columns, want %d", line, len(fields), want)
		}
		start, err := strconv.Atoi(fields[2])
		if err != nil {
			return nil, fmt.Errorf("report: plot table row %d has bad start %q: %v", line, fields[2], err)
		}
		end, err := strconv.Atoi(fields[3])
		if err != nil {
			return nil, fmt.Errorf("report: plot table row %d has bad end %q: %v", line, fields[3], err)
		}
		row := PlotRow{ID: fields[0], Source: fields[1], Start: start, End: end, Strand: fields[4]}
		if annotated {
			row.GeneType = fields[5]
			row.GeneName = fields[6]
		}
		rows = append(rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}

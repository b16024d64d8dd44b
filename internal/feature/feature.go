// Copyright ©2024 Ray Sinclair. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package feature joins predicted gene coordinates with alignment
// annotations and detects contigs carrying both gene categories.
package feature

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/biogo/biogo/seq"
	"github.com/shenwei356/xopen"

	"github.com/RaySinclair01/ARG-HMRG-Colocalization-Analyzer/internal/hits"
)

// GFF field positions.
const (
	seqNameField = iota
	sourceField
	typeField
	startField
	endField
	scoreField
	strandField
	frameField
	attributeField

	numGFFFields
)

// Feature is one predicted coding sequence.
type Feature struct {
	ContigID  string
	ProteinID string
	Start     int
	End       int
	Strand    seq.Strand
}

// Annotated is one row of the detailed colocalization report: a Feature
// joined with at most one alignment hit. A protein hit by both an ARG and
// an HMRG reference appears as two rows until MergeDuplicates collapses
// them. Unannotated features carry GeneType "Other" and empty annotation
// columns.
type Annotated struct {
	ContigID  string
	ProteinID string
	Start     int
	End       int
	Strand    seq.Strand
	GeneType  string
	GeneName  string
	PctIdent  string
	EValue    string
	BitScore  string
}

// ReadCDS reads Prodigal-style GFF from r and returns its CDS features.
// Comment and pragma lines are skipped. The protein identifier is the
// contig name joined to the numeric suffix of the ID attribute; a feature
// whose attributes carry no ID keeps an empty suffix rather than failing.
func ReadCDS(r io.Reader) ([]Feature, error) {
	var fs []Feature
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 1<<16), 1<<22)
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Split(text, "\t")
		if len(fields) < numGFFFields {
			return nil, fmt.Errorf("feature: gff row %d has %d columns, want %d", line, len(fields), numGFFFields)
		}
		if fields[typeField] != "CDS" {
			continue
		}
		start, err := strconv.Atoi(fields[startField])
		if err != nil {
			return nil, fmt.Errorf("feature: gff row %d has bad start %q: %v", line, fields[startField], err)
		}
		end, err := strconv.Atoi(fields[endField])
		if err != nil {
			return nil, fmt.Errorf("feature: gff row %d has bad end %q: %v", line, fields[endField], err)
		}
		contig := fields[seqNameField]
		fs = append(fs, Feature{
			ContigID:  contig,
			ProteinID: contig + "_" + idSuffix(fields[attributeField]),
			Start:     start,
			End:       end,
			Strand:    parseStrand(fields[strandField]),
		})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return fs, nil
}

// ReadCDSFile reads CDS features from the named GFF file, which may be
// plain or gzip compressed.
func ReadCDSFile(path string) ([]Feature, error) {
	f, err := xopen.Ropen(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCDS(f)
}

// idSuffix returns the final _-delimited token of the ID attribute value,
// or "" when the attributes carry no ID field.
func idSuffix(attributes string) string {
	_, after, ok := strings.Cut(attributes, "ID=")
	if !ok {
		return ""
	}
	value, _, _ := strings.Cut(after, ";")
	if i := strings.LastIndex(value, "_"); i >= 0 {
		value = value[i+1:]
	}
	return value
}

func parseStrand(s string) seq.Strand {
	switch s {
	case "+":
		return seq.Plus
	case "-":
		return seq.Minus
	}
	return seq.None
}

// StrandSymbol renders a strand the way the report columns carry it.
func StrandSymbol(s seq.Strand) string {
	switch s {
	case seq.Plus:
		return "+"
	case seq.Minus:
		return "-"
	}
	return "."
}

// ParseStrandSymbol is the inverse of StrandSymbol.
func ParseStrandSymbol(s string) seq.Strand { return parseStrand(s) }

// ContigFromProtein derives the contig identifier from a protein
// identifier by dropping the trailing _-delimited token. It matches the
// derivation used by ReadCDS so joins on protein identifiers agree with
// contig grouping.
func ContigFromProtein(proteinID string) string {
	if i := strings.LastIndex(proteinID, "_"); i >= 0 {
		return proteinID[:i]
	}
	return proteinID
}

// Colocalized returns the set of contigs whose hits span both gene
// categories.
func Colocalized(all []hits.Hit) map[string]bool {
	types := make(map[string]map[string]bool)
	for _, h := range all {
		contig := ContigFromProtein(h.ProteinID)
		if types[contig] == nil {
			types[contig] = make(map[string]bool)
		}
		types[contig][h.GeneType] = true
	}
	set := make(map[string]bool)
	for contig, t := range types {
		if t[hits.TypeARG] && t[hits.TypeHMRG] {
			set[contig] = true
		}
	}
	return set
}

// Join left-joins features with the unioned best hits on the protein
// identifier. A feature with no hit joins as a single "Other" row; a
// feature hit in both categories yields one row per category, in the
// order the hits were supplied. Rows are returned grouped by contig,
// ascending by start.
func Join(fs []Feature, all []hits.Hit) []Annotated {
	byProtein := make(map[string][]hits.Hit)
	for _, h := range all {
		byProtein[h.ProteinID] = append(byProtein[h.ProteinID], h)
	}

	var rows []Annotated
	for _, f := range fs {
		matched := byProtein[f.ProteinID]
		if len(matched) == 0 {
			rows = append(rows, Annotated{
				ContigID:  f.ContigID,
				ProteinID: f.ProteinID,
				Start:     f.Start,
				End:       f.End,
				Strand:    f.Strand,
				GeneType:  hits.TypeOther,
			})
			continue
		}
		for _, h := range matched {
			rows = append(rows, Annotated{
				ContigID:  f.ContigID,
				ProteinID: f.ProteinID,
				Start:     f.Start,
				End:       f.End,
				Strand:    f.Strand,
				GeneType:  h.GeneType,
				GeneName:  h.GeneName,
				PctIdent:  h.PctIdent,
				EValue:    h.EValue,
				BitScore:  h.BitScore,
			})
		}
	}
	sortRows(rows)
	return rows
}

func sortRows(rows []Annotated) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].ContigID != rows[j].ContigID {
			return rows[i].ContigID < rows[j].ContigID
		}
		return rows[i].Start < rows[j].Start
	})
}

// MergeDuplicates collapses the rows of each dually annotated protein into
// one: the gene types distinct, sorted and /-joined; the gene names
// distinct, non-empty, in first-seen order, " / "-joined; positional
// columns from the group's first row. "Other" rows never collide and pass
// through untouched. The result is re-sorted by contig and start.
func MergeDuplicates(rows []Annotated) []Annotated {
	groups := make(map[string][]Annotated)
	var order []string
	var other []Annotated
	for _, r := range rows {
		if r.GeneType == hits.TypeOther {
			other = append(other, r)
			continue
		}
		if _, ok := groups[r.ProteinID]; !ok {
			order = append(order, r.ProteinID)
		}
		groups[r.ProteinID] = append(groups[r.ProteinID], r)
	}

	merged := make([]Annotated, 0, len(order)+len(other))
	for _, id := range order {
		group := groups[id]
		if len(group) == 1 {
			merged = append(merged, group[0])
			continue
		}
		row := group[0]
		var types, names []string
		seenType := make(map[string]bool)
		seenName := make(map[string]bool)
		for _, g := range group {
			if !seenType[g.GeneType] {
				seenType[g.GeneType] = true
				types = append(types, g.GeneType)
			}
			if g.GeneName != "" && !seenName[g.GeneName] {
				seenName[g.GeneName] = true
				names = append(names, g.GeneName)
			}
		}
		sort.Strings(types)
		row.GeneType = strings.Join(types, "/")
		row.GeneName = strings.Join(names, " / ")
		merged = append(merged, row)
	}
	merged = append(merged, other...)
	sortRows(merged)
	return merged
}

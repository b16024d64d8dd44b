// Copyright ©2024 Ray Sinclair. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package hits loads BLAST/DIAMOND tabular alignment results and reduces
// them to the single best hit per query protein.
package hits

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shenwei356/xopen"

	"github.com/RaySinclair01/ARG-HMRG-Colocalization-Analyzer/internal/annot"
)

// Gene annotation categories.
const (
	TypeARG   = "ARG"
	TypeHMRG  = "HMRG"
	TypeOther = "Other"
)

// Tabular output field positions used here. The format carries twelve
// columns; the unused ones are skipped.
const (
	queryField    = 0
	subjectField  = 1
	pctIdentField = 2
	evalueField   = 10
	bitScoreField = 11

	numFields = 12
)

// Hit is one alignment record. The numeric columns keep their raw input
// text so report output round-trips exactly; the bit score is parsed as
// well for best-hit comparison.
type Hit struct {
	ProteinID string
	SubjectID string
	PctIdent  string
	EValue    string
	BitScore  string

	Score float64

	GeneType  string
	GeneName  string
	Accession string
}

// ReadHits reads all alignment records from r, tagging each with geneType.
// A row with fewer than twelve columns or a non-numeric bit score is a
// malformed-record error; the caller reports it and skips the sample.
func ReadHits(r io.Reader, geneType string) ([]Hit, error) {
	var all []Hit
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 1<<16), 1<<22)
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if text == "" {
			continue
		}
		fields := strings.Split(text, "\t")
		if len(fields) < numFields {
			return nil, fmt.Errorf("hits: row %d has %d columns, want at least %d", line, len(fields), numFields)
		}
		score, err := strconv.ParseFloat(fields[bitScoreField], 64)
		if err != nil {
			return nil, fmt.Errorf("hits: row %d has bad bit score %q: %v", line, fields[bitScoreField], err)
		}
		all = append(all, Hit{
			ProteinID: fields[queryField],
			SubjectID: fields[subjectField],
			PctIdent:  fields[pctIdentField],
			EValue:    fields[evalueField],
			BitScore:  fields[bitScoreField],
			Score:     score,
			GeneType:  geneType,
		})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return all, nil
}

// ReadHitsFile reads alignment records from the named file, which may be
// plain or gzip compressed.
func ReadHitsFile(path, geneType string) ([]Hit, error) {
	f, err := xopen.Ropen(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadHits(f, geneType)
}

// Best retains one hit per protein, the one with the highest bit score.
// On a tied score the earlier row wins, so the selection is deterministic
// for a fixed input ordering. Retained hits keep the order in which their
// protein was first seen.
func Best(all []Hit) []Hit {
	index := make(map[string]int)
	var best []Hit
	for _, h := range all {
		i, ok := index[h.ProteinID]
		if !ok {
			index[h.ProteinID] = len(best)
			best = append(best, h)
			continue
		}
		if h.Score > best[i].Score {
			best[i] = h
		}
	}
	return best
}

// AnnotateARG names each hit with the final |-delimited token of its
// subject identifier, the CARD convention.
func AnnotateARG(hs []Hit) {
	for i := range hs {
		parts := strings.Split(strings.TrimSpace(hs[i].SubjectID), "|")
		hs[i].GeneName = parts[len(parts)-1]
	}
}

// AnnotateHMRG extracts each hit's curated accession and translates it to
// a gene name through the table. Accessions missing from the table name
// themselves.
func AnnotateHMRG(hs []Hit, table *annot.Table) {
	for i := range hs {
		hs[i].Accession = annot.ExtractAccession(hs[i].SubjectID)
		hs[i].GeneName = table.Translate(hs[i].Accession)
	}
}

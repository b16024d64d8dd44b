// Copyright ©2024 Ray Sinclair. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hits

import (
	"strings"
	"testing"

	"github.com/RaySinclair01/ARG-HMRG-Colocalization-Analyzer/internal/annot"
)

// row builds a twelve-column tabular hit line.
func row(query, subject, pident, evalue, bitscore string) string {
	fields := []string{query, subject, pident, "150", "3", "0", "1", "150", "10", "160", evalue, bitscore}
	return strings.Join(fields, "\t")
}

func TestReadHits(t *testing.T) {
	in := row("k141_1_1", "gb|X|tetA", "99.3", "1.2e-50", "200") + "\n" +
		row("k141_1_2", "gb|Y|merA", "88.0", "3e-20", "101.5") + "\n"
	hs, err := ReadHits(strings.NewReader(in), TypeARG)
	if err != nil {
		t.Fatalf("ReadHits: %v", err)
	}
	if len(hs) != 2 {
		t.Fatalf("got %d hits, want 2", len(hs))
	}
	want := Hit{
		ProteinID: "k141_1_1", SubjectID: "gb|X|tetA",
		PctIdent: "99.3", EValue: "1.2e-50", BitScore: "200",
		Score: 200, GeneType: TypeARG,
	}
	if hs[0] != want {
		t.Errorf("hit[0] = %+v, want %+v", hs[0], want)
	}
}

func TestReadHitsMalformed(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"TooFewColumns", "a\tb\tc\n"},
		{"BadBitScore", row("q", "s", "99", "1e-5", "not-a-number") + "\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadHits(strings.NewReader(tt.in), TypeARG); err == nil {
				t.Error("ReadHits accepted malformed input")
			}
		})
	}
}

func TestBest(t *testing.T) {
	in := row("p1", "first", "90", "1e-10", "10") + "\n" +
		row("p1", "second", "91", "1e-12", "25") + "\n" +
		row("p1", "third", "92", "1e-12", "25") + "\n" +
		row("p2", "only", "80", "1e-5", "50") + "\n"
	hs, err := ReadHits(strings.NewReader(in), TypeHMRG)
	if err != nil {
		t.Fatalf("ReadHits: %v", err)
	}
	best := Best(hs)
	if len(best) != 2 {
		t.Fatalf("got %d best hits, want 2", len(best))
	}
	// Deterministic tie-break: the first row at the maximum score wins.
	if best[0].SubjectID != "second" {
		t.Errorf("best hit for p1 is %q, want %q", best[0].SubjectID, "second")
	}
	if best[1].ProteinID != "p2" {
		t.Errorf("best[1] is for %q, want p2 in first-seen order", best[1].ProteinID)
	}
}

func TestBestDeterministic(t *testing.T) {
	in := row("p1", "a", "90", "1e-10", "25") + "\n" +
		row("p1", "b", "90", "1e-10", "25") + "\n"
	for run := 0; run < 10; run++ {
		hs, err := ReadHits(strings.NewReader(in), TypeARG)
		if err != nil {
			t.Fatalf("ReadHits: %v", err)
		}
		if got := Best(hs)[0].SubjectID; got != "a" {
			t.Fatalf("run %d: tie resolved to %q, want %q", run, got, "a")
		}
	}
}

func TestAnnotateARG(t *testing.T) {
	hs := []Hit{
		{SubjectID: "gb|ARO:3000165|tetA"},
		{SubjectID: "singleton"},
	}
	AnnotateARG(hs)
	if hs[0].GeneName != "tetA" {
		t.Errorf("GeneName = %q, want tetA", hs[0].GeneName)
	}
	if hs[1].GeneName != "singleton" {
		t.Errorf("GeneName = %q, want singleton", hs[1].GeneName)
	}
}

func TestAnnotateHMRG(t *testing.T) {
	table, err := annot.ReadTable(strings.NewReader("accession\tgene_name\nP12345\tcopA\n"))
	if err != nil {
		t.Fatalf("ReadTable: %v", err)
	}
	hs := []Hit{
		{SubjectID: "BAC01|copA|sp|P12345|Cu"},
		{SubjectID: "BAC02|xyz|sp|Q99999|Zn"}, // not in the table
	}
	AnnotateHMRG(hs, table)
	if hs[0].Accession != "P12345" || hs[0].GeneName != "copA" {
		t.Errorf("hit[0] = %q/%q, want P12345/copA", hs[0].Accession, hs[0].GeneName)
	}
	if hs[1].GeneName != "Q99999" {
		t.Errorf("hit[1] fallback GeneName = %q, want Q99999", hs[1].GeneName)
	}
}

// Copyright ©2024 Ray Sinclair. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report

import (
	"testing"

	"github.com/biogo/biogo/seq"

	"github.com/RaySinclair01/ARG-HMRG-Colocalization-Analyzer/internal/feature"
	"github.com/RaySinclair01/ARG-HMRG-Colocalization-Analyzer/internal/hits"
)

func TestDensityRank(t *testing.T) {
	var rows []feature.Annotated
	// c1: 3 ARG, 2 HMRG -> 6. c2: 1 ARG, 1 HMRG -> 1. c3: 2 ARG, 0 HMRG -> 0.
	for i := 0; i < 3; i++ {
		rows = append(rows, annotated("c1", "c1_a", hits.TypeARG, "a"))
	}
	for i := 0; i < 2; i++ {
		rows = append(rows, annotated("c1", "c1_h", hits.TypeHMRG, "h"))
	}
	rows = append(rows,
		annotated("c2", "c2_1", hits.TypeARG, "a"),
		annotated("c2", "c2_2", hits.TypeHMRG, "h"),
		annotated("c3", "c3_1", hits.TypeARG, "a"),
		annotated("c3", "c3_2", hits.TypeARG, "a"),
		annotated("c1", "c1_o", hits.TypeOther, ""),
	)

	scores := DensityRank(rows, 10)
	if len(scores) != 2 {
		t.Fatalf("got %d scored contigs, want 2 (zero scores excluded): %+v", len(scores), scores)
	}
	if s := scores[0]; s.ContigID != "c1" || s.Score != 6 || s.ARG != 3 || s.HMRG != 2 {
		t.Errorf("scores[0] = %+v, want c1 with 3x2=6", s)
	}
	if scores[1].ContigID != "c2" {
		t.Errorf("scores[1] = %+v, want c2", scores[1])
	}

	if top := DensityRank(rows, 1); len(top) != 1 || top[0].ContigID != "c1" {
		t.Errorf("top-1 = %+v, want only c1", top)
	}
}

func TestSelectContigs(t *testing.T) {
	rows := []feature.Annotated{
		annotated("c1", "c1_1", hits.TypeARG, "a"),
		annotated("c2", "c2_1", hits.TypeHMRG, "h"),
		annotated("c1", "c1_2", hits.TypeOther, ""),
	}
	selected := SelectContigs(rows, []ContigScore{{ContigID: "c1"}})
	if len(selected) != 2 {
		t.Fatalf("got %d rows, want 2", len(selected))
	}
	for _, r := range selected {
		if r.ContigID != "c1" {
			t.Errorf("row from wrong contig selected: %+v", r)
		}
	}
}

func TestPlotRows(t *testing.T) {
	rows := []feature.Annotated{
		{ContigID: "k141_9", ProteinID: "k141_9_1", Start: 1, End: 90, Strand: seq.Plus, GeneType: "ARG", GeneName: "tetA"},
		{ContigID: "k141_9", ProteinID: "k141_9_2", Start: 100, End: 190, Strand: seq.Minus, GeneType: "HMRG", GeneName: "copA"},
		{ContigID: "k141_3", ProteinID: "k141_3_1", Start: 5, End: 50, Strand: seq.Plus, GeneType: "Other", GeneName: ""},
	}

	t.Run("Annotated", func(t *testing.T) {
		out := PlotRows(rows, PlotOptions{Annotations: true})
		if len(out) != 3 {
			t.Fatalf("got %d rows, want 3", len(out))
		}
		want := PlotRow{ID: "k141_9_1", Source: "k141_9", Start: 1, End: 90, Strand: "+", GeneType: "ARG", GeneName: "tetA"}
		if out[0] != want {
			t.Errorf("row[0] = %+v, want %+v", out[0], want)
		}
	})

	t.Run("Renamed", func(t *testing.T) {
		out := PlotRows(rows, PlotOptions{RenameContigs: true})
		// First-seen order: k141_9 -> Contig_1, k141_3 -> Contig_2.
		if out[0].Source != "Contig_1" || out[1].Source != "Contig_1" || out[2].Source != "Contig_2" {
			t.Errorf("renaming wrong: %+v", out)
		}
		if out[0].GeneType != "" {
			t.Errorf("annotation column present without Annotations: %+v", out[0])
		}
	})
}

func TestExportForPlotter(t *testing.T) {
	rows := []PlotRow{
		{ID: "p1", Source: "k141_9", Start: 1, End: 90, Strand: "+", GeneType: "ARG", GeneName: "tetA"},
		// Same gene carried twice with different annotations: projection
		// to five columns makes them exact duplicates.
		{ID: "p1", Source: "k141_9", Start: 1, End: 90, Strand: "+", GeneType: "HMRG", GeneName: "copA"},
		{ID: "p2", Source: "k141_3", Start: 7, End: 70, Strand: "-", GeneType: "Other", GeneName: ""},
	}
	out := ExportForPlotter(rows)
	if len(out) != 2 {
		t.Fatalf("got %d rows, want 2 after dedup: %+v", len(out), out)
	}
	want := PlotRow{ID: "p1", Source: "Contig_1", Start: 1, End: 90, Strand: "+"}
	if out[0] != want {
		t.Errorf("row[0] = %+v, want %+v", out[0], want)
	}
	if out[1].Source != "Contig_2" {
		t.Errorf("row[1].Source = %q, want Contig_2", out[1].Source)
	}
}

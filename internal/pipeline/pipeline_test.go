// Copyright ©2024 Ray Sinclair. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/RaySinclair01/ARG-HMRG-Colocalization-Analyzer/internal/annot"
	"github.com/RaySinclair01/ARG-HMRG-Colocalization-Analyzer/internal/feature"
	"github.com/RaySinclair01/ARG-HMRG-Colocalization-Analyzer/internal/report"
)

func testConfig(t *testing.T) Config {
	t.Helper()
	root := t.TempDir()
	cfg := Config{
		InputDir:   filepath.Join(root, "analysis_results"),
		DetailsDir: filepath.Join(root, "details"),
		PairDir:    filepath.Join(root, "pairs"),
		HMRGDir:    filepath.Join(root, "hmrg"),
		ClusterDir: filepath.Join(root, "cluster"),
		TopDir:     filepath.Join(root, "top"),
		FinalDir:   filepath.Join(root, "final"),

		MapPath: filepath.Join(root, "bacmet_annotation_map.tsv"),

		CARDSuffix:    "_card_hits.m8",
		BacMetSuffix:  "_bacmet_hits.tsv",
		GFFSuffix:     "_predicted_genes.gff",
		DetailsSuffix: "_details.tsv",

		TopK: 10,
	}
	if err := os.MkdirAll(cfg.InputDir, 0o755); err != nil {
		t.Fatal(err)
	}
	return cfg
}

func write(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// hitRow builds one twelve-column alignment line.
func hitRow(query, subject, bitscore string) string {
	fields := []string{query, subject, "99.0", "150", "3", "0", "1", "150", "10", "160", "1.5e-50", bitscore}
	return strings.Join(fields, "\t") + "\n"
}

// writeSample lays down one sample with a single contig carrying one ARG
// and one HMRG gene plus an unannotated gene.
func writeSample(t *testing.T, cfg Config, sample string) {
	t.Helper()
	write(t, filepath.Join(cfg.InputDir, sample+cfg.CARDSuffix),
		hitRow("k141_1_1", "gb|ARO:3000165|tetA", "200"))
	write(t, filepath.Join(cfg.InputDir, sample+cfg.BacMetSuffix),
		hitRow("k141_1_2", "BAC0001|copA|sp|P12345|Cu", "150")+
			hitRow("k141_1_2", "BAC0001|copA|sp|P12345|Cu", "90"))
	write(t, filepath.Join(cfg.InputDir, sample+cfg.GFFSuffix),
		"##gff-version 3\n"+
			"k141_1\tProdigal\tCDS\t100\t400\t9.9\t+\t0\tID=1_1;partial=00\n"+
			"k141_1\tProdigal\tCDS\t500\t900\t8.8\t-\t0\tID=1_2;partial=00\n"+
			"k141_1\tProdigal\tCDS\t950\t990\t1.1\t+\t0\tID=1_3;partial=00\n"+
			"k141_2\tProdigal\tCDS\t10\t310\t2.2\t+\t0\tID=2_1;partial=00\n")
}

func loadTable(t *testing.T, cfg Config) *annot.Table {
	t.Helper()
	write(t, cfg.MapPath, "accession\tgene_name\nP12345\tcopA\n")
	table, err := annot.ReadTableFile(cfg.MapPath)
	if err != nil {
		t.Fatal(err)
	}
	return table
}

func TestEndToEnd(t *testing.T) {
	cfg := testConfig(t)
	writeSample(t, cfg, "S1")
	table := loadTable(t, cfg)

	if err := cfg.Colocalize(table, "S1"); err != nil {
		t.Fatalf("Colocalize: %v", err)
	}
	rows, err := feature.ReadDetailsFile(filepath.Join(cfg.DetailsDir, "S1"+cfg.DetailsSuffix))
	if err != nil {
		t.Fatalf("reading details: %v", err)
	}
	// Only the colocalized contig's features appear: three genes, one
	// unannotated.
	if len(rows) != 3 {
		t.Fatalf("got %d detail rows, want 3: %+v", len(rows), rows)
	}
	contigs := make(map[string]bool)
	types := make(map[string]bool)
	for _, r := range rows {
		contigs[r.ContigID] = true
		types[r.GeneType] = true
	}
	if len(contigs) != 1 || !contigs["k141_1"] {
		t.Errorf("detail contigs = %v, want only k141_1", contigs)
	}
	if !types["ARG"] || !types["HMRG"] || !types["Other"] {
		t.Errorf("detail gene types = %v", types)
	}
	for _, r := range rows {
		if r.ProteinID == "k141_1_2" && r.BitScore != "150" {
			t.Errorf("best-hit selection kept bit score %q, want 150", r.BitScore)
		}
	}

	if err := cfg.PairAbundance("S1"); err != nil {
		t.Fatalf("PairAbundance: %v", err)
	}
	pairData, err := os.ReadFile(filepath.Join(cfg.PairDir, "S1_pair_abundance.tsv"))
	if err != nil {
		t.Fatalf("reading pair abundance: %v", err)
	}
	wantPairs := "arg_gene_name\thmrg_gene_name\tshared_contig_count\ntetA\tcopA\t1\n"
	if string(pairData) != wantPairs {
		t.Errorf("pair abundance = %q, want %q", pairData, wantPairs)
	}

	if err := cfg.HMRGAbundance(table, "S1"); err != nil {
		t.Fatalf("HMRGAbundance: %v", err)
	}
	hmrgData, err := os.ReadFile(filepath.Join(cfg.HMRGDir, "S1_hmrg_abundance.tsv"))
	if err != nil {
		t.Fatalf("reading HMRG abundance: %v", err)
	}
	// The raw path counts both hits on k141_1_2.
	wantHMRG := "hmrg_gene_name\tabundance_count\ncopA\t2\n"
	if string(hmrgData) != wantHMRG {
		t.Errorf("HMRG abundance = %q, want %q", hmrgData, wantHMRG)
	}

	if err := cfg.TopContigs("S1"); err != nil {
		t.Fatalf("TopContigs: %v", err)
	}
	if err := cfg.PlotExport("S1"); err != nil {
		t.Fatalf("PlotExport: %v", err)
	}
	final, err := report.ReadPlotRowsFile(filepath.Join(cfg.FinalDir, "S1_final_plot_data.tsv"))
	if err != nil {
		t.Fatalf("reading final plot data: %v", err)
	}
	if len(final) != 3 {
		t.Fatalf("got %d final rows, want 3: %+v", len(final), final)
	}
	for _, r := range final {
		if r.Source != "Contig_1" {
			t.Errorf("final row source = %q, want Contig_1", r.Source)
		}
		if r.GeneType != "" {
			t.Errorf("final row carries annotation columns: %+v", r)
		}
	}
}

func TestColocalizeNoColocalizedContigs(t *testing.T) {
	cfg := testConfig(t)
	table := loadTable(t, cfg)
	// ARG and HMRG on different contigs.
	write(t, filepath.Join(cfg.InputDir, "S2"+cfg.CARDSuffix),
		hitRow("k141_1_1", "gb|X|tetA", "200"))
	write(t, filepath.Join(cfg.InputDir, "S2"+cfg.BacMetSuffix),
		hitRow("k141_2_1", "BAC0001|copA|sp|P12345|Cu", "150"))
	write(t, filepath.Join(cfg.InputDir, "S2"+cfg.GFFSuffix),
		"k141_1\tProdigal\tCDS\t1\t90\t1\t+\t0\tID=1_1\n")

	if err := cfg.Colocalize(table, "S2"); err != nil {
		t.Fatalf("Colocalize: %v", err)
	}
	if _, err := os.Stat(filepath.Join(cfg.DetailsDir, "S2"+cfg.DetailsSuffix)); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("details file written for a sample with no colocalization: %v", err)
	}
}

func TestColocalizeMissingInput(t *testing.T) {
	cfg := testConfig(t)
	table := loadTable(t, cfg)
	// Only the CARD file exists: the sample is skipped, not failed.
	write(t, filepath.Join(cfg.InputDir, "S3"+cfg.CARDSuffix),
		hitRow("k141_1_1", "gb|X|tetA", "200"))
	if err := cfg.Colocalize(table, "S3"); err != nil {
		t.Errorf("missing inputs should skip, got error: %v", err)
	}
}

func TestDetect(t *testing.T) {
	cfg := testConfig(t)
	for _, name := range []string{"b_card_hits.m8", "a_card_hits.m8", "a_bacmet_hits.tsv", "notes.txt"} {
		write(t, filepath.Join(cfg.InputDir, name), "")
	}
	samples, err := Detect(cfg.InputDir, cfg.CARDSuffix)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(samples) != 2 || samples[0] != "a" || samples[1] != "b" {
		t.Errorf("Detect = %v, want [a b]", samples)
	}
}

func TestEachIsolatesFailures(t *testing.T) {
	var seen []string
	Each([]string{"s1", "s2", "s3"}, func(sample string) error {
		seen = append(seen, sample)
		if sample == "s1" {
			return errors.New("boom")
		}
		if sample == "s2" {
			panic("worse")
		}
		return nil
	})
	if len(seen) != 3 {
		t.Errorf("Each stopped early: processed %v", seen)
	}
}

// Copyright ©2024 Ray Sinclair. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pipeline drives the per-sample analysis stages: colocalization
// detection, abundance counting, density ranking and plot-table export.
// Samples are independent units of work; a failure in one is reported and
// the run continues with the next.
package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/RaySinclair01/ARG-HMRG-Colocalization-Analyzer/internal/annot"
	"github.com/RaySinclair01/ARG-HMRG-Colocalization-Analyzer/internal/feature"
	"github.com/RaySinclair01/ARG-HMRG-Colocalization-Analyzer/internal/hits"
	"github.com/RaySinclair01/ARG-HMRG-Colocalization-Analyzer/internal/report"
	"github.com/RaySinclair01/ARG-HMRG-Colocalization-Analyzer/logger"
)

// Config names every directory, file suffix and parameter the stages use.
// All fields are plain values so tests can point the stages at temp
// directories.
type Config struct {
	InputDir   string // aligner and gene-caller outputs, per sample
	DetailsDir string // detailed colocalization reports
	PairDir    string // pair abundance reports
	HMRGDir    string // HMRG abundance reports
	ClusterDir string // merged plot tables, all colocalized contigs
	TopDir     string // merged plot tables, top-K contigs
	FinalDir   string // renamed, deduplicated tables for the plotter

	MapPath string // persisted translation table

	CARDSuffix    string
	BacMetSuffix  string
	GFFSuffix     string
	DetailsSuffix string

	TopK   int
	GFFOut bool // also write a GFF of each sample's colocalized features
}

// DefaultConfig mirrors the conventional on-disk layout of the upstream
// annotation runs, with every value overridable from the environment.
func DefaultConfig() Config {
	return Config{
		InputDir:   EnvOr("COLOC_INPUT_DIR", "analysis_results"),
		DetailsDir: EnvOr("COLOC_DETAILS_DIR", "colocalization_analysis_final"),
		PairDir:    EnvOr("COLOC_PAIR_DIR", "abundance_analysis_pairs"),
		HMRGDir:    EnvOr("COLOC_HMRG_DIR", "abundance_analysis_hmrg"),
		ClusterDir: EnvOr("COLOC_CLUSTER_DIR", "cluster_plotting_data_final"),
		TopDir:     EnvOr("COLOC_TOP_DIR", "top_contigs_for_plotting"),
		FinalDir:   EnvOr("COLOC_FINAL_DIR", "final_data_for_visualization"),

		MapPath: EnvOr("COLOC_MAP_FILE", "bacmet_annotation_map.tsv"),

		CARDSuffix:    EnvOr("COLOC_CARD_SUFFIX", "_card_hits.m8"),
		BacMetSuffix:  EnvOr("COLOC_BACMET_SUFFIX", "_bacmet_hits.tsv"),
		GFFSuffix:     EnvOr("COLOC_GFF_SUFFIX", "_predicted_genes.gff"),
		DetailsSuffix: EnvOr("COLOC_DETAILS_SUFFIX", "_colocalization_full_details_annotated.tsv"),

		TopK: EnvInt("COLOC_TOP_K", 10),
	}
}

// EnvOr returns the environment value for key, or def when unset.
func EnvOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// EnvInt returns the integer environment value for key, or def when unset
// or unparseable.
func EnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		logger.Warn("ignoring bad integer in environment", zap.String("key", key), zap.String("value", v))
		return def
	}
	return i
}

// TopSuffix is the file suffix of the top-K plot tables for the
// configured K.
func (c Config) TopSuffix() string {
	return fmt.Sprintf("_top_%d_contigs_plot_data.tsv", c.TopK)
}

// Detect returns the sorted sample names found in dir by trimming suffix
// from matching file names.
func Detect(dir, suffix string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var samples []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, suffix) {
			continue
		}
		samples = append(samples, strings.TrimSuffix(name, suffix))
	}
	sort.Strings(samples)
	return samples, nil
}

// Each runs fn for every sample. Errors, including recovered panics, are
// logged with the sample's name and do not stop the run.
func Each(samples []string, fn func(sample string) error) {
	for _, sample := range samples {
		if err := runGuarded(sample, fn); err != nil {
			logger.Error("sample failed", zap.String("sample", sample), zap.Error(err))
		}
	}
}

func runGuarded(sample string, fn func(string) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during sample processing: %v", r)
		}
	}()
	return fn(sample)
}

// missing reports and records any of the given inputs being absent.
func missing(sample string, paths ...string) bool {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			logger.Warn("missing input, skipping sample",
				zap.String("sample", sample), zap.String("path", p))
			return true
		}
	}
	return false
}

// BuildMap builds the translation table from the reference fasta and
// persists it to out.
func BuildMap(fastaPath, out string) error {
	table, err := annot.BuildTableFile(fastaPath)
	if err != nil {
		return err
	}
	if err := table.WriteFile(out); err != nil {
		return err
	}
	logger.Info("wrote translation table",
		zap.String("path", out), zap.Int("accessions", table.Len()))
	return nil
}

// Colocalize runs the colocalization stage for one sample: best-hit
// selection over both alignment sources, contig-level detection, the left
// join with the predicted genes and the detailed report.
func (c Config) Colocalize(table *annot.Table, sample string) error {
	cardPath := filepath.Join(c.InputDir, sample+c.CARDSuffix)
	bacmetPath := filepath.Join(c.InputDir, sample+c.BacMetSuffix)
	gffPath := filepath.Join(c.InputDir, sample+c.GFFSuffix)
	if missing(sample, cardPath, bacmetPath, gffPath) {
		return nil
	}

	cardHits, err := hits.ReadHitsFile(cardPath, hits.TypeARG)
	if err != nil {
		return err
	}
	arg := hits.Best(cardHits)
	hits.AnnotateARG(arg)

	bacmetHits, err := hits.ReadHitsFile(bacmetPath, hits.TypeHMRG)
	if err != nil {
		return err
	}
	hmrg := hits.Best(bacmetHits)
	hits.AnnotateHMRG(hmrg, table)

	all := make([]hits.Hit, 0, len(arg)+len(hmrg))
	all = append(all, arg...)
	all = append(all, hmrg...)

	colocalized := feature.Colocalized(all)
	if len(colocalized) == 0 {
		logger.Info("no colocalized contigs", zap.String("sample", sample))
		return nil
	}

	features, err := feature.ReadCDSFile(gffPath)
	if err != nil {
		return err
	}
	selected := features[:0:0]
	for _, f := range features {
		if colocalized[f.ContigID] {
			selected = append(selected, f)
		}
	}

	rows := feature.Join(selected, all)

	if err := os.MkdirAll(c.DetailsDir, 0o755); err != nil {
		return err
	}
	out := filepath.Join(c.DetailsDir, sample+c.DetailsSuffix)
	if err := feature.WriteDetailsFile(out, rows); err != nil {
		return err
	}
	if c.GFFOut {
		f, err := os.Create(filepath.Join(c.DetailsDir, sample+"_colocalized.gff"))
		if err != nil {
			return err
		}
		if err := feature.WriteGFF(f, "colocate", rows); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	logger.Info("wrote colocalization details",
		zap.String("sample", sample),
		zap.Int("contigs", len(colocalized)),
		zap.Int("rows", len(rows)),
		zap.String("path", out))
	return nil
}

// PairAbundance counts co-occurring gene name pairs over one sample's
// detail report.
func (c Config) PairAbundance(sample string) error {
	detailsPath := filepath.Join(c.DetailsDir, sample+c.DetailsSuffix)
	if missing(sample, detailsPath) {
		return nil
	}
	rows, err := feature.ReadDetailsFile(detailsPath)
	if err != nil {
		return err
	}
	pairs := report.PairCounts(rows)
	if len(pairs) == 0 {
		logger.Info("no co-occurring gene pairs", zap.String("sample", sample))
		return nil
	}
	if err := os.MkdirAll(c.PairDir, 0o755); err != nil {
		return err
	}
	out := filepath.Join(c.PairDir, sample+"_pair_abundance.tsv")
	if err := report.WritePairCountsFile(out, pairs); err != nil {
		return err
	}
	logger.Info("wrote pair abundance", zap.String("sample", sample),
		zap.Int("pairs", len(pairs)), zap.String("path", out))
	return nil
}

// HMRGAbundance counts translated HMRG gene names over one sample's raw,
// unfiltered alignment hits.
func (c Config) HMRGAbundance(table *annot.Table, sample string) error {
	bacmetPath := filepath.Join(c.InputDir, sample+c.BacMetSuffix)
	if missing(sample, bacmetPath) {
		return nil
	}
	raw, err := hits.ReadHitsFile(bacmetPath, hits.TypeHMRG)
	if err != nil {
		return err
	}
	counts := report.HMRGAbundance(raw, table)
	if len(counts) == 0 {
		logger.Info("no HMRG hits", zap.String("sample", sample))
		return nil
	}
	if err := os.MkdirAll(c.HMRGDir, 0o755); err != nil {
		return err
	}
	out := filepath.Join(c.HMRGDir, sample+"_hmrg_abundance.tsv")
	if err := report.WriteNameCountsFile(out, counts); err != nil {
		return err
	}
	logger.Info("wrote HMRG abundance", zap.String("sample", sample),
		zap.Int("genes", len(counts)), zap.String("path", out))
	return nil
}

// ClusterData merges dual annotations in one sample's detail report and
// writes the full plot table for its colocalized contigs.
func (c Config) ClusterData(sample string) error {
	detailsPath := filepath.Join(c.DetailsDir, sample+c.DetailsSuffix)
	if missing(sample, detailsPath) {
		return nil
	}
	rows, err := feature.ReadDetailsFile(detailsPath)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		logger.Info("empty detail report", zap.String("sample", sample))
		return nil
	}
	merged := feature.MergeDuplicates(rows)
	opt := report.PlotOptions{Annotations: true}
	plot := report.PlotRows(merged, opt)
	if err := os.MkdirAll(c.ClusterDir, 0o755); err != nil {
		return err
	}
	out := filepath.Join(c.ClusterDir, sample+"_plot_data.tsv")
	if err := report.WritePlotRowsFile(out, plot, opt); err != nil {
		return err
	}
	logger.Info("wrote cluster plot data", zap.String("sample", sample),
		zap.Int("rows", len(plot)), zap.String("path", out))
	return nil
}

// TopContigs ranks one sample's contigs by colocalization density and
// writes the merged plot table for the top K.
func (c Config) TopContigs(sample string) error {
	detailsPath := filepath.Join(c.DetailsDir, sample+c.DetailsSuffix)
	if missing(sample, detailsPath) {
		return nil
	}
	rows, err := feature.ReadDetailsFile(detailsPath)
	if err != nil {
		return err
	}
	scores := report.DensityRank(rows, c.TopK)
	if len(scores) == 0 {
		logger.Info("no contigs with positive density", zap.String("sample", sample))
		return nil
	}
	merged := feature.MergeDuplicates(report.SelectContigs(rows, scores))
	opt := report.PlotOptions{Annotations: true}
	plot := report.PlotRows(merged, opt)
	if err := os.MkdirAll(c.TopDir, 0o755); err != nil {
		return err
	}
	out := filepath.Join(c.TopDir, sample+c.TopSuffix())
	if err := report.WritePlotRowsFile(out, plot, opt); err != nil {
		return err
	}
	logger.Info("wrote top contig plot data", zap.String("sample", sample),
		zap.Int("contigs", len(scores)), zap.String("path", out))
	return nil
}

// PlotExport converts one sample's top-contig table to the external
// plotter's five-column layout with renamed contigs and no duplicate
// rows.
func (c Config) PlotExport(sample string) error {
	inPath := filepath.Join(c.TopDir, sample+c.TopSuffix())
	if missing(sample, inPath) {
		return nil
	}
	rows, err := report.ReadPlotRowsFile(inPath)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		logger.Info("empty plot table", zap.String("sample", sample))
		return nil
	}
	out := report.ExportForPlotter(rows)
	if err := os.MkdirAll(c.FinalDir, 0o755); err != nil {
		return err
	}
	outPath := filepath.Join(c.FinalDir, sample+"_final_plot_data.tsv")
	if err := report.WritePlotRowsFile(outPath, out, report.PlotOptions{}); err != nil {
		return err
	}
	logger.Info("wrote final plot data", zap.String("sample", sample),
		zap.Int("rows", len(out)), zap.String("path", outPath))
	return nil
}

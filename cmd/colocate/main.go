// Copyright ©2024 Ray Sinclair. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// colocate detects contigs carrying both an antibiotic resistance gene
// and a heavy metal resistance gene annotation, and writes the detailed
// per-sample colocalization report. With -gff it also writes the
// colocalized features as GFF for genome browsers.
package main

import (
	"flag"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/RaySinclair01/ARG-HMRG-Colocalization-Analyzer/internal/annot"
	"github.com/RaySinclair01/ARG-HMRG-Colocalization-Analyzer/internal/pipeline"
	"github.com/RaySinclair01/ARG-HMRG-Colocalization-Analyzer/logger"
)

func main() {
	godotenv.Load()
	cfg := pipeline.DefaultConfig()

	flag.StringVar(&cfg.InputDir, "in", cfg.InputDir, "directory holding per-sample aligner and gene-caller outputs")
	flag.StringVar(&cfg.DetailsDir, "out", cfg.DetailsDir, "directory for detailed reports")
	flag.StringVar(&cfg.MapPath, "map", cfg.MapPath, "translation table path")
	flag.StringVar(&cfg.CARDSuffix, "card-suffix", cfg.CARDSuffix, "ARG hit file suffix")
	flag.StringVar(&cfg.BacMetSuffix, "bacmet-suffix", cfg.BacMetSuffix, "HMRG hit file suffix")
	flag.StringVar(&cfg.GFFSuffix, "gff-suffix", cfg.GFFSuffix, "gene prediction file suffix")
	flag.BoolVar(&cfg.GFFOut, "gff", false, "also write colocalized features as GFF")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Parse()

	if err := logger.Init(*verbose); err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	table, err := annot.ReadTableFile(cfg.MapPath)
	if err != nil {
		logger.Error("failed to load translation table",
			zap.String("path", cfg.MapPath), zap.Error(err))
		os.Exit(1)
	}
	logger.Info("loaded translation table", zap.Int("accessions", table.Len()))

	samples, err := pipeline.Detect(cfg.InputDir, cfg.CARDSuffix)
	if err != nil {
		logger.Error("failed to scan input directory",
			zap.String("dir", cfg.InputDir), zap.Error(err))
		os.Exit(1)
	}
	logger.Info("detected samples", zap.Int("count", len(samples)), zap.Strings("samples", samples))

	pipeline.Each(samples, func(sample string) error {
		return cfg.Colocalize(table, sample)
	})
}

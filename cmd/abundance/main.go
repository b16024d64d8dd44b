// Copyright ©2024 Ray Sinclair. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// abundance writes two reports per sample: the number of contigs shared
// by each co-occurring ARG/HMRG gene name pair, counted from the
// colocalization details, and the raw occurrence frequency of each
// translated HMRG gene name, counted from the unfiltered alignment hits.
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

	flag.StringVar(&cfg.DetailsDir, "details", cfg.DetailsDir, "directory holding detailed reports")
	flag.StringVar(&cfg.InputDir, "hits", cfg.InputDir, "directory holding raw alignment hits")
	flag.StringVar(&cfg.MapPath, "map", cfg.MapPath, "translation table path")
	flag.StringVar(&cfg.PairDir, "pairs-out", cfg.PairDir, "directory for pair abundance reports")
	flag.StringVar(&cfg.HMRGDir, "hmrg-out", cfg.HMRGDir, "directory for HMRG abundance reports")
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

	samples, err := pipeline.Detect(cfg.DetailsDir, cfg.DetailsSuffix)
	if err != nil {
		logger.Error("failed to scan details directory",
			zap.String("dir", cfg.DetailsDir), zap.Error(err))
		os.Exit(1)
	}
	logger.Info("detected samples", zap.Int("count", len(samples)), zap.Strings("samples", samples))

	pipeline.Each(samples, func(sample string) error {
		if err := cfg.PairAbundance(sample); err != nil {
			return err
		}
		return cfg.HMRGAbundance(table, sample)
	})
}

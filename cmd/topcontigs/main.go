// Copyright ©2024 Ray Sinclair. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// topcontigs ranks each sample's contigs by colocalization density, the
// product of their ARG and HMRG annotation counts, and writes the merged
// plot table for the highest scoring contigs.
package main

import (
	"flag"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/RaySinclair01/ARG-HMRG-Colocalization-Analyzer/internal/pipeline"
	"github.com/RaySinclair01/ARG-HMRG-Colocalization-Analyzer/logger"
)

func main() {
	godotenv.Load()
	cfg := pipeline.DefaultConfig()

	flag.StringVar(&cfg.DetailsDir, "details", cfg.DetailsDir, "directory holding detailed reports")
	flag.StringVar(&cfg.TopDir, "out", cfg.TopDir, "directory for top contig plot tables")
	flag.IntVar(&cfg.TopK, "top", cfg.TopK, "number of contigs to keep")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Parse()

	if err := logger.Init(*verbose); err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	samples, err := pipeline.Detect(cfg.DetailsDir, cfg.DetailsSuffix)
	if err != nil {
		logger.Error("failed to scan details directory",
			zap.String("dir", cfg.DetailsDir), zap.Error(err))
		os.Exit(1)
	}
	logger.Info("detected samples", zap.Int("count", len(samples)), zap.Strings("samples", samples))

	pipeline.Each(samples, cfg.TopContigs)
}

// Copyright ©2024 Ray Sinclair. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// plotexport reformats the top contig tables for the external gene
// cluster plotter: five columns, contigs renamed to short sequential
// labels, exact-duplicate rows removed.
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

	flag.StringVar(&cfg.TopDir, "in", cfg.TopDir, "directory holding top contig plot tables")
	flag.StringVar(&cfg.FinalDir, "out", cfg.FinalDir, "directory for the final plotter input")
	flag.IntVar(&cfg.TopK, "top", cfg.TopK, "K used when the input tables were written")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Parse()

	if err := logger.Init(*verbose); err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	samples, err := pipeline.Detect(cfg.TopDir, cfg.TopSuffix())
	if err != nil {
		logger.Error("failed to scan input directory",
			zap.String("dir", cfg.TopDir), zap.Error(err))
		os.Exit(1)
	}
	logger.Info("detected samples", zap.Int("count", len(samples)), zap.Strings("samples", samples))

	pipeline.Each(samples, cfg.PlotExport)
}

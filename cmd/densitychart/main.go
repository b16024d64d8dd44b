// Copyright ©2024 Ray Sinclair. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// densitychart renders each sample's top colocalization density scores
// as a bar chart, one image per sample.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/RaySinclair01/ARG-HMRG-Colocalization-Analyzer/internal/feature"
	"github.com/RaySinclair01/ARG-HMRG-Colocalization-Analyzer/internal/pipeline"
	"github.com/RaySinclair01/ARG-HMRG-Colocalization-Analyzer/internal/report"
	"github.com/RaySinclair01/ARG-HMRG-Colocalization-Analyzer/logger"
)

func main() {
	godotenv.Load()
	cfg := pipeline.DefaultConfig()

	var (
		outDir = flag.String("out", pipeline.EnvOr("COLOC_CHART_DIR", "density_charts"), "directory for chart images")
		format = flag.String("format", "png", "image format: eps, jpg, jpeg, pdf, png, svg or tif")
	)
	flag.StringVar(&cfg.DetailsDir, "details", cfg.DetailsDir, "directory holding detailed reports")
	flag.IntVar(&cfg.TopK, "top", cfg.TopK, "number of contigs to chart")
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

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		logger.Error("failed to create chart directory", zap.String("dir", *outDir), zap.Error(err))
		os.Exit(1)
	}

	pipeline.Each(samples, func(sample string) error {
		return chart(cfg, sample, *outDir, *format)
	})
}

func chart(cfg pipeline.Config, sample, outDir, format string) error {
	rows, err := feature.ReadDetailsFile(filepath.Join(cfg.DetailsDir, sample+cfg.DetailsSuffix))
	if err != nil {
		return err
	}
	scores := report.DensityRank(rows, cfg.TopK)
	if len(scores) == 0 {
		logger.Info("no contigs with positive density", zap.String("sample", sample))
		return nil
	}

	values := make(plotter.Values, len(scores))
	labels := make([]string, len(scores))
	for i, s := range scores {
		values[i] = float64(s.Score)
		labels[i] = s.ContigID
	}
	logger.Debug("density summary", zap.String("sample", sample),
		zap.Float64("mean", stat.Mean(values, nil)))

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s: top %d colocalized contigs", sample, len(scores))
	p.Y.Label.Text = "density score (ARG hits × HMRG hits)"
	p.X.Tick.Label.Rotation = -0.5

	bars, err := plotter.NewBarChart(values, vg.Points(18))
	if err != nil {
		return err
	}
	bars.LineStyle.Width = 0
	bars.Color = color.RGBA{R: 0x33, G: 0x66, B: 0x99, A: 0xff}
	p.Add(bars)
	p.NominalX(labels...)

	out := filepath.Join(outDir, fmt.Sprintf("%s_density_scores.%s", sample, format))
	if err := p.Save(8*vg.Inch, 4*vg.Inch, out); err != nil {
		return err
	}
	logger.Info("wrote density chart", zap.String("sample", sample), zap.String("path", out))
	return nil
}

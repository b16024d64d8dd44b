// Copyright ©2024 Ray Sinclair. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// mapgen builds the accession to gene name translation table from a
// reference fasta file with heterogeneous header formats. The table is
// the sole cross-sample artifact; every other command consumes it
// read-only.
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

	var (
		fastaPath = flag.String("fasta", pipeline.EnvOr("COLOC_REFERENCE_FASTA", "BacMet_combined.fasta"), "reference fasta file to mine for headers")
		out       = flag.String("out", pipeline.EnvOr("COLOC_MAP_FILE", "bacmet_annotation_map.tsv"), "output translation table")
		verbose   = flag.Bool("v", false, "verbose logging")
	)
	flag.Parse()

	if err := logger.Init(*verbose); err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	if err := pipeline.BuildMap(*fastaPath, *out); err != nil {
		logger.Error("failed to build translation table",
			zap.String("fasta", *fastaPath), zap.Error(err))
		os.Exit(1)
	}
}

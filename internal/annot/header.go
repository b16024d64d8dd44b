// Copyright ©2024 Ray Sinclair. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package annot extracts accessions and gene names from heterogeneous
// reference database headers and holds the accession to gene name
// translation table built from them.
package annot

import (
	"regexp"
	"strings"
)

// Header is the pair of identifiers recovered from one sequence database
// header. An empty field means the header did not yield that identifier.
type Header struct {
	Accession string
	GeneName  string
}

var (
	// A trailing bracketed token names the gene in BacMet experimental
	// entries, e.g. "... [acrF/envD]".
	bracketRE = regexp.MustCompile(`\[([^\]]+)\]\s*$`)
	// UniProt-style gene name field, e.g. "... GN=abeM PE=3".
	gnRE = regexp.MustCompile(`GN=([\w()\-_/.]+)`)
)

// geneNameStrategies is the ordered heuristic chain for naming a gene from
// header text. The first strategy returning a non-empty name wins.
var geneNameStrategies = []func(string) string{
	func(h string) string {
		if m := bracketRE.FindStringSubmatch(h); m != nil {
			return m[1]
		}
		return ""
	},
	func(h string) string {
		if m := gnRE.FindStringSubmatch(h); m != nil {
			return m[1]
		}
		return ""
	},
}

// dbCodes are the NCBI-style database tags scanned for in |-delimited
// headers. The scan order is fixed; the first tag found with a following
// field supplies the accession.
var dbCodes = []string{"ref", "gb", "emb", "sp", "tr"}

// ParseHeader parses one raw header line, with or without its leading '>'.
// It never fails; identifiers the header does not yield are left empty.
func ParseHeader(line string) Header {
	h := strings.TrimSpace(line)
	h = strings.TrimPrefix(h, ">")

	var gene string
	for _, strategy := range geneNameStrategies {
		if g := strategy(h); g != "" {
			gene = g
			break
		}
	}

	parts := strings.Split(h, "|")
	acc := accessionAfterCode(parts)
	if acc == "" && len(parts) > 3 {
		// BacMet internal format: >BAC0001|abeM|sp|Q5FAM9|...
		acc = parts[3]
		if gene == "" {
			gene = parts[1]
		}
	}

	if gene == "" && acc != "" {
		gene = StripVersion(acc)
	}
	return Header{Accession: acc, GeneName: gene}
}

// accessionAfterCode returns the field following the first recognized
// database tag, or "" when no tag is followed by a field.
func accessionAfterCode(parts []string) string {
	for _, code := range dbCodes {
		for i, p := range parts {
			if p != code {
				continue
			}
			if i+1 < len(parts) {
				return parts[i+1]
			}
			// Tag without a following field; try the next tag.
			break
		}
	}
	return ""
}

// StripVersion removes a trailing version suffix, the text after the last
// dot, from an accession. Both the map builder and the translator strip
// versions through this one helper so their keys always agree.
func StripVersion(acc string) string {
	if i := strings.LastIndex(acc, "."); i >= 0 {
		return acc[:i]
	}
	return acc
}

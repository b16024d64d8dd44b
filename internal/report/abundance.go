// Copyright ©2024 Ray Sinclair. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package report derives the per-sample summary reports: pair and HMRG
// abundance counts, density-ranked contigs and plot-ready feature tables.
package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/shenwei356/xopen"

	"github.com/RaySinclair01/ARG-HMRG-Colocalization-Analyzer/internal/annot"
	"github.com/RaySinclair01/ARG-HMRG-Colocalization-Analyzer/internal/feature"
	"github.com/RaySinclair01/ARG-HMRG-Colocalization-Analyzer/internal/hits"
)

// PairCount is the number of distinct contigs on which an (ARG, HMRG)
// gene name pair co-occurs.
type PairCount struct {
	ARGName  string
	HMRGName string
	Contigs  int
}

// NameCount is a raw occurrence count for one gene name.
type NameCount struct {
	Name  string
	Count int
}

// PairCounts counts, over the detail rows of one sample, how many contigs
// support each co-occurring (ARG, HMRG) gene name pair. Each contig
// contributes at most once to a pair, however often the pair repeats on
// it. The result is sorted by descending count; ties keep first-seen
// order.
func PairCounts(rows []feature.Annotated) []PairCount {
	type nameSet struct {
		names []string
		seen  map[string]bool
	}
	add := func(sets map[string]*nameSet, contig, name string) {
		s := sets[contig]
		if s == nil {
			s = &nameSet{seen: make(map[string]bool)}
			sets[contig] = s
		}
		if !s.seen[name] {
			s.seen[name] = true
			s.names = append(s.names, name)
		}
	}

	args := make(map[string]*nameSet)
	hmrgs := make(map[string]*nameSet)
	var contigs []string
	seenContig := make(map[string]bool)
	for _, r := range rows {
		if r.GeneName == "" {
			continue
		}
		switch r.GeneType {
		case hits.TypeARG:
			add(args, r.ContigID, r.GeneName)
		case hits.TypeHMRG:
			add(hmrgs, r.ContigID, r.GeneName)
		default:
			continue
		}
		if !seenContig[r.ContigID] {
			seenContig[r.ContigID] = true
			contigs = append(contigs, r.ContigID)
		}
	}

	type pair struct{ arg, hmrg string }
	counts := make(map[pair]int)
	var order []pair
	for _, contig := range contigs {
		as, hs := args[contig], hmrgs[contig]
		if as == nil || hs == nil {
			continue
		}
		for _, a := range as.names {
			for _, h := range hs.names {
				p := pair{a, h}
				if counts[p] == 0 {
					order = append(order, p)
				}
				counts[p]++
			}
		}
	}

	result := make([]PairCount, 0, len(order))
	for _, p := range order {
		result = append(result, PairCount{ARGName: p.arg, HMRGName: p.hmrg, Contigs: counts[p]})
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].Contigs > result[j].Contigs })
	return result
}

// HMRGAbundance counts the raw occurrence frequency of each translated
// HMRG gene name over a sample's unfiltered alignment hits. Every hit
// counts, including repeated hits on one protein. The result is sorted by
// descending count; ties keep first-seen order.
func HMRGAbundance(raw []hits.Hit, table *annot.Table) []NameCount {
	counts := make(map[string]int)
	var order []string
	for _, h := range raw {
		name := table.Translate(annot.ExtractAccession(h.SubjectID))
		if counts[name] == 0 {
			order = append(order, name)
		}
		counts[name]++
	}
	result := make([]NameCount, 0, len(order))
	for _, name := range order {
		result = append(result, NameCount{Name: name, Count: counts[name]})
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].Count > result[j].Count })
	return result
}

// WritePairCounts writes the pair abundance report.
func WritePairCounts(w io.Writer, pairs []PairCount) error {
	if _, err := fmt.Fprintln(w, "arg_gene_name\thmrg_gene_name\tshared_contig_count"); err != nil {
		return err
	}
	for _, p := range pairs {
		if _, err := fmt.Fprintf(w, "%s\t%s\t%d\n", p.ARGName, p.HMRGName, p.Contigs); err != nil {
			return err
		}
	}
	return nil
}

// WritePairCountsFile writes the pair abundance report to the named file.
func WritePairCountsFile(path string, pairs []PairCount) error {
	w, err := xopen.Wopen(path)
	if err != nil {
		return err
	}
	if err = WritePairCounts(w, pairs); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// WriteNameCounts writes the HMRG abundance report.
func WriteNameCounts(w io.Writer, counts []NameCount) error {
	if _, err := fmt.Fprintln(w, "hmrg_gene_name\tabundance_count"); err != nil {
		return err
	}
	for _, c := range counts {
		if _, err := fmt.Fprintf(w, "%s\t%d\n", c.Name, c.Count); err != nil {
			return err
		}
	}
	return nil
}

// WriteNameCountsFile writes the HMRG abundance report to the named file.
func WriteNameCountsFile(path string, counts []NameCount) error {
	w, err := xopen.Wopen(path)
	if err != nil {
		return err
	}
	if err = WriteNameCounts(w, counts); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

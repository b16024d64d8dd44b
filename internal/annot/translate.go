// Copyright ©2024 Ray Sinclair. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package annot

import "strings"

// Sentinels returned by ExtractAccession in place of an error. One bad
// subject identifier never aborts a sample.
const (
	UnknownAccession = "unknown_accession"
	ParseError       = "parse_error"
)

// ExtractAccession recovers a curated accession from an HMRG alignment
// subject identifier. NCBI-style identifiers yield the field after the
// first recognized database tag, version-stripped; BacMet internal
// identifiers yield the fourth field as is (that field carries no version
// suffix upstream). The function never fails: structurally unrecognized
// input yields UnknownAccession and blank input yields ParseError.
func ExtractAccession(subjectID string) string {
	s := strings.TrimSpace(subjectID)
	if s == "" {
		return ParseError
	}
	parts := strings.Split(s, "|")
	if acc := accessionAfterCode(parts); acc != "" {
		return StripVersion(acc)
	}
	if len(parts) > 3 {
		return parts[3]
	}
	return UnknownAccession
}

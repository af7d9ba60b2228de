// Copyright 2025 ChainCodec Authors
//
// Package csdl parses the Chain Schema Definition Language: a
// multi-document YAML text format in which each document declares one
// versioned event/call schema.
package csdl

import "strings"

// splitDocuments breaks a CSDL source text into individual document
// bodies on a line that is exactly "---", mirroring YAML's own document
// separator so a CSDL file reads like an ordinary multi-doc YAML file.
// Leading/trailing blank documents (e.g. a file that opens with "---")
// are dropped.
func splitDocuments(src string) []string {
	lines := strings.Split(src, "\n")
	var docs []string
	var cur []string
	flush := func() {
		body := strings.Join(cur, "\n")
		if strings.TrimSpace(body) != "" {
			docs = append(docs, body)
		}
		cur = cur[:0]
	}
	for _, line := range lines {
		if strings.TrimSpace(line) == "---" {
			flush()
			continue
		}
		cur = append(cur, line)
	}
	flush()
	return docs
}

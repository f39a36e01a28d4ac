// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package scrape

import (
	"regexp"
	"strings"
)

var labeledLine = regexp.MustCompile(`^\s*([^:]+?)\s*:\s*(.*)$`)

// ParseLabeled reads agent output made of "Label: value" lines. Escaped
// newlines ("\n" as two characters) are treated as line breaks, list
// bullets and markdown emphasis around labels are ignored, and lines
// without a colon are skipped. The first value for a label that is not a
// placeholder wins.
func ParseLabeled(text string) Fields {
	text = strings.ReplaceAll(text, `\n`, "\n")
	fields := Fields{}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-*• ")
		if line == "" {
			continue
		}
		m := labeledLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		label := strings.Trim(m[1], "*_` ")
		value := strings.Trim(strings.TrimSpace(m[2]), "*`")
		if label == "" || strings.HasPrefix(m[2], "//") {
			continue
		}
		if existing, ok := fields[label]; ok && !isPlaceholder(existing) {
			continue
		}
		fields[label] = strings.TrimSpace(value)
	}
	return fields
}

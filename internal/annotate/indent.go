package annotate

import (
	"strings"
	"unicode/utf8"

	"github.com/temirov/dirinfo/internal/types"
)

// indentUnitWidth is the number of columns every ancestor level occupies in a tree listing.
const indentUnitWidth = 4

const nonBreakingSpace = "\u00a0"

var branchConnectors = []string{"├── ", "└── ", "|-- ", "`-- "}

var indentUnits = []string{"│   ", "|   ", "    "}

// lineDepth derives how many levels below the listing root a line sits by reading
// its indentation. isFirst marks the first scanned line, which is the root when it
// carries no connector. types.UnknownDepth is returned when the prefix is not a
// recognised tree indentation.
func lineDepth(text string, isFirst bool) int {
	normalized := strings.ReplaceAll(text, nonBreakingSpace, " ")
	connectorIndex := findConnector(normalized)
	if connectorIndex < 0 {
		if isFirst {
			return 0
		}
		return types.UnknownDepth
	}
	prefix := normalized[:connectorIndex]
	if !isIndentation(prefix) {
		return types.UnknownDepth
	}
	return utf8.RuneCountInString(prefix)/indentUnitWidth + 1
}

// entryName returns the text after a line's branch connector, which is the whole
// directory name even when it contains spaces, or "" for lines without a connector.
func entryName(text string) string {
	normalized := strings.ReplaceAll(text, nonBreakingSpace, " ")
	connectorIndex := findConnector(normalized)
	if connectorIndex < 0 {
		return ""
	}
	remainder := normalized[connectorIndex:]
	for _, connector := range branchConnectors {
		if strings.HasPrefix(remainder, connector) {
			return strings.TrimSpace(remainder[len(connector):])
		}
	}
	return ""
}

// findConnector returns the byte offset of the earliest branch connector in text, or -1.
func findConnector(text string) int {
	bestIndex := -1
	for _, connector := range branchConnectors {
		index := strings.Index(text, connector)
		if index >= 0 && (bestIndex < 0 || index < bestIndex) {
			bestIndex = index
		}
	}
	return bestIndex
}

// isIndentation reports whether prefix is made solely of whole indentation units.
func isIndentation(prefix string) bool {
	remaining := prefix
	for remaining != "" {
		matched := false
		for _, unit := range indentUnits {
			if strings.HasPrefix(remaining, unit) {
				remaining = remaining[len(unit):]
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

package pattern

import (
	"strings"

	"github.com/google/uuid"
)

// Cluster is a line template discovered among matched lines.
type Cluster struct {
	ID      uuid.UUID
	Pattern string
	Count   int
}

// extraDelimiters must match the delimiters used in NewDrainParser's WithExtraDelimiter.
var extraDelimiters = []string{"|", "=", ","}

// tokenize splits a string the way Drain does: extra delimiters become
// spaces, then the string is split on spaces.
func tokenize(s string) []string {
	for _, d := range extraDelimiters {
		s = strings.ReplaceAll(s, d, " ")
	}
	return strings.Fields(s)
}

// MatchTemplate returns the first cluster whose pattern matches line token
// by token, "<*>" matching any single token.
func MatchTemplate(line string, clusters []Cluster) (Cluster, bool) {
	lineTokens := tokenize(line)
	for _, c := range clusters {
		if matchTokens(lineTokens, tokenize(c.Pattern)) {
			return c, true
		}
	}
	return Cluster{}, false
}

func matchTokens(lineTokens, patTokens []string) bool {
	if len(lineTokens) != len(patTokens) {
		return false
	}
	for i, pt := range patTokens {
		if pt != "<*>" && pt != lineTokens[i] {
			return false
		}
	}
	return true
}

// Package similarity provides format-independent node scores.
package similarity

import (
	"fmt"
	"unicode/utf8"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/pstuifzand/hierarchy-diff/internal/document"
)

// Strategy names accepted by ByName
const (
	StrategyFormat     = "format"
	StrategyStructural = "structural"
	StrategyFuzzy      = "fuzzy"
)

// Func scores two nodes in [0,1]
type Func func(a, b document.Node) float64

// ByName returns the score function for a strategy. The format strategy
// returns nil, meaning the format's own Compare.
func ByName(name string) (Func, error) {
	switch name {
	case "", StrategyFormat:
		return nil, nil
	case StrategyStructural:
		return Structural, nil
	case StrategyFuzzy:
		return Fuzzy, nil
	}
	return nil, fmt.Errorf("unknown similarity strategy %q", name)
}

// Structural scores 0 when kinds or names differ. Otherwise equal values
// score 1 and different values about one half.
func Structural(a, b document.Node) float64 {
	if a.Kind() != b.Kind() || a.Name() != b.Name() {
		return 0
	}
	score := 0.01 + 1
	if document.SameValue(a, b) {
		score++
	}
	return min(score/2, 1)
}

// Fuzzy blends the edit-distance closeness of names and values. Nodes of
// different kinds score 0.
func Fuzzy(a, b document.Node) float64 {
	if a.Kind() != b.Kind() {
		return 0
	}

	av, aok := a.Value()
	bv, bok := b.Value()
	var value float64
	switch {
	case !aok && !bok:
		value = 1
	case aok && bok:
		value = Closeness(av, bv)
	}

	return 0.6*Closeness(a.Name(), b.Name()) + 0.4*value
}

// Closeness is 1 minus the Levenshtein distance over the longer length
func Closeness(a, b string) float64 {
	if a == b {
		return 1
	}
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	distance := fuzzy.LevenshteinDistance(a, b)
	if distance >= longest {
		return 0
	}
	return 1 - float64(distance)/float64(longest)
}

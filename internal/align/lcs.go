// Package align computes the maximum-weight common subsequence of two
// sequences under a similarity score.
package align

import (
	"errors"
	"fmt"
	"math"
)

// ErrScoreOutOfRange is returned when a score function leaves [0,1]
var ErrScoreOutOfRange = errors.New("similarity score outside [0,1]")

// Pair is one matched element from each sequence
type Pair[T any] struct {
	Origin T
	Target T
	Score  float64
}

type move uint8

const (
	moveNone move = iota
	moveMatch
	moveSkipTarget
	moveSkipOrigin
)

type cell struct {
	value float64
	move  move
	score float64
}

// Align returns the matched pairs of the maximum-weight common subsequence of
// origins and targets, in sequence order. On ties a match beats either skip,
// including a match scoring 0, and skipping a target beats skipping an origin.
func Align[T any](origins, targets []T, score func(a, b T) float64) ([]Pair[T], error) {
	return AlignWhere(origins, targets, score, nil)
}

// AlignWhere is Align restricted to the pairs eligible accepts. Ineligible
// pairs are never matched, whatever their score. A nil eligible accepts
// every pair.
func AlignWhere[T any](origins, targets []T, score func(a, b T) float64, eligible func(a, b T) bool) ([]Pair[T], error) {
	n, m := len(origins), len(targets)
	if n == 0 || m == 0 {
		return nil, nil
	}

	table := make([][]cell, n+1)
	for i := range table {
		table[i] = make([]cell, m+1)
	}
	for i := 1; i <= n; i++ {
		table[i][0].move = moveSkipOrigin
	}
	for j := 1; j <= m; j++ {
		table[0][j].move = moveSkipTarget
	}

	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			skipTarget := table[i][j-1].value
			skipOrigin := table[i-1][j].value
			c := &table[i][j]

			a, b := origins[i-1], targets[j-1]
			if eligible == nil || eligible(a, b) {
				s := score(a, b)
				if math.IsNaN(s) || s < 0 || s > 1 {
					return nil, fmt.Errorf("%w: %v at (%d,%d)", ErrScoreOutOfRange, s, i-1, j-1)
				}
				diagonal := table[i-1][j-1].value + s
				if diagonal >= skipTarget && diagonal >= skipOrigin {
					*c = cell{value: diagonal, move: moveMatch, score: s}
					continue
				}
			}
			if skipTarget >= skipOrigin {
				*c = cell{value: skipTarget, move: moveSkipTarget}
			} else {
				*c = cell{value: skipOrigin, move: moveSkipOrigin}
			}
		}
	}

	var pairs []Pair[T]
	i, j := n, m
	for i > 0 && j > 0 {
		c := table[i][j]
		switch c.move {
		case moveMatch:
			pairs = append(pairs, Pair[T]{Origin: origins[i-1], Target: targets[j-1], Score: c.score})
			i--
			j--
		case moveSkipTarget:
			j--
		default:
			i--
		}
	}

	for l, r := 0, len(pairs)-1; l < r; l, r = l+1, r-1 {
		pairs[l], pairs[r] = pairs[r], pairs[l]
	}
	return pairs, nil
}

// Weight sums the scores of pairs
func Weight[T any](pairs []Pair[T]) float64 {
	var total float64
	for _, p := range pairs {
		total += p.Score
	}
	return total
}

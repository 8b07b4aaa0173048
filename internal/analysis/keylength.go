package analysis

import "sort"

// maxKeyLength is the exclusive upper bound on candidate key lengths.
const maxKeyLength = 10

// KeyLengthVote counts how many distances a candidate key length divides.
type KeyLengthVote struct {
	Length int
	Votes  int
}

// KeyLengthRanking lists candidate key lengths, most votes first. Equal
// vote counts keep the order in which the lengths were first seen.
type KeyLengthRanking []KeyLengthVote

// Top returns at most n leading entries; n <= 0 returns the whole ranking.
func (r KeyLengthRanking) Top(n int) KeyLengthRanking {
	if n <= 0 || n >= len(r) {
		return r
	}
	return r[:n]
}

// Contains reports whether length received any vote.
func (r KeyLengthRanking) Contains(length int) bool {
	for _, v := range r {
		if v.Length == length {
			return true
		}
	}
	return false
}

type estimateOptions struct {
	distinct bool
}

// EstimateOption configures EstimateKeyLength.
type EstimateOption func(*estimateOptions)

// WithDistinctDistances makes each distinct distance vote once, instead of
// once per occurrence.
func WithDistinctDistances() EstimateOption {
	return func(o *estimateOptions) {
		o.distinct = true
	}
}

// EstimateKeyLength votes for key lengths using the divisors of the
// distances in record. A distance d votes for every v in [2, min(10, d))
// that divides it.
func EstimateKeyLength(record RepetitionRecord, opts ...EstimateOption) KeyLengthRanking {
	var o estimateOptions
	for _, opt := range opts {
		opt(&o)
	}

	distances := record.Distances()
	if o.distinct {
		distances = uniqueInts(distances)
	}

	ranking := KeyLengthRanking{}
	index := map[int]int{}
	for _, d := range distances {
		for _, v := range divisors(d) {
			pos, ok := index[v]
			if !ok {
				pos = len(ranking)
				index[v] = pos
				ranking = append(ranking, KeyLengthVote{Length: v})
			}
			ranking[pos].Votes++
		}
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].Votes > ranking[j].Votes
	})
	return ranking
}

// MostProbable returns every length tied for the highest vote count. There
// is no single winner when several lengths tie.
func MostProbable(ranking KeyLengthRanking) []int {
	if len(ranking) == 0 {
		return nil
	}
	best := ranking[0].Votes
	var out []int
	for _, v := range ranking {
		if v.Votes != best {
			break
		}
		out = append(out, v.Length)
	}
	return out
}

func divisors(d int) []int {
	var out []int
	for v := 2; v < min(maxKeyLength, d); v++ {
		if d%v == 0 {
			out = append(out, v)
		}
	}
	return out
}

func uniqueInts(values []int) []int {
	seen := make(map[int]struct{}, len(values))
	out := make([]int, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

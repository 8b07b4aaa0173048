package analysis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/cipherlab/internal/cipher"
)

func TestFindRepetitions(t *testing.T) {
	record := FindRepetitions("abcxxabcxxabc", DefaultMinLength)
	require.NotEmpty(t, record)
	assert.Equal(t, "abc", record[0].Sequence)

	distances, ok := record.Lookup("abc")
	require.True(t, ok)
	assert.Equal(t, []int{5, 10, 5}, distances)
	assert.Contains(t, distances, 5)
	assert.Contains(t, distances, 10)

	xabc, ok := record.Lookup("xabc")
	require.True(t, ok)
	assert.Equal(t, []int{5}, xabc)

	xxabc, ok := record.Lookup("xxabc")
	require.True(t, ok)
	assert.Equal(t, []int{5}, xxabc)
}

func TestFindRepetitionsPairsFinalWindow(t *testing.T) {
	record := FindRepetitions("abcxxabc", DefaultMinLength)
	require.Len(t, record, 1)
	assert.Equal(t, "abc", record[0].Sequence)
	assert.Equal(t, []int{5}, record[0].Distances)
	assert.Equal(t, 1, record[0].Pairs())

	full := FindRepetitions("abcxxabcxxabc", DefaultMinLength)
	abc, ok := full.Lookup("abc")
	require.True(t, ok)
	assert.Len(t, abc, 3)
	assert.Equal(t, 3, full[0].Pairs())
}

func TestFindRepetitionsIgnoresNonLetters(t *testing.T) {
	plain := FindRepetitions("abcxxabcxxabc", DefaultMinLength)
	noisy := FindRepetitions("AbC-xx abc, XX... a b c!", DefaultMinLength)
	assert.Equal(t, plain, noisy)
}

func TestFindRepetitionsShortText(t *testing.T) {
	for _, text := range []string{"", "abc", "abcab", "ab ab a"} {
		assert.Empty(t, FindRepetitions(text, DefaultMinLength), "text %q", text)
	}
	assert.Empty(t, FindRepetitions("abcdabcd", 4))
}

func TestFindRepetitionsDistancesPositive(t *testing.T) {
	record := FindRepetitions(strings.Repeat("thequickbrownfox", 4), DefaultMinLength)
	require.NotEmpty(t, record)
	for _, rep := range record {
		assert.GreaterOrEqual(t, len(rep.Sequence), DefaultMinLength)
		assert.Less(t, len(rep.Sequence), 6)
		for _, d := range rep.Distances {
			assert.Positive(t, d)
		}
	}
}

func TestEstimateKeyLengthTie(t *testing.T) {
	record := RepetitionRecord{{Sequence: "abc", Distances: []int{5, 10}}}
	ranking := EstimateKeyLength(record)
	assert.Equal(t, KeyLengthRanking{{Length: 2, Votes: 1}, {Length: 5, Votes: 1}}, ranking)
	assert.Equal(t, []int{2, 5}, MostProbable(ranking))
}

func TestEstimateKeyLengthDuplicates(t *testing.T) {
	record := RepetitionRecord{
		{Sequence: "abc", Distances: []int{9, 9}},
		{Sequence: "xyz", Distances: []int{4}},
	}

	perOccurrence := EstimateKeyLength(record)
	assert.Equal(t, KeyLengthRanking{{Length: 3, Votes: 2}, {Length: 2, Votes: 1}}, perOccurrence)
	assert.Equal(t, []int{3}, MostProbable(perOccurrence))

	distinct := EstimateKeyLength(record, WithDistinctDistances())
	assert.Equal(t, KeyLengthRanking{{Length: 3, Votes: 1}, {Length: 2, Votes: 1}}, distinct)
	assert.Equal(t, []int{3, 2}, MostProbable(distinct))
}

func TestEstimateKeyLengthEmpty(t *testing.T) {
	ranking := EstimateKeyLength(RepetitionRecord{})
	assert.Empty(t, ranking)
	assert.Empty(t, MostProbable(ranking))

	small := EstimateKeyLength(RepetitionRecord{{Sequence: "ab", Distances: []int{2, 3}}})
	assert.Empty(t, small)
}

func TestEstimateKeyLengthBounds(t *testing.T) {
	ranking := EstimateKeyLength(RepetitionRecord{{Sequence: "abc", Distances: []int{720}}})
	for _, v := range ranking {
		assert.GreaterOrEqual(t, v.Length, 2)
		assert.Less(t, v.Length, 10)
	}
	assert.True(t, ranking.Contains(9))
	assert.False(t, ranking.Contains(10))
	assert.Len(t, ranking.Top(3), 3)
}

func TestKasiskiFindsVigenereKeyLength(t *testing.T) {
	ciphertext, err := cipher.Vigenere(strings.Repeat("abcdefghijkl", 3), "abc")
	require.NoError(t, err)
	require.Equal(t, "acedfhgikjln", ciphertext[:12])

	ranking := EstimateKeyLength(FindRepetitions(ciphertext, DefaultMinLength))
	assert.Contains(t, MostProbable(ranking), 3)
}

func TestAnalyze(t *testing.T) {
	res := Analyze("aaabbc", DefaultOptions())
	assert.Equal(t, "aaabbc", res.Signal)
	assert.Len(t, res.Caesar, 25)
	assert.Equal(t, "es", res.Reference.Lang)
	assert.Len(t, res.Hypotheses, 3)
	assert.Empty(t, res.Repetitions)
	assert.Empty(t, res.MostProbable)

	opts := DefaultOptions()
	opts.Lang = "klingon"
	assert.Equal(t, "es", Analyze("abc", opts).Reference.Lang)
}

func TestAnalyzeSkipsLongRepetitionInput(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxRepetitionInput = 10
	res := Analyze("abcxxabcxxabc", opts)
	assert.True(t, res.RepetitionsSkipped)
	assert.Nil(t, res.Repetitions)
	assert.Len(t, res.Caesar, 25)

	opts.MaxRepetitionInput = 13
	res = Analyze("abcxxabcxxabc", opts)
	assert.False(t, res.RepetitionsSkipped)
	assert.Equal(t, []int{2, 5}, res.MostProbable)
}

package analysis

import "unicode/utf8"

// Options selects the parameters of a full analysis run.
type Options struct {
	Lang              string
	MinLength         int
	DistinctDistances bool
	Hypotheses        int
	// MaxRepetitionInput skips the Kasiski examination for signals with more
	// letters than this. 0 means no limit.
	MaxRepetitionInput int
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Lang:       DefaultLang,
		MinLength:  DefaultMinLength,
		Hypotheses: DefaultHypotheses,
	}
}

// Result bundles the output of every attack over one text.
type Result struct {
	Signal       string
	Caesar       []CaesarCandidate
	Frequencies  FrequencyTable
	Reference    ReferenceTable
	Hypotheses   []Hypothesis
	Repetitions  RepetitionRecord
	KeyLengths   KeyLengthRanking
	MostProbable []int
	// RepetitionsSkipped is set when the signal exceeded MaxRepetitionInput.
	RepetitionsSkipped bool
}

// Analyze runs all attacks over text. An unknown language falls back to
// DefaultLang.
func Analyze(text string, opts Options) Result {
	ref, ok := ReferenceFor(opts.Lang)
	if !ok {
		ref, _ = ReferenceFor(DefaultLang)
	}
	var estimate []EstimateOption
	if opts.DistinctDistances {
		estimate = append(estimate, WithDistinctDistances())
	}

	signal := Project(text)
	freqs := Frequencies(text)
	res := Result{
		Signal:      signal,
		Caesar:      BruteForceCaesar(text),
		Frequencies: freqs,
		Reference:   ref,
		Hypotheses:  HypothesesN(freqs, ref, opts.Hypotheses),
	}
	if opts.MaxRepetitionInput > 0 && utf8.RuneCountInString(signal) > opts.MaxRepetitionInput {
		res.RepetitionsSkipped = true
		return res
	}
	res.Repetitions = FindRepetitions(text, opts.MinLength)
	res.KeyLengths = EstimateKeyLength(res.Repetitions, estimate...)
	res.MostProbable = MostProbable(res.KeyLengths)
	return res
}

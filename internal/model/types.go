// Package model defines shared data structures.
package model

import "time"

// Config defines analysis settings.
type Config struct {
	Lang              string
	MinLength         int
	DistinctDistances bool
	Top               int
	Hypotheses        int
	MaxKasiskiInput   int
	SaveHistory       bool
}

// AnalysisKind names the attack that produced a stored analysis.
type AnalysisKind string

// Known analysis kinds.
const (
	KindCaesar    AnalysisKind = "caesar"
	KindFrequency AnalysisKind = "frequency"
	KindKasiski   AnalysisKind = "kasiski"
)

// Kinds lists every analysis kind.
func Kinds() []AnalysisKind {
	return []AnalysisKind{KindCaesar, KindFrequency, KindKasiski}
}

// HistoryConfig defines filters for the analysis history.
type HistoryConfig struct {
	Kind  string
	Since *time.Time
	Last  int
}

// AnalysisRecord captures a completed analysis run.
type AnalysisRecord struct {
	CreatedAt    time.Time
	Kind         AnalysisKind
	Lang         string
	Input        string
	InputLetters int
	Summary      string
}

// Finding stores one ranked result line of an analysis.
type Finding struct {
	Rank   int
	Label  string
	Value  float64
	Detail string
}

// AnalysisSummary is a stored analysis as listed in the history.
type AnalysisSummary struct {
	ID           int64
	CreatedAt    time.Time
	Kind         AnalysisKind
	Lang         string
	Input        string
	InputLetters int
	Summary      string
}

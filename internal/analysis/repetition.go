package analysis

// DefaultMinLength is the shortest repeated sequence considered by FindRepetitions.
const DefaultMinLength = 3

// maxSequenceLength is the exclusive upper bound on repeated sequence length.
const maxSequenceLength = 6

// Repetition records the distances between occurrences of one sequence.
type Repetition struct {
	Sequence  string
	Distances []int
}

// Pairs returns how many pairs of occurrences were recorded for the sequence.
func (r Repetition) Pairs() int {
	return len(r.Distances)
}

// RepetitionRecord lists repeated sequences in discovery order.
type RepetitionRecord []Repetition

// Lookup returns the distances recorded for seq.
func (r RepetitionRecord) Lookup(seq string) ([]int, bool) {
	for _, rep := range r {
		if rep.Sequence == seq {
			return rep.Distances, true
		}
	}
	return nil, false
}

// Distances flattens every recorded distance, in record order.
func (r RepetitionRecord) Distances() []int {
	var out []int
	for _, rep := range r {
		out = append(out, rep.Distances...)
	}
	return out
}

// FindRepetitions scans the projected text for sequences of length
// minLength up to min(5, N/2-1) that occur again later, and records the
// offset difference for every pair of occurrences. Texts shorter than
// 2*minLength letters yield an empty record. minLength is not validated.
//
// Both windows may end on the last letter of the signal, so a sequence that
// closes the text is still paired.
//
// The scan is cubic in the signal length; callers bound their input.
func FindRepetitions(text string, minLength int) RepetitionRecord {
	signal := []rune(Project(text))
	n := len(signal)
	upper := min(maxSequenceLength, n/2)

	record := RepetitionRecord{}
	index := map[string]int{}
	for length := minLength; length < upper; length++ {
		if length <= 0 {
			continue
		}
		for i := 0; i+length <= n; i++ {
			seq := signal[i : i+length]
			for j := i + length; j+length <= n; j++ {
				if !equalRunes(seq, signal[j:j+length]) {
					continue
				}
				key := string(seq)
				pos, ok := index[key]
				if !ok {
					pos = len(record)
					index[key] = pos
					record = append(record, Repetition{Sequence: key})
				}
				record[pos].Distances = append(record[pos].Distances, j-i)
			}
		}
	}
	return record
}

func equalRunes(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

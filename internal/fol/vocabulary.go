package fol

import "regexp"

var predicatePattern = regexp.MustCompile(`^\s*[~¬]?\s*([A-Za-z0-9_]+)\(`)

// Vocabulary maps predicate names to positive integer ids. Id 0 is reserved
// for out-of-vocabulary predicates. Immutable after construction.
type Vocabulary struct {
	ids map[string]int
}

// NewVocabulary assigns ids 1..N following the order of the supplied list.
func NewVocabulary(predicates []string) *Vocabulary {
	ids := make(map[string]int, len(predicates))
	for i, predicate := range predicates {
		ids[predicate] = i + 1
	}
	return &Vocabulary{ids: ids}
}

// ID returns the id of a predicate, or 0 when the predicate is unknown.
func (v *Vocabulary) ID(predicate string) int {
	return v.ids[predicate]
}

// Size returns the number of known predicates, excluding the unknown id.
func (v *Vocabulary) Size() int {
	return len(v.ids)
}

// PredicateName extracts the predicate name from a literal string, matching
// only identifiers immediately followed by an opening parenthesis.
func PredicateName(literal string) (string, bool) {
	match := predicatePattern.FindStringSubmatch(literal)
	if match == nil {
		return "", false
	}
	return match[1], true
}

package data

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"
)

// Pair identifies a candidate resolution step between two literals. Indices
// are pointers because real exports carry null entries.
type Pair struct {
	ClauseA  *int `mapstructure:"clauseA_index"`
	LiteralA *int `mapstructure:"literalA_index"`
	ClauseB  *int `mapstructure:"clauseB_index"`
	LiteralB *int `mapstructure:"literalB_index"`
}

type Clause struct {
	ID       string
	Type     string
	Literals []string
}

// Example is one theorem-proving state snapshot: a clause set, its candidate
// resolution pairs and, when the ground-truth search found one, the best pair.
type Example struct {
	ProblemID       string
	Clauses         []Clause
	ResolvablePairs []Pair
	BestPair        *Pair
	BestPairIndex   *int
}

type exampleRecord struct {
	ProblemID       string `mapstructure:"problem_id"`
	Clauses         []any  `mapstructure:"clauses"`
	ResolvablePairs []Pair `mapstructure:"resolvable_pairs"`
	BestPair        *Pair  `mapstructure:"best_pair"`
	BestPairIndex   *int   `mapstructure:"best_pair_index"`
}

// DecodeExample validates and converts one loose JSON record into a typed
// Example. Records missing the clause set or the pair list are rejected here
// instead of failing deep inside graph construction.
func DecodeExample(record map[string]any) (Example, error) {
	if _, ok := record["clauses"]; !ok {
		return Example{}, fmt.Errorf("record is missing \"clauses\"")
	}
	if _, ok := record["resolvable_pairs"]; !ok {
		return Example{}, fmt.Errorf("record is missing \"resolvable_pairs\"")
	}

	var raw exampleRecord
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true, // JSON numbers arrive as float64
		Result:           &raw,
	})
	if err != nil {
		return Example{}, err
	}
	if err := decoder.Decode(record); err != nil {
		return Example{}, fmt.Errorf("cannot decode record: %w", err)
	}

	clauses := make([]Clause, 0, len(raw.Clauses))
	for i, clauseRecord := range raw.Clauses {
		clause, err := clauseFromRecord(clauseRecord)
		if err != nil {
			return Example{}, fmt.Errorf("clause %v: %w", i, err)
		}
		clauses = append(clauses, clause)
	}

	return Example{
		ProblemID:       raw.ProblemID,
		Clauses:         clauses,
		ResolvablePairs: raw.ResolvablePairs,
		BestPair:        raw.BestPair,
		BestPairIndex:   raw.BestPairIndex,
	}, nil
}

// clauseFromRecord converts the [id, type, [literals]] array form used by the
// exporter into a Clause.
func clauseFromRecord(record any) (Clause, error) {
	fields, ok := record.([]any)
	if !ok || len(fields) != 3 {
		return Clause{}, fmt.Errorf("expected a [id, type, literals] triple, got %v", record)
	}

	clauseType, ok := fields[1].(string)
	if !ok {
		return Clause{}, fmt.Errorf("clause type must be a string, got %v", fields[1])
	}
	rawLiterals, ok := fields[2].([]any)
	if !ok {
		return Clause{}, fmt.Errorf("clause literals must be a list, got %v", fields[2])
	}

	literals := make([]string, 0, len(rawLiterals))
	for _, rawLiteral := range rawLiterals {
		literal, ok := rawLiteral.(string)
		if !ok {
			return Clause{}, fmt.Errorf("literal must be a string, got %v", rawLiteral)
		}
		literals = append(literals, literal)
	}

	return Clause{
		ID:       fmt.Sprintf("%v", fields[0]),
		Type:     clauseType,
		Literals: literals,
	}, nil
}

// ResolveBestPair applies the two-variant fallback once per example: an
// inline best_pair wins, otherwise best_pair_index is dereferenced into
// resolvable_pairs when in bounds. The second result reports absence.
func (ex Example) ResolveBestPair() (Pair, bool) {
	if ex.BestPair != nil {
		return *ex.BestPair, true
	}
	if ex.BestPairIndex != nil {
		if i := *ex.BestPairIndex; 0 <= i && i < len(ex.ResolvablePairs) {
			return ex.ResolvablePairs[i], true
		}
	}
	return Pair{}, false
}

// matches reports whether all four coordinates of both pairs are present and
// equal.
func (p Pair) matches(other Pair) bool {
	coordinates := [][2]*int{
		{p.ClauseA, other.ClauseA},
		{p.LiteralA, other.LiteralA},
		{p.ClauseB, other.ClauseB},
		{p.LiteralB, other.LiteralB},
	}
	return !lo.SomeBy(coordinates, func(c [2]*int) bool {
		return c[0] == nil || c[1] == nil || *c[0] != *c[1]
	})
}

package data

import (
	"errors"
	"log"
	"sort"

	"github.com/samber/lo"

	"github.com/vahagn22/resgnn/internal/fol"
)

// Dataset aggregates labeled examples, owns the predicate vocabulary and
// lazily builds graphs. Not safe for concurrent use: the graph cache belongs
// to a single training run.
type Dataset struct {
	examples []Example
	vocab    *fol.Vocabulary
	maxArgs  int
	cache    map[int]*Graph
}

// NewDataset loads every example from the supplied files and directories,
// drops examples without a resolvable best pair and builds the vocabulary.
// When predicates is empty the vocabulary is auto-collected from the
// unfiltered example set, so dropped examples still contribute predicate
// coverage.
func NewDataset(paths []string, predicates []string, maxArgs int, useCache bool) (*Dataset, error) {
	examples, err := LoadExamples(paths)
	if err != nil {
		return nil, err
	}

	filtered := lo.Filter(examples, func(ex Example, _ int) bool {
		if _, ok := ex.ResolveBestPair(); !ok {
			log.Printf("skipping %v: best pair is unresolvable", problemID(ex))
			return false
		}
		return true
	})

	var vocab *fol.Vocabulary
	if len(predicates) > 0 {
		vocab = fol.NewVocabulary(predicates)
	} else {
		vocab = collectVocabulary(examples)
	}

	dataset := &Dataset{
		examples: filtered,
		vocab:    vocab,
		maxArgs:  maxArgs,
	}
	if useCache {
		dataset.cache = make(map[int]*Graph)
	}
	return dataset, nil
}

func (ds *Dataset) Len() int { return len(ds.examples) }

func (ds *Dataset) Vocabulary() *fol.Vocabulary { return ds.vocab }

func (ds *Dataset) MaxArgs() int { return ds.maxArgs }

// Get builds the graph for example i, memoizing it when caching is enabled.
// Graph construction is deterministic given the vocabulary, so the cache
// needs no invalidation. ErrNoEdges results are reported, never cached.
func (ds *Dataset) Get(i int) (*Graph, error) {
	if graph, ok := ds.cache[i]; ok {
		return graph, nil
	}

	graph, err := BuildGraph(ds.examples[i], ds.vocab, ds.maxArgs)
	if err != nil {
		if errors.Is(err, ErrNoEdges) {
			log.Printf("example %v had no valid edges after cleaning", problemID(ds.examples[i]))
		}
		return nil, err
	}

	if ds.cache != nil {
		ds.cache[i] = graph
	}
	return graph, nil
}

// collectVocabulary gathers every predicate name appearing as "identifier("
// across all literals of all examples, in stable lexicographic order.
func collectVocabulary(examples []Example) *fol.Vocabulary {
	seen := make(map[string]bool)
	for _, ex := range examples {
		for _, clause := range ex.Clauses {
			for _, literal := range clause.Literals {
				if name, ok := fol.PredicateName(literal); ok {
					seen[name] = true
				}
			}
		}
	}

	names := lo.Keys(seen)
	sort.Strings(names)
	return fol.NewVocabulary(names)
}

func problemID(ex Example) string {
	if ex.ProblemID == "" {
		return "<unknown>"
	}
	return ex.ProblemID
}

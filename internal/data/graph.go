package data

import (
	"errors"

	"github.com/vahagn22/resgnn/internal/fol"
)

// ErrNoEdges marks an example whose resolvable pairs yield zero valid edges
// after cleaning. Callers filter such examples instead of failing the batch.
var ErrNoEdges = errors.New("no valid edges after cleaning")

// Graph is the learnable representation of one example: one node per literal,
// one undirected candidate-resolution edge per valid pair, binary edge labels
// marking the best pair.
type Graph struct {
	X         [][]float64 // N x (2+maxArgs) node features
	EdgeIndex [2][]int    // 2 x E, source row then destination row
	Y         []int       // E edge labels
}

func (g *Graph) NumNodes() int { return len(g.X) }

func (g *Graph) NumEdges() int { return len(g.Y) }

type nodeKey struct {
	clause  int
	literal int
}

// BuildGraph converts one example into a Graph. Nodes are enumerated in
// clause-major, literal-minor order; pairs with null indices or dangling
// references are dropped; the retained edge set is symmetrized with each
// reverse edge inheriting its forward twin's label.
func BuildGraph(ex Example, vocab *fol.Vocabulary, maxArgs int) (*Graph, error) {
	best, hasBest := ex.ResolveBestPair()

	nodeIndex := make(map[nodeKey]int)
	var features [][]float64
	for ci, clause := range ex.Clauses {
		for li, literal := range clause.Literals {
			nodeIndex[nodeKey{ci, li}] = len(features)
			features = append(features, fol.EncodeLiteral(literal, vocab, maxArgs))
		}
	}

	var src, dst, labels []int
	for _, pair := range ex.ResolvablePairs {
		if pair.ClauseA == nil || pair.LiteralA == nil || pair.ClauseB == nil || pair.LiteralB == nil {
			continue
		}
		from, ok := nodeIndex[nodeKey{*pair.ClauseA, *pair.LiteralA}]
		if !ok {
			continue
		}
		to, ok := nodeIndex[nodeKey{*pair.ClauseB, *pair.LiteralB}]
		if !ok {
			continue
		}

		label := 0
		if hasBest && pair.matches(best) {
			label = 1
		}
		src = append(src, from)
		dst = append(dst, to)
		labels = append(labels, label)
	}

	if len(src) == 0 {
		return nil, ErrNoEdges
	}

	// Symmetrize. Resolution pairs are semantically undirected and the label
	// denotes pair quality independent of traversal direction.
	type edge struct{ u, v int }
	present := make(map[edge]bool, len(src))
	for i := range src {
		present[edge{src[i], dst[i]}] = true
	}
	forward := len(src)
	for i := 0; i < forward; i++ {
		u, v := src[i], dst[i]
		if present[edge{v, u}] {
			continue
		}
		present[edge{v, u}] = true
		src = append(src, v)
		dst = append(dst, u)
		labels = append(labels, labels[i])
	}

	return &Graph{
		X:         features,
		EdgeIndex: [2][]int{src, dst},
		Y:         labels,
	}, nil
}

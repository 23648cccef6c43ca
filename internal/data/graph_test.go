package data

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vahagn22/resgnn/internal/fol"
)

func pairAt(clauseA, literalA, clauseB, literalB int) Pair {
	return Pair{
		ClauseA:  lo.ToPtr(clauseA),
		LiteralA: lo.ToPtr(literalA),
		ClauseB:  lo.ToPtr(clauseB),
		LiteralB: lo.ToPtr(literalB),
	}
}

func TestBuildGraph(t *testing.T) {
	vocab := fol.NewVocabulary([]string{"P", "Q"})

	t.Run("Two-clause resolution scenario", func(t *testing.T) {
		//**Arrange
		best := pairAt(0, 0, 1, 0)
		example := Example{
			ProblemID: "tiny",
			Clauses: []Clause{
				{ID: "c0", Type: "axiom", Literals: []string{"P(x)"}},
				{ID: "c1", Type: "axiom", Literals: []string{"¬P(a)"}},
			},
			ResolvablePairs: []Pair{best},
			BestPair:        &best,
		}

		//**Act
		graph, err := BuildGraph(example, vocab, 3)

		//**Assert
		require.NoError(t, err)
		assert.Equal(t, 2, graph.NumNodes())
		assert.Equal(t, 2, graph.NumEdges())
		assert.Equal(t, []int{0, 1}, graph.EdgeIndex[0])
		assert.Equal(t, []int{1, 0}, graph.EdgeIndex[1])
		assert.Equal(t, []int{1, 1}, graph.Y)
		for _, features := range graph.X {
			assert.Len(t, features, 5)
		}
	})

	t.Run("Edge set is symmetric with twin labels", func(t *testing.T) {
		//**Arrange
		example := Example{
			Clauses: []Clause{
				{ID: "c0", Type: "axiom", Literals: []string{"P(x)", "Q(x)"}},
				{ID: "c1", Type: "axiom", Literals: []string{"¬P(a)", "¬Q(b)"}},
			},
			ResolvablePairs: []Pair{pairAt(0, 0, 1, 0), pairAt(0, 1, 1, 1)},
			BestPairIndex:   lo.ToPtr(1),
		}

		//**Act
		graph, err := BuildGraph(example, vocab, 3)

		//**Assert
		require.NoError(t, err)
		type labeledEdge struct{ u, v, y int }
		edges := make(map[labeledEdge]bool)
		for i := range graph.Y {
			edges[labeledEdge{graph.EdgeIndex[0][i], graph.EdgeIndex[1][i], graph.Y[i]}] = true
		}
		for edge := range edges {
			assert.True(t, edges[labeledEdge{edge.v, edge.u, edge.y}], "missing reverse of %v", edge)
		}
	})

	t.Run("Valid pairs double into edges with exactly two best labels", func(t *testing.T) {
		//**Arrange
		pairs := []Pair{pairAt(0, 0, 1, 0), pairAt(0, 1, 1, 0), pairAt(0, 0, 1, 1)}
		example := Example{
			Clauses: []Clause{
				{ID: "c0", Type: "axiom", Literals: []string{"P(x)", "Q(x)"}},
				{ID: "c1", Type: "axiom", Literals: []string{"¬P(a)", "¬Q(a)"}},
			},
			ResolvablePairs: pairs,
			BestPairIndex:   lo.ToPtr(0),
		}

		//**Act
		graph, err := BuildGraph(example, vocab, 3)

		//**Assert
		require.NoError(t, err)
		assert.Equal(t, 2*len(pairs), graph.NumEdges())
		assert.Equal(t, 2, lo.Count(graph.Y, 1))
	})

	t.Run("Malformed pairs are dropped silently", func(t *testing.T) {
		//**Arrange
		nullLiteral := pairAt(0, 0, 1, 0)
		nullLiteral.LiteralB = nil
		example := Example{
			Clauses: []Clause{
				{ID: "c0", Type: "axiom", Literals: []string{"P(x)"}},
				{ID: "c1", Type: "axiom", Literals: []string{"¬P(a)"}},
			},
			ResolvablePairs: []Pair{
				nullLiteral,
				pairAt(0, 0, 5, 0), // dangling clause reference
				pairAt(0, 0, 1, 0),
			},
			BestPairIndex: lo.ToPtr(2),
		}

		//**Act
		graph, err := BuildGraph(example, vocab, 3)

		//**Assert
		require.NoError(t, err)
		assert.Equal(t, 2, graph.NumEdges())
		assert.Equal(t, []int{1, 1}, graph.Y)
	})

	t.Run("Every pair malformed yields ErrNoEdges", func(t *testing.T) {
		//**Arrange
		example := Example{
			Clauses:         []Clause{{ID: "c0", Type: "axiom", Literals: []string{"P(x)"}}},
			ResolvablePairs: []Pair{pairAt(3, 0, 4, 0), pairAt(0, 9, 0, 0)},
			BestPairIndex:   lo.ToPtr(0),
		}

		//**Act
		_, err := BuildGraph(example, vocab, 3)

		//**Assert
		assert.ErrorIs(t, err, ErrNoEdges)
	})

	t.Run("Best pair dropped as malformed labels nothing", func(t *testing.T) {
		//**Arrange
		example := Example{
			Clauses: []Clause{
				{ID: "c0", Type: "axiom", Literals: []string{"P(x)"}},
				{ID: "c1", Type: "axiom", Literals: []string{"¬P(a)"}},
			},
			ResolvablePairs: []Pair{pairAt(0, 0, 7, 0), pairAt(1, 0, 0, 0)},
			BestPairIndex:   lo.ToPtr(0),
		}

		//**Act
		graph, err := BuildGraph(example, vocab, 3)

		//**Assert
		require.NoError(t, err)
		assert.Equal(t, 2, graph.NumEdges())
		assert.Equal(t, 0, lo.Count(graph.Y, 1))
	})

	t.Run("Node enumeration is clause-major", func(t *testing.T) {
		//**Arrange
		example := Example{
			Clauses: []Clause{
				{ID: "c0", Type: "axiom", Literals: []string{"P(x)", "P(y)"}},
				{ID: "c1", Type: "axiom", Literals: []string{"Q(a)"}},
			},
			ResolvablePairs: []Pair{pairAt(1, 0, 0, 1)},
			BestPairIndex:   lo.ToPtr(0),
		}

		//**Act
		graph, err := BuildGraph(example, vocab, 3)

		//**Assert
		require.NoError(t, err)
		assert.Equal(t, 3, graph.NumNodes())
		// Node 2 is clause 1 literal 0, node 1 is clause 0 literal 1.
		assert.Equal(t, []int{2, 1}, graph.EdgeIndex[0])
		assert.Equal(t, []int{1, 2}, graph.EdgeIndex[1])
	})
}

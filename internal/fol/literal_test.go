package fol

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLiteral(t *testing.T) {
	t.Run("Positive literal", func(t *testing.T) {
		//**Act
		literal := ParseLiteral("path(X,a,f(b))")

		//**Assert
		assert.Equal(t, 1, literal.Sign)
		assert.Equal(t, "path", literal.Predicate)
		assert.Equal(t, []string{"X", "a", "f(b)"}, literal.Args)
	})

	t.Run("Negated literals", func(t *testing.T) {
		for _, raw := range []string{"¬path(X,a)", "~path(X,a)", "  ¬ path(X, a) "} {
			//**Act
			literal := ParseLiteral(raw)

			//**Assert
			assert.Equal(t, -1, literal.Sign, raw)
			assert.Equal(t, "path", literal.Predicate, raw)
			assert.Equal(t, []string{"X", "a"}, literal.Args, raw)
		}
	})

	t.Run("Stripping is idempotent", func(t *testing.T) {
		//**Arrange
		first := ParseLiteral("¬edge(a,b)")

		//**Act
		second := ParseLiteral(first.Predicate + "(a,b)")

		//**Assert
		assert.Equal(t, 1, second.Sign)
		assert.Equal(t, first.Predicate, second.Predicate)
		assert.Equal(t, first.Args, second.Args)
	})

	t.Run("Empty argument list", func(t *testing.T) {
		//**Act
		literal := ParseLiteral("nil()")

		//**Assert
		assert.Equal(t, "nil", literal.Predicate)
		assert.Empty(t, literal.Args)
	})

	t.Run("Propositional atom has no arguments", func(t *testing.T) {
		//**Act
		literal := ParseLiteral("~contradiction")

		//**Assert
		assert.Equal(t, -1, literal.Sign)
		assert.Equal(t, "contradiction", literal.Predicate)
		assert.Empty(t, literal.Args)
	})
}

func TestArgType(t *testing.T) {
	//**Arrange
	cases := map[string]int{
		"X":       ArgVariable,
		"Var_1":   ArgVariable,
		"a":       ArgConstant,
		"c42":     ArgConstant,
		"":        ArgConstant,
		"f(a)":    ArgFunction,
		"g(X,b)":  ArgFunction,
		"h(f(X))": ArgFunction,
	}

	for arg, expected := range cases {
		//**Act and assert
		assert.Equal(t, expected, ArgType(arg), "argument %q", arg)
	}
}

func TestEncodeLiteral(t *testing.T) {
	vocab := NewVocabulary([]string{"edge", "path"})

	t.Run("Fixed length with padding", func(t *testing.T) {
		//**Act
		features := EncodeLiteral("path(X)", vocab, 3)

		//**Assert
		assert.Len(t, features, 5)
		assert.Equal(t, []float64{0, 2, ArgVariable, ArgPad, ArgPad}, features)
	})

	t.Run("Negated literal with mixed arguments", func(t *testing.T) {
		//**Act
		features := EncodeLiteral("¬edge(a,Y,f(b))", vocab, 3)

		//**Assert
		assert.Equal(t, []float64{1, 1, ArgConstant, ArgVariable, ArgFunction}, features)
	})

	t.Run("Unknown predicate maps to id 0", func(t *testing.T) {
		//**Act
		features := EncodeLiteral("between(a,b)", vocab, 3)

		//**Assert
		assert.Equal(t, 0.0, features[1])
	})

	t.Run("Arguments beyond maxArgs are truncated", func(t *testing.T) {
		//**Act
		features := EncodeLiteral("edge(a,b,c,d,e)", vocab, 3)

		//**Assert
		assert.Len(t, features, 5)
		assert.Equal(t, []float64{ArgConstant, ArgConstant, ArgConstant}, features[2:])
	})

	t.Run("Zero maxArgs keeps only sign and predicate", func(t *testing.T) {
		//**Act
		features := EncodeLiteral("edge(a,b)", vocab, 0)

		//**Assert
		assert.Equal(t, []float64{0, 1}, features)
	})
}

func TestPredicateName(t *testing.T) {
	//**Arrange
	cases := []struct {
		literal string
		name    string
		ok      bool
	}{
		{"path(X,a)", "path", true},
		{"¬path(X)", "path", true},
		{" ~ big_cat(X)", "big_cat", true},
		{"f1(a)", "f1", true},
		{"atom", "", false},
		{"", "", false},
	}

	for _, c := range cases {
		//**Act
		name, ok := PredicateName(c.literal)

		//**Assert
		assert.Equal(t, c.ok, ok, c.literal)
		assert.Equal(t, c.name, name, c.literal)
	}
}

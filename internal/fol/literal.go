package fol

import (
	"strings"
	"unicode"

	"github.com/samber/lo"
)

// Argument type codes used by the node feature encoder.
const (
	ArgVariable = 0
	ArgConstant = 1
	ArgFunction = 2
	ArgPad      = -1 // never a valid type code
)

type Literal struct {
	Sign      int // +1 or -1
	Predicate string
	Args      []string
}

// ParseLiteral splits a literal string such as "¬path(X,f(a),b)" into its
// sign, predicate name and argument list. A literal without parentheses is
// treated as a zero-argument predicate.
func ParseLiteral(literal string) Literal {
	core := strings.TrimSpace(literal)
	sign := 1
	if strings.HasPrefix(core, "¬") {
		sign = -1
		core = strings.TrimSpace(strings.TrimPrefix(core, "¬"))
	} else if strings.HasPrefix(core, "~") {
		sign = -1
		core = strings.TrimSpace(strings.TrimPrefix(core, "~"))
	}

	open := strings.Index(core, "(")
	if open < 0 {
		return Literal{Sign: sign, Predicate: core}
	}

	predicate := core[:open]
	inside := core[open+1:]
	if close := strings.LastIndex(inside, ")"); close >= 0 {
		inside = inside[:close]
	}
	inside = strings.TrimSpace(inside)

	var args []string
	if inside != "" {
		args = lo.Map(strings.Split(inside, ","), func(arg string, _ int) string {
			return strings.TrimSpace(arg)
		})
	}

	return Literal{Sign: sign, Predicate: predicate, Args: args}
}

// ArgType classifies a single argument: function terms carry a nested "(",
// variables start with an uppercase letter, everything else is a constant.
func ArgType(arg string) int {
	if strings.Contains(arg, "(") && strings.HasSuffix(arg, ")") {
		return ArgFunction
	}
	if arg != "" && unicode.IsUpper([]rune(arg)[0]) {
		return ArgVariable
	}
	return ArgConstant
}

// EncodeLiteral maps a literal into a fixed-length feature vector of length
// 2+maxArgs: sign bit, predicate id, then the type codes of the first maxArgs
// arguments padded with ArgPad. The predicate id is consumed downstream as an
// embedding index, not as a continuous feature.
func EncodeLiteral(literal string, vocab *Vocabulary, maxArgs int) []float64 {
	parsed := ParseLiteral(literal)

	features := make([]float64, 0, 2+maxArgs)
	signBit := 0.0
	if parsed.Sign < 0 {
		signBit = 1.0
	}
	features = append(features, signBit, float64(vocab.ID(parsed.Predicate)))

	for _, arg := range parsed.Args {
		if len(features) == 2+maxArgs {
			break
		}
		features = append(features, float64(ArgType(arg)))
	}
	for len(features) < 2+maxArgs {
		features = append(features, ArgPad)
	}

	return features
}

package qcompose

import (
	"strconv"
	"strings"

	"github.com/altindex/qcompose/engine"
)

// The serialized form of a query is built alongside the query itself and
// is meant to be re-evaluated in a context that supplies the connection
// ("conn"), this package's symbols and the engine's query constructors.
// Building it here instead of parsing it back keeps the layer one-way:
// evaluation belongs to the caller's environment.

// composeRepr render the n-ary composition of texts. Two operands use
// the infix symbol, three or more the function-call form over the
// flattened operand list; flattening intentionally changes the
// canonical textual form of nested calls.
func composeRepr(op engine.Operator, texts []string) string {
	switch len(texts) {
	case 0:
		return EmptyQueryRepr
	case 1:
		return texts[0]
	case 2:
		return "(" + texts[0] + infixSymbol(op) + texts[1] + ")"
	}
	return "compose(" + op.String() + ", (" + strings.Join(texts, ", ") + "))"
}

func infixSymbol(op engine.Operator) string {
	if op == engine.OpAnd {
		return " & "
	}
	return " | "
}

// methodName the method-chain name of a pairwise operator
func methodName(op engine.Operator) string {
	switch op {
	case engine.OpXor:
		return "xor"
	case engine.OpAndNot:
		return "and_not"
	case engine.OpFilter:
		return "filter"
	case engine.OpAndMaybe:
		return "adjust"
	}
	return op.String()
}

func chainRepr(left string, op engine.Operator, right string) string {
	return left + "." + methodName(op) + "(" + right + ")"
}

// formatFactor render a scale factor so that it reads back as a float:
// integral values keep a trailing ".0" rather than collapsing to an int
func formatFactor(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func fieldsRepr(fields []string) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = strconv.Quote(f)
	}
	return "(" + strings.Join(quoted, ", ") + ")"
}

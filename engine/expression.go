package engine

type (
	// Operator identify how an engine should combine sub expressions
	Operator uint8

	// Expression a compiled query expression owned by a retrieval engine;
	// the query layer only inspects emptiness, everything else is opaque
	Expression interface {
		// Empty report whether the expression can match any document
		Empty() bool
	}

	// Composite an operator applied over an ordered list of sub expressions
	Composite struct {
		Op   Operator
		Subs []Expression
	}

	// Scaled an expression whose match weights are multiplied by Factor
	Scaled struct {
		Factor float64
		Sub    Expression
	}

	emptyExpr struct{}
)

const (
	OpAnd Operator = iota + 1
	OpOr
	OpXor
	OpAndNot
	OpFilter
	OpAndMaybe
	OpScaleWeight
)

var opNames = map[Operator]string{
	OpAnd:         "OP_AND",
	OpOr:          "OP_OR",
	OpXor:         "OP_XOR",
	OpAndNot:      "OP_AND_NOT",
	OpFilter:      "OP_FILTER",
	OpAndMaybe:    "OP_AND_MAYBE",
	OpScaleWeight: "OP_SCALE_WEIGHT",
}

func (op Operator) String() string {
	if name, ok := opNames[op]; ok {
		return name
	}
	return "OP_UNKNOWN"
}

// Associative report whether chains of this operator can be flattened
// into a single n-ary combination
func (op Operator) Associative() bool {
	return op == OpAnd || op == OpOr
}

// EmptyExpression return the canonical expression matching no documents
func EmptyExpression() Expression {
	return emptyExpr{}
}

func (emptyExpr) Empty() bool { return true }

// IsEmpty nil-safe emptiness test
func IsEmpty(e Expression) bool {
	return e == nil || e.Empty()
}

// Combine build the n-ary combination of subs under op
func Combine(op Operator, subs []Expression) Expression {
	return &Composite{Op: op, Subs: subs}
}

// Pair build a binary combination, used by the non-associative operators
func Pair(op Operator, left, right Expression) Expression {
	return &Composite{Op: op, Subs: []Expression{left, right}}
}

// Scale build an expression scaling sub's weights by factor
func Scale(sub Expression, factor float64) Expression {
	return &Scaled{Factor: factor, Sub: sub}
}

func (c *Composite) Empty() bool {
	if len(c.Subs) == 0 {
		return true
	}
	switch c.Op {
	case OpAnd, OpFilter:
		// every sub must be able to match
		for _, sub := range c.Subs {
			if IsEmpty(sub) {
				return true
			}
		}
		return false
	case OpOr, OpXor:
		for _, sub := range c.Subs {
			if !IsEmpty(sub) {
				return false
			}
		}
		return true
	case OpAndNot, OpAndMaybe:
		// documents come from the left side only
		return IsEmpty(c.Subs[0])
	}
	return false
}

func (s *Scaled) Empty() bool {
	return IsEmpty(s.Sub)
}

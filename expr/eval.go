package expr

// Eval folds a ground expression to an int64 or a bool. The second result
// is false when e depends on a free variable, an uninterpreted array or a
// type predicate.
func Eval(e Expr) (any, bool) {
	switch n := e.(type) {
	case *Const:
		return n.Value, true
	case *Bool:
		return n.Value, true
	case *Select:
		idx, ok := Eval(n.Index)
		if !ok {
			return nil, false
		}
		return evalSelect(n.Array, idx)
	case *Binary:
		return evalBinary(n)
	case *Not:
		v, ok := EvalBool(n.X)
		if !ok {
			return nil, false
		}
		return !v, true
	case *Nary:
		return evalNary(n)
	default:
		return nil, false
	}
}

// EvalBool is Eval for boolean expressions.
func EvalBool(e Expr) (bool, bool) {
	v, ok := Eval(e)
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

func evalSelect(arr Expr, idx any) (any, bool) {
	for {
		switch a := arr.(type) {
		case *Store:
			at, ok := Eval(a.Index)
			if !ok {
				return nil, false
			}
			if at == idx {
				return Eval(a.Value)
			}
			arr = a.Array
		case *ConstArray:
			return Eval(a.Default)
		default:
			return nil, false
		}
	}
}

func evalBinary(n *Binary) (any, bool) {
	l, ok := Eval(n.Left)
	if !ok {
		return nil, false
	}
	r, ok := Eval(n.Right)
	if !ok {
		return nil, false
	}
	if n.op == OpEq {
		return l == r, true
	}
	li, lok := l.(int64)
	ri, rok := r.(int64)
	if !lok || !rok {
		return nil, false
	}
	switch n.op {
	case OpLt:
		return li < ri, true
	case OpLe:
		return li <= ri, true
	case OpGt:
		return li > ri, true
	case OpGe:
		return li >= ri, true
	}
	return nil, false
}

func evalNary(n *Nary) (any, bool) {
	// A single decisive argument settles the result even if others are symbolic.
	decisive := n.op == OpOr
	allKnown := true
	for _, a := range n.Args {
		v, ok := EvalBool(a)
		if !ok {
			allKnown = false
			continue
		}
		if v == decisive {
			return decisive, true
		}
	}
	if !allKnown {
		return nil, false
	}
	return !decisive, true
}

package jsonpath

import (
	"fmt"

	"github.com/erraggy/oasrepo/document"
)

// evalFilter evaluates a filter expression against a candidate child.
// Only mappings can match.
func evalFilter(value any, expr *FilterExpr) bool {
	if expr == nil {
		return true
	}

	m, ok := value.(*document.Map)
	if !ok || m == nil {
		return false
	}

	fieldValue, exists := m.Get(expr.Field)
	if expr.Operator == "" {
		return exists
	}
	return compare(fieldValue, expr.Operator, expr.Value)
}

// compare performs a comparison between two values using the given operator.
func compare(left any, op string, right any) bool {
	if left == nil && right == nil {
		return op == "==" || op == "<=" || op == ">="
	}
	if left == nil || right == nil {
		return op == "!="
	}

	switch op {
	case "==":
		return document.Equal(left, right)
	case "!=":
		return !document.Equal(left, right)
	case "<":
		return compareLess(left, right)
	case "<=":
		return compareLess(left, right) || document.Equal(left, right)
	case ">":
		return compareLess(right, left)
	case ">=":
		return compareLess(right, left) || document.Equal(left, right)
	default:
		return false
	}
}

// compareLess checks if left < right for numbers and strings.
func compareLess(left, right any) bool {
	if lf, ok := number(left); ok {
		rf, ok := number(right)
		return ok && lf < rf
	}

	ls, lok := left.(string)
	rs, rok := right.(string)
	return lok && rok && ls < rs
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// String returns a string representation of the filter expression.
func (f *FilterExpr) String() string {
	if f.Operator == "" {
		return "@." + f.Field
	}
	return fmt.Sprintf("@.%s %s %v", f.Field, f.Operator, f.Value)
}

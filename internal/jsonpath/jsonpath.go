// Package jsonpath provides a minimal JSONPath implementation used to select
// the nodes a plugin operates on.
//
// This package implements a subset of RFC 9535 JSONPath. Every match is
// returned together with its location, so callers can replace or remove the
// matched value in its parent.
//
// Supported syntax:
//   - $ (root)
//   - .field or ['field'] (child access; field names may contain '$' and '-')
//   - .* or [*] (wildcard - all children)
//   - [0] (array index, negative counts from the end)
//   - ..field, ..* and ..[...] (recursive descent)
//   - [?@.field] (existence filter)
//   - [?@.field==value] (comparison filter: ==, !=, <, <=, >, >=)
//
// The legacy parenthesized filter form [?(@.field)] is accepted too.
//
// Not supported:
//   - [start:end:step] (array slicing)
//   - && and || (complex boolean filters)
//   - Filter functions like length(), count()
package jsonpath

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Path represents a parsed JSONPath expression.
type Path struct {
	raw      string
	segments []Segment
}

// String returns the original JSONPath expression.
func (p *Path) String() string {
	return p.raw
}

// Segment represents a single segment in a JSONPath expression.
type Segment interface {
	segmentType() string
}

// RootSegment represents the root selector ($).
type RootSegment struct{}

func (RootSegment) segmentType() string { return "root" }

// ChildSegment represents a child property selector (.field or ['field']).
type ChildSegment struct {
	Key string
}

func (ChildSegment) segmentType() string { return "child" }

// WildcardSegment represents a wildcard selector (.* or [*]).
type WildcardSegment struct{}

func (WildcardSegment) segmentType() string { return "wildcard" }

// IndexSegment represents an array index selector ([n]).
type IndexSegment struct {
	Index int
}

func (IndexSegment) segmentType() string { return "index" }

// FilterSegment represents a filter selector ([?expr]).
type FilterSegment struct {
	Expr *FilterExpr
}

func (FilterSegment) segmentType() string { return "filter" }

// RecursiveSegment applies Child to a node and every descendant (..).
type RecursiveSegment struct {
	Child Segment
}

func (RecursiveSegment) segmentType() string { return "recursive" }

// FilterExpr represents a simple filter expression. An empty Operator is an
// existence test.
type FilterExpr struct {
	Field    string // Field name after @. (e.g., "name" for @.name)
	Operator string // "", ==, !=, <, >, <=, >=
	Value    any    // The comparison value (string, number, bool, nil)
}

// Parse parses a JSONPath expression string into a Path.
//
// Examples:
//
//	Parse("$.info")                     // Navigate to info object
//	Parse("$.paths['/users'].get")      // Navigate to specific operation
//	Parse("$.paths.*.get")              // All GET operations
//	Parse("$..[?(@.$ref)]")             // Every object holding a $ref
//	Parse("$.paths.*[?@.x-internal==true]")
func Parse(expr string) (*Path, error) {
	if expr == "" {
		return nil, fmt.Errorf("jsonpath: empty expression")
	}

	p := &parser{input: expr}
	segments, err := p.parse()
	if err != nil {
		return nil, err
	}

	return &Path{raw: expr, segments: segments}, nil
}

// MustParse is like Parse but panics on error.
func MustParse(expr string) *Path {
	p, err := Parse(expr)
	if err != nil {
		panic(err)
	}
	return p
}

type parser struct {
	input string
	pos   int
}

func (p *parser) parse() ([]Segment, error) {
	if !p.consume('$') {
		return nil, fmt.Errorf("jsonpath: expression must start with '$'")
	}
	segments := []Segment{RootSegment{}}

	for p.pos < len(p.input) {
		switch ch := p.peek(); ch {
		case '.':
			p.advance()
			if p.consume('.') {
				seg, err := p.parseRecursive()
				if err != nil {
					return nil, err
				}
				segments = append(segments, seg)
				continue
			}
			seg, err := p.parseDotSegment()
			if err != nil {
				return nil, err
			}
			segments = append(segments, seg)

		case '[':
			p.advance()
			seg, err := p.parseBracketSegment()
			if err != nil {
				return nil, err
			}
			segments = append(segments, seg)

		default:
			return nil, fmt.Errorf("jsonpath: unexpected character %q at position %d", ch, p.pos)
		}
	}

	return segments, nil
}

func (p *parser) parseRecursive() (Segment, error) {
	if p.pos >= len(p.input) {
		return nil, fmt.Errorf("jsonpath: unexpected end after '..'")
	}
	var (
		child Segment
		err   error
	)
	if p.consume('[') {
		child, err = p.parseBracketSegment()
	} else {
		child, err = p.parseDotSegment()
	}
	if err != nil {
		return nil, err
	}
	return RecursiveSegment{Child: child}, nil
}

func (p *parser) parseDotSegment() (Segment, error) {
	if p.pos >= len(p.input) {
		return nil, fmt.Errorf("jsonpath: unexpected end after '.'")
	}

	if p.consume('*') {
		return WildcardSegment{}, nil
	}

	key := p.parseIdentifier()
	if key == "" {
		return nil, fmt.Errorf("jsonpath: expected identifier after '.' at position %d", p.pos)
	}
	return ChildSegment{Key: key}, nil
}

func (p *parser) parseBracketSegment() (Segment, error) {
	if p.pos >= len(p.input) {
		return nil, fmt.Errorf("jsonpath: unexpected end after '['")
	}

	ch := p.peek()
	switch {
	case ch == '?':
		p.advance()
		return p.parseFilterSegment()

	case ch == '*':
		p.advance()
		if !p.consume(']') {
			return nil, fmt.Errorf("jsonpath: expected ']' after '[*'")
		}
		return WildcardSegment{}, nil

	case ch == '\'' || ch == '"':
		p.advance()
		key, err := p.parseQuotedString(ch)
		if err != nil {
			return nil, err
		}
		if !p.consume(']') {
			return nil, fmt.Errorf("jsonpath: expected ']' after quoted key")
		}
		return ChildSegment{Key: key}, nil

	case unicode.IsDigit(rune(ch)) || ch == '-':
		numStr := p.parseInteger()
		if !p.consume(']') {
			return nil, fmt.Errorf("jsonpath: expected ']' after index")
		}
		idx, err := strconv.Atoi(numStr)
		if err != nil {
			return nil, fmt.Errorf("jsonpath: invalid index %q: %w", numStr, err)
		}
		return IndexSegment{Index: idx}, nil
	}

	return nil, fmt.Errorf("jsonpath: unexpected character %q in bracket at position %d", ch, p.pos)
}

func (p *parser) parseFilterSegment() (Segment, error) {
	hadParen := p.consume('(')
	p.skipWhitespace()

	if !p.consume('@') || !p.consume('.') {
		return nil, fmt.Errorf("jsonpath: expected '@.' in filter expression at position %d", p.pos)
	}

	field := p.parseIdentifier()
	if field == "" {
		return nil, fmt.Errorf("jsonpath: expected field name in filter at position %d", p.pos)
	}
	p.skipWhitespace()

	expr := &FilterExpr{Field: field}
	if ch := p.peek(); ch != ')' && ch != ']' {
		expr.Operator = p.parseOperator()
		if expr.Operator == "" {
			return nil, fmt.Errorf("jsonpath: expected operator in filter at position %d", p.pos)
		}
		value, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		expr.Value = value
		p.skipWhitespace()
	}

	if hadParen && !p.consume(')') {
		return nil, fmt.Errorf("jsonpath: expected ')' to close filter at position %d", p.pos)
	}
	if !p.consume(']') {
		return nil, fmt.Errorf("jsonpath: expected ']' after filter expression")
	}

	return FilterSegment{Expr: expr}, nil
}

func (p *parser) parseIdentifier() string {
	start := p.pos
	for p.pos < len(p.input) && isIdentChar(p.input[p.pos]) {
		p.pos++
	}
	return p.input[start:p.pos]
}

func (p *parser) parseQuotedString(quote byte) (string, error) {
	var result strings.Builder
	for p.pos < len(p.input) {
		ch := p.input[p.pos]
		if ch == quote {
			p.pos++
			return result.String(), nil
		}
		if ch == '\\' && p.pos+1 < len(p.input) {
			p.pos++
			switch escaped := p.input[p.pos]; escaped {
			case 'n':
				result.WriteByte('\n')
			case 't':
				result.WriteByte('\t')
			default:
				result.WriteByte(escaped)
			}
			p.pos++
			continue
		}
		result.WriteByte(ch)
		p.pos++
	}
	return "", fmt.Errorf("jsonpath: unterminated string at position %d", p.pos)
}

func (p *parser) parseInteger() string {
	start := p.pos
	p.consume('-')
	for p.pos < len(p.input) && unicode.IsDigit(rune(p.input[p.pos])) {
		p.pos++
	}
	return p.input[start:p.pos]
}

func (p *parser) parseOperator() string {
	rest := p.input[p.pos:]
	for _, op := range []string{"==", "!=", "<=", ">=", "<", ">"} {
		if strings.HasPrefix(rest, op) {
			p.pos += len(op)
			return op
		}
	}
	return ""
}

func (p *parser) parseValue() (any, error) {
	p.skipWhitespace()
	if p.pos >= len(p.input) {
		return nil, fmt.Errorf("jsonpath: expected value at position %d", p.pos)
	}

	ch := p.peek()
	if ch == '\'' || ch == '"' {
		p.advance()
		return p.parseQuotedString(ch)
	}

	rest := p.input[p.pos:]
	for lit, v := range map[string]any{"true": true, "false": false, "null": nil} {
		if strings.HasPrefix(rest, lit) {
			p.pos += len(lit)
			return v, nil
		}
	}

	if unicode.IsDigit(rune(ch)) || ch == '-' {
		start := p.pos
		numStr := p.parseInteger()
		if p.consume('.') {
			for p.pos < len(p.input) && unicode.IsDigit(rune(p.input[p.pos])) {
				p.pos++
			}
			numStr = p.input[start:p.pos]
			f, err := strconv.ParseFloat(numStr, 64)
			if err != nil {
				return nil, fmt.Errorf("jsonpath: invalid number %q: %w", numStr, err)
			}
			return f, nil
		}
		i, err := strconv.Atoi(numStr)
		if err != nil {
			return nil, fmt.Errorf("jsonpath: invalid number %q: %w", numStr, err)
		}
		return i, nil
	}

	return nil, fmt.Errorf("jsonpath: unexpected character %q when parsing value at position %d", ch, p.pos)
}

func (p *parser) peek() byte {
	if p.pos >= len(p.input) {
		return 0
	}
	return p.input[p.pos]
}

func (p *parser) advance() {
	if p.pos < len(p.input) {
		p.pos++
	}
}

func (p *parser) consume(ch byte) bool {
	if p.peek() == ch {
		p.advance()
		return true
	}
	return false
}

func (p *parser) skipWhitespace() {
	for p.pos < len(p.input) && unicode.IsSpace(rune(p.input[p.pos])) {
		p.pos++
	}
}

func isIdentChar(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') ||
		(ch >= 'A' && ch <= 'Z') ||
		(ch >= '0' && ch <= '9') ||
		ch == '_' || ch == '-' || ch == '$'
}

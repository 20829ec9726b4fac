package kross

import (
	"fmt"
	"strings"
	"time"
)

// Operator is a comparison symbol accepted by the reservations filter.
type Operator string

const (
	LessThan       Operator = "<"
	GreaterThan    Operator = ">"
	LessOrEqual    Operator = "<="
	GreaterOrEqual Operator = ">="
	Equal          Operator = "="
	// DoubleEqual is an alias of Equal, it shares its token.
	DoubleEqual Operator = "=="
)

type operatorEntry struct {
	op    Operator
	token string
}

// operatorTable is ordered, the first symbol using a token is the one
// OperatorFromToken returns.
var operatorTable = []operatorEntry{
	{op: LessThan, token: "mi"},
	{op: GreaterThan, token: "ma"},
	{op: LessOrEqual, token: "miu"},
	{op: GreaterOrEqual, token: "mau"},
	{op: Equal, token: "e"},
	{op: DoubleEqual, token: "e"},
}

// Operators lists every supported symbol.
func Operators() []Operator {
	out := make([]Operator, len(operatorTable))
	for i, e := range operatorTable {
		out[i] = e.op
	}
	return out
}

// EncodeOperator returns the token the service uses for `op`.
func EncodeOperator(op Operator) (string, error) {
	for _, e := range operatorTable {
		if e.op == op {
			return e.token, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedOperator, string(op))
}

// OperatorFromToken is the reverse of EncodeOperator, "e" decodes to Equal.
func OperatorFromToken(token string) (Operator, error) {
	for _, e := range operatorTable {
		if e.token == token {
			return e.op, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnrecognizedOperatorToken, token)
}

// Filter is a single condition on a reservation field. Value is sent
// verbatim.
type Filter struct {
	Field    Field
	Operator Operator
	Value    string
}

const filterTemplate = "zt4_cond[%s]=%s&%s=%s"

// BuildFilter encodes a condition as `zt4_cond[<key>]=<token>&<key>=<value>`.
//
// The value is not escaped: a value containing '&' or '=' produces an
// ambiguous fragment.
func BuildFilter(field Field, op Operator, value string) (string, error) {
	if !field.Filterable() {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFilterField, field)
	}
	token, err := EncodeOperator(op)
	if err != nil {
		return "", err
	}
	key := field.Key()
	return fmt.Sprintf(filterTemplate, key, token, key, value), nil
}

// DateLayout is the dd/mm/yyyy form dates are filtered and rendered with.
const DateLayout = "02/01/2006"

// DateFilter compares a date field against the calendar day of `t`, in the
// location `t` carries.
func DateFilter(field Field, op Operator, t time.Time) Filter {
	return Filter{Field: field, Operator: op, Value: t.Format(DateLayout)}
}

func (f Filter) Encode() (string, error) {
	return BuildFilter(f.Field, f.Operator, f.Value)
}

func (f Filter) String() string {
	return fmt.Sprintf("%s %s %s", f.Field, f.Operator, f.Value)
}

// BuildFilters encodes every filter and joins the fragments with '&'.
func BuildFilters(filters ...Filter) (string, error) {
	fragments := make([]string, len(filters))
	for i, f := range filters {
		encoded, err := f.Encode()
		if err != nil {
			return "", err
		}
		fragments[i] = encoded
	}
	return strings.Join(fragments, "&"), nil
}

// operators tried when parsing, two character symbols first so that ">="
// is not read as ">" followed by "=...".
var parseOrder = []Operator{
	DoubleEqual, LessOrEqual, GreaterOrEqual, LessThan, GreaterThan, Equal,
}

const suggestionThreshold = 0.8

// ParseFilter parses expressions like "arrival>=15/02/2025" or
// "Status = Confirmed". The field may be given by constant name, wire key
// or label.
func ParseFilter(expr string) (Filter, error) {
	idx := -1
	var op Operator
	for _, candidate := range parseOrder {
		i := strings.Index(expr, string(candidate))
		if i < 0 {
			continue
		}
		// leftmost operator wins, longer symbols win ties
		if idx < 0 || i < idx {
			idx = i
			op = candidate
		}
	}
	if idx <= 0 {
		return Filter{}, fmt.Errorf("%w: %q", ErrInvalidFilter, expr)
	}

	name := strings.TrimSpace(expr[:idx])
	value := strings.TrimSpace(expr[idx+len(op):])

	field, ok := FieldFromName(name)
	if !ok {
		suggestion, similarity := SuggestField(name)
		if similarity >= suggestionThreshold {
			return Filter{}, fmt.Errorf("%w: %q (did you mean %q?)", ErrUnknownField, name, suggestion.Key())
		}
		return Filter{}, fmt.Errorf("%w: %q", ErrUnknownField, name)
	}

	return Filter{Field: field, Operator: op, Value: value}, nil
}

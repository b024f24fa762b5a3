package simpleblog

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Query methods understood by the platform.
const (
	QueryEqual     = "equal"
	QueryNotEqual  = "notEqual"
	QuerySearch    = "search"
	QueryLimit     = "limit"
	QueryOffset    = "offset"
	QueryOrderAsc  = "orderAsc"
	QueryOrderDesc = "orderDesc"
)

// Query is one predicate or modifier passed through to a listing call.
// It serializes to the platform's JSON query syntax.
type Query struct {
	Method    string `json:"method"`
	Attribute string `json:"attribute,omitempty"`
	Values    []any  `json:"values,omitempty"`
}

// String renders the query in wire format.
func (q Query) String() string {
	b, err := json.Marshal(q)
	if err != nil {
		return fmt.Sprintf(`{"method":%q}`, q.Method)
	}
	return string(b)
}

// ParseQuery decodes a query in wire format.
func ParseQuery(s string) (Query, error) {
	var q Query
	if err := json.Unmarshal([]byte(strings.TrimSpace(s)), &q); err != nil {
		return Query{}, fmt.Errorf("invalid query %q: %w", s, err)
	}
	if q.Method == "" {
		return Query{}, fmt.Errorf("invalid query %q: missing method", s)
	}
	return q, nil
}

// Equal matches documents whose attribute equals any of values.
func Equal(attribute string, values ...any) Query {
	return Query{Method: QueryEqual, Attribute: attribute, Values: values}
}

// NotEqual matches documents whose attribute differs from value.
func NotEqual(attribute string, value any) Query {
	return Query{Method: QueryNotEqual, Attribute: attribute, Values: []any{value}}
}

// Search matches documents whose attribute contains term.
func Search(attribute, term string) Query {
	return Query{Method: QuerySearch, Attribute: attribute, Values: []any{term}}
}

// Limit caps the number of returned documents.
func Limit(n int) Query {
	return Query{Method: QueryLimit, Values: []any{n}}
}

// Offset skips the first n matching documents.
func Offset(n int) Query {
	return Query{Method: QueryOffset, Values: []any{n}}
}

func OrderAsc(attribute string) Query {
	return Query{Method: QueryOrderAsc, Attribute: attribute}
}

func OrderDesc(attribute string) Query {
	return Query{Method: QueryOrderDesc, Attribute: attribute}
}

// DefaultPostQueries is the filter applied by ContentService.GetPost when
// the caller supplies none.
func DefaultPostQueries() []Query {
	return []Query{Equal(AttrStatus, string(PostStatusActive))}
}

// Package query compiles client-supplied query parameters into a bounded
// GORM query against the complaints table. Parameter names are checked
// against an explicit allow-list so arbitrary column paths can never reach
// the database.
package query

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/awaazhq/awaaz-api/internal/constants"
)

var (
	// ErrUnknownField is returned when a filter, sort, or projection
	// parameter does not name a known complaint field.
	ErrUnknownField = errors.New("unknown field")
	// ErrUnknownOperator is returned for a range operator outside gt/gte/lt/lte.
	ErrUnknownOperator = errors.New("unknown operator")
	// ErrBadValue is returned when a filter value cannot be converted to the
	// field's type.
	ErrBadValue = errors.New("invalid value")
)

// Op is a comparison operator in a compiled filter.
type Op string

const (
	OpEq  Op = "="
	OpGt  Op = ">"
	OpGte Op = ">="
	OpLt  Op = "<"
	OpLte Op = "<="
)

var rangeOps = map[string]Op{
	"gt":  OpGt,
	"gte": OpGte,
	"lt":  OpLt,
	"lte": OpLte,
}

// Filter is one compiled predicate: either Equals(field, value) or
// Range(field, op, value).
type Filter struct {
	Column string
	Op     Op
	Value  interface{}
}

// SortField is one compiled ordering term.
type SortField struct {
	Column string
	Desc   bool
}

// Query is the compiled, bounded form of a complaint list request.
type Query struct {
	Filters []Filter
	Sort    []SortField
	Fields  []string
	Page    int
	Limit   int
}

type fieldKind int

const (
	kindString fieldKind = iota
	kindInt
	kindTime
)

type fieldSpec struct {
	column string
	kind   fieldKind
}

// filterFields maps client parameter names to complaint columns. Anything
// absent from this map is rejected.
var filterFields = map[string]fieldSpec{
	"title":      {"title", kindString},
	"category":   {"category", kindString},
	"location":   {"location", kindString},
	"status":     {"status", kindString},
	"priority":   {"priority", kindString},
	"votes":      {"votes", kindInt},
	"user":       {"user_id", kindInt},
	"assignedTo": {"assigned_to_id", kindInt},
	"createdAt":  {"created_at", kindTime},
	"updatedAt":  {"updated_at", kindTime},
}

// selectFields maps projection names to columns. Internal columns
// (password hashes, soft-delete markers) are never selectable.
var selectFields = map[string]string{
	"id":          "id",
	"title":       "title",
	"description": "description",
	"category":    "category",
	"location":    "location",
	"images":      "images",
	"status":      "status",
	"priority":    "priority",
	"user":        "user_id",
	"assignedTo":  "assigned_to_id",
	"votes":       "votes",
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
}

var reserved = map[string]bool{
	"page":   true,
	"sort":   true,
	"limit":  true,
	"fields": true,
}

// Parse compiles raw query parameters into a Query. Reserved parameters
// (page, sort, limit, fields) shape the result; every other parameter must
// name an allow-listed complaint field.
func Parse(values url.Values) (Query, error) {
	q := Query{
		Page:  constants.DefaultPage,
		Limit: constants.DefaultPageSize,
	}

	for key := range values {
		if reserved[key] {
			continue
		}

		name, opToken, err := splitKey(key)
		if err != nil {
			return Query{}, err
		}

		spec, ok := filterFields[name]
		if !ok {
			return Query{}, fmt.Errorf("%w: %s", ErrUnknownField, name)
		}

		op := OpEq
		if opToken != "" {
			op, ok = rangeOps[opToken]
			if !ok {
				return Query{}, fmt.Errorf("%w: %s", ErrUnknownOperator, opToken)
			}
		}

		value, err := convertValue(spec, values.Get(key))
		if err != nil {
			return Query{}, err
		}

		q.Filters = append(q.Filters, Filter{Column: spec.column, Op: op, Value: value})
	}

	sort, err := parseSort(values.Get("sort"))
	if err != nil {
		return Query{}, err
	}
	q.Sort = sort

	fields, err := parseFields(values.Get("fields"))
	if err != nil {
		return Query{}, err
	}
	q.Fields = fields

	if page, err := strconv.Atoi(values.Get("page")); err == nil && page > 0 {
		q.Page = page
	}
	if limit, err := strconv.Atoi(values.Get("limit")); err == nil && limit > 0 {
		q.Limit = limit
	}

	return q, nil
}

// splitKey separates "votes[gte]" into its field name and operator token.
// A key without brackets is an equality filter.
func splitKey(key string) (name, op string, err error) {
	open := strings.IndexByte(key, '[')
	if open < 0 {
		return key, "", nil
	}
	if !strings.HasSuffix(key, "]") || open == 0 {
		return "", "", fmt.Errorf("%w: %s", ErrUnknownField, key)
	}
	return key[:open], key[open+1 : len(key)-1], nil
}

func convertValue(spec fieldSpec, raw string) (interface{}, error) {
	switch spec.kind {
	case kindInt:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w for %s: %q", ErrBadValue, spec.column, raw)
		}
		return n, nil
	case kindTime:
		for _, layout := range []string{time.RFC3339, "2006-01-02"} {
			if t, err := time.Parse(layout, raw); err == nil {
				return t, nil
			}
		}
		return nil, fmt.Errorf("%w for %s: %q", ErrBadValue, spec.column, raw)
	default:
		return raw, nil
	}
}

func parseSort(raw string) ([]SortField, error) {
	if raw == "" {
		// Newest first by default
		return []SortField{{Column: "created_at", Desc: true}}, nil
	}

	var sort []SortField
	for _, term := range strings.Split(raw, ",") {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		desc := strings.HasPrefix(term, "-")
		name := strings.TrimPrefix(term, "-")
		spec, ok := filterFields[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownField, name)
		}
		sort = append(sort, SortField{Column: spec.column, Desc: desc})
	}

	if len(sort) == 0 {
		return []SortField{{Column: "created_at", Desc: true}}, nil
	}
	return sort, nil
}

func parseFields(raw string) ([]string, error) {
	if raw == "" {
		return nil, nil
	}

	var columns []string
	seen := map[string]bool{}

	for _, name := range strings.Split(raw, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		column, ok := selectFields[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownField, name)
		}
		if !seen[column] {
			columns = append(columns, column)
			seen[column] = true
		}
	}

	return columns, nil
}

// Scope applies the compiled query to a GORM statement. Column names come
// from the allow-list maps above, never from client input.
func (q Query) Scope() func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		for _, f := range q.Filters {
			db = db.Where(fmt.Sprintf("%s %s ?", f.Column, f.Op), f.Value)
		}
		for _, s := range q.Sort {
			direction := "ASC"
			if s.Desc {
				direction = "DESC"
			}
			db = db.Order(fmt.Sprintf("%s %s", s.Column, direction))
		}
		if len(q.Fields) > 0 {
			db = db.Select(q.selectColumns())
		}
		return db.Offset((q.Page - 1) * q.Limit).Limit(q.Limit)
	}
}

// selectColumns is the SQL projection: the requested fields plus id and
// user_id, which are always fetched so rows stay addressable and the owner
// preload can run. The extra columns never reach the response unless the
// client asked for them.
func (q Query) selectColumns() []string {
	columns := []string{"id", "user_id"}
	seen := map[string]bool{"id": true, "user_id": true}
	for _, f := range q.Fields {
		if !seen[f] {
			columns = append(columns, f)
			seen[f] = true
		}
	}
	return columns
}

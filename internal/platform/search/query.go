// Package search builds parameterized SQL WHERE clauses from REST list
// filters. It encapsulates the filter pattern shared by the domain
// repositories.
package search

import (
	"fmt"
	"strings"
)

// ParamType defines how a filter value is matched against its column.
type ParamType int

const (
	ParamToken     ParamType = iota // exact match (status, codes)
	ParamString                     // case-insensitive substring
	ParamDate                       // supports gt/ge/lt/le/eq prefixes
	ParamReference                  // UUID foreign key equality
	ParamNumber                     // numeric with gt/ge/lt/le/eq prefixes
)

// ParamConfig maps a query parameter to its database column.
type ParamConfig struct {
	Type   ParamType
	Column string
}

// Query accumulates WHERE fragments and ordering for a list query.
type Query struct {
	table   string
	cols    string
	where   string
	args    []interface{}
	idx     int
	orderBy string
}

// NewQuery creates a Query for the given table and column list.
func NewQuery(table, cols string) *Query {
	return &Query{table: table, cols: cols, idx: 1}
}

// Add appends a raw WHERE clause fragment (without leading "AND"). Positional
// placeholders in the fragment must start at the current Idx.
func (q *Query) Add(clause string, args ...interface{}) {
	q.where += " AND " + clause
	q.args = append(q.args, args...)
	q.idx += len(args)
}

// Idx returns the next available placeholder index.
func (q *Query) Idx() int { return q.idx }

// ApplyParams applies every recognized parameter from params using configs.
// Unknown parameters are ignored.
func (q *Query) ApplyParams(params map[string]string, configs map[string]ParamConfig) {
	for name, cfg := range configs {
		value, ok := params[name]
		if !ok || value == "" {
			continue
		}
		q.applyParam(cfg, value)
	}
}

func (q *Query) applyParam(cfg ParamConfig, value string) {
	switch cfg.Type {
	case ParamString:
		q.Add(fmt.Sprintf("%s ILIKE $%d", cfg.Column, q.idx), "%"+value+"%")
	case ParamDate, ParamNumber:
		op, v := splitPrefix(value)
		q.Add(fmt.Sprintf("%s %s $%d", cfg.Column, op, q.idx), v)
	default: // ParamToken, ParamReference
		q.Add(fmt.Sprintf("%s = $%d", cfg.Column, q.idx), value)
	}
}

// splitPrefix strips a comparison prefix (gt, ge, lt, le, eq) from a value and
// returns the matching SQL operator.
func splitPrefix(value string) (string, string) {
	prefixes := map[string]string{
		"gt": ">", "ge": ">=", "lt": "<", "le": "<=", "eq": "=",
	}
	if len(value) > 2 {
		if op, ok := prefixes[value[:2]]; ok {
			return op, value[2:]
		}
	}
	return "=", value
}

// OrderBy sets a raw ORDER BY clause. The clause must come from a whitelist,
// never from user input.
func (q *Query) OrderBy(clause string) { q.orderBy = clause }

// ApplyOrdering translates an ordering parameter ("field" or "-field") into an
// ORDER BY clause using the allowed column whitelist. Unknown fields leave the
// existing ordering untouched.
func (q *Query) ApplyOrdering(ordering string, allowed map[string]string) {
	if ordering == "" {
		return
	}
	desc := strings.HasPrefix(ordering, "-")
	field := strings.TrimPrefix(ordering, "-")
	col, ok := allowed[field]
	if !ok {
		return
	}
	dir := "ASC"
	if desc {
		dir = "DESC"
	}
	q.orderBy = col + " " + dir
}

// CountSQL returns the COUNT(*) query for the accumulated filters.
func (q *Query) CountSQL() string {
	return fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE 1=1%s", q.table, q.where)
}

// CountArgs returns the arguments for CountSQL.
func (q *Query) CountArgs() []interface{} { return q.args }

// SQL returns the data query without pagination.
func (q *Query) SQL() string {
	sql := fmt.Sprintf("SELECT %s FROM %s WHERE 1=1%s", q.cols, q.table, q.where)
	if q.orderBy != "" {
		sql += " ORDER BY " + q.orderBy
	}
	return sql
}

// Args returns the arguments for SQL.
func (q *Query) Args() []interface{} { return q.args }

// DataSQL returns the data query with LIMIT/OFFSET placeholders appended.
func (q *Query) DataSQL(limit, offset int) string {
	sql := fmt.Sprintf("SELECT %s FROM %s WHERE 1=1%s", q.cols, q.table, q.where)
	if q.orderBy != "" {
		sql += " ORDER BY " + q.orderBy
	}
	sql += fmt.Sprintf(" LIMIT $%d OFFSET $%d", q.idx, q.idx+1)
	return sql
}

// DataArgs returns the arguments for DataSQL.
func (q *Query) DataArgs(limit, offset int) []interface{} {
	return append(append([]interface{}{}, q.args...), limit, offset)
}

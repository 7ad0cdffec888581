// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"fmt"
	"maps"
	"math"
	"slices"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-sync-store/internal/query"
	"github.com/MKhiriev/go-sync-store/models"
)

// cacheColumns are selected by every cache read, in scan order.
var cacheColumns = []string{"collection", "id", "revision", "payload", "stored_at"}

// fieldExpr maps a validated field path to a SQLite expression.
func fieldExpr(field string) string {
	if field == models.IDField {
		return "id"
	}
	return "json_extract(payload, '$." + field + "')"
}

func fieldType(field string) string {
	return "json_type(payload, '$." + field + "')"
}

// filterCondition translates f into a squirrel condition. Field paths must
// have been validated with [query.ValidateFilter] since they are inlined.
func filterCondition(f models.Filter) (sq.Sqlizer, error) {
	conds := sq.And{}
	for _, key := range slices.Sorted(maps.Keys(f)) {
		value := f[key]

		if key == models.OpOr {
			subs, err := query.SubFilters(value)
			if err != nil {
				return nil, err
			}
			if len(subs) == 0 {
				conds = append(conds, sq.Expr("1 = 0"))
				continue
			}
			or := sq.Or{}
			for _, sub := range subs {
				cond, err := filterCondition(sub)
				if err != nil {
					return nil, err
				}
				or = append(or, cond)
			}
			conds = append(conds, or)
			continue
		}

		fieldConds, err := fieldCondition(key, value)
		if err != nil {
			return nil, err
		}
		conds = append(conds, fieldConds...)
	}

	if len(conds) == 0 {
		return sq.Expr("1 = 1"), nil
	}
	return conds, nil
}

func fieldCondition(field string, value any) ([]sq.Sqlizer, error) {
	expr := fieldExpr(field)

	ops, isOps := query.Operators(value)
	if !isOps {
		return []sq.Sqlizer{eqCondition(expr, value)}, nil
	}

	conds := make([]sq.Sqlizer, 0, len(ops))
	for _, op := range slices.Sorted(maps.Keys(ops)) {
		operand := sqlValue(ops[op])
		switch op {
		case models.OpNe:
			conds = append(conds, neCondition(expr, operand))
		case models.OpIn:
			list, _ := ops[op].([]any)
			conds = append(conds, inCondition(expr, list))
		case models.OpNin:
			list, _ := ops[op].([]any)
			conds = append(conds, ninCondition(expr, list))
		case models.OpGt, models.OpGte, models.OpLt, models.OpLte:
			conds = append(conds, rangeCondition(field, expr, op, operand))
		default:
			return nil, fmt.Errorf("%w: %q", query.ErrInvalidOperator, op)
		}
	}
	return conds, nil
}

func eqCondition(expr string, value any) sq.Sqlizer {
	return sq.Eq{expr: sqlValue(value)}
}

func neCondition(expr string, value any) sq.Sqlizer {
	if value == nil {
		return sq.NotEq{expr: nil}
	}
	return sq.Or{sq.Eq{expr: nil}, sq.NotEq{expr: value}}
}

func inCondition(expr string, list []any) sq.Sqlizer {
	values, hasNull := splitNull(list)
	switch {
	case len(values) == 0 && !hasNull:
		return sq.Expr("1 = 0")
	case len(values) == 0:
		return sq.Eq{expr: nil}
	case hasNull:
		return sq.Or{sq.Eq{expr: nil}, sq.Eq{expr: values}}
	default:
		return sq.Eq{expr: values}
	}
}

func ninCondition(expr string, list []any) sq.Sqlizer {
	values, hasNull := splitNull(list)
	switch {
	case len(values) == 0 && !hasNull:
		return sq.Expr("1 = 1")
	case len(values) == 0:
		return sq.NotEq{expr: nil}
	case hasNull:
		return sq.And{sq.NotEq{expr: nil}, sq.NotEq{expr: values}}
	default:
		return sq.Or{sq.Eq{expr: nil}, sq.NotEq{expr: values}}
	}
}

// rangeCondition compares only values of the operand's JSON type so that a
// number never orders against a string.
func rangeCondition(field, expr, op string, operand any) sq.Sqlizer {
	var cmp sq.Sqlizer
	switch op {
	case models.OpGt:
		cmp = sq.Gt{expr: operand}
	case models.OpGte:
		cmp = sq.GtOrEq{expr: operand}
	case models.OpLt:
		cmp = sq.Lt{expr: operand}
	default:
		cmp = sq.LtOrEq{expr: operand}
	}

	if field == models.IDField {
		return cmp
	}
	if _, isStr := operand.(string); isStr {
		return sq.And{sq.Eq{fieldType(field): "text"}, cmp}
	}
	return sq.And{sq.Eq{fieldType(field): []any{"integer", "real"}}, cmp}
}

func splitNull(list []any) ([]any, bool) {
	values := make([]any, 0, len(list))
	hasNull := false
	for _, v := range list {
		if v == nil {
			hasNull = true
			continue
		}
		values = append(values, sqlValue(v))
	}
	return values, hasNull
}

// sqlValue converts decoded JSON scalars to driver values. Numbers are
// bound as float64 unless integral.
func sqlValue(v any) any {
	switch t := v.(type) {
	case nil, string:
		return t
	case bool:
		if t {
			return int64(1)
		}
		return int64(0)
	}
	if n, ok := query.ToNumber(v); ok {
		if n == math.Trunc(n) && math.Abs(n) < 1<<53 {
			return int64(n)
		}
		return n
	}
	return v
}

// applySortAndPaging adds ORDER BY, LIMIT and OFFSET to b. Without sort
// fields entries come back in insertion order.
func applySortAndPaging(b sq.SelectBuilder, q models.Query) sq.SelectBuilder {
	for _, s := range q.Sort {
		dir := "ASC"
		if s.Descending {
			dir = "DESC"
		}
		b = b.OrderBy(fieldExpr(s.Field) + " " + dir)
	}
	b = b.OrderBy("rowid ASC")

	if q.Limit > 0 {
		b = b.Limit(uint64(q.Limit))
	}
	if q.Skip > 0 {
		if q.Limit <= 0 {
			// sqlite needs a LIMIT before OFFSET
			b = b.Limit(math.MaxInt64)
		}
		b = b.Offset(uint64(q.Skip))
	}
	return b
}

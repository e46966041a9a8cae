// Package query builds the WHERE clause for the search endpoints: a
// conjunction of equality tests over whichever optional filters are present.
package query

import "strings"

// Cond is one optional equality test. An absent Cond contributes nothing.
type Cond struct {
	column  string
	value   any
	present bool
}

// Eq returns a condition on column that is present iff v is non-nil. Presence
// is independent of the value: a pointer to "" or 0 still filters.
func Eq[T any](column string, v *T) Cond {
	if v == nil {
		return Cond{column: column}
	}
	return Cond{column: column, value: *v, present: true}
}

// Column reports the column the condition tests.
func (c Cond) Column() string { return c.column }

// Present reports whether the condition takes part in the predicate.
func (c Cond) Present() bool { return c.present }

// Where renders the conjunction of the present conditions as
// " WHERE a = ? AND b = ?" with its arguments in order. It returns an empty
// clause when no condition is present, matching every row. Placeholders are
// in '?' form; callers rebind them for their driver.
func Where(conds ...Cond) (string, []any) {
	var (
		b    strings.Builder
		args []any
	)
	for _, c := range conds {
		if !c.present {
			continue
		}
		if len(args) == 0 {
			b.WriteString(" WHERE ")
		} else {
			b.WriteString(" AND ")
		}
		b.WriteString(c.column)
		b.WriteString(" = ?")
		args = append(args, c.value)
	}
	return b.String(), args
}

// Select renders "<base><where> ORDER BY <order>" for the given conditions.
func Select(base, order string, conds ...Cond) (string, []any) {
	where, args := Where(conds...)
	q := base + where
	if order != "" {
		q += " ORDER BY " + order
	}
	return q, args
}

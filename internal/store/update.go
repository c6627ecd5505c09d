package store

import (
	"fmt"
	"strings"
)

// UpdateSet accumulates column assignments for a sparse UPDATE: only fields
// present in a request are set, absent fields are left untouched. It emits a
// parameterized SET clause plus the positional argument list, so the
// no-field-means-unchanged semantics are testable without a database.
type UpdateSet struct {
	columns []string
	args    []any
}

// NewUpdateSet returns an empty UpdateSet.
func NewUpdateSet() *UpdateSet {
	return &UpdateSet{}
}

// Set records an assignment for column. Columns are emitted in insertion order.
func (u *UpdateSet) Set(column string, value any) *UpdateSet {
	u.columns = append(u.columns, column)
	u.args = append(u.args, value)
	return u
}

// SetString records an assignment only when value is non-nil.
func (u *UpdateSet) SetString(column string, value *string) *UpdateSet {
	if value != nil {
		u.Set(column, *value)
	}
	return u
}

// SetInt records an assignment only when value is non-nil.
func (u *UpdateSet) SetInt(column string, value *int) *UpdateSet {
	if value != nil {
		u.Set(column, *value)
	}
	return u
}

// SetBool records an assignment only when value is non-nil.
func (u *UpdateSet) SetBool(column string, value *bool) *UpdateSet {
	if value != nil {
		u.Set(column, *value)
	}
	return u
}

// Empty reports whether no assignments were recorded.
func (u *UpdateSet) Empty() bool {
	return len(u.columns) == 0
}

// Columns returns the assigned column names in insertion order.
func (u *UpdateSet) Columns() []string {
	return u.columns
}

// Clause renders "col1 = $N, col2 = $N+1, ..." starting at placeholder
// startIndex, and returns the matching argument slice.
func (u *UpdateSet) Clause(startIndex int) (string, []any) {
	parts := make([]string, len(u.columns))
	for i, col := range u.columns {
		parts[i] = fmt.Sprintf("%s = $%d", col, startIndex+i)
	}
	return strings.Join(parts, ", "), u.args
}

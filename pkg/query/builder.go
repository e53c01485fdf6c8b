package query

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// SortField is one ORDER BY term. Field is a view property name from the
// projection.
type SortField struct {
	Field      string
	Descending bool
}

// condition renders one WHERE term given the placeholder numbers of its
// arguments.
type condition struct {
	render func(ph []string) string
	args   []any
}

// Builder composes SELECT statements over a ProjectionMap. Placeholders are
// numbered at build time, in the order conditions were added.
type Builder struct {
	projection  *ProjectionMap
	conditions  []condition
	orderBy     []SortField
	defaultSort []SortField
}

func NewBuilder(projection *ProjectionMap, defaultSort ...SortField) *Builder {
	return &Builder{
		projection:  projection,
		defaultSort: defaultSort,
	}
}

// ParseSortFields parses "Field,-Other" into sort fields; a leading "-"
// sorts descending. Returns nil for empty input.
func ParseSortFields(s string) []SortField {
	var fields []SortField
	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, desc := strings.CutPrefix(part, "-")
		fields = append(fields, SortField{Field: name, Descending: desc})
	}
	return fields
}

// Build returns an unpaged SELECT over the current conditions and order.
func (b *Builder) Build() (string, []any) {
	where, args := b.where()
	return "SELECT " + b.projection.Columns() + " FROM " + b.projection.From() + where + b.order(), args
}

// BuildCount returns a COUNT(*) over the current conditions.
func (b *Builder) BuildCount() (string, []any) {
	where, args := b.where()
	return "SELECT COUNT(*) FROM " + b.projection.From() + where, args
}

// BuildPage returns an ordered page of rows. page is 1-based.
func (b *Builder) BuildPage(page, pageSize int) (string, []any) {
	where, args := b.where()
	sql := fmt.Sprintf(
		"SELECT %s FROM %s%s%s LIMIT %d OFFSET %d",
		b.projection.Columns(),
		b.projection.From(),
		where,
		b.order(),
		pageSize,
		(page-1)*pageSize,
	)
	return sql, args
}

// BuildSingle selects the row whose idField equals id. Conditions are
// ignored.
func (b *Builder) BuildSingle(idField string, id any) (string, []any) {
	sql := fmt.Sprintf(
		"SELECT %s FROM %s WHERE %s = $1",
		b.projection.Columns(),
		b.projection.From(),
		b.projection.Column(idField),
	)
	return sql, []any{id}
}

// BuildSingleOrNull selects at most one row matching the conditions.
func (b *Builder) BuildSingleOrNull() (string, []any) {
	where, args := b.where()
	return fmt.Sprintf("SELECT %s FROM %s%s LIMIT 1", b.projection.Columns(), b.projection.From(), where), args
}

// OrderByFields sets the sort order, overriding default sort fields.
// Fields absent from the projection are ignored, so client-supplied sort
// strings never reach the SQL text.
func (b *Builder) OrderByFields(fields []SortField) *Builder {
	b.orderBy = fields
	return b
}

// WhereEquals adds field = value. Nil values (including typed nil
// pointers) are skipped, which lets optional filters pass straight through.
func (b *Builder) WhereEquals(field string, value any) *Builder {
	if isNil(value) {
		return b
	}
	col := b.projection.Column(field)
	return b.add(func(ph []string) string { return col + " = " + ph[0] }, value)
}

// WhereIn adds field IN (...). Skipped when values is empty.
func (b *Builder) WhereIn(field string, values []any) *Builder {
	if len(values) == 0 {
		return b
	}
	col := b.projection.Column(field)
	return b.add(func(ph []string) string {
		return col + " IN (" + strings.Join(ph, ", ") + ")"
	}, values...)
}

// WhereNullable adds field IS NULL for a nil value, field = value otherwise.
func (b *Builder) WhereNullable(field string, value any) *Builder {
	col := b.projection.Column(field)
	if isNil(value) {
		return b.add(func([]string) string { return col + " IS NULL" })
	}
	return b.add(func(ph []string) string { return col + " = " + ph[0] }, value)
}

// WhereSearch matches search case-insensitively against any of fields.
// Skipped for a nil or empty search.
func (b *Builder) WhereSearch(search *string, fields ...string) *Builder {
	if search == nil || *search == "" || len(fields) == 0 {
		return b
	}

	cols := make([]string, len(fields))
	args := make([]any, len(fields))
	for i, f := range fields {
		cols[i] = b.projection.Column(f)
		args[i] = "%" + *search + "%"
	}

	return b.add(func(ph []string) string {
		terms := make([]string, len(cols))
		for i, col := range cols {
			terms[i] = col + " ILIKE " + ph[i]
		}
		return "(" + strings.Join(terms, " OR ") + ")"
	}, args...)
}

func (b *Builder) add(render func([]string) string, args ...any) *Builder {
	b.conditions = append(b.conditions, condition{render: render, args: args})
	return b
}

func (b *Builder) where() (string, []any) {
	if len(b.conditions) == 0 {
		return "", nil
	}

	var args []any
	terms := make([]string, len(b.conditions))
	for i, c := range b.conditions {
		ph := make([]string, len(c.args))
		for j := range c.args {
			ph[j] = "$" + strconv.Itoa(len(args)+j+1)
		}
		terms[i] = c.render(ph)
		args = append(args, c.args...)
	}
	return " WHERE " + strings.Join(terms, " AND "), args
}

func (b *Builder) order() string {
	terms := b.sortTerms(b.orderBy)
	if len(terms) == 0 {
		terms = b.sortTerms(b.defaultSort)
	}
	if len(terms) == 0 {
		return ""
	}
	return " ORDER BY " + strings.Join(terms, ", ")
}

func (b *Builder) sortTerms(fields []SortField) []string {
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		col, ok := b.projection.Lookup(f.Field)
		if !ok {
			continue
		}
		if f.Descending {
			terms = append(terms, col+" DESC")
		} else {
			terms = append(terms, col+" ASC")
		}
	}
	return terms
}

func isNil(value any) bool {
	if value == nil {
		return true
	}
	switch v := reflect.ValueOf(value); v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return v.IsNil()
	}
	return false
}

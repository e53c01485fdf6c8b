// Package query builds parameterized PostgreSQL queries against a
// projection of one table.
package query

import (
	"fmt"
	"strings"
)

// ProjectionMap maps view property names to alias-qualified columns.
type ProjectionMap struct {
	schema     string
	table      string
	alias      string
	columns    map[string]string
	columnList []string
}

func NewProjectionMap(schema, table, alias string) *ProjectionMap {
	return &ProjectionMap{
		schema:  schema,
		table:   table,
		alias:   alias,
		columns: make(map[string]string),
	}
}

// Project maps column to viewName. Projection order is the SELECT order,
// which scan functions rely on.
func (p *ProjectionMap) Project(column, viewName string) *ProjectionMap {
	qualified := fmt.Sprintf("%s.%s", p.alias, column)
	p.columns[viewName] = qualified
	p.columnList = append(p.columnList, qualified)
	return p
}

// From returns the table reference, e.g. "public.users u".
func (p *ProjectionMap) From() string {
	return fmt.Sprintf("%s.%s %s", p.schema, p.table, p.alias)
}

// Column returns the qualified column for viewName, or viewName itself
// when unmapped. Only use with trusted names.
func (p *ProjectionMap) Column(viewName string) string {
	if col, ok := p.columns[viewName]; ok {
		return col
	}
	return viewName
}

// Lookup returns the qualified column for viewName and whether it is mapped.
func (p *ProjectionMap) Lookup(viewName string) (string, bool) {
	col, ok := p.columns[viewName]
	return col, ok
}

// Columns returns the SELECT list.
func (p *ProjectionMap) Columns() string {
	return strings.Join(p.columnList, ", ")
}

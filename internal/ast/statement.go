package ast

import (
	"strconv"
	"strings"

	"github.com/roach88/qcore/internal/ir"
)

// SelectElement is one entry of the select list.
type SelectElement struct {
	Column string
	Alias  string // empty when the column is not renamed
}

// OutputName returns the name the column has in result rows.
func (e SelectElement) OutputName() string {
	if e.Alias != "" {
		return e.Alias
	}
	return e.Column
}

func (e SelectElement) String() string {
	if e.Alias != "" && e.Alias != e.Column {
		return e.Column + " AS " + e.Alias
	}
	return e.Column
}

// OrderByElement is one sort key.
type OrderByElement struct {
	Column     string
	Descending bool
}

func (e OrderByElement) String() string {
	if e.Descending {
		return e.Column + " DESC"
	}
	return e.Column + " ASC"
}

// SelectStatement is a parsed single-table SELECT.
//
// Semantics:
//
//	SELECT <SelectAll | SelectElements> FROM <TableName>
//	[WHERE <Where>] [ORDER BY <OrderBy>] [LIMIT <Limit>]
//
// A statement is treated as a value: the optimizer never mutates one it is
// handed, it returns a new statement.
type SelectStatement struct {
	TableName      string
	SelectAll      bool
	SelectElements []SelectElement
	Where          Optional[Expression] // absent = no filter
	OrderBy        []OrderByElement
	Limit          Optional[int64] // absent = no limit
}

// Clone returns a shallow copy with its own slices. Expression nodes are
// shared, which is safe because they are immutable.
func (s *SelectStatement) Clone() *SelectStatement {
	out := *s
	if s.SelectElements != nil {
		out.SelectElements = append([]SelectElement(nil), s.SelectElements...)
	}
	if s.OrderBy != nil {
		out.OrderBy = append([]OrderByElement(nil), s.OrderBy...)
	}
	return &out
}

// Condition returns the WHERE expression, or nil when absent.
func (s *SelectStatement) Condition() Expression {
	cond, _ := s.Where.Get()
	return cond
}

// String renders the statement as SQL.
func (s *SelectStatement) String() string {
	var b strings.Builder
	b.WriteString("SELECT ")
	if s.SelectAll || len(s.SelectElements) == 0 {
		b.WriteString("*")
	} else {
		for i, el := range s.SelectElements {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(el.String())
		}
	}
	b.WriteString(" FROM ")
	b.WriteString(s.TableName)

	if cond, ok := s.Where.Get(); ok && cond != nil {
		b.WriteString(" WHERE ")
		b.WriteString(cond.String())
	}

	if len(s.OrderBy) > 0 {
		b.WriteString(" ORDER BY ")
		for i, el := range s.OrderBy {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(el.String())
		}
	}

	if limit, ok := s.Limit.Get(); ok {
		b.WriteString(" LIMIT ")
		b.WriteString(strconv.FormatInt(limit, 10))
	}
	return b.String()
}

// Fingerprint identifies the statement's content. Statements that render
// to the same SQL under the same rewrite rule set share a fingerprint.
func (s *SelectStatement) Fingerprint() string {
	return ir.Fingerprint(ir.DomainStatement, []byte(ir.RewriteVersion+"\x00"+s.String()))
}

// StatementsEqual reports whether two statements are structurally equal,
// comparing conditions with Equal.
func StatementsEqual(a, b *SelectStatement) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.TableName != b.TableName || a.SelectAll != b.SelectAll {
		return false
	}
	if len(a.SelectElements) != len(b.SelectElements) || len(a.OrderBy) != len(b.OrderBy) {
		return false
	}
	for i := range a.SelectElements {
		if a.SelectElements[i] != b.SelectElements[i] {
			return false
		}
	}
	for i := range a.OrderBy {
		if a.OrderBy[i] != b.OrderBy[i] {
			return false
		}
	}
	al, aok := a.Limit.Get()
	bl, bok := b.Limit.Get()
	if aok != bok || al != bl {
		return false
	}
	aw, aok := a.Where.Get()
	bw, bok := b.Where.Get()
	if aok != bok {
		return false
	}
	return Equal(aw, bw)
}

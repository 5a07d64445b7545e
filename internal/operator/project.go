package operator

import (
	"context"
	"fmt"
	"strings"
)

// Column maps an input column to an output name.
type Column struct {
	Source string
	Name   string
}

// Project narrows and renames the columns of each child row.
type Project struct {
	lifecycle
	children
	columns []Column
}

// NewProject creates a projection over child. With no columns every input
// column passes through unchanged.
func NewProject(child Operator, columns []Column) *Project {
	return &Project{
		lifecycle: lifecycle{kind: KindProject},
		children:  children{ops: []Operator{child}},
		columns:   columns,
	}
}

// Open implements Operator.
func (p *Project) Open(ctx context.Context) error {
	if err := p.beginOpen(); err != nil {
		return err
	}
	if err := p.children.open(ctx); err != nil {
		p.openFailed()
		return err
	}
	seen := make(map[string]bool, len(p.columns))
	for _, c := range p.columns {
		if seen[c.Name] {
			p.openFailed()
			return newFailure(PhaseOpen, p.kind, CodeInvalidPlan, fmt.Errorf("duplicate output column %q", c.Name))
		}
		seen[c.Name] = true
	}
	return nil
}

// Next implements Operator.
func (p *Project) Next(ctx context.Context) (Row, bool, error) {
	if err := p.checkNext(); err != nil {
		return nil, false, err
	}
	row, ok, err := p.ops[0].Next(ctx)
	if err != nil || !ok {
		return nil, false, err
	}
	if len(p.columns) == 0 {
		return row, true, nil
	}

	out := make(Row, len(p.columns))
	for _, c := range p.columns {
		v, found := row[c.Source]
		if !found {
			return nil, false, newFailure(PhaseNext, p.kind, CodeEvaluation, fmt.Errorf("unknown column %q", c.Source))
		}
		out[c.Name] = v
	}
	return out, true, nil
}

// Close implements Operator. Close is idempotent.
func (p *Project) Close() error {
	if !p.beginClose() {
		return nil
	}
	return p.children.close()
}

// Describe implements Operator.
func (p *Project) Describe() string {
	if len(p.columns) == 0 {
		return "Project *"
	}
	parts := make([]string, len(p.columns))
	for i, c := range p.columns {
		if c.Source == c.Name {
			parts[i] = c.Name
		} else {
			parts[i] = c.Source + " AS " + c.Name
		}
	}
	return "Project " + strings.Join(parts, ", ")
}

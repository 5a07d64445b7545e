package operator

import (
	"context"
	"errors"
	"strings"
)

// Drain runs root to completion: Open once, Next until end-of-data, then
// Close exactly once. fn is called for every row; a non-nil return stops
// the pull. Close runs on every path, including failed Open.
//
// The context is checked between pulls. Cancellation stops the pull and
// returns ctx.Err() after the tree is closed.
func Drain(ctx context.Context, root Operator, fn func(Row) error) error {
	if err := root.Open(ctx); err != nil {
		return closeAfter(root, err)
	}

	for {
		if err := ctx.Err(); err != nil {
			return closeAfter(root, err)
		}
		row, ok, err := root.Next(ctx)
		if err != nil {
			return closeAfter(root, err)
		}
		if !ok {
			break
		}
		if err := fn(row); err != nil {
			return closeAfter(root, err)
		}
	}
	return root.Close()
}

// closeAfter closes root after err and returns err, joined with the close
// error only when Close also failed.
func closeAfter(root Operator, err error) error {
	if cerr := root.Close(); cerr != nil {
		return errors.Join(err, cerr)
	}
	return err
}

// Collect drains root and returns every row in order.
func Collect(ctx context.Context, root Operator) ([]Row, error) {
	var rows []Row
	err := Drain(ctx, root, func(r Row) error {
		rows = append(rows, r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Explain renders the operator tree, one operator per line, children
// indented below their parent.
//
//	Project name
//	  Filter age > 18
//	    TableScan users
func Explain(root Operator) string {
	var b strings.Builder
	explain(&b, root, 0)
	return b.String()
}

func explain(b *strings.Builder, op Operator, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(op.Describe())
	b.WriteByte('\n')
	if p, ok := op.(Parent); ok {
		for _, child := range p.Children() {
			explain(b, child, depth+1)
		}
	}
}

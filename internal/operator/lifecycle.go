package operator

import (
	"context"
	"errors"
)

type state int

const (
	stateUnopened state = iota
	stateOpen
	stateFailed // Open returned an error; only Close is allowed
	stateClosed
)

// lifecycle tracks the protocol state of one operator and rejects calls
// made out of order.
type lifecycle struct {
	kind  Kind
	state state
}

// beginOpen moves Unopened to Open.
func (l *lifecycle) beginOpen() error {
	switch l.state {
	case stateUnopened:
		l.state = stateOpen
		return nil
	case stateClosed:
		return misuse(PhaseOpen, l.kind, "open after close")
	default:
		return misuse(PhaseOpen, l.kind, "open called twice")
	}
}

// openFailed records that Open did not complete.
func (l *lifecycle) openFailed() {
	l.state = stateFailed
}

func (l *lifecycle) checkNext() error {
	switch l.state {
	case stateOpen:
		return nil
	case stateUnopened:
		return misuse(PhaseNext, l.kind, "next before open")
	case stateFailed:
		return misuse(PhaseNext, l.kind, "next after failed open")
	default:
		return misuse(PhaseNext, l.kind, "next after close")
	}
}

// beginClose moves any state to Closed. It reports false when the operator
// was already closed, in which case nothing must be released again.
func (l *lifecycle) beginClose() bool {
	if l.state == stateClosed {
		return false
	}
	l.state = stateClosed
	return true
}

// Kind returns the operator's tag.
func (l *lifecycle) Kind() Kind {
	return l.kind
}

// children opens and closes an operator's inputs, remembering how many
// were reached so Close never touches one that Open did not.
type children struct {
	ops     []Operator
	reached int
}

// open opens each child in order and stops at the first failure. The
// failing child counts as reached: Close is safe after a failed Open and
// releases whatever that child acquired before failing.
func (c *children) open(ctx context.Context) error {
	for _, op := range c.ops {
		c.reached++
		if err := op.Open(ctx); err != nil {
			return err
		}
	}
	return nil
}

// close closes every reached child once, in order, and joins their errors.
func (c *children) close() error {
	var errs []error
	for _, op := range c.ops[:c.reached] {
		if err := op.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	c.reached = 0
	if len(errs) == 1 {
		return errs[0]
	}
	return errors.Join(errs...)
}

// Children returns the operator's inputs.
func (c *children) Children() []Operator {
	return c.ops
}

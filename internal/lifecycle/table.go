// Package lifecycle holds the state machines of bookings and orders as
// explicit transition tables.
package lifecycle

import (
	"errors"
	"fmt"

	"github.com/kirinyoku/dinego/internal/eventbus"
)

var ErrInvalidTransition = errors.New("invalid state transition")

type TransitionError struct {
	Machine string
	State   string
	Action  string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: cannot %s from state %q", e.Machine, e.Action, e.State)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// Transition moves an entity from From to To when Action fires and names
// the event announced afterwards.
type Transition[S ~string, A ~string] struct {
	Action A
	From   S
	To     S
	Event  eventbus.Type
}

type edge[S ~string, A ~string] struct {
	from   S
	action A
}

type Table[S ~string, A ~string] struct {
	name    string
	initial S
	order   []Transition[S, A]
	edges   map[edge[S, A]]Transition[S, A]
}

func NewTable[S ~string, A ~string](name string, initial S, ts []Transition[S, A]) *Table[S, A] {
	t := &Table[S, A]{
		name:    name,
		initial: initial,
		order:   ts,
		edges:   make(map[edge[S, A]]Transition[S, A], len(ts)),
	}
	for _, tr := range ts {
		k := edge[S, A]{from: tr.From, action: tr.Action}
		if _, dup := t.edges[k]; dup {
			panic(fmt.Sprintf("lifecycle: duplicate %s transition %s from %s", name, tr.Action, tr.From))
		}
		t.edges[k] = tr
	}
	return t
}

func (t *Table[S, A]) Name() string { return t.name }
func (t *Table[S, A]) Initial() S   { return t.initial }

// Fire looks up the transition for action in state from.
func (t *Table[S, A]) Fire(from S, action A) (Transition[S, A], error) {
	tr, ok := t.edges[edge[S, A]{from: from, action: action}]
	if !ok {
		return Transition[S, A]{}, &TransitionError{Machine: t.name, State: string(from), Action: string(action)}
	}
	return tr, nil
}

// Allowed lists the actions that may fire from state, in table order.
func (t *Table[S, A]) Allowed(state S) []A {
	var out []A
	for _, tr := range t.order {
		if tr.From == state {
			out = append(out, tr.Action)
		}
	}
	return out
}

func (t *Table[S, A]) Terminal(state S) bool {
	return len(t.Allowed(state)) == 0
}

// Knows reports whether action appears anywhere in the table.
func (t *Table[S, A]) Knows(action A) bool {
	for _, tr := range t.order {
		if tr.Action == action {
			return true
		}
	}
	return false
}

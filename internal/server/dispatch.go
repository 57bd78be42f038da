package server

import (
	"fmt"

	"github.com/slatelisp/nrepld/internal/ident"
	"github.com/slatelisp/nrepld/internal/protocol/nrepl"
	"github.com/slatelisp/nrepld/internal/repl"
)

// Dispatcher applies interpreted requests to the registry and produces
// protocol replies. Identifier generation is injected so tests can pin
// it; no I/O happens here.
type Dispatcher struct {
	registry *Registry
	newID    func() (string, error)
}

// NewDispatcher wires a dispatcher to reg. A nil newID selects the
// default random generator.
func NewDispatcher(reg *Registry, newID func() (string, error)) *Dispatcher {
	if newID == nil {
		newID = ident.NewRandom
	}
	return &Dispatcher{registry: reg, newID: newID}
}

// Dispatch performs req's state transition and returns its reply.
//
// Clone installs a fresh evaluator under the requested id, replacing
// any session already registered there, then mints the follow-on
// session identifier for the reply.
func (d *Dispatcher) Dispatch(req nrepl.Request) (nrepl.Response, error) {
	switch r := req.(type) {
	case nrepl.Clone:
		d.registry.Upsert(r.ID, repl.New())
		id, err := d.newID()
		if err != nil {
			return nil, fmt.Errorf("mint session id: %w", err)
		}
		return nrepl.Cloned{ID: r.ID, NewSession: id}, nil
	default:
		return nil, fmt.Errorf("dispatch: unsupported request %T", req)
	}
}

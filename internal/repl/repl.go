// Package repl owns per-session evaluator state.
//
// A Repl is created with default state when a session is registered.
// Evaluation is not on the protocol surface yet; the type exists so the
// registry holds one stateful instance per session.
package repl

import "time"

// Repl is one session's evaluator instance.
type Repl struct {
	created time.Time
}

// New returns an evaluator with default state.
func New() *Repl {
	return &Repl{created: time.Now()}
}

// CreatedAt reports when this evaluator was constructed.
func (r *Repl) CreatedAt() time.Time {
	return r.created
}

// Package server owns the serving side of the protocol.
//
// Ownership boundary:
// - session registry and its mutation rules
// - request dispatch and reply production
// - the TCP accept loop and per-connection read/write cycle
// - the optional HTTP admin surface
//
// The server does not evaluate code; sessions hold opaque evaluator
// state owned by internal/repl.
package server

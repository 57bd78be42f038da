// Package bencode owns the wire value model and codec primitives.
//
// Ownership boundary:
// - kind-tagged value model with order-preserving dictionaries
// - incremental stream decoding bounded by Limits
// - deterministic encoding with caller-controlled dictionary order
package bencode

// Package nrepl owns the request/response contract above raw wire values.
//
// Ownership boundary:
// - interpretation of decoded dictionaries into typed requests
// - reply shapes and their fixed wire key order
// - the rejection taxonomy carried back to clients
package nrepl

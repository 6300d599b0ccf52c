// Package formats provides parsers for the binary asset formats loaded by
// the engine. N3M models are implemented in n3m.go.
package formats

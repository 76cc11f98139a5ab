// Package render holds the per-pass state shared by the template engine and
// the primitives it calls: the Session, the prompt block collection, render
// options and results.
package render

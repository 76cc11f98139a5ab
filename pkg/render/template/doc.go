// Package template defines the renderer-agnostic contract prompt callers use.
// The pongo subpackage provides the pongo2-backed implementation with the
// prompt block tag and the builtin template functions installed.
package template

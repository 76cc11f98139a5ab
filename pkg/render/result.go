package render

// Result is the outcome of one render pass.
type Result struct {
	// ID identifies the pass; it matches the session id used in logs.
	ID string
	// Output is the rendered template text.
	Output string
	// Blocks holds the values captured by prompt blocks, in capture order.
	Blocks []string
}

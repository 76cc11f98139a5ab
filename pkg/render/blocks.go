package render

import "sync"

// BlocksKey is the template context name under which a pass exposes the
// values captured so far, as a plain list of strings.
const BlocksKey = "prompt_blocks"

// Blocks is the ordered, append-only record of values captured by prompt
// blocks during a render pass. Values are kept in the order their blocks
// finished rendering: a nested block is recorded before the block enclosing
// it, and a block inside a loop is recorded once per iteration.
type Blocks struct {
	mu     sync.Mutex
	values []string
}

// NewBlocks returns an empty collection.
func NewBlocks() *Blocks {
	return &Blocks{values: []string{}}
}

// Append records value at the end of the collection.
func (b *Blocks) Append(value string) {
	if b == nil {
		return
	}
	b.mu.Lock()
	b.values = append(b.values, value)
	b.mu.Unlock()
}

// Len reports how many values have been captured.
func (b *Blocks) Len() int {
	if b == nil {
		return 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.values)
}

// Values returns a copy of the captured values.
func (b *Blocks) Values() []string {
	if b == nil {
		return []string{}
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.values))
	copy(out, b.values)
	return out
}

// Reset clears the collection so it can be reused for another pass.
func (b *Blocks) Reset() {
	if b == nil {
		return
	}
	b.mu.Lock()
	b.values = b.values[:0]
	b.mu.Unlock()
}

package icon

// Chain walks an ordered candidate list in response to load failures
// signalled by the rendering layer. It is a two-state machine: trying the
// candidate at the current position, or exhausted. It never errors and
// never blocks; an exhausted chain just stops yielding candidates.
//
// A Chain is consumed sequentially per icon instance; distinct icons use
// distinct chains and need no coordination.
type Chain struct {
	candidates []string
	pos        int
}

// NewChain creates a chain over the given candidates. The list is used
// as-is; empty entries should already be filtered out by the resolver.
func NewChain(candidates []string) *Chain {
	return &Chain{candidates: candidates}
}

// Current returns the candidate currently being tried. ok is false once
// the chain is exhausted (or was empty from the start).
func (c *Chain) Current() (string, bool) {
	if c.pos >= len(c.candidates) {
		return "", false
	}
	return c.candidates[c.pos], true
}

// Advance moves past the current candidate after a load failure and
// returns the next one to try. Advancing an exhausted chain is a no-op.
func (c *Chain) Advance() (string, bool) {
	if c.pos < len(c.candidates) {
		c.pos++
	}
	return c.Current()
}

// Exhausted reports whether every candidate has been tried.
func (c *Chain) Exhausted() bool {
	return c.pos >= len(c.candidates)
}

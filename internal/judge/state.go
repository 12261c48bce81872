package judge

// Wire result codes for one write attempt. ResultSkipped and ResultNoInk
// share the value 0 on purpose: the protocol encodes "did not write" and "no
// more ink" identically, and contestants disambiguate by remembering their
// own move. A richer encoding would change the wire format.
const (
	ResultWrote   = 1
	ResultNoInk   = 0
	ResultSkipped = 0
)

// Case holds the hidden remaining-ink counts for one game instance. Index i
// is pen i (0-based); the values start as a shuffled permutation of 0..N-1
// and only ever decrease, one unit per successful write.
type Case struct {
	remaining []int
}

// NewCases builds count cases of n pens each, drawing every shuffle from src
// in case order, so a single seeded Stream reproduces the full hidden state.
//
// Precondition: count >= 0, n >= 1, src non-nil.
// Postcondition: each case's remaining values are a permutation of 0..n-1.
func NewCases(count, n int, src Stream) []Case {
	cases := make([]Case, count)
	for i := range cases {
		remaining := make([]int, n)
		for j := range remaining {
			remaining[j] = j
		}
		Shuffle(remaining, src)
		cases[i].remaining = remaining
	}
	return cases
}

// Write attempts one write with pen (0-based). It consumes one unit of ink
// and returns ResultWrote when the pen still has ink, and returns ResultNoInk
// without mutating anything otherwise.
//
// Precondition: 0 <= pen < Pens().
func (c *Case) Write(pen int) int {
	if c.remaining[pen] > 0 {
		c.remaining[pen]--
		return ResultWrote
	}
	return ResultNoInk
}

// Remaining returns the ink left in pen (0-based).
func (c *Case) Remaining(pen int) int { return c.remaining[pen] }

// Pens returns the number of pens in the case.
func (c *Case) Pens() int { return len(c.remaining) }

package ui

// Cursor tracks the selection and scroll window of a list.
//
// After every operation Offset <= Index <= Offset+Height-1, or all three
// fields are zero-valued positions for an empty list.
type Cursor struct {
	Index  int
	Offset int
	Height int
}

// NewCursor returns a cursor at the top of a list with the given window
func NewCursor(height int) Cursor {
	return Cursor{Height: max(height, 1)}
}

// Reset moves back to the first entry
func (c *Cursor) Reset() {
	c.Index = 0
	c.Offset = 0
}

// MoveUp selects the previous entry; no-op on the first
func (c *Cursor) MoveUp() {
	if c.Index == 0 {
		return
	}
	c.Index--
	if c.Index < c.Offset {
		c.Offset = c.Index
	}
}

// MoveDown selects the next entry of a list of length n; no-op on the last
func (c *Cursor) MoveDown(n int) {
	if c.Index >= n-1 {
		return
	}
	c.Index++
	if c.Index > c.Offset+c.Height-1 {
		c.Offset = c.Index - c.Height + 1
	}
}

// Top selects the first entry
func (c *Cursor) Top() {
	c.Reset()
}

// Bottom selects the last entry of a list of length n
func (c *Cursor) Bottom(n int) {
	if n <= 0 {
		c.Reset()
		return
	}
	c.Index = n - 1
	c.Offset = max(c.Index-c.Height+1, 0)
}

// SetHeight changes the window size and re-establishes the invariant for a
// list of length n
func (c *Cursor) SetHeight(height, n int) {
	c.Height = max(height, 1)
	c.Clamp(n)
}

// Clamp keeps the cursor inside a list of length n and the window around
// the selection
func (c *Cursor) Clamp(n int) {
	if c.Height < 1 {
		c.Height = 1
	}
	if n <= 0 {
		c.Reset()
		return
	}
	if c.Index > n-1 {
		c.Index = n - 1
	}
	if c.Index < 0 {
		c.Index = 0
	}
	if c.Offset > c.Index {
		c.Offset = c.Index
	}
	if c.Index > c.Offset+c.Height-1 {
		c.Offset = c.Index - c.Height + 1
	}
	if c.Offset < 0 {
		c.Offset = 0
	}
}

// Window returns the half-open range of entries visible for a list of
// length n
func (c Cursor) Window(n int) (start, end int) {
	start = min(c.Offset, max(n, 0))
	end = min(start+c.Height, n)
	return start, end
}

// Valid reports whether the window invariant holds for a list of length n
func (c Cursor) Valid(n int) bool {
	if n == 0 {
		return c.Index == 0 && c.Offset == 0
	}
	return c.Index >= 0 && c.Index < n &&
		c.Offset <= c.Index && c.Index <= c.Offset+c.Height-1
}

package otp

import (
	"strings"
	"unicode"
)

// DefaultCodeLength is the number of cells in a verification code input.
const DefaultCodeLength = 6

// CodeInput models a fixed-length segmented code field (one cell per
// character) as used for guest verification and check-in handshake codes.
// The caller owns the logical value; the input only tracks per-cell contents
// and the focused cell, and reports every mutation through the callbacks.
//
// OnComplete is level-triggered: any mutation that leaves every cell filled
// reports the full value, including re-entry through a different edit path.
type CodeInput struct {
	length       int
	alphanumeric bool
	cells        []string
	focus        int

	OnChange   func(value string)
	OnComplete func(value string)
	OnSubmit   func(value string)
}

// NewCodeInput creates an input with the given number of cells. A length
// below one falls back to DefaultCodeLength. Digit-only by default;
// alphanumeric mode also accepts letters and uppercases them.
func NewCodeInput(length int, alphanumeric bool) *CodeInput {
	if length < 1 {
		length = DefaultCodeLength
	}
	return &CodeInput{
		length:       length,
		alphanumeric: alphanumeric,
		cells:        make([]string, length),
	}
}

func (c *CodeInput) Length() int { return c.length }
func (c *CodeInput) Focus() int  { return c.focus }

// Value reassembles the logical string from the cells.
func (c *CodeInput) Value() string {
	return strings.Join(c.cells, "")
}

// SetValue resets the cells from a caller-supplied value, one character per
// cell, truncated at the input's length.
func (c *CodeInput) SetValue(value string) {
	c.cells = make([]string, c.length)
	for i, r := range []rune(value) {
		if i >= c.length {
			break
		}
		c.cells[i] = string(r)
	}
}

// filter keeps only characters of the allowed class, uppercasing letters in
// alphanumeric mode.
func (c *CodeInput) filter(input string) []rune {
	var kept []rune
	for _, r := range input {
		switch {
		case unicode.IsDigit(r):
			kept = append(kept, r)
		case c.alphanumeric && unicode.IsLetter(r):
			kept = append(kept, unicode.ToUpper(r))
		}
	}
	return kept
}

// TypeAt handles an input event on cell i. Platforms may report multi-rune
// events; only the last allowed rune is kept. An event that filters to
// nothing clears the cell (deletion). Typing into any cell but the last
// advances focus.
func (c *CodeInput) TypeAt(i int, input string) {
	if i < 0 || i >= c.length {
		return
	}
	kept := c.filter(input)
	if len(kept) == 0 {
		c.cells[i] = ""
		c.emit()
		return
	}
	c.cells[i] = string(kept[len(kept)-1])
	if i < c.length-1 {
		c.focus = i + 1
	}
	c.emit()
}

// Backspace handles a backspace keypress on an empty cell: pure focus
// retreat, nothing is deleted. A backspace on a filled cell reaches the
// input as a TypeAt with an empty value instead.
func (c *CodeInput) Backspace(i int) {
	if i > 0 && i < c.length && c.cells[i] == "" {
		c.focus = i - 1
	}
}

// ArrowLeft and ArrowRight move focus one cell without wraparound.
func (c *CodeInput) ArrowLeft(i int) {
	if i > 0 && i < c.length {
		c.focus = i - 1
	}
}

func (c *CodeInput) ArrowRight(i int) {
	if i >= 0 && i < c.length-1 {
		c.focus = i + 1
	}
}

// Enter invokes the submit callback with the current value.
func (c *CodeInput) Enter() {
	if c.OnSubmit != nil {
		c.OnSubmit(c.Value())
	}
}

// Paste distributes the filtered clipboard text across cells starting at i,
// discarding characters beyond the last cell. Focus lands after the last
// placed character, applied after the change callbacks so it cannot race the
// paste event's own focus handling.
func (c *CodeInput) Paste(i int, text string) {
	if i < 0 || i >= c.length {
		return
	}
	cursor := i
	for _, r := range c.filter(text) {
		if cursor >= c.length {
			break
		}
		c.cells[cursor] = string(r)
		cursor++
	}
	c.emit()
	if cursor > c.length-1 {
		cursor = c.length - 1
	}
	c.focus = cursor
}

func (c *CodeInput) full() bool {
	for _, cell := range c.cells {
		if cell == "" {
			return false
		}
	}
	return true
}

func (c *CodeInput) emit() {
	value := c.Value()
	if c.OnChange != nil {
		c.OnChange(value)
	}
	if c.full() && c.OnComplete != nil {
		c.OnComplete(value)
	}
}

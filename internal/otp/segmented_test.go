package otp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeAdvancesFocusAndCompletesOnLastChar(t *testing.T) {
	in := NewCodeInput(6, false)

	var completions []string
	in.OnComplete = func(v string) { completions = append(completions, v) }

	for i, d := range []string{"4", "8", "2", "9", "1", "7"} {
		in.TypeAt(i, d)
		if i < 5 {
			assert.Equal(t, i+1, in.Focus())
			assert.Empty(t, completions)
		}
	}

	assert.Equal(t, []string{"482917"}, completions)
	assert.Equal(t, "482917", in.Value())
	// Focus stays on the last cell.
	assert.Equal(t, 5, in.Focus())
}

func TestTypeKeepsLastRuneOfMultiCharEvent(t *testing.T) {
	in := NewCodeInput(6, false)
	in.TypeAt(0, "12")
	assert.Equal(t, "2", in.Value())
	assert.Equal(t, 1, in.Focus())
}

func TestTypeFilteredToNothingClearsCell(t *testing.T) {
	in := NewCodeInput(6, false)
	in.SetValue("123")

	var changed string
	in.OnChange = func(v string) { changed = v }

	in.TypeAt(2, "x")
	assert.Equal(t, "12", in.Value())
	assert.Equal(t, "12", changed)
}

func TestAlphanumericModeUppercases(t *testing.T) {
	in := NewCodeInput(6, true)
	in.TypeAt(0, "a")
	in.TypeAt(1, "b")
	assert.Equal(t, "AB", in.Value())

	digitsOnly := NewCodeInput(6, false)
	digitsOnly.TypeAt(0, "a")
	assert.Equal(t, "", digitsOnly.Value())
}

func TestBackspaceOnEmptyCellRetreatsWithoutDeleting(t *testing.T) {
	in := NewCodeInput(6, false)
	in.SetValue("12")
	in.Backspace(2)
	assert.Equal(t, 1, in.Focus())
	assert.Equal(t, "12", in.Value())

	// Backspace on cell 0 is a no-op.
	in.Backspace(0)
	assert.Equal(t, 1, in.Focus())
}

func TestArrowsDoNotWrap(t *testing.T) {
	in := NewCodeInput(4, false)
	in.ArrowLeft(0)
	assert.Equal(t, 0, in.Focus())
	in.ArrowRight(0)
	assert.Equal(t, 1, in.Focus())
	in.ArrowRight(3)
	assert.Equal(t, 1, in.Focus())
}

func TestEnterInvokesSubmit(t *testing.T) {
	in := NewCodeInput(6, false)
	in.SetValue("123")

	var submitted string
	in.OnSubmit = func(v string) { submitted = v }
	in.Enter()
	assert.Equal(t, "123", submitted)
}

func TestPasteDistributesFromIndexAndCompletes(t *testing.T) {
	in := NewCodeInput(6, true)
	in.SetValue("XY")

	var completed string
	in.OnComplete = func(v string) { completed = v }

	in.Paste(2, "AB12")
	assert.Equal(t, "XYAB12", in.Value())
	assert.Equal(t, "XYAB12", completed)
	assert.Equal(t, 5, in.Focus())
}

func TestPasteDiscardsOverflowAndFiltersJunk(t *testing.T) {
	in := NewCodeInput(6, false)
	in.Paste(4, "9 8-7654")
	assert.Equal(t, "98", in.Value())
	assert.Equal(t, 5, in.Focus())

	// Out-of-range paste target is a no-op.
	in.Paste(6, "123")
	assert.Equal(t, "98", in.Value())
}

func TestCompleteRefiresOnReentry(t *testing.T) {
	in := NewCodeInput(4, false)

	count := 0
	in.OnComplete = func(string) { count++ }

	in.Paste(0, "1234")
	assert.Equal(t, 1, count)

	// Editing a cell leaves the value partial, re-filling fires again.
	in.TypeAt(2, "x")
	assert.Equal(t, 1, count)
	in.TypeAt(2, "5")
	assert.Equal(t, 2, count)
	assert.Equal(t, "1254", in.Value())
}

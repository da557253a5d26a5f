package surface

import (
	"testing"

	"github.com/Gurpartap/tape-tui/component"
	"github.com/Gurpartap/tape-tui/key"
	"github.com/Gurpartap/tape-tui/registry"
	"github.com/Gurpartap/tape-tui/text"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedComponent struct{ lines []string }

func (f *fixedComponent) Render(int) []string            { return f.lines }
func (f *fixedComponent) HandleEvent(key.InputEvent)      {}

var _ component.Component = (*fixedComponent)(nil)

func TestCompositeSplicesSurfaceOntoBase(t *testing.T) {
	reg := registry.New()
	comp := &fixedComponent{lines: []string{"XX"}}
	cid := reg.Register(comp)

	stack := NewStack()
	stack.Add(cid, Options{
		Kind:   Toast,
		Anchor: TopLeft,
		Width:  Cells(2),
		Height: Cells(1),
	})

	c := NewCompositor(stack, reg)
	base := []string{"aaaaaaaaaa"}
	result := c.Composite(base, 10, 5, 1)

	require.Len(t, result, 1)
	assert.Equal(t, "XXaaaaaaaa", result[0])
}

func TestCompositePadsBaseWhenSurfaceExtendsBelow(t *testing.T) {
	reg := registry.New()
	comp := &fixedComponent{lines: []string{"Y", "Y"}}
	cid := reg.Register(comp)

	stack := NewStack()
	stack.Add(cid, Options{
		Kind:   Drawer,
		Anchor: BottomLeft,
		Width:  Cells(1),
		Height: Cells(2),
		MarginY: 0,
	})

	c := NewCompositor(stack, reg)
	result := c.Composite([]string{"x"}, 10, 10, 1)
	assert.Len(t, result, 10)
}

func TestHiddenSurfaceNotComposited(t *testing.T) {
	reg := registry.New()
	comp := &fixedComponent{lines: []string{"ZZ"}}
	cid := reg.Register(comp)

	stack := NewStack()
	id := stack.Add(cid, Options{Kind: Toast, Anchor: TopLeft, Width: Cells(2), Height: Cells(1), Hidden: true})

	c := NewCompositor(stack, reg)
	result := c.Composite([]string{"aaaa"}, 10, 5, 1)
	assert.Equal(t, "aaaa", result[0])

	require.NoError(t, stack.SetHidden(id, false))
	result = c.Composite([]string{"aaaa"}, 10, 5, 1)
	assert.Equal(t, "ZZaa", result[0])
}

func TestCompositeClampsOverWideLineToTerminalColumns(t *testing.T) {
	reg := registry.New()
	stack := NewStack()
	c := NewCompositor(stack, reg)

	base := []string{"aaaaaaaaaaaaaaaaaaaa"} // 20 columns, wider than the terminal
	result := c.Composite(base, 10, 5, 1)

	require.Len(t, result, 1)
	assert.LessOrEqual(t, text.VisibleWidth(result[0]), 10)
}

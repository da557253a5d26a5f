package surface

import (
	"math"

	"github.com/Gurpartap/tape-tui/component"
	"github.com/Gurpartap/tape-tui/registry"
	"github.com/Gurpartap/tape-tui/text"
)

// alloc is the resolved placement and size of one surface after the
// measure and allocate passes.
type alloc struct {
	surface    *Surface
	cols, rows int
	top, left  int
}

// Compositor runs the three-pass sizing contract and splices each
// surface's rendered content into the root frame (spec §4.6).
type Compositor struct {
	Stack      *Stack
	Components *registry.Registry
}

// NewCompositor returns a Compositor over stack and components.
func NewCompositor(stack *Stack, components *registry.Registry) *Compositor {
	return &Compositor{Stack: stack, Components: components}
}

// Composite measures, allocates, renders, and splices every visible
// surface onto base, returning the final frame. termCols/termRows are
// the terminal's current dimensions; maxLinesRendered is the renderer's
// retained high-water mark used to decide how far to pad the base frame.
func (c *Compositor) Composite(base []string, termCols, termRows, maxLinesRendered int) []string {
	allocs := c.measureAndAllocate(termCols, termRows)
	rendered := c.render(allocs)
	spliced := c.splice(base, rendered, maxLinesRendered)
	return clampLinesToWidth(spliced, termCols)
}

// measureAndAllocate runs pass 1 (measure) and pass 2 (allocate).
func (c *Compositor) measureAndAllocate(termCols, termRows int) []alloc {
	var allocs []alloc
	laneRowsUsed := map[Lane]int{}

	for _, sf := range c.Stack.Visible() {
		if !sf.Options.Visibility.satisfiedBy(termCols, termRows) {
			continue
		}
		bound, ok := c.Components.Get(sf.Component)
		if !ok {
			continue
		}
		comp, ok := bound.(component.Component)
		if !ok {
			continue
		}

		cols := resolveDimension(sf.Options.Width, termCols, func() int {
			return naturalWidth(comp, termCols)
		})
		rows := resolveDimension(sf.Options.Height, termRows, func() int {
			return naturalHeight(comp, cols)
		})

		lane := sf.Options.Kind.Lane()
		budget := termRows - laneRowsUsed[lane]
		if budget < 0 {
			budget = 0
		}
		if rows > budget {
			rows = budget
		}
		if rows < 0 {
			rows = 0
		}
		laneRowsUsed[lane] += rows

		top, left := anchorPosition(sf.Options, cols, rows, termCols, termRows, laneRowsUsed[lane]-rows)
		allocs = append(allocs, alloc{surface: sf, cols: clampInt(cols, 0, termCols), rows: rows, top: top, left: left})
	}
	return allocs
}

func resolveDimension(d Dimension, total int, auto func() int) int {
	switch {
	case d.Auto:
		return auto()
	case d.isPercentage():
		return int(math.Round(d.Percentage * float64(total)))
	default:
		return d.Absolute
	}
}

func naturalWidth(comp component.Component, termCols int) int {
	lines := comp.Render(termCols)
	max := 0
	for _, l := range lines {
		if w := text.VisibleWidth(l); w > max {
			max = w
		}
	}
	if max > termCols {
		max = termCols
	}
	return max
}

func naturalHeight(comp component.Component, cols int) int {
	return len(comp.Render(cols))
}

// anchorPosition resolves a surface's top-left placement within the
// terminal given its allocated size, margin, and offset.
func anchorPosition(opts Options, cols, rows, termCols, termRows, laneOffset int) (top, left int) {
	switch opts.Anchor {
	case TopLeft, Left, BottomLeft:
		left = opts.MarginX
	case TopRight, Right, BottomRight:
		left = termCols - cols - opts.MarginX
	default: // Top, Center, Bottom
		left = (termCols - cols) / 2
	}
	switch opts.Anchor {
	case TopLeft, Top, TopRight:
		top = opts.MarginY + laneOffset
	case BottomLeft, Bottom, BottomRight:
		top = termRows - rows - opts.MarginY - laneOffset
	default: // Left, Center, Right
		top = (termRows - rows) / 2
	}
	return top + opts.OffsetY, left + opts.OffsetX
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// renderedSurface is a sized, rendered surface ready for splicing.
type renderedSurface struct {
	alloc alloc
	lines []string
}

// render runs pass 3: set_viewport_size then render on each surface's
// bound component.
func (c *Compositor) render(allocs []alloc) []renderedSurface {
	out := make([]renderedSurface, 0, len(allocs))
	for _, a := range allocs {
		bound, ok := c.Components.Get(a.surface.Component)
		if !ok {
			continue
		}
		comp, ok := bound.(component.Component)
		if !ok {
			continue
		}
		if sizer, ok := comp.(component.ViewportSizer); ok {
			sizer.SetViewportSize(a.cols, a.rows)
		}
		lines := comp.Render(a.cols)
		if len(lines) > a.rows {
			lines = lines[:a.rows]
		}
		out = append(out, renderedSurface{alloc: a, lines: lines})
	}
	return out
}

// splice composites every rendered surface onto base using
// text.ExtractSegments + text.SliceByColumn to cut a transparent hole
// without corrupting surrounding styles, growing base with blank lines
// when a surface's painted area extends past it.
func (c *Compositor) splice(base []string, surfaces []renderedSurface, maxLinesRendered int) []string {
	out := append([]string(nil), base...)

	bottom := maxLinesRendered
	for _, rs := range surfaces {
		if b := rs.alloc.top + len(rs.lines); b > bottom {
			bottom = b
		}
	}
	for len(out) < bottom {
		out = append(out, "")
	}

	for _, rs := range surfaces {
		for i, line := range rs.lines {
			row := rs.alloc.top + i
			if row < 0 || row >= len(out) {
				continue
			}
			out[row] = spliceLine(out[row], line, rs.alloc.left, rs.alloc.cols)
		}
	}
	return out
}

// clampLinesToWidth is the post-composite verification pass of spec §4.6:
// splicing a surface into the base frame can push a line's visible width
// past termCols (a wide surface near the right edge, an oversized natural
// width), so every resulting line is strictly reclamped to the terminal's
// column count before it reaches the renderer.
func clampLinesToWidth(lines []string, termCols int) []string {
	if termCols <= 0 {
		return lines
	}
	for i, l := range lines {
		if text.VisibleWidth(l) > termCols {
			lines[i] = text.SliceByColumn(l, 0, termCols, true)
		}
	}
	return lines
}

// spliceLine replaces the [col, col+width) window of base with payload,
// preserving the surrounding style state via the prefix/style/suffix
// decomposition the text package provides for exactly this purpose.
func spliceLine(base, payload string, col, width int) string {
	seg := text.ExtractSegments(base, col, width)
	return seg.Prefix + seg.Style + payload + seg.Suffix
}

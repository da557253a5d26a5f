package render

// State is the diff renderer's retained state, mutated only by Renderer
// (spec §3 "Renderer state").
type State struct {
	HasRendered         bool
	PreviousLines       []string
	PreviousWidth       int
	MaxLinesRendered    int
	CursorRow           int // logical end-of-content row of the last frame
	HardwareCursorRow   int // physical terminal row the cursor currently sits on
	PreviousViewportTop int
}

package runtime

import (
	"github.com/Gurpartap/tape-tui/diag"
	"github.com/Gurpartap/tape-tui/registry"
	"github.com/Gurpartap/tape-tui/surface"
	"github.com/Gurpartap/tape-tui/termcmd"
)

// applyCommand executes one command posted through a Handle. It always
// runs on the event-loop goroutine, from drainPending or
// RunBlockingOnce's initial select.
func (rt *Runtime) applyCommand(c command) {
	switch c.kind {
	case cmdRequestRender:
		rt.renderRequested = true

	case cmdSetTitle:
		rt.gate.Push(termcmd.Title(c.title))
		if err := rt.gate.Flush(rt.backend); err != nil {
			rt.reportIOErr(err, "flush title")
		}

	case cmdShowSurface:
		rt.mustSurface(rt.surfaces.SetHidden(c.surfaceID, false))
		rt.renderRequested = true

	case cmdHideSurface:
		rt.mustSurface(rt.surfaces.SetHidden(c.surfaceID, true))
		rt.renderRequested = true

	case cmdCloseSurface:
		rt.mustSurface(rt.surfaces.Remove(c.surfaceID))
		rt.renderRequested = true

	case cmdUpdateSurfaceOptions:
		rt.mustSurface(rt.surfaces.UpdateOptions(c.surfaceID, c.options))
		rt.renderRequested = true

	case cmdSurfaceSetZ:
		t := (&surface.Transaction{}).SetZ(c.surfaceID, c.z)
		rt.surfaces.Apply(t, rt.sink)
		rt.renderRequested = true

	case cmdSurfaceRaise:
		rt.mustSurface(rt.surfaces.Raise(c.surfaceID))
		rt.renderRequested = true

	case cmdSurfaceLower:
		rt.mustSurface(rt.surfaces.Lower(c.surfaceID))
		rt.renderRequested = true

	case cmdSurfaceBringToFront:
		rt.mustSurface(rt.surfaces.BringToFront(c.surfaceID))
		rt.renderRequested = true

	case cmdSurfaceSendToBack:
		rt.mustSurface(rt.surfaces.SendToBack(c.surfaceID))
		rt.renderRequested = true

	case cmdSurfaceTransaction:
		if c.transaction != nil {
			rt.surfaces.Apply(c.transaction, rt.sink)
		}
		rt.renderRequested = true

	case cmdRootSet:
		rt.rootStack = []registry.ComponentID{c.componentID}
		rt.renderRequested = true

	case cmdRootPush:
		rt.rootStack = append(rt.rootStack, c.componentID)
		rt.renderRequested = true

	case cmdRootPop:
		if len(rt.rootStack) > 1 {
			rt.rootStack = rt.rootStack[:len(rt.rootStack)-1]
			rt.renderRequested = true
		}

	case cmdFocusSet:
		rt.previousFocus = rt.focused
		rt.focused = c.componentID
		rt.renderRequested = true

	case cmdQuit:
		rt.quitRequested = true

	case cmdCustom:
		if rt.onCustom != nil {
			rt.onCustom(c.custom)
		}
	}
}

func (rt *Runtime) mustSurface(err error) {
	if err == nil {
		return
	}
	rt.sink.Report(diag.Event{
		Code:     diag.CodeInvalidSurface,
		Severity: diag.SeverityWarning,
		Message:  err.Error(),
	})
}

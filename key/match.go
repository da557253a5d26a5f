package key

import (
	"sort"
	"strings"
)

// MatchesKey reports whether event's key id is equivalent to spec, a
// "+"-joined modifier-and-key name such as "ctrl+shift+up". Modifier
// order in spec is irrelevant — "shift+ctrl+up" and "ctrl+shift+up"
// both match an event whose canonical KeyID is "ctrl+shift+up".
func MatchesKey(event InputEvent, spec string) bool {
	if event.Kind != EventKey {
		return false
	}
	return normalizeSpec(event.KeyID) == normalizeSpec(spec)
}

func normalizeSpec(s string) string {
	parts := strings.Split(s, "+")
	if len(parts) <= 1 {
		return s
	}
	base := parts[len(parts)-1]
	mods := append([]string(nil), parts[:len(parts)-1]...)
	sort.Strings(mods)
	return strings.Join(append(mods, base), "+")
}

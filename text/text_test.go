package text

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisibleWidth(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want int
	}{
		{"ascii", "hello", 5},
		{"tab", "a\tb", 1 + TabWidth + 1},
		{"sgr is zero width", "\x1b[31mred\x1b[0m", 3},
		{"osc8 is zero width", "\x1b]8;;http://x\x07link\x1b]8;;\x07", 4},
		{"cjk wide", "中文", 4},
		{"control char", "a\x07b", 2},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, VisibleWidth(c.in))
		})
	}
}

func TestSliceByColumnBasic(t *testing.T) {
	got := SliceByColumn("hello world", 6, 5, true)
	assert.Equal(t, "world", got)
}

func TestSliceByColumnCarriesStyleAcrossBoundary(t *testing.T) {
	s := "\x1b[31mredtext"
	got := SliceByColumn(s, 3, 4, true)
	require.True(t, strings.HasPrefix(got, "\x1b[31m"))
	assert.Contains(t, got, "text")
}

func TestSliceByColumnAppendsResetWhenOpened(t *testing.T) {
	s := "\x1b[31mred"
	got := SliceByColumn(s, 0, 3, true)
	assert.True(t, strings.HasSuffix(got, SegmentReset))
}

func TestSliceByColumnStrictDropsStraddlingGrapheme(t *testing.T) {
	got := SliceByColumn("中a", 0, 1, true)
	assert.Equal(t, "", got)
	got2 := SliceByColumn("中a", 0, 2, true)
	assert.Equal(t, "中", got2)
}

func TestWrapWithANSIPreservesVisibleContent(t *testing.T) {
	s := "the quick brown fox jumps"
	lines := WrapWithANSI(s, 10)
	joined := strings.Join(lines, " ")
	assert.Equal(t, s, strings.Join(strings.Fields(joined), " "))
	for _, l := range lines {
		assert.LessOrEqual(t, VisibleWidth(l), 10)
	}
}

func TestWrapWithANSICarriesStyle(t *testing.T) {
	s := "\x1b[1mbold word that wraps across the line boundary"
	lines := WrapWithANSI(s, 10)
	require.Greater(t, len(lines), 1)
	for _, l := range lines[1:] {
		if strings.TrimSpace(l) == "" {
			continue
		}
		assert.Contains(t, l, "\x1b[1m")
	}
}

func TestExtractSegments(t *testing.T) {
	line := "\x1b[32mgreen text here"
	seg := ExtractSegments(line, 6, 4)
	assert.Equal(t, "text", seg.Payload)
	assert.Contains(t, seg.Style, "\x1b[32m")
}

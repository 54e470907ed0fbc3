package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestRenderTable_HeaderAndRowCount(t *testing.T) {
	cols := []column{{title: "NAME"}, {title: "AGE", rightAlign: true}}
	ws := &widthState{}
	rows := [][]string{{"alice", "3s"}, {"bob", "1m"}}
	ages := []uint64{3, 60}

	out := renderTable(cols, ws, rows, ages, 1, 40)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3 (header + 2 rows)", len(lines))
	}
	if !strings.Contains(lines[0], "NAME") || !strings.Contains(lines[0], "AGE") {
		t.Errorf("header line = %q, missing column titles", lines[0])
	}
}

func TestRenderTable_FillsTerminalWidth(t *testing.T) {
	cols := []column{
		{title: "LOCAL", flexShare: 0.45},
		{title: "REMOTE", flexShare: 0.55},
	}
	ws := &widthState{}
	rows := [][]string{{"a", "b"}}

	out := renderTable(cols, ws, rows, nil, -1, 50)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	for _, l := range lines {
		if w := lipgloss.Width(l); w != 50 {
			t.Errorf("line %q has width %d, want 50", l, w)
		}
	}
}

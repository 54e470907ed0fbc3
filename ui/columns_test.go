package ui

import "testing"

func TestWidthStateResolve_GrowsToNatural(t *testing.T) {
	cols := []column{{title: "A"}, {title: "B"}}
	ws := &widthState{}
	widths := ws.resolve(cols, []int{3, 5}, 8)
	if widths[0] != 3 || widths[1] != 5 {
		t.Fatalf("widths = %v, want [3 5]", widths)
	}
}

func TestWidthStateResolve_StickyNeverShrinks(t *testing.T) {
	cols := []column{{title: "A"}, {title: "B"}}
	ws := &widthState{}
	ws.resolve(cols, []int{10, 2}, 12)
	widths := ws.resolve(cols, []int{3, 2}, 5)
	if widths[0] != 10 {
		t.Fatalf("sticky width shrank: got %d, want 10", widths[0])
	}
}

func TestWidthStateResolve_ResetClearsSticky(t *testing.T) {
	cols := []column{{title: "A"}}
	ws := &widthState{}
	ws.resolve(cols, []int{10}, 10)
	ws.reset()
	widths := ws.resolve(cols, []int{3}, 3)
	if widths[0] != 3 {
		t.Fatalf("widths after reset = %v, want [3]", widths)
	}
}

func TestWidthStateResolve_DeficitSplitAcrossFlexColumns(t *testing.T) {
	cols := []column{
		{title: "LOCAL", flexShare: 0.45},
		{title: "REMOTE", flexShare: 0.55},
		{title: "AGE", rightAlign: true},
	}
	natural := []int{4, 4, 3}
	ws := &widthState{}
	term := 40
	widths := ws.resolve(cols, natural, term)

	sum := 0
	for _, w := range widths {
		sum += w
	}
	if sum != term {
		t.Fatalf("widths sum to %d, want %d (widths=%v)", sum, term, widths)
	}
	if widths[2] != natural[2] {
		t.Fatalf("non-flexible column AGE changed: got %d, want %d", widths[2], natural[2])
	}
}

func TestWidthStateResolve_FlexColumnFloorsAtFour(t *testing.T) {
	cols := []column{
		{title: "A", flexShare: 1.0},
		{title: "B"},
	}
	natural := []int{20, 20}
	ws := &widthState{}
	widths := ws.resolve(cols, natural, 10)
	if widths[0] < 4 {
		t.Fatalf("flexible column width %d fell below floor of 4", widths[0])
	}
}

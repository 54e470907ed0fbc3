package ui

// column describes one table column: its header label and, for the two
// nominated flexible columns (local/remote host), the share of any
// terminal-width deficit it absorbs -- a 0.45/0.55 split in the default
// flow table.
type column struct {
	title      string
	flexShare  float64
	rightAlign bool
}

// widthState tracks sticky widths across draws for one view's column set:
// widths grow to fit the widest cell ever seen and never shrink until the
// user issues the trim command (the "t" key, or a terminal resize).
type widthState struct {
	sticky []int
}

func (ws *widthState) reset() { ws.sticky = nil }

// resolve runs the three-pass algorithm: natural-vs-sticky max, then a
// deficit (or surplus) split across the flexible columns so the table
// exactly fills termWidth.
func (ws *widthState) resolve(cols []column, natural []int, termWidth int) []int {
	if len(ws.sticky) != len(natural) {
		ws.sticky = make([]int, len(natural))
	}
	widths := make([]int, len(natural))
	for i, n := range natural {
		if n > ws.sticky[i] {
			ws.sticky[i] = n
		}
		widths[i] = ws.sticky[i]
	}

	sum := 0
	for _, w := range widths {
		sum += w
	}
	deficit := termWidth - sum
	if deficit == 0 {
		return widths
	}

	var flexIdx []int
	var shares []float64
	for i, c := range cols {
		if c.flexShare > 0 {
			flexIdx = append(flexIdx, i)
			shares = append(shares, c.flexShare)
		}
	}
	if len(flexIdx) == 0 {
		return widths
	}

	remaining := deficit
	for i, idx := range flexIdx {
		var delta int
		if i == len(flexIdx)-1 {
			delta = remaining
		} else {
			delta = int(float64(deficit) * shares[i])
			remaining -= delta
		}
		widths[idx] += delta
		if widths[idx] < 4 {
			widths[idx] = 4
		}
	}
	return widths
}

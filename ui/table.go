package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

const colGap = 2

// renderTable lays out a header and body rows through the sticky-width,
// three-pass column algorithm, returning the finished block of text.
// ageIdx names the column to tint by ages[row] via ageColor; pass -1 and a
// nil ages slice for tables with no age column.
func renderTable(cols []column, ws *widthState, rows [][]string, ages []uint64, ageIdx int, termWidth int) string {
	natural := make([]int, len(cols))
	for i, c := range cols {
		natural[i] = lipgloss.Width(c.title)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := lipgloss.Width(cell); w > natural[i] {
				natural[i] = w
			}
		}
	}

	usable := termWidth - colGap*(len(cols)-1)
	if usable < len(cols) {
		usable = len(cols)
	}
	widths := ws.resolve(cols, natural, usable)

	gap := strings.Repeat(" ", colGap)
	var sb strings.Builder

	headerCells := make([]string, len(cols))
	for i, c := range cols {
		headerCells[i] = fitCell(c.title, widths[i], c.rightAlign)
	}
	sb.WriteString(headerStyle.Render(strings.Join(headerCells, gap)))
	sb.WriteString("\n")

	for r, row := range rows {
		cells := make([]string, len(cols))
		for i, c := range cols {
			fitted := fitCell(row[i], widths[i], c.rightAlign)
			if i == ageIdx {
				cells[i] = ageColor(ages[r]).Render(fitted)
			} else {
				cells[i] = valueStyle.Render(fitted)
			}
		}
		sb.WriteString(strings.Join(cells, gap))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (m *Model) renderFlows(now time.Time) string {
	streams := m.agg.Snapshot(m.sort)
	var totalSent, totalRecv uint64
	for _, s := range streams {
		totalSent += s.BytesSentLast
		totalRecv += s.BytesRecvLast
	}
	corpWidth := m.width * 14 / 100
	if corpWidth < 8 {
		corpWidth = 8
	}
	rows := make([][]string, len(streams))
	ages := make([]uint64, len(streams))
	for i, s := range streams {
		rows[i] = flowRow(s, totalSent, totalRecv, now, m.lastIntervalSecs, m.resolveNames)
		rows[i][len(rows[i])-1] = corpCell(s, corpWidth)
		ages[i] = s.AgeSeconds(now)
	}
	return renderTable(flowColumns, m.widths[ViewFlows], rows, ages, 8, m.width)
}

func (m *Model) renderCorps(now time.Time, withCity bool) string {
	streams := m.agg.CorpSnapshot(m.sort)
	var total uint64
	for _, s := range streams {
		total += s.BytesLast()
	}
	cols := corpColumns
	view := ViewCorps
	ageIdx := 5
	if withCity {
		cols = corpCityColumns
		view = ViewCorpsCity
		ageIdx = 6
	}
	corpWidth := m.width * 14 / 100
	if corpWidth < 8 {
		corpWidth = 8
	}
	rows := make([][]string, len(streams))
	ages := make([]uint64, len(streams))
	for i, s := range streams {
		rows[i] = corpRow(s, total, now, m.lastIntervalSecs, withCity, corpWidth)
		ages[i] = s.AgeSeconds(now)
	}
	return renderTable(cols, m.widths[view], rows, ages, ageIdx, m.width)
}

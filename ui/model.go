// Package ui implements the bubbletea TUI renderer: a single event-loop
// goroutine owning the flow aggregator, the resolver caches it was built
// with, and all render state. The capture goroutine is the only other
// goroutine in the process; it communicates solely through the packet
// channel and its atomic counters.
package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/turborat/pacmon/internal/capture"
	"github.com/turborat/pacmon/internal/flow"
)

const (
	minRefreshMillis = 20
	fastRepaintWin   = 5 * time.Second
	fastRepaintEvery = 100 * time.Millisecond
	tickEvery        = 50 * time.Millisecond
)

type drainMsg struct {
	pkt capture.Packet
	ok  bool
}

type tickMsg time.Time

// Model is the bubbletea model driving pacmon's interactive view.
type Model struct {
	cap *capture.Capture
	agg *flow.Aggregator

	view ViewMode
	sort flow.SortOrder

	resolveNames bool
	paused       bool

	refreshMillis int
	start         time.Time
	lastDraw      time.Time
	lastIntervalSecs float64

	width, height int

	redrawRequested bool
	sizeChanged     bool
	rendered        string

	widths map[ViewMode]*widthState
}

// NewModel builds the TUI model around an already-running capture and a
// freshly constructed aggregator.
func NewModel(cap *capture.Capture, agg *flow.Aggregator, refreshMillis int, resolveNames bool) *Model {
	return &Model{
		cap:           cap,
		agg:           agg,
		view:          ViewFlows,
		sort:          flow.SortByActivity,
		resolveNames:  resolveNames,
		refreshMillis: refreshMillis,
		start:         time.Now(),
		widths: map[ViewMode]*widthState{
			ViewFlows:     {},
			ViewCorps:     {},
			ViewCorpsCity: {},
		},
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(drainCmd(m.cap.Packets), tickCmd())
}

func drainCmd(packets <-chan capture.Packet) tea.Cmd {
	return func() tea.Msg {
		select {
		case p, ok := <-packets:
			return drainMsg{pkt: p, ok: ok}
		case <-time.After(20 * time.Millisecond):
			return drainMsg{ok: false}
		}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickEvery, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if msg.Width != m.width || msg.Height != m.height {
			m.sizeChanged = true
			for _, ws := range m.widths {
				ws.reset()
			}
		}
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		if cmd := m.dispatch(msg.String()); cmd != nil {
			return m, cmd
		}
		return m, nil

	case drainMsg:
		if msg.ok {
			m.agg.Tally(msg.pkt)
			m.cap.DecrementAndGetQueueDepth()
		}
		return m, drainCmd(m.cap.Packets)

	case tickMsg:
		if m.shouldRedraw() {
			m.render()
		}
		return m, tickCmd()
	}
	return m, nil
}

func (m *Model) shouldRedraw() bool {
	now := time.Now()
	if m.redrawRequested || m.sizeChanged {
		m.redrawRequested, m.sizeChanged = false, false
		return true
	}
	if m.paused {
		return false
	}
	since := now.Sub(m.lastDraw)
	if time.Since(m.start) < fastRepaintWin && since >= fastRepaintEvery {
		return true
	}
	return since >= time.Duration(m.refreshMillis)*time.Millisecond
}

func (m *Model) dispatch(key string) tea.Cmd {
	switch key {
	case "q", "ctrl+c":
		return tea.Quit
	case "h", "?":
		if m.view == ViewHelp {
			m.view = ViewFlows
		} else {
			m.view = ViewHelp
		}
	case "r":
		m.resolveNames = !m.resolveNames
	case " ":
		m.paused = !m.paused
	case "t":
		for _, ws := range m.widths {
			ws.reset()
		}
	case "s":
		if m.sort == flow.SortByActivity {
			m.sort = flow.SortByCumulative
		} else {
			m.sort = flow.SortByActivity
		}
	case "c":
		switch m.view {
		case ViewFlows:
			m.view = ViewCorps
		case ViewCorps:
			m.view = ViewCorpsCity
		default:
			m.view = ViewFlows
		}
	case "up":
		m.refreshMillis -= 9
		if m.refreshMillis < minRefreshMillis {
			m.refreshMillis = minRefreshMillis
		}
	case "down":
		m.refreshMillis += 9
	default:
		if len(key) == 1 && key[0] >= '0' && key[0] <= '9' {
			n, _ := strconv.Atoi(key)
			if n == 0 {
				m.refreshMillis = 200
			} else {
				m.refreshMillis = n * 1000
			}
		} else {
			return nil
		}
	}
	m.redrawRequested = true
	return nil
}

func (m *Model) render() {
	now := time.Now()
	if m.lastDraw.IsZero() {
		m.lastIntervalSecs = 0
	} else {
		m.lastIntervalSecs = now.Sub(m.lastDraw).Seconds()
	}
	m.lastDraw = now

	var body string
	switch m.view {
	case ViewHelp:
		body = m.renderHelp()
	case ViewCorps:
		body = m.renderCorps(now, false)
	case ViewCorpsCity:
		body = m.renderCorps(now, true)
	default:
		body = m.renderFlows(now)
	}
	m.agg.ResetDeltas()

	m.rendered = lipgloss.JoinVertical(lipgloss.Left, body, m.footer(now))
}

func (m *Model) View() string {
	if m.rendered == "" {
		m.render()
	}
	return m.rendered
}

func (m *Model) footer(now time.Time) string {
	sortName := "activity"
	if m.sort == flow.SortByCumulative {
		sortName = "cumulative"
	}
	drops := m.cap.PacketsDropped()
	full := m.cap.QueueFull()
	left := fmt.Sprintf(" %dx%d  q:%d  drop'd:%s  full:%s  noif:%d  interval:%dms  sort:%s  pause:%v",
		m.height, m.width, m.cap.QueueDepth(), dropColor(drops).Render(fmt.Sprint(drops)),
		dropColor(full).Render(fmt.Sprint(full)),
		m.cap.NoInterfaceMatch(), m.refreshMillis, sortName, m.paused)
	right := now.Format("15:04:05") + " "
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return footerStyle.Render(left + strings.Repeat(" ", gap) + right)
}

func (m *Model) renderHelp() string {
	lines := []string{
		titleStyle.Render("pacmon"),
		"",
		"q          quit",
		"h, ?       toggle this help",
		"r          toggle name resolution",
		"space      pause / resume",
		"t          reset column widths",
		"s          cycle sort order (activity / cumulative)",
		"c          cycle view (flows / corps / corps+city)",
		"0-9        set refresh period (0=200ms, 1-9=seconds)",
		"up/down    nudge refresh period by 9ms",
		"",
		fmt.Sprintf("packets with no matching interface: %s", humanize.Comma(int64(m.cap.NoInterfaceMatch()))),
		fmt.Sprintf("bytes observed this run: %s", humanize.Comma(int64(m.agg.TotalBytes()))),
	}
	return helpStyle.Render(strings.Join(lines, "\n"))
}

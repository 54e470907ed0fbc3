// Package cmd implements pacmon's command-line entry point: flag parsing,
// mode dispatch (interactive TUI, diagnostic dump, CIDR filter pipeline),
// and the root-user / exit-code contract.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/turborat/pacmon/config"
	"github.com/turborat/pacmon/internal/capture"
	"github.com/turborat/pacmon/internal/flow"
	"github.com/turborat/pacmon/internal/ipdata"
	"github.com/turborat/pacmon/internal/resolver"
	"github.com/turborat/pacmon/logger"
	"github.com/turborat/pacmon/ui"
)

// Version is set at build time via ldflags.
var Version = "0.1.0"

// ExitCodeError carries a specific process exit code through to main,
// bypassing the generic "Error: ..." wrapping for expected, named exits
// (help, non-root invocation, unparseable filter lines).
type ExitCodeError struct {
	Code int
	Msg  string
}

func (e ExitCodeError) Error() string { return e.Msg }

const datasetPath = "/usr/share/pacmon/ipdata.db"

func printUsage() {
	fmt.Fprintf(os.Stderr, `pacmon v%s — interactive terminal network-flow monitor

Usage:
  pacmon [OPTIONS]

Options:
  -l            Log to ./pacmon.log (truncating any prior log)
  -i DEVICE     Capture interface (default: first device with an address)
  -dump         Headless mode: print one line per packet to stdout, no TUI
  -x            CIDR filter pipeline mode: read "cidr,rest" lines on stdin,
                write "addr-as-int,cidr,rest" to stdout
  -h            Show this help and exit

Must be run as root (required to open a live capture handle).
`, Version)
}

// Run parses flags and dispatches to the requested mode. -h and -x bypass
// the root-user gate: help printing and the stdin filter pipeline touch no
// capture device and need no elevated privilege.
func Run() error {
	var logEnabled, dumpMode, filterMode, showHelp bool
	var device string
	flag.BoolVar(&logEnabled, "l", false, "log to ./pacmon.log")
	flag.StringVar(&device, "i", "", "capture interface")
	flag.BoolVar(&dumpMode, "dump", false, "headless packet dump to stdout")
	flag.BoolVar(&filterMode, "x", false, "CIDR filter pipeline mode")
	flag.BoolVar(&showHelp, "h", false, "show help")
	flag.Usage = printUsage
	flag.Parse()

	if showHelp {
		printUsage()
		return ExitCodeError{Code: -98, Msg: "help requested"}
	}

	if filterMode {
		n, err := runFilter(os.Stdin, os.Stdout, os.Stderr)
		if err != nil {
			return err
		}
		if n > 0 {
			return ExitCodeError{Code: -n, Msg: fmt.Sprintf("%d unparseable line(s)", n)}
		}
		return nil
	}

	if err := checkRootUser(); err != nil {
		return err
	}

	var log *logger.Logger
	if logEnabled {
		l, err := logger.Open("pacmon.log")
		if err != nil {
			return fmt.Errorf("cmd: open log: %w", err)
		}
		defer l.Close()
		log = l
	}

	data, err := ipdata.LoadSQLite(datasetPath)
	if err != nil {
		return fmt.Errorf("cmd: load ownership dataset: %w", err)
	}
	res := resolver.New(data, log)

	capt, err := capture.New(log)
	if err != nil {
		return fmt.Errorf("cmd: init capture: %w", err)
	}

	if device == "" {
		device, err = capture.FirstDevice()
		if err != nil {
			return fmt.Errorf("cmd: select capture device: %w", err)
		}
	}

	if dumpMode {
		return runDump(capt, res, device)
	}
	return runInteractive(capt, res, device)
}

func checkRootUser() error {
	if u := os.Getenv("USER"); u != "root" {
		return ExitCodeError{Code: -99, Msg: fmt.Sprintf("pacmon must run as root (USER=%q)", u)}
	}
	return nil
}

// runInteractive starts capture and drives the bubbletea TUI, with an
// errgroup supervising both so a cancelled program tears down capture
// cleanly. A panic on this function's own goroutine is recovered here and
// translated into a negative exit code via translatePanic; the bubbletea
// program runs on an errgroup goroutine, so panics in its Update/View path
// are not recovered or translated here.
func runInteractive(capt *capture.Capture, res *resolver.Resolver, device string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = translatePanic(r)
		}
	}()

	cfg := config.Load()
	refreshMillis := cfg.RefreshMillis
	if refreshMillis <= 0 {
		refreshMillis = 1000
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-ctx.Done()
		close(done)
		return nil
	})

	if err := capt.Start(device, done); err != nil {
		cancel()
		return fmt.Errorf("cmd: start capture: %w", err)
	}

	agg := flow.New(res)
	m := ui.NewModel(capt, agg, refreshMillis, cfg.ResolveNamesAtRun)
	p := tea.NewProgram(m, tea.WithAltScreen())

	g.Go(func() error {
		_, runErr := p.Run()
		cancel()
		return runErr
	})

	return g.Wait()
}

func translatePanic(r interface{}) error {
	msg := fmt.Sprint(r)
	switch {
	case strings.Contains(msg, "permission denied"):
		return ExitCodeError{Code: -1, Msg: msg}
	case strings.Contains(msg, "too small") || strings.Contains(msg, "terminal"):
		return ExitCodeError{Code: -2, Msg: msg}
	default:
		return ExitCodeError{Code: -3, Msg: msg}
	}
}

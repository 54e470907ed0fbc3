package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/turborat/pacmon/internal/capture"
	"github.com/turborat/pacmon/internal/flow"
	"github.com/turborat/pacmon/internal/resolver"
)

// runDump is the headless diagnostic mode: every packet is tallied into
// a flow record exactly as in the TUI, and
// the record's current line is printed to stdout -- one line per packet,
// no screen, no alt-screen, suitable for piping into a file or another
// tool. It runs until interrupted.
func runDump(capt *capture.Capture, res *resolver.Resolver, device string) error {
	done := make(chan struct{})
	if err := capt.Start(device, done); err != nil {
		return fmt.Errorf("cmd: start capture: %w", err)
	}
	defer close(done)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	agg := flow.New(res)
	for {
		select {
		case <-sig:
			return nil
		case p, ok := <-capt.Packets:
			if !ok {
				return nil
			}
			agg.Tally(p)
			s := agg.Lookup(p)
			if s != nil {
				fmt.Println(s.String())
			}
		}
	}
}

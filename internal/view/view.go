// Package view is the terminal presentation layer. It renders whatever the
// store currently reports visible, turns typed commands into engine calls,
// and redraws after every mutation.
package view

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"feedview/pkg/feed"
	"feedview/pkg/logger"
	"feedview/pkg/models"
)

// View drives one interactive session over a feed store.
type View struct {
	store       *feed.Store
	revealer    *feed.Revealer
	in          io.Reader
	out         io.Writer
	sessionID   string
	feedID      string
	interactive bool

	// Buffered so a reveal completing after the loop exits never blocks
	// the revealer's timer goroutine (and thus Close).
	revealCh chan bool
}

// New wires a view to a store. delay is the simulated fetch latency applied
// to every reveal. interactive controls whether prompts are printed.
func New(st *feed.Store, delay time.Duration, in io.Reader, out io.Writer, sessionID, feedID string, interactive bool) *View {
	v := &View{
		store:       st,
		in:          in,
		out:         out,
		sessionID:   sessionID,
		feedID:      feedID,
		interactive: interactive,
		revealCh:    make(chan bool, 4),
	}
	v.revealer = feed.NewRevealer(st, delay, func(more bool) { v.revealCh <- more })
	return v
}

// Run renders the initial page and processes commands until quit, EOF or
// context cancellation. Reveal completions are applied between commands.
func (v *View) Run(ctx context.Context) error {
	v.render()
	v.prompt()

	// The reader goroutine may stay blocked on a final Scan until the
	// process exits; the channel send is guarded so it never leaks writes.
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(v.in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := sc.Err(); err != nil {
			logger.Warn("input_scan_failed", "error", err)
		}
	}()

	defer v.revealer.Close()
	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(v.out)
			logger.Info("view_interrupted", "session", v.sessionID)
			return nil
		case more := <-v.revealCh:
			v.render()
			if !more {
				fmt.Fprintln(v.out, "No further messages.")
			}
			v.prompt()
		case line, ok := <-lines:
			if !ok {
				logger.Info("input_closed", "session", v.sessionID)
				return nil
			}
			if v.Execute(line) {
				return nil
			}
			v.prompt()
		}
	}
}

// Execute runs one command line. It returns true when the session is done.
func (v *View) Execute(line string) bool {
	fields := strings.Fields(strings.TrimSpace(line))
	if len(fields) == 0 {
		return false
	}
	cmd := strings.ToLower(fields[0])
	args := fields[1:]
	v.sessionLog(cmd, line)

	switch cmd {
	case "more":
		if !v.revealer.Request() {
			fmt.Fprintln(v.out, "Still loading...")
			return false
		}
		fmt.Fprintln(v.out, "Loading messages...")
	case "sort":
		v.cmdSort(args)
	case "del", "delete":
		v.cmdDelete(args)
	case "show":
		v.cmdShow(args)
	case "stats":
		v.cmdStats()
	case "help":
		v.printHelp()
	case "quit", "exit", "q":
		fmt.Fprintln(v.out, "Bye.")
		logger.Info("session_closed", "session", v.sessionID)
		return true
	default:
		fmt.Fprintf(v.out, "unknown command %q (try 'help')\n", cmd)
	}
	return false
}

func (v *View) cmdSort(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(v.out, "usage: sort asc|desc")
		return
	}
	dir := feed.SortDir(strings.ToLower(args[0]))
	if err := v.store.SortBy(feed.SortSentAt, dir); err != nil {
		fmt.Fprintf(v.out, "cannot sort: %v\n", err)
		return
	}
	v.render()
}

func (v *View) cmdDelete(args []string) {
	m, n, ok := v.visibleArg(args)
	if !ok {
		fmt.Fprintln(v.out, "usage: del <n> (a visible message number)")
		return
	}
	if v.store.Delete(feed.KeyOf(m)) {
		fmt.Fprintf(v.out, "Deleted message %d.\n", n)
		v.render()
		return
	}
	fmt.Fprintln(v.out, "Message not found.")
}

func (v *View) cmdShow(args []string) {
	m, _, ok := v.visibleArg(args)
	if !ok {
		fmt.Fprintln(v.out, "usage: show <n> (a visible message number)")
		return
	}
	v.renderFull(m)
}

// visibleArg resolves a 1-based visible message number to its message.
func (v *View) visibleArg(args []string) (models.Message, int, bool) {
	if len(args) != 1 {
		return models.Message{}, 0, false
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return models.Message{}, 0, false
	}
	visible := v.store.Visible()
	if n < 1 || n > len(visible) {
		return models.Message{}, 0, false
	}
	return visible[n-1], n, true
}

func (v *View) sessionLog(cmd, line string) {
	if logger.Session != nil {
		logger.Session.Info("command_executed", "session", v.sessionID, "cmd", cmd, "line", line)
		return
	}
	logger.Debug("command_executed", "session", v.sessionID, "cmd", cmd)
}

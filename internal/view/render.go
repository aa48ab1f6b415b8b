package view

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"

	"feedview/internal/report"
	"feedview/pkg/config"
	"feedview/pkg/feed"
	"feedview/pkg/logger"
	"feedview/pkg/models"
	"feedview/pkg/timefmt"
)

const (
	headerWidth  = 60
	timeFallback = "unknown time"
)

func (v *View) prompt() {
	if v.interactive {
		fmt.Fprint(v.out, "feedview> ")
	}
}

// render redraws the whole visible page. The engine is re-queried on every
// draw; the view caches nothing.
func (v *View) render() {
	visible := v.store.Visible()
	total := v.store.Len()

	header := fmt.Sprintf("== Messages (%d/%d shown) ", len(visible), total)
	if len(header) < headerWidth {
		header += strings.Repeat("=", headerWidth-len(header))
	}
	fmt.Fprintln(v.out, header)
	for i, m := range visible {
		fmt.Fprintf(v.out, "%2d. [%s] %s\n", i+1, shortID(m.SenderID), v.displayTime(m))
		fmt.Fprintf(v.out, "    %s\n", m.Content)
	}
	if v.store.HasMore() {
		fmt.Fprintf(v.out, "-- %d more hidden: type 'more' --\n", total-len(visible))
	} else {
		fmt.Fprintln(v.out, "-- end of feed --")
	}
}

// displayTime renders the sent time plus a relative age, degrading to a
// fallback string when the raw value does not parse.
func (v *View) displayTime(m models.Message) string {
	t, err := timefmt.Parse(m.SentAt)
	if err != nil {
		feed.CountFormatFallback()
		logger.WarnThrottled("bad_sent_at", "sent_at_unrenderable", "id", m.ID, "raw", m.SentAt)
		return timeFallback
	}
	return fmt.Sprintf("%s (%s)", timefmt.Format(t), humanize.Time(t))
}

func (v *View) renderFull(m models.Message) {
	fmt.Fprintf(v.out, "id:      %s\n", m.ID)
	fmt.Fprintf(v.out, "sender:  %s\n", m.SenderID)
	fmt.Fprintf(v.out, "sent at: %s (raw %s)\n", timefmt.DisplayOr(m.SentAt, timeFallback), m.SentAt)
	fmt.Fprintf(v.out, "content: %s\n", m.Content)
}

func (v *View) cmdStats() {
	rc := config.GetRuntime()
	fmt.Fprintf(v.out, "session:   %s\n", v.sessionID)
	fmt.Fprintf(v.out, "feed:      %s\n", v.feedID)
	if rc.Source != "" {
		fmt.Fprintf(v.out, "config:    %s (page %d, delay %s, sort %s)\n", rc.Source, rc.PageSize, rc.RevealDelay, rc.Sort)
	}
	fmt.Fprintf(v.out, "messages:  %d total, %d revealed, %d duplicates dropped\n",
		v.store.Len(), v.store.Revealed(), v.store.Dropped())
	fmt.Fprintf(v.out, "reveal:    %s\n", v.revealer.State())
	counters := report.GatherCounters()
	if len(counters) == 0 {
		return
	}
	names := make([]string, 0, len(counters))
	for n := range counters {
		names = append(names, n)
	}
	sort.Strings(names)
	fmt.Fprintln(v.out, "counters:")
	for _, n := range names {
		fmt.Fprintf(v.out, "  %s = %g\n", n, counters[n])
	}
}

func (v *View) printHelp() {
	fmt.Fprintln(v.out, "commands:")
	fmt.Fprintln(v.out, "  more            reveal the next page of messages")
	fmt.Fprintln(v.out, "  sort asc|desc   re-sort by sent time")
	fmt.Fprintln(v.out, "  del <n>         delete visible message n")
	fmt.Fprintln(v.out, "  show <n>        print the full record of visible message n")
	fmt.Fprintln(v.out, "  stats           session, store and counter stats")
	fmt.Fprintln(v.out, "  quit            end the session")
}

func shortID(s string) string {
	if len(s) > 8 {
		return s[:8]
	}
	return s
}

package banner

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"feedview/pkg/config"
)

const banner = `
███████╗███████╗███████╗██████╗ ██╗   ██╗██╗███████╗██╗    ██╗
██╔════╝██╔════╝██╔════╝██╔══██╗██║   ██║██║██╔════╝██║    ██║
█████╗  █████╗  █████╗  ██║  ██║██║   ██║██║█████╗  ██║ █╗ ██║
██╔══╝  ██╔══╝  ██╔══╝  ██║  ██║╚██╗ ██╔╝██║██╔══╝  ██║███╗██║
██║     ███████╗███████╗██████╔╝ ╚████╔╝ ██║███████╗╚███╔███╔╝
╚═╝     ╚══════╝╚══════╝╚═════╝   ╚═══╝  ╚═╝╚══════╝ ╚══╝╚══╝
`

// Print shows the banner with the minimal fields older callers pass.
// Newer callers use PrintWithEff so runtime info (feed source, report
// schedule, config sources) is displayed centrally.
func Print(feedPath string, pageSize int, version string) {
	fmt.Print(banner)
	fmt.Println("== Config =====================================================")
	if feedPath == "" {
		feedPath = "embedded default"
	}
	fmt.Printf("Feed:      %s\n", feedPath)
	fmt.Printf("Page size: %d\n", pageSize)
	if version != "" {
		fmt.Printf("Version:   %s\n", version)
	}
}

// PrintWithEff prints the banner using an EffectiveConfigResult which
// provides richer context (config, feed source, report schedule, source).
func PrintWithEff(eff config.EffectiveConfigResult, version string) {
	feedPath := eff.FeedPath
	if feedPath == "" {
		feedPath = "embedded default"
	}
	src := eff.Source
	if src == "" {
		src = "flags"
	}

	fmt.Print(banner)
	fmt.Println("== Config =====================================================")
	fmt.Printf("Feed:      %s\n", feedPath)
	if eff.Snapshot != "" {
		fmt.Printf("Snapshot:  %s\n", eff.Snapshot)
	}
	if eff.Config != nil {
		fmt.Printf("Page size: %d\n", eff.Config.Viewer.PageSize)
		fmt.Printf("Delay:     %s\n", eff.Config.Viewer.RevealDelay.Duration())
		fmt.Printf("Sort:      sent_at %s\n", eff.Config.Viewer.Sort)
	}
	if version != "" {
		fmt.Printf("Version:   %s\n", version)
	}
	fmt.Printf("Config: %s\n", src)

	fmt.Println("\n== Commands ===================================================")
	fmt.Println("more            reveal the next page of messages")
	fmt.Println("sort asc|desc   reorder by sent time")
	fmt.Println("del <n>         remove the n-th visible message")
	fmt.Println("show <n>        print one message in full")
	fmt.Println("stats           session counters")
	fmt.Println("quit            exit")

	fmt.Println("\n== Session ====================================================")
	if eff.Snapshot != "" {
		fmt.Printf("- Snapshot: %s\n", eff.Snapshot)
	} else {
		fmt.Println("- Snapshot: none (use feedpack to pack one)")
	}
	if eff.Config != nil {
		fmt.Printf("- Max bundle size: %s\n", humanize.Bytes(uint64(eff.Config.Feed.MaxBundleBytes.Int64())))
		if eff.Config.Report.Enabled {
			fmt.Printf("- Report: enabled (cron=%s)\n", eff.Config.Report.Cron)
		} else {
			fmt.Println("- Report: disabled")
		}
		fmt.Printf("- Log level: %s\n", eff.Config.Logging.Level)
	}

	fmt.Println("\n== Logs: =================================================")
}

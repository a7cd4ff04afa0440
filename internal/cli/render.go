package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/schollz/progressbar/v3"
)

var (
	bold  = color.New(color.Bold)
	green = color.New(color.FgGreen)
	red   = color.New(color.FgRed)
)

func newProgressBar(w io.Writer, total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(50),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "█",
			SaucerHead:    "█",
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionEnableColorCodes(true),
	)
}

func printRaceConfig(w io.Writer, cfg raceConfig) {
	_, _ = bold.Fprintln(w, "Configuration:")
	_, _ = fmt.Fprintf(w, "  Mode:       %s\n", cfg.mode)
	_, _ = fmt.Fprintf(w, "  Workers:    %d\n", cfg.workers)
	_, _ = fmt.Fprintf(w, "  Keys:       %d\n", cfg.keys)
	if cfg.mode == modeIncrement {
		_, _ = fmt.Fprintf(w, "  Increments: %d per worker\n", cfg.increments)
	}
	_, _ = fmt.Fprintf(w, "  Attempts:   %d\n", cfg.attempts)
	_, _ = fmt.Fprintf(w, "  Delay:      %v\n", cfg.delay)
	_, _ = fmt.Fprintln(w)
}

func renderRaceReport(w io.Writer, r raceReport) {
	_, _ = bold.Fprintln(w, "Results:")

	table := tablewriter.NewWriter(w)
	table.Header("Mode", "Workers", "Calls", "Succeeded", "Exhausted", "Cancelled", "Attempts/call", "Elapsed")

	perCall := 0.0
	if r.Calls > 0 {
		perCall = r.Attempts / float64(r.Calls)
	}

	_ = table.Append(
		r.Mode,
		fmt.Sprintf("%d", r.Workers),
		fmt.Sprintf("%d", r.Calls),
		fmt.Sprintf("%d", r.Succeeded),
		fmt.Sprintf("%d", r.Exhausted),
		fmt.Sprintf("%d", r.Cancelled),
		fmt.Sprintf("%.2f", perCall),
		r.Elapsed.Round(time.Microsecond).String(),
	)

	if err := table.Render(); err != nil {
		_, _ = red.Fprintln(w, "Error rendering results table")
	}

	if r.InvariantHeld {
		_, _ = green.Fprintf(w, "✓ invariant held: %s\n", r.Detail)
	} else {
		_, _ = red.Fprintf(w, "✗ invariant violated: %s\n", r.Detail)
	}
}

func renderSchedule(w io.Writer, strategy string, delays []time.Duration) {
	_, _ = bold.Fprintf(w, "Schedule (%s):\n", strategy)

	table := tablewriter.NewWriter(w)
	table.Header("Gap", "Before attempt", "Pause", "Cumulative")

	var total time.Duration
	for i, d := range delays {
		total += d
		_ = table.Append(
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%d", i+2),
			d.String(),
			total.String(),
		)
	}

	if err := table.Render(); err != nil {
		_, _ = red.Fprintln(w, "Error rendering schedule table")
	}
}

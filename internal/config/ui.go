package config

import (
	"fmt"

	"github.com/pterm/pterm"

	"github.com/sanjuxAI/Data-Migration-Console/internal/progress"
)

// renderEvents drains the pipeline event channel and prints a live status
// line per phase. Returns once the pipeline closes the channel.
func renderEvents(events <-chan progress.Event) {
	area, err := pterm.DefaultArea.Start()
	if err != nil {
		// No interactive terminal; fall back to plain lines.
		for e := range events {
			fmt.Println(describe(e))
		}
		return
	}
	defer area.Stop()

	for e := range events {
		switch e.Type {
		case progress.EventDone:
			area.Update(pterm.FgGreen.Sprint(describe(e)))
		case progress.EventFailed:
			area.Update(pterm.FgRed.Sprint(describe(e)))
		default:
			area.Update(describe(e))
		}
	}
}

func describe(e progress.Event) string {
	switch e.Type {
	case progress.EventFetch:
		return fmt.Sprintf("Fetching... %d rows", e.Rows)
	case progress.EventInsert:
		return fmt.Sprintf("Inserting... %d rows", e.Rows)
	case progress.EventDone:
		return fmt.Sprintf("Done: %s", e.Message)
	case progress.EventFailed:
		return fmt.Sprintf("Failed: %s", e.Message)
	default:
		return e.Message
	}
}

package domain

import (
	"fmt"
	"strings"
)

// digestPreamble is the fixed instruction wrapped around the event list. The
// model is asked for a short narrative followed by bullet-point notes.
const digestPreamble = `You are given a list of recent earthquake observations, one per line.
Write a short narrative summary of the overall seismic activity, followed by
bullet-point notes highlighting the most significant events.

Events:
`

// digestTimeLayout renders event times for the prompt body.
const digestTimeLayout = "1/2/2006, 3:04:05 PM MST"

// DigestLine renders one event as a prompt line.
func DigestLine(e SeismicEvent) string {
	mag := "unknown"
	if e.Magnitude != nil {
		mag = fmt.Sprintf("%g", *e.Magnitude)
	}
	return fmt.Sprintf("Place: %s, Magnitude: %s, Date: %s",
		e.Place, mag, e.Time().Format(digestTimeLayout))
}

// BuildPrompt joins the events into a newline-separated digest wrapped with
// the instructional preamble.
func BuildPrompt(events []SeismicEvent) string {
	lines := make([]string, len(events))
	for i, e := range events {
		lines[i] = DigestLine(e)
	}
	return digestPreamble + strings.Join(lines, "\n")
}

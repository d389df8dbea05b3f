package events

import (
	"fmt"
	"io"
)

// Counts tallies the events of each kind.
func Counts(l *Log) map[Kind]int {
	out := make(map[Kind]int)
	for _, tick := range l.ticks {
		for _, e := range l.byTick[tick] {
			out[e.Kind()]++
		}
	}
	return out
}

// WriteSummary prints a total followed by one line per event in tick order.
func WriteSummary(w io.Writer, title string, l *Log) error {
	if _, err := fmt.Fprintf(w, "%s: %d events\n", title, l.Len()); err != nil {
		return err
	}
	for _, e := range l.All() {
		if _, err := fmt.Fprintf(w, "  %v\n", e); err != nil {
			return err
		}
	}
	return nil
}

// Package diurnal labels clips day or night from their local clock time.
package diurnal

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/killallgit/ieeg-clips/internal/models"
)

// Window bounds the "day" period as minutes since local midnight,
// half-open [Start, End).
type Window struct {
	Start int
	End   int
}

// DefaultWindow is day = [06:00, 20:00) local clock time.
var DefaultWindow = Window{Start: 6 * 60, End: 20 * 60}

// ParseWindow builds a Window from two "HH:MM" clock strings.
func ParseWindow(dayStart, dayEnd string) (Window, error) {
	start, err := parseClock(dayStart)
	if err != nil {
		return Window{}, fmt.Errorf("invalid day start %q: %w", dayStart, err)
	}
	end, err := parseClock(dayEnd)
	if err != nil {
		return Window{}, fmt.Errorf("invalid day end %q: %w", dayEnd, err)
	}
	if start >= end {
		return Window{}, fmt.Errorf("day window start %q must precede end %q", dayStart, dayEnd)
	}
	return Window{Start: start, End: end}, nil
}

func parseClock(s string) (int, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("want HH:MM")
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("bad hour %q", parts[0])
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("bad minute %q", parts[1])
	}
	return h*60 + m, nil
}

// Classify labels a timestamp day or night by its local clock time. Pure
// function of the timestamp and window.
func Classify(t time.Time, w Window) models.DiurnalClass {
	minutes := t.Hour()*60 + t.Minute()
	if minutes >= w.Start && minutes < w.End {
		return models.DiurnalDay
	}
	return models.DiurnalNight
}

// ClassifyClip labels a clip from its absolute start. Clips without a
// resolvable absolute start are unknown, never silently day.
func ClassifyClip(clip *models.Clip, w Window) models.DiurnalClass {
	if clip.AbsoluteStart == nil {
		return models.DiurnalUnknown
	}
	return Classify(*clip.AbsoluteStart, w)
}

package models

import (
	"fmt"
	"time"
)

// TimeLeft formats a remaining duration the way listings display it:
// "2h 15m", "28m", "45s", or "ended" once nothing is left.
func TimeLeft(d time.Duration) string {
	if d <= 0 {
		return "ended"
	}
	h := int(d / time.Hour)
	m := int((d % time.Hour) / time.Minute)
	switch {
	case h > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case m > 0:
		return fmt.Sprintf("%dm", m)
	default:
		return fmt.Sprintf("%ds", int(d/time.Second))
	}
}

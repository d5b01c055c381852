package shared

import (
	"fmt"
	"time"
)

// SessionWindow represents an allowed trading window bounded by hours of the
// day, half open ([Open, Close)), on the same calendar day.
type SessionWindow struct {
	Open  int `yaml:"open"`
	Close int `yaml:"close"`
}

// Validate asserts the session window has sane bounds.
func (w *SessionWindow) Validate() error {
	if w.Open < 0 || w.Open > 23 {
		return fmt.Errorf("session open hour must be in [0,23], got %d", w.Open)
	}
	if w.Close < 1 || w.Close > 24 {
		return fmt.Errorf("session close hour must be in [1,24], got %d", w.Close)
	}
	if w.Open >= w.Close {
		return fmt.Errorf("session open hour %d must be before close hour %d", w.Open, w.Close)
	}

	return nil
}

// Contains checks whether the provided time falls within the session window.
func (w *SessionWindow) Contains(now time.Time) bool {
	hour := now.Hour()
	return hour >= w.Open && hour < w.Close
}

// InAllowedSession checks whether the provided time falls within any of the
// provided session windows.
func InAllowedSession(now time.Time, windows []SessionWindow) bool {
	for idx := range windows {
		if windows[idx].Contains(now) {
			return true
		}
	}

	return false
}

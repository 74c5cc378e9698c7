package notifier

import (
	"context"
	"fmt"

	"github.com/ewu-ics-cal/ewucal/internal/event"
)

// Notifier defines the interface for posting revision notifications
type Notifier interface {
	// Notify posts notifications for the given changes
	Notify(ctx context.Context, changes []Change) error
}

// Change is a calendar whose revision date differs from the one last seen
type Change struct {
	Path     string      `json:"path"`
	Name     string      `json:"name"`
	Semester string      `json:"semester"`
	Year     int         `json:"year"`
	Previous *event.Date `json:"previous,omitempty"`
	Current  event.Date  `json:"current"`
}

// IsNew reports whether the calendar had not been seen before
func (c Change) IsNew() bool {
	return c.Previous == nil
}

// Subject is a one-line summary of the change
func (c Change) Subject() string {
	if c.IsNew() {
		return fmt.Sprintf("New academic calendar: %s %d", c.Semester, c.Year)
	}
	return fmt.Sprintf("Academic calendar revised: %s %d", c.Semester, c.Year)
}

// Message formats the change as a plain-text notification body
func (c Change) Message() string {
	msg := c.Subject() + "\n\n"
	if c.Name != "" {
		msg += fmt.Sprintf("Calendar: %s\n", c.Name)
	}
	if c.Previous != nil {
		msg += fmt.Sprintf("Revised: %s (was %s)\n", c.Current, c.Previous)
	} else {
		msg += fmt.Sprintf("Revised: %s\n", c.Current)
	}
	msg += fmt.Sprintf("Path: %s\n", c.Path)
	return msg
}

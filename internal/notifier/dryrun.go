package notifier

import (
	"context"
	"fmt"
	"io"
)

// DryRunNotifier prints what would be published without sending anything
type DryRunNotifier struct {
	w io.Writer
}

// NewDryRunNotifier creates a new dry-run notifier writing to w
func NewDryRunNotifier(w io.Writer) *DryRunNotifier {
	return &DryRunNotifier{w: w}
}

// Notify prints the messages that would be published
func (n *DryRunNotifier) Notify(_ context.Context, changes []Change) error {
	for i, c := range changes {
		if _, err := fmt.Fprintf(n.w, "--- Notification %d/%d ---\n%s\n", i+1, len(changes), c.Message()); err != nil {
			return err
		}
	}
	return nil
}

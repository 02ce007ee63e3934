package bridge

import (
	"context"
	"errors"
)

// Multi delivers every event to all of its bridges.
type Multi []Bridge

// Ready is true when every bridge is ready.
func (m Multi) Ready() bool {
	for _, b := range m {
		if !b.Ready() {
			return false
		}
	}
	return true
}

// Deliver tries every bridge and joins their errors.
func (m Multi) Deliver(ctx context.Context, ev Event) error {
	var errs []error
	for _, b := range m {
		if err := b.Deliver(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

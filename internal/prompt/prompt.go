// Package prompt asks the user for a list name.
//
// Two NameRequesters are provided: Line reads one line from an interactive
// terminal and Editor opens $VISUAL or $EDITOR on a scratch file. Fallback
// tries one and then the other when the first is unavailable.
package prompt

import (
	"context"
	"errors"
)

var (
	// ErrUnavailable means the requester cannot prompt in this environment.
	ErrUnavailable = errors.New("prompt unavailable")

	// ErrCanceled means the user dismissed the prompt or gave no name.
	ErrCanceled = errors.New("prompt canceled")
)

// NameRequester asks the user for a name, offering def as the default.
type NameRequester interface {
	RequestName(ctx context.Context, def string) (string, error)
}

// Fallback tries Primary and uses Secondary only when Primary is unavailable.
type Fallback struct {
	Primary   NameRequester
	Secondary NameRequester
}

// RequestName implements NameRequester.
func (f Fallback) RequestName(ctx context.Context, def string) (string, error) {
	name, err := f.Primary.RequestName(ctx, def)
	if errors.Is(err, ErrUnavailable) && f.Secondary != nil {
		return f.Secondary.RequestName(ctx, def)
	}
	return name, err
}

package notify

import (
	"context"
	"errors"

	"github.com/protecthire/protecthire/internal/domain/model"
)

// Dispatcher mirrors worker.Dispatcher.
type Dispatcher interface {
	Dispatch(ctx context.Context, n model.Notification) error
}

// Fanout delivers to every dispatcher. One failure does not stop the rest.
type Fanout []Dispatcher

// Dispatch implements worker.Dispatcher.
func (f Fanout) Dispatch(ctx context.Context, n model.Notification) error { //nolint:gocritic // hugeParam
	var errs []error
	for _, d := range f {
		if err := d.Dispatch(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

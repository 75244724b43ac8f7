// Package delivery declares the inbound transports of the application.
package delivery

import "context"

// Delivery is a long-running inbound transport. Serve blocks until the
// transport stops; shutdown happens through the fx lifecycle.
type Delivery interface {
	Serve(ctx context.Context) error
}

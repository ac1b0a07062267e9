// Package delivery defines the contract every transport entry point
// (HTTP server, background worker) satisfies so main can start them uniformly.
package delivery

import "context"

// Delivery is a long-running serving loop. Serve blocks until the delivery
// stops or fails.
type Delivery interface {
	Serve(ctx context.Context) error
}

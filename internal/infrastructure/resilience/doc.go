/*
Package resilience provides a circuit breaker for remote dependencies.

The storage layer wraps networked backends (postgres) in a Breaker so a
database outage surfaces as an immediate ErrCircuitOpen on every
filesystem call rather than a pile of stalled connections.

# Usage

	breaker := resilience.New("postgres", resilience.Settings{
		Threshold: 5,
		Timeout:   30 * time.Second,
	})

	node, err := resilience.Call(breaker, func() (*types.Node, error) {
		return store.Get(ctx, path)
	})

# States

	Closed --[failures]-> Open --[timeout]-> Half-Open --[probe ok]-> Closed
	                                             |
	                                         [failure]
	                                             v
	                                           Open
*/
package resilience

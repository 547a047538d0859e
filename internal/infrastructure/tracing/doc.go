/*
Package tracing provides request tracing for the HTTP API.

# Overview

Every request gets a request ID and a span. Spans are buffered and logged
by a background collector, so handlers never block on logging. Trace
context arriving in headers is continued rather than replaced, which lets
the desktop shell correlate its own calls.

# Usage

	tracer := tracing.New("nyxos", logger)
	defer tracer.Close()

	router.Use(tracing.RequestID())
	router.Use(tracing.HTTPMiddleware(tracer))

	// Manual span creation
	span, ctx := tracer.StartSpan(ctx, "boot.autoexec")
	defer func() {
		span.Finish()
		tracer.Submit(span)
	}()

# Headers

- X-Request-ID: per-request identifier (uuid), echoed on the response
- X-Trace-ID: identifier for the whole request flow
- X-Span-ID: identifier for the current operation
*/
package tracing

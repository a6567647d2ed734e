/*
Package tracing provides lightweight request tracing.

Each HTTP request gets a span with a ULID-based trace id (continued from the
X-Trace-ID header when a client sends one). Finished spans are buffered and
logged through zap by a single collector goroutine, so request handling
never blocks on logging.

# Usage

	tracer := tracing.New("appledriver", logger.Logger)
	defer tracer.Close()

	router.Use(tracing.HTTPMiddleware(tracer))

	span, ctx := tracer.StartSpan(ctx, "backend.execute")
	defer func() {
		span.Finish()
		tracer.Submit(span)
	}()
*/
package tracing

/*
Package monitoring provides Prometheus metrics for the driver.

# Overview

Every server owns a private registry, so metrics never collide with other
instances in the same process. The registry carries HTTP request metrics,
per-command protocol outcomes, backend execution timings, the depth of the
execution queue, circuit breaker state and session counts.

# Usage

	metrics := monitoring.NewMetrics()
	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	timer := monitoring.NewTimer(metrics, "execute")
	// ... run the backend call ...
	timer.Stop("success")

The HTTP middleware labels requests by route template. The command
dispatcher stores the matched template under RouteKey; requests it does not
match are labelled "unmatched".
*/
package monitoring

// Ning - Study Forum and Interview Practice Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ning

/*
Package middleware provides HTTP middleware shared by every route.

Key Components:

  - RequestID: reuses or generates an X-Request-ID and seeds the logging context
  - AccessLog: one structured log line per request
  - PrometheusMetrics: request count, latency and in-flight instrumentation

Middleware Stack:

The router applies them outermost first:

	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog)
	r.Use(middleware.PrometheusMetrics)

PrometheusMetrics labels requests with the matched chi route pattern rather
than the raw path, so /forum/posts/1 and /forum/posts/2 share one series.
*/
package middleware

/*
Package monitoring provides metrics collection for element lookups.

# Overview

This package implements Prometheus-based metrics for the finder: lookup
counts by outcome, lookup latency including polling, poll attempts per
lookup and document backend errors.

# Features

- Collectors registered on an injected prometheus.Registerer
- Nil-safe recording, so a finder can run without metrics
- Running totals for human readable summaries
- Text exposition through prometheus/common/expfmt

# Usage

	reg := prometheus.NewRegistry()
	metrics := monitoring.NewMetrics(reg)

	timer := monitoring.NewTimer(metrics, "find", "css")
	// ... perform lookup ...
	timer.Stop(monitoring.OutcomeFound)

	_ = monitoring.WriteText(os.Stderr, reg)
*/
package monitoring

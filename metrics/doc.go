// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package metrics exposes survey activity and request latency to Prometheus.
// Each Metrics value owns its registry, so tests can build as many as they like.
package metrics

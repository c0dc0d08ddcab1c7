// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Auth metrics
	IncUserRegistered()
	IncLoginFailed()

	// QR code management metrics
	IncQRCodeCreated()
	IncQRCodeUpdated()
	IncQRCodeDeleted()

	// Encoding pipeline metrics
	ObserveEncodeDuration(duration time.Duration)
	IncEncodeError()

	// Preview cache metrics
	IncPreviewCacheHit()
	IncPreviewCacheMiss()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}

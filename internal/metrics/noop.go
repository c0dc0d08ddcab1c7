package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncUserRegistered is a no-op.
func (n *NoopRecorder) IncUserRegistered() {}

// IncLoginFailed is a no-op.
func (n *NoopRecorder) IncLoginFailed() {}

// IncQRCodeCreated is a no-op.
func (n *NoopRecorder) IncQRCodeCreated() {}

// IncQRCodeUpdated is a no-op.
func (n *NoopRecorder) IncQRCodeUpdated() {}

// IncQRCodeDeleted is a no-op.
func (n *NoopRecorder) IncQRCodeDeleted() {}

// ObserveEncodeDuration is a no-op.
func (n *NoopRecorder) ObserveEncodeDuration(duration time.Duration) {}

// IncEncodeError is a no-op.
func (n *NoopRecorder) IncEncodeError() {}

// IncPreviewCacheHit is a no-op.
func (n *NoopRecorder) IncPreviewCacheHit() {}

// IncPreviewCacheMiss is a no-op.
func (n *NoopRecorder) IncPreviewCacheMiss() {}

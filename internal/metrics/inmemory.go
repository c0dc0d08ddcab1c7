package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	UsersRegistered       uint64
	LoginsFailed          uint64
	QRCodesCreated        uint64
	QRCodesUpdated        uint64
	QRCodesDeleted        uint64
	EncodeCount           uint64
	EncodeDurationTotalNs int64
	EncodeErrors          uint64
	PreviewCacheHits      uint64
	PreviewCacheMisses    uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	usersRegistered       uint64
	loginsFailed          uint64
	qrcodesCreated        uint64
	qrcodesUpdated        uint64
	qrcodesDeleted        uint64
	encodeCount           uint64
	encodeDurationTotalNs int64
	encodeErrors          uint64
	previewCacheHits      uint64
	previewCacheMisses    uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		UsersRegistered:       atomic.LoadUint64(&m.usersRegistered),
		LoginsFailed:          atomic.LoadUint64(&m.loginsFailed),
		QRCodesCreated:        atomic.LoadUint64(&m.qrcodesCreated),
		QRCodesUpdated:        atomic.LoadUint64(&m.qrcodesUpdated),
		QRCodesDeleted:        atomic.LoadUint64(&m.qrcodesDeleted),
		EncodeCount:           atomic.LoadUint64(&m.encodeCount),
		EncodeDurationTotalNs: atomic.LoadInt64(&m.encodeDurationTotalNs),
		EncodeErrors:          atomic.LoadUint64(&m.encodeErrors),
		PreviewCacheHits:      atomic.LoadUint64(&m.previewCacheHits),
		PreviewCacheMisses:    atomic.LoadUint64(&m.previewCacheMisses),
	}
}

// IncUserRegistered increments the registered user counter.
func (m *InMemoryRecorder) IncUserRegistered() {
	atomic.AddUint64(&m.usersRegistered, 1)
}

// IncLoginFailed increments the failed login counter.
func (m *InMemoryRecorder) IncLoginFailed() {
	atomic.AddUint64(&m.loginsFailed, 1)
}

// IncQRCodeCreated increments the record created counter.
func (m *InMemoryRecorder) IncQRCodeCreated() {
	atomic.AddUint64(&m.qrcodesCreated, 1)
}

// IncQRCodeUpdated increments the record updated counter.
func (m *InMemoryRecorder) IncQRCodeUpdated() {
	atomic.AddUint64(&m.qrcodesUpdated, 1)
}

// IncQRCodeDeleted increments the record deleted counter.
func (m *InMemoryRecorder) IncQRCodeDeleted() {
	atomic.AddUint64(&m.qrcodesDeleted, 1)
}

// ObserveEncodeDuration records one encoding pass.
func (m *InMemoryRecorder) ObserveEncodeDuration(duration time.Duration) {
	atomic.AddUint64(&m.encodeCount, 1)
	atomic.AddInt64(&m.encodeDurationTotalNs, duration.Nanoseconds())
}

// IncEncodeError increments the encoding failure counter.
func (m *InMemoryRecorder) IncEncodeError() {
	atomic.AddUint64(&m.encodeErrors, 1)
}

// IncPreviewCacheHit increments the preview cache hit counter.
func (m *InMemoryRecorder) IncPreviewCacheHit() {
	atomic.AddUint64(&m.previewCacheHits, 1)
}

// IncPreviewCacheMiss increments the preview cache miss counter.
func (m *InMemoryRecorder) IncPreviewCacheMiss() {
	atomic.AddUint64(&m.previewCacheMisses, 1)
}

package ingest_test

import (
	"bytes"
	"io"
	"strings"
	"sync"
	"time"

	"codeberg.org/mutker/psu-exporter/internal/serial"
	"codeberg.org/mutker/psu-exporter/internal/telemetry"
)

// fakePort serves chunks, then either fails with end or idles with
// zero-byte reads like a serial port whose read timeout elapsed.
type fakePort struct {
	mu     sync.Mutex
	chunks []string
	end    error
	closed bool
}

func newFakePort(end error, chunks ...string) *fakePort {
	return &fakePort{chunks: chunks, end: end}
}

func (p *fakePort) Read(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return 0, io.ErrClosedPipe
	}
	if len(p.chunks) > 0 {
		n := copy(b, p.chunks[0])
		p.chunks[0] = p.chunks[0][n:]
		if p.chunks[0] == "" {
			p.chunks = p.chunks[1:]
		}
		return n, nil
	}
	if p.end != nil {
		return 0, p.end
	}

	p.mu.Unlock()
	time.Sleep(time.Millisecond)
	p.mu.Lock()
	return 0, nil
}

func (p *fakePort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func (p *fakePort) isClosed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// fakeOpener hands out ports in order; nil entries fail to open.
type fakeOpener struct {
	mu       sync.Mutex
	ports    []*fakePort
	attempts int
}

func (o *fakeOpener) Open() (serial.Port, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.attempts++
	if len(o.ports) == 0 {
		return nil, io.ErrUnexpectedEOF
	}
	port := o.ports[0]
	o.ports = o.ports[1:]
	if port == nil {
		return nil, io.ErrUnexpectedEOF
	}
	return port, nil
}

func (o *fakeOpener) String() string {
	return "fake"
}

func (o *fakeOpener) attemptCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.attempts
}

type recorded struct {
	rec *telemetry.Record
	at  time.Time
}

type fakeRecorder struct {
	mu      sync.Mutex
	records []recorded
}

func (r *fakeRecorder) Record(rec *telemetry.Record, now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, recorded{rec: rec, at: now})
}

func (r *fakeRecorder) snapshot() []recorded {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]recorded(nil), r.records...)
}

type fakeStats struct {
	mu         sync.Mutex
	accepted   int
	malformed  int
	invalid    int
	reconnects int
	connected  bool
}

func (s *fakeStats) FrameAccepted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accepted++
}

func (s *fakeStats) FrameMalformed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.malformed++
}

func (s *fakeStats) FrameInvalid() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invalid++
}

func (s *fakeStats) Reconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reconnects++
}

func (*fakeStats) Evicted(int) {}

func (s *fakeStats) SetConnected(c bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = c
}

func (s *fakeStats) counts() (accepted, malformed, invalid, reconnects int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accepted, s.malformed, s.invalid, s.reconnects
}

// syncBuffer collects log output written from the loop goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) linesWith(substr string) []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	var lines []string
	for _, line := range strings.Split(b.buf.String(), "\n") {
		if strings.Contains(line, substr) {
			lines = append(lines, line)
		}
	}
	return lines
}

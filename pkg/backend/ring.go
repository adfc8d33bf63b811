// ABOUTME: Byte ring buffer shared by the stream backends
// ABOUTME: Thread-safe circular buffer between write transactions and device callbacks
package backend

import "sync"

// ring is a thread-safe circular byte buffer. Write transactions commit into
// it and device callbacks drain it.
type ring struct {
	buf      []byte
	readPos  int
	writePos int
	count    int
	mu       sync.Mutex
}

// newRing creates a ring buffer with the given capacity in bytes.
func newRing(capacity int) *ring {
	return &ring{buf: make([]byte, capacity)}
}

// Write copies as many bytes as fit and returns the number copied.
func (r *ring) Write(p []byte) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	written := 0
	for written < len(p) && r.count < len(r.buf) {
		r.buf[r.writePos] = p[written]
		r.writePos = (r.writePos + 1) % len(r.buf)
		r.count++
		written++
	}
	return written
}

// Read copies up to len(p) buffered bytes into p, zero-fills the remainder,
// and returns the number of real bytes copied.
func (r *ring) Read(p []byte) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	read := 0
	for read < len(p) && r.count > 0 {
		p[read] = r.buf[r.readPos]
		r.readPos = (r.readPos + 1) % len(r.buf)
		r.count--
		read++
	}

	// Zero-fill remaining on underrun
	for i := read; i < len(p); i++ {
		p[i] = 0
	}
	return read
}

// Buffered returns the number of bytes available to read.
func (r *ring) Buffered() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Free returns the number of bytes that can be written without overwriting.
func (r *ring) Free() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.buf) - r.count
}

// Reset drops all buffered bytes.
func (r *ring) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.readPos = 0
	r.writePos = 0
	r.count = 0
}

package pulse_test

import (
	"bytes"
	"sync"
)

// safeBuffer is a bytes.Buffer safe for concurrent writers.
type safeBuffer struct {
	mutex sync.Mutex
	buf   bytes.Buffer
}

func (b *safeBuffer) Write(p []byte) (int, error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	return b.buf.Write(p)
}

func (b *safeBuffer) Bytes() []byte {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	return b.buf.Bytes()
}

package handler

import (
	"bytes"
	"sync"
)

// bufferPool recycles JSON encoding buffers. State snapshots are the largest
// responses, so buffers start at 4 KiB.
var bufferPool = sync.Pool{
	New: func() interface{} {
		return bytes.NewBuffer(make([]byte, 0, 4096))
	},
}

func getBuffer() *bytes.Buffer {
	return bufferPool.Get().(*bytes.Buffer)
}

// putBuffer drops oversized buffers instead of pooling them
func putBuffer(buf *bytes.Buffer) {
	if buf.Cap() > maxPooledBuffer {
		return
	}
	buf.Reset()
	bufferPool.Put(buf)
}

const maxPooledBuffer = 1 << 20

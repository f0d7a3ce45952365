package bam

import "sync"

// bufPool recycles the byte buffers used to hold one record's raw BAM bytes
// between Read calls, avoiding an allocation per record on the hot path.
var bufPool = sync.Pool{
	New: func() interface{} {
		return []byte{}
	},
}

func resizeScratch(buf *[]byte, n int) {
	if *buf == nil || cap(*buf) < n {
		// Allocate slightly more than needed to reduce reallocation churn
		// on a stream of similarly sized records.
		size := (n/16 + 1) * 16
		*buf = make([]byte, n, size)
	} else {
		*buf = (*buf)[:n]
	}
}

package sam

import (
	"sync"
	"sync/atomic"

	"v.io/x/lib/vlog"
)

// recordPool is a free list of *Record used to avoid repeated allocation
// when a stream reads a large number of records back to back. Unlike the
// teacher's GOMAXPROCS-sharded FreePool, a plain sync.Pool is sufficient
// here: this module does not target the per-core allocator contention the
// teacher's pool was built to avoid, and sync.Pool already does its own
// per-P caching under the hood.
var recordPool = sync.Pool{New: func() interface{} { return new(Record) }}

var nPoolWarnings int32

// poolTag marks a *Record as originating from GetFromFreePool, so
// PutInFreePool can warn about records obtained some other way (e.g.
// stack-allocated or user-constructed) being returned to the pool.
var poolTag = make(map[*Record]bool)
var poolTagMu sync.Mutex

// GetFromFreePool returns a cleared *Record from the free list, allocating
// a new one if the pool is empty.
func GetFromFreePool() *Record {
	r := recordPool.Get().(*Record)
	*r = Record{bin: binUnknown}
	poolTagMu.Lock()
	poolTag[r] = true
	poolTagMu.Unlock()
	return r
}

// PutInFreePool returns r to the free list. The caller must guarantee
// there is no outstanding reference to r; its contents will be overwritten
// by a future GetFromFreePool call.
func PutInFreePool(r *Record) {
	if r == nil {
		panic("sam: PutInFreePool(nil)")
	}
	poolTagMu.Lock()
	tagged := poolTag[r]
	if tagged {
		delete(poolTag, r)
	}
	poolTagMu.Unlock()
	if !tagged {
		if atomic.AddInt32(&nPoolWarnings, 1) < 2 {
			vlog.Errorf("sam: PutInFreePool: record %p was not obtained from GetFromFreePool; ignoring", r)
		}
		return
	}
	recordPool.Put(r)
}

package service

import "sync"

// submissionLockCount is the number of stripes guarding submission
// workflows. A power of two keeps the modulo cheap.
const submissionLockCount = 64

// keyedMutex hands out a mutex per key via striping. Two keys may share a
// stripe; that only costs spurious contention, never lost exclusion.
type keyedMutex struct {
	stripes [submissionLockCount]sync.Mutex
}

func (k *keyedMutex) lock(id int64) *sync.Mutex {
	idx := id % submissionLockCount
	if idx < 0 {
		idx += submissionLockCount
	}
	return &k.stripes[idx]
}

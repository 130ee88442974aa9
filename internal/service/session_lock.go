package service

import (
	"context"
	"hash/fnv"
	"sync"
)

const lockStripes = 64

// UserLocker serializes message handling per user. The returned func
// releases the lock.
type UserLocker interface {
	Lock(ctx context.Context, userID string) (func(), error)
}

// stripedLock serializes work per key without keeping a mutex per user.
// Keys that share a stripe also wait on each other. It only covers one
// process; see RedisLock for several instances sharing a session store.
type stripedLock struct {
	stripes [lockStripes]sync.Mutex
}

func (l *stripedLock) stripe(key string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return &l.stripes[h.Sum32()%lockStripes]
}

// Lock acquires the stripe for key and returns its release func.
func (l *stripedLock) Lock(_ context.Context, key string) (func(), error) {
	m := l.stripe(key)
	m.Lock()
	return m.Unlock, nil
}

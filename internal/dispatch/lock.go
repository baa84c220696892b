package dispatch

import (
	"time"

	"github.com/recordar/contact-gateway/pkg/redis"
)

const (
	lockKeyPrefix  = "dispatch:lock:"
	DefaultLockTTL = 5 * time.Minute
)

// Locker guards each communication with a redis SetNX lock so two
// dispatch passes never run concurrently for the same id. The TTL bounds
// how long a crashed pass can keep a communication blocked.
type Locker struct {
	redis redis.RedisAdapter
	ttl   time.Duration
}

func NewLocker(adapter redis.RedisAdapter, ttl time.Duration) *Locker {
	if ttl <= 0 {
		ttl = DefaultLockTTL
	}
	return &Locker{
		redis: adapter,
		ttl:   ttl,
	}
}

// Acquire claims the lock for a communication. Returns false when another
// pass already holds it.
func (l *Locker) Acquire(communicationID string) (bool, error) {
	return l.redis.SetNX(lockKeyPrefix+communicationID, []byte("1"), l.ttl)
}

func (l *Locker) Release(communicationID string) error {
	return l.redis.Del(lockKeyPrefix + communicationID)
}

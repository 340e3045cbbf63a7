package observability

import (
	"crypto/md5"
	"time"

	lru "github.com/hashicorp/golang-lru"
)

// NoiseLimiter limits the rate at which repeated log messages are emitted.
//
// It maps message hashes to timestamps. The last emit time of every message
// is tracked and emitting is skipped for messages seen too recently.
//
// Memory usage is limited with an LRU cache. If the cache is too small and
// too many different messages are logged frequently, repeated messages may
// still get through.
//
// A nil value lets all messages through.
type NoiseLimiter struct {
	cache       *lru.Cache
	minDuration time.Duration

	// getNow allows stubbing out [time.Now] in tests.
	getNow func() time.Time
}

// NewNoiseLimiter returns a new NoiseLimiter using a cache of the given size
// and rate limiting each message to once per minDuration.
func NewNoiseLimiter(
	size int,
	minDuration time.Duration,
) (*NoiseLimiter, error) {
	cache, err := lru.New(size)
	if err != nil {
		return nil, err
	}

	return &NoiseLimiter{cache, minDuration, time.Now}, nil
}

// Allow returns true if a message should be emitted and if so, updates the
// message's last emit time to now.
func (nl *NoiseLimiter) Allow(msg string) bool {
	if nl == nil {
		return true
	}

	h := md5.New()
	h.Write([]byte(msg))
	hash := string(h.Sum(nil))

	lastSent, inCache := nl.cache.Get(hash)

	now := nl.getNow()
	if inCache && now.Sub(lastSent.(time.Time)) < nl.minDuration {
		return false
	}

	nl.cache.Add(hash, now)
	return true
}

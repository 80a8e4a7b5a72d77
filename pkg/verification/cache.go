// Package verification issues short-lived codes for identity checks
// (Telegram handle verification). Codes live in a TTL cache keyed by
// identity; delivery is a fire-and-forget side channel behind Notifier.
package verification

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Notifier delivers a code out of band. Implementations must not block
// the caller on transport failures.
type Notifier interface {
	Send(identity, code string) error
}

// LogNotifier is the default stand-in when no bot transport is configured.
type LogNotifier struct{}

func (LogNotifier) Send(identity, code string) error {
	logrus.WithField("identity", identity).Infof("verification code issued: %s", code)
	return nil
}

type entry struct {
	code      string
	expiresAt time.Time
	attempts  int
}

// CodeCache is a bounded TTL cache of verification codes. Expired entries
// are swept by a background ticker.
type CodeCache struct {
	mu       sync.Mutex
	entries  map[string]entry
	ttl      time.Duration
	maxTries int
	notifier Notifier
}

func NewCodeCache(ttl time.Duration, notifier Notifier) *CodeCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if notifier == nil {
		notifier = LogNotifier{}
	}
	c := &CodeCache{
		entries:  make(map[string]entry),
		ttl:      ttl,
		maxTries: 5,
		notifier: notifier,
	}
	go c.sweep()
	return c
}

// Issue creates a fresh 6-digit code for identity, replacing any previous
// one, and hands it to the notifier.
func (c *CodeCache) Issue(identity string) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("verification: %w", err)
	}
	code := fmt.Sprintf("%06d", n.Int64())

	c.mu.Lock()
	c.entries[identity] = entry{code: code, expiresAt: time.Now().Add(c.ttl)}
	c.mu.Unlock()

	if err := c.notifier.Send(identity, code); err != nil {
		logrus.Warnf("verification: notify %s failed: %v", identity, err)
	}
	return code, nil
}

// Verify consumes the code on success. Expired or over-tried entries are
// dropped.
func (c *CodeCache) Verify(identity, code string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[identity]
	if !ok || time.Now().After(e.expiresAt) {
		delete(c.entries, identity)
		return false
	}
	if e.code != code {
		e.attempts++
		if e.attempts >= c.maxTries {
			delete(c.entries, identity)
		} else {
			c.entries[identity] = e
		}
		return false
	}
	delete(c.entries, identity)
	return true
}

func (c *CodeCache) sweep() {
	tick := time.NewTicker(time.Minute)
	for range tick.C {
		now := time.Now()
		c.mu.Lock()
		for k, e := range c.entries {
			if now.After(e.expiresAt) {
				delete(c.entries, k)
			}
		}
		c.mu.Unlock()
	}
}

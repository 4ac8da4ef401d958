package bruteforce

import "sync"

// DefaultThreshold is the number of consecutive failed attempts that
// triggers a brute-force escalation.
const DefaultThreshold = 5

// Counter tracks consecutive failed attempts per source identifier.
// When an identifier reaches the threshold the counter fires once and
// resets to zero for that identifier, so the next failure starts a new
// streak from 1.
type Counter struct {
	mu        sync.Mutex
	attempts  map[string]int
	threshold int
}

// NewCounter creates a counter that fires at the given threshold.
// A threshold of zero or less falls back to DefaultThreshold.
func NewCounter(threshold int) *Counter {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Counter{
		attempts:  make(map[string]int),
		threshold: threshold,
	}
}

// Record registers one failed attempt for the identifier. It returns the
// attempt count after the increment and whether the threshold fired.
// Firing resets the identifier's count to zero.
func (c *Counter) Record(identifier string) (count int, fired bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.attempts[identifier]++
	count = c.attempts[identifier]
	if count >= c.threshold {
		c.attempts[identifier] = 0
		return count, true
	}
	return count, false
}

// Attempts returns the current streak for an identifier.
func (c *Counter) Attempts(identifier string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.attempts[identifier]
}

// Threshold returns the configured firing threshold.
func (c *Counter) Threshold() int {
	return c.threshold
}

package mock

import (
	"sync"

	"github.com/fwojciec/sitefinity"
)

var _ sitefinity.Console = (*Console)(nil)

// Console is a mock implementation of sitefinity.Console that records
// every message.
type Console struct {
	mu        sync.Mutex
	Errors    []string
	Successes []string
}

func (c *Console) Error(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Errors = append(c.Errors, msg)
}

func (c *Console) Success(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Successes = append(c.Successes, msg)
}

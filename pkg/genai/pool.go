package genai

import (
	"strings"
	"sync"
)

// Pool hands out API keys in fixed cyclic order. The cursor is guarded by its
// own mutex so rotation stays available regardless of what the rest of the
// system is doing; read-and-advance is a single critical section.
type Pool struct {
	mu   sync.Mutex
	keys []string
	next int
}

// NewPool builds a pool from the given keys, dropping blanks and duplicates
// while preserving order.
func NewPool(keys []string) *Pool {
	seen := make(map[string]struct{}, len(keys))
	cleaned := make([]string, 0, len(keys))
	for _, key := range keys {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		cleaned = append(cleaned, key)
	}

	return &Pool{keys: cleaned}
}

// Next returns the next key in rotation. The second return is false when the
// pool is empty.
func (p *Pool) Next() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.keys) == 0 {
		return "", false
	}

	key := p.keys[p.next]
	p.next = (p.next + 1) % len(p.keys)
	return key, true
}

// Size reports how many distinct keys the pool holds.
func (p *Pool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.keys)
}

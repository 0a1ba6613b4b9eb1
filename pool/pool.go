// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package pool

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"sort"
	"sync"

	"github.com/danielhkuo/note-rater/models"
)

var ErrNoItems = errors.New("item pool is empty")

// Pool owns the immutable item list and the per-item assignment counters.
// Counters only ever grow: an abandoned session does not give its draws
// back, which bounds worst-case over-sampling instead of tracking completed
// exposure.
//
// The whole rank-select-increment sequence in SelectSample runs under one
// mutex. Two concurrent draws must never both pick the same scarce
// least-assigned item off a stale count.
type Pool struct {
	mu     sync.Mutex
	items  []models.Item
	counts map[int]int
}

// Load reads the item dataset from a JSON file. Called once at startup.
func Load(path string) (*Pool, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read item data: %w", err)
	}
	p, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return p, nil
}

// Parse builds a pool from a raw JSON array of items, initializing every
// assignment counter to zero.
func Parse(raw []byte) (*Pool, error) {
	var items []models.Item
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("failed to parse item data: %w", err)
	}
	if len(items) == 0 {
		return nil, ErrNoItems
	}

	counts := make(map[int]int, len(items))
	for _, it := range items {
		if _, dup := counts[it.Index]; dup {
			return nil, fmt.Errorf("duplicate item index %d", it.Index)
		}
		counts[it.Index] = 0
	}

	return &Pool{items: items, counts: counts}, nil
}

// Size returns the number of items in the pool.
func (p *Pool) Size() int {
	return len(p.items)
}

// SelectSample picks the k items with the lowest assignment counts, breaking
// ties uniformly at random, increments the counters of exactly those items,
// and returns them in a fresh random order so position carries no signal.
//
// When k >= pool size, every item is returned exactly once in a uniformly
// random permutation and counters are left alone (the draw excludes nothing,
// so there is no skew to track).
func (p *Pool) SelectSample(k int) []models.Item {
	p.mu.Lock()
	defer p.mu.Unlock()

	if k >= len(p.items) {
		out := make([]models.Item, len(p.items))
		copy(out, p.items)
		rand.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
		return out
	}

	type ranked struct {
		item  models.Item
		count int
		tie   uint64
	}
	all := make([]ranked, len(p.items))
	for i, it := range p.items {
		// Fresh random tie key per call: repeated draws with equal counts
		// must not favor dataset order.
		all[i] = ranked{item: it, count: p.counts[it.Index], tie: rand.Uint64()}
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].count != all[j].count {
			return all[i].count < all[j].count
		}
		return all[i].tie < all[j].tie
	})

	out := make([]models.Item, 0, k)
	for _, r := range all[:k] {
		out = append(out, r.item)
		p.counts[r.item.Index]++
	}

	rand.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// Stats is a snapshot of the assignment balance.
type Stats struct {
	TotalItems       int
	TotalAssignments int
	Min              int
	Max              int
	Average          float64
	PerItem          map[int]int
}

// Stats returns current assignment-balance metrics.
func (p *Pool) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := Stats{
		TotalItems: len(p.items),
		PerItem:    make(map[int]int, len(p.counts)),
	}
	first := true
	for idx, c := range p.counts {
		s.PerItem[idx] = c
		s.TotalAssignments += c
		if first {
			s.Min, s.Max = c, c
			first = false
			continue
		}
		if c < s.Min {
			s.Min = c
		}
		if c > s.Max {
			s.Max = c
		}
	}
	if s.TotalItems > 0 {
		s.Average = float64(s.TotalAssignments) / float64(s.TotalItems)
	}
	return s
}

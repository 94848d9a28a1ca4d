// Package repository defines the record store interface and errors.
package repository

import "time"

// Option applies a configuration option to the MemStore.
type Option func(*MemStore)

// WithLevelFunc sets the function used to recompute a user's level from
// total XP on every XP write. Defaults to totalXP/1000 + 1.
func WithLevelFunc(fn func(totalXP int) int) Option {
	return func(s *MemStore) {
		if fn != nil {
			s.levelFor = fn
		}
	}
}

// WithClock sets the time source used for CreatedAt stamps. Useful in tests.
func WithClock(now func() time.Time) Option {
	return func(s *MemStore) {
		if now != nil {
			s.now = now
		}
	}
}

package lphash

import (
	"errors"
	"fmt"
	"hash/maphash"
	"math"

	"go.uber.org/zap"
)

const (
	// DefaultInitialCapacity is the slot count used by NewDefault.
	DefaultInitialCapacity = 16
	// DefaultLoadFactor is the load factor used by NewDefault and NewWithCapacity.
	DefaultLoadFactor = 0.5
)

// ErrInvalidArgument is returned when a table is constructed with a negative
// capacity or a NaN or negative load factor.
var ErrInvalidArgument = errors.New("invalid argument")

type slotState uint8

const (
	slotEmpty slotState = iota
	slotOccupied
	slotTombstone
)

// slot is one position of the probe array. A tombstone keeps its key and
// value so a later Put of the same key can land on it.
type slot[K comparable, V any] struct {
	state slotState
	key   K
	value V
}

// Table is an in-memory hash table using open addressing with linear probing
type Table[K comparable, V any] struct {
	slots      []slot[K, V]
	loadFactor float64
	threshold  int
	size       int
	seed       maphash.Seed
	logger     *zap.Logger
}

// New creates a table with initialCapacity slots that doubles once the number
// of live entries exceeds floor(capacity * loadFactor).
func New[K comparable, V any](initialCapacity int, loadFactor float64, opts ...Option) (*Table[K, V], error) {
	if initialCapacity < 0 {
		return nil, fmt.Errorf("illegal initial capacity %d: %w", initialCapacity, ErrInvalidArgument)
	}
	if math.IsNaN(loadFactor) || loadFactor < 0 {
		return nil, fmt.Errorf("illegal load factor %v: %w", loadFactor, ErrInvalidArgument)
	}

	o := newOptions(opts)
	return &Table[K, V]{
		slots:      make([]slot[K, V], initialCapacity),
		loadFactor: loadFactor,
		threshold:  thresholdFor(initialCapacity, loadFactor),
		seed:       o.seed,
		logger:     o.logger,
	}, nil
}

// NewWithCapacity creates a table with the default load factor
func NewWithCapacity[K comparable, V any](initialCapacity int, opts ...Option) (*Table[K, V], error) {
	return New[K, V](initialCapacity, DefaultLoadFactor, opts...)
}

// NewDefault creates a table with DefaultInitialCapacity slots and DefaultLoadFactor.
func NewDefault[K comparable, V any](opts ...Option) *Table[K, V] {
	t, err := New[K, V](DefaultInitialCapacity, DefaultLoadFactor, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

// thresholdFor returns floor(capacity * loadFactor), saturating at math.MaxInt.
func thresholdFor(capacity int, loadFactor float64) int {
	t := math.Floor(float64(capacity) * loadFactor)
	if t >= math.MaxInt {
		return math.MaxInt
	}
	return int(t)
}

// Put associates value with key. If key was already live, its value is
// replaced and the previous value is returned with replaced set to true.
//
// When every slot has been probed without finding the key or a free slot
// the call does nothing. Growth keeps this from happening unless the table
// was created with zero capacity or a load factor of one or more.
func (t *Table[K, V]) Put(key K, value V) (previous V, replaced bool) {
	previous, replaced, inserted := t.insert(key, value)
	if inserted && t.size > t.threshold {
		t.resize()
	}
	return previous, replaced
}

// insert places key without checking the resize threshold.
func (t *Table[K, V]) insert(key K, value V) (previous V, replaced, inserted bool) {
	n := len(t.slots)
	if n == 0 {
		t.logger.Debug("put on zero-capacity table ignored")
		return previous, false, false
	}

	idx := t.home(key)
	for i := 0; i < n; i++ {
		s := &t.slots[idx]
		switch {
		case s.state == slotEmpty, s.state == slotTombstone && s.key == key:
			*s = slot[K, V]{state: slotOccupied, key: key, value: value}
			t.size++
			return previous, false, true
		case s.state == slotOccupied && s.key == key:
			previous = s.value
			s.value = value
			return previous, true, false
		}
		if idx++; idx == n {
			idx = 0
		}
	}

	t.logger.Debug("put found no free slot",
		zap.Int("capacity", n),
		zap.Int("size", t.size))
	return previous, false, false
}

// Get returns the value stored for key
func (t *Table[K, V]) Get(key K) (V, bool) {
	if idx, ok := t.find(key); ok {
		return t.slots[idx].value, true
	}
	var zero V
	return zero, false
}

// Remove deletes key and returns the value it held. The slot becomes a
// tombstone so probe sequences running through it stay intact.
func (t *Table[K, V]) Remove(key K) (V, bool) {
	idx, ok := t.find(key)
	if !ok {
		var zero V
		return zero, false
	}
	s := &t.slots[idx]
	s.state = slotTombstone
	t.size--
	return s.value, true
}

// find returns the slot index holding key as a live entry.
func (t *Table[K, V]) find(key K) (int, bool) {
	n := len(t.slots)
	if n == 0 {
		return 0, false
	}

	idx := t.home(key)
	for i := 0; i < n; i++ {
		s := &t.slots[idx]
		if s.state == slotEmpty {
			return 0, false
		}
		if s.state == slotOccupied && s.key == key {
			return idx, true
		}
		if idx++; idx == n {
			idx = 0
		}
	}
	return 0, false
}

func (t *Table[K, V]) home(key K) int {
	return int(hashKey(t.seed, key) % uint64(len(t.slots)))
}

// Size returns the number of live entries.
func (t *Table[K, V]) Size() int {
	return t.size
}

// Capacity returns the current number of slots.
func (t *Table[K, V]) Capacity() int {
	return len(t.slots)
}

// LoadFactor returns the load factor the table was created with.
func (t *Table[K, V]) LoadFactor() float64 {
	return t.loadFactor
}

// Threshold returns the live-entry count above which the next insertion
// doubles the capacity.
func (t *Table[K, V]) Threshold() int {
	return t.threshold
}

// resize doubles the slot array and rehashes the live entries into it.
// Tombstones are dropped.
func (t *Table[K, V]) resize() {
	old := t.slots
	oldSize := t.size

	t.slots = make([]slot[K, V], len(old)*2)
	t.threshold = thresholdFor(len(t.slots), t.loadFactor)
	t.size = 0

	for i := range old {
		if old[i].state == slotOccupied {
			t.insert(old[i].key, old[i].value)
		}
	}

	t.logger.Debug("resized",
		zap.Int("old_capacity", len(old)),
		zap.Int("new_capacity", len(t.slots)),
		zap.Int("size", t.size),
		zap.Int("previous_size", oldSize),
		zap.Int("threshold", t.threshold))
}

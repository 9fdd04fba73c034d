/*
Package lphash provides a generic in-memory hash table using open addressing
with linear probing.

Table stores all entries directly in one slot array. Collisions are resolved
by scanning forward one slot at a time, wrapping at the end of the array.
Deleted entries leave a tombstone behind so the probe sequences of other keys
stay intact.

Basic usage:

	import "github.com/theflywheel/lphash"

	// Create a table with 16 slots and a load factor of 0.5
	t := lphash.NewDefault[string, int]()

	// Insert data
	t.Put("apples", 3)
	prev, replaced := t.Put("apples", 5) // prev == 3, replaced == true

	// Retrieve data
	if v, ok := t.Get("apples"); ok {
		fmt.Println("Value:", v)
	}

	// Delete data
	v, ok := t.Remove("apples")

Features:

  - Generic over any comparable key type and any value type
  - xxhash for string and integer keys, maphash for all other keys
  - Keys may supply their own hash by implementing Hasher
  - Automatic doubling when the number of live entries exceeds
    floor(capacity * loadFactor)
  - Optional zap logger for resize events

Implementation Details:

Each slot is empty, occupied or a tombstone. Get and Remove stop at the first
empty slot and skip tombstones. Put writes into the first empty slot it meets,
or into a tombstone left behind by the same key, and overwrites a live entry
with an equal key in place.

After every new insertion the live-entry count is compared against the
threshold; crossing it allocates an array of twice the capacity and rehashes
the live entries into it, discarding all tombstones.

Limitations:

A Table is not safe for concurrent use. Capacity never shrinks. A table
created with zero capacity, or one whose load factor lets it fill every slot,
silently ignores Put calls that find no free slot.
*/
package lphash

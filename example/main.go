package main

import (
	"fmt"
	"log"

	"go.uber.org/zap"

	"github.com/theflywheel/lphash"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	// 4 slots, grow once more than 2 entries are live
	t, err := lphash.New[int, int](4, 0.5, lphash.WithLogger(logger))
	if err != nil {
		log.Fatalf("Failed to create table: %v", err)
	}

	fmt.Println("Table created successfully")

	// Insert some data
	for i := 0; i < 10; i++ {
		t.Put(i, i*100)
	}

	fmt.Printf("Inserted 10 key-value pairs, capacity is now %d\n", t.Capacity())

	// Retrieve and display some values
	for i := 0; i < 15; i += 2 {
		if value, found := t.Get(i); found {
			fmt.Printf("Key %d => Value %d\n", i, value)
		} else {
			fmt.Printf("Key %d not found\n", i)
		}
	}

	// Update a value
	if prev, replaced := t.Put(2, 999); replaced {
		fmt.Printf("Updated key 2 (was %d)\n", prev)
	}

	// Remove a value
	if value, found := t.Remove(4); found {
		fmt.Printf("Removed key 4 => Value %d, size is now %d\n", value, t.Size())
	}

	fmt.Println("Example completed successfully")
}
